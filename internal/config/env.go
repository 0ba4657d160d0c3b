package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDirName is the name of the configuration directory below the user's home
const DefaultDirName = ".sonarshift"

// DefaultConfigDir returns ~/.sonarshift
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultDirName), nil
}

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
// - isInitializing: Whether this is being called from the init command
func LoadFromEnv(configDir string, configFilePath string, isInitializing bool) (*Config, error) {
	// Load empty configuration
	cfg := New()

	// If configDir is empty, use the default
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	cfg.configDir = configDir

	// Default database and log paths live in the config directory
	defaultDBPath := filepath.Join(configDir, "sonarshift.db")
	defaultLogPath := filepath.Join(configDir, "sonarshift.log")

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else if err := godotenv.Load(configFilePath); err != nil && !isInitializing {
		// Then try current directory as fallback
		_ = godotenv.Load() // Ignore errors if file doesn't exist
	}

	// SonarQube Configuration
	cfg.Sonar = SonarConfig{
		URL:               getEnvString("SONARSHIFT_SONAR_URL", "http://localhost:9000"),
		Token:             getEnvString("SONARSHIFT_SONAR_TOKEN", ""),
		PageSize:          getEnvInt("SONARSHIFT_SONAR_PAGE_SIZE", 500),
		Timeout:           getEnvDuration("SONARSHIFT_SONAR_TIMEOUT", 0),
		RequestsPerMinute: getEnvInt("SONARSHIFT_SONAR_REQUESTS_PER_MINUTE", 0),
		BurstLimit:        getEnvInt("SONARSHIFT_SONAR_BURST_LIMIT", 1),
	}

	// Export defaults
	cfg.Paths = PathsConfig{
		ProjectKey:  getEnvString("SONARSHIFT_PROJECT_KEY", ""),
		ProjectRoot: getEnvString("SONARSHIFT_PROJECT_ROOT", ""),
		OutputRoot:  getEnvString("SONARSHIFT_OUTPUT_ROOT", ""),
		ReportPath:  getEnvString("SONARSHIFT_REPORT_PATH", ""),
	}

	// Database Configuration
	cfg.Database = DatabaseConfig{
		Path:            getEnvString("SONARSHIFT_DB_PATH", defaultDBPath),
		BusyTimeout:     getEnvInt("SONARSHIFT_DB_BUSY_TIMEOUT", 5000),
		JournalMode:     getEnvString("SONARSHIFT_DB_JOURNAL_MODE", "WAL"),
		SynchronousMode: getEnvString("SONARSHIFT_DB_SYNCHRONOUS_MODE", "NORMAL"),
		CacheSize:       getEnvInt("SONARSHIFT_DB_CACHE_SIZE", -16000),
		ForeignKeys:     getEnvBool("SONARSHIFT_DB_FOREIGN_KEYS", true),
		ConnMaxLife:     getEnvDuration("SONARSHIFT_DB_CONN_MAX_LIFE", 5*time.Minute),
		QueryTimeout:    getEnvDuration("SONARSHIFT_DB_QUERY_TIMEOUT", 30*time.Second),
	}

	// Logging Configuration
	cfg.Logging = LoggingConfig{
		Level:      getEnvString("SONARSHIFT_LOG_LEVEL", "info"),
		Format:     getEnvString("SONARSHIFT_LOG_FORMAT", "text"),
		Output:     getEnvString("SONARSHIFT_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("SONARSHIFT_LOG_ADD_SOURCE", false),
		TimeFormat: getTimeFormat(getEnvString("SONARSHIFT_LOG_TIME_FORMAT", "RFC3339")),
	}

	// Validate the configuration
	return cfg, cfg.Validate()
}
