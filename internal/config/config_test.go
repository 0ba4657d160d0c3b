package config

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
)

func TestGetEnvString(t *testing.T) {
	tests := []struct {
		name         string
		set          bool
		envValue     string
		defaultValue string
		expected     string
	}{
		{name: "env not set, return default", defaultValue: "default", expected: "default"},
		{name: "env set, return value", set: true, envValue: "value", defaultValue: "default", expected: "value"},
		{name: "env set to empty, return empty", set: true, envValue: "", defaultValue: "default", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "SONARSHIFT_TEST_STRING"
			if tt.set {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvString(key, tt.defaultValue))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{name: "valid int", envValue: "42", defaultValue: 7, expected: 42},
		{name: "negative int", envValue: "-16000", defaultValue: 7, expected: -16000},
		{name: "invalid int, return default", envValue: "forty", defaultValue: 7, expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SONARSHIFT_TEST_INT", tt.envValue)
			assert.Equal(t, tt.expected, getEnvInt("SONARSHIFT_TEST_INT", tt.defaultValue))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SONARSHIFT_TEST_BOOL", "true")
	assert.True(t, getEnvBool("SONARSHIFT_TEST_BOOL", false))

	t.Setenv("SONARSHIFT_TEST_BOOL", "nope")
	assert.False(t, getEnvBool("SONARSHIFT_TEST_BOOL", false))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SONARSHIFT_TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, getEnvDuration("SONARSHIFT_TEST_DURATION", time.Second))

	t.Setenv("SONARSHIFT_TEST_DURATION", "soon")
	assert.Equal(t, time.Second, getEnvDuration("SONARSHIFT_TEST_DURATION", time.Second))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.Level(9999), ParseLogLevel("none"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
}

func TestGetTimeFormat(t *testing.T) {
	assert.Equal(t, time.RFC3339, getTimeFormat("RFC3339"))
	assert.Equal(t, "2006-01-02 15:04:05", getTimeFormat("DateTime"))
	assert.Equal(t, "15:04", getTimeFormat("15:04"))
}

func TestLoadFromEnv(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("ENV_FILE_PATH", "")
	t.Setenv("SONARSHIFT_SONAR_URL", "https://sonar.example.com")
	t.Setenv("SONARSHIFT_SONAR_TOKEN", "squ_123")
	t.Setenv("SONARSHIFT_SONAR_PAGE_SIZE", "100")
	t.Setenv("SONARSHIFT_PROJECT_KEY", "myproj")
	t.Setenv("SONARSHIFT_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv(configDir, "", true)
	require.NoError(t, err)

	assert.Equal(t, configDir, cfg.ConfigDir())
	assert.Equal(t, "https://sonar.example.com", cfg.Sonar.URL)
	assert.Equal(t, "squ_123", cfg.Sonar.Token)
	assert.Equal(t, 100, cfg.Sonar.PageSize)
	assert.Equal(t, time.Duration(0), cfg.Sonar.Timeout)
	assert.Equal(t, "myproj", cfg.Paths.ProjectKey)
	assert.Equal(t, filepath.Join(configDir, "sonarshift.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join(configDir, "sonarshift.log"), cfg.Logging.Output)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, time.RFC3339, cfg.Logging.TimeFormat)
}

func TestLoadFromEnvFile(t *testing.T) {
	configDir := t.TempDir()
	envFile := filepath.Join(configDir, "custom.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SONARSHIFT_OUTPUT_ROOT=/srv/revised\n"), 0600))

	// godotenv never overrides variables that are already present
	os.Unsetenv("SONARSHIFT_OUTPUT_ROOT")
	t.Cleanup(func() { os.Unsetenv("SONARSHIFT_OUTPUT_ROOT") })
	t.Setenv("ENV_FILE_PATH", envFile)

	cfg, err := LoadFromEnv(configDir, "", true)
	require.NoError(t, err)
	assert.Equal(t, "/srv/revised", cfg.Paths.OutputRoot)
}

func TestLoadFromEnvMissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE_PATH", filepath.Join(t.TempDir(), "missing.env"))

	_, err := LoadFromEnv(t.TempDir(), "", true)
	assert.Error(t, err)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Sonar: SonarConfig{URL: "http://localhost:9000", PageSize: 500, BurstLimit: 1},
		Database: DatabaseConfig{
			Path:         ":memory:",
			BusyTimeout:  5000,
			ConnMaxLife:  time.Minute,
			QueryTimeout: time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty url allowed", mutate: func(c *Config) { c.Sonar.URL = "" }},
		{name: "bad scheme", mutate: func(c *Config) { c.Sonar.URL = "ftp://sonar" }, wantErr: "scheme must be http or https"},
		{name: "page size too large", mutate: func(c *Config) { c.Sonar.PageSize = 501 }, wantErr: "page size"},
		{name: "page size zero", mutate: func(c *Config) { c.Sonar.PageSize = 0 }, wantErr: "page size"},
		{name: "negative timeout", mutate: func(c *Config) { c.Sonar.Timeout = -time.Second }, wantErr: "timeout"},
		{name: "rate limit without burst", mutate: func(c *Config) { c.Sonar.RequestsPerMinute = 60; c.Sonar.BurstLimit = 0 }, wantErr: "burst limit"},
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "database path"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "invalid log level"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetSet(t *testing.T) {
	Set(nil)
	_, err := Get()
	assert.Error(t, err)

	cfg := validConfig(t)
	Set(cfg)
	t.Cleanup(func() { Set(nil) })

	got, err := Get()
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestTokenObfuscation(t *testing.T) {
	obfuscated := obfuscateToken("squ_abc123")
	assert.NotContains(t, obfuscated, "squ_abc123")
	assert.Regexp(t, `^OBFS:`, obfuscated)

	plain, err := deobfuscateToken(obfuscated)
	require.NoError(t, err)
	assert.Equal(t, "squ_abc123", plain)

	plain, err = deobfuscateToken("legacy-token")
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", plain)

	_, err = deobfuscateToken("OBFS:!!!")
	assert.Error(t, err)
}

func TestSettingsRepositoryGetSetting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLSettingsRepository(db, loggy.NewNoopLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM settings WHERE key = ? LIMIT 1")).
		WithArgs(SettingSonarToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(obfuscateToken("squ_secret")))

	value, err := repo.GetSetting(context.Background(), SettingSonarToken)
	require.NoError(t, err)
	assert.Equal(t, "squ_secret", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositorySetSettingInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLSettingsRepository(db, loggy.NewNoopLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM settings WHERE key = ? LIMIT 1")).
		WithArgs(SettingSonarURL).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings (id,key,value,created_at,updated_at) VALUES (?,?,?,?,?)")).
		WithArgs(sqlmock.AnyArg(), SettingSonarURL, "https://sonar.example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.SetSetting(context.Background(), SettingSonarURL, "https://sonar.example.com")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositorySetSettingUpdates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLSettingsRepository(db, loggy.NewNoopLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM settings WHERE key = ? LIMIT 1")).
		WithArgs(SettingSonarToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(obfuscateToken("old")))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE settings SET value = ?, updated_at = ? WHERE key = ?")).
		WithArgs(obfuscateToken("new"), sqlmock.AnyArg(), SettingSonarToken).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetSetting(context.Background(), SettingSonarToken, "new")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSonarSettings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLSettingsRepository(db, loggy.NewNoopLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM settings WHERE key LIKE ?")).
		WithArgs("sonar.%").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(SettingSonarURL, "https://sonar.example.com").
			AddRow(SettingSonarToken, obfuscateToken("squ_db")))

	cfg := validConfig(t)
	cfg.Sonar.Token = "squ_env"

	require.NoError(t, LoadSonarSettings(context.Background(), cfg, repo))
	assert.Equal(t, "https://sonar.example.com", cfg.Sonar.URL)
	assert.Equal(t, "squ_db", cfg.Sonar.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsServiceUnlinkAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := validConfig(t)
	cfg.Sonar.Token = "squ_db"
	svc := NewSettingsService(db, cfg, loggy.NewNoopLogger())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM settings WHERE key = ?")).
		WithArgs(SettingSonarURL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM settings WHERE key = ?")).
		WithArgs(SettingSonarToken).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.UnlinkAccount(context.Background()))
	assert.Empty(t, cfg.Sonar.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// txRunner runs fn in a transaction on db
func txRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn func(*sql.Tx) error) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	}
}

func TestSettingsServiceLinkAccountCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := validConfig(t)
	svc := NewSettingsService(db, cfg, loggy.NewNoopLogger())
	svc.UseTransactions(txRunner(db))

	selectQuery := regexp.QuoteMeta("SELECT value FROM settings WHERE key = ? LIMIT 1")
	insertQuery := regexp.QuoteMeta("INSERT INTO settings (id,key,value,created_at,updated_at) VALUES (?,?,?,?,?)")

	mock.ExpectBegin()
	mock.ExpectQuery(selectQuery).WithArgs(SettingSonarURL).WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(insertQuery).
		WithArgs(sqlmock.AnyArg(), SettingSonarURL, "https://sonar.example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectQuery).WithArgs(SettingSonarToken).WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(insertQuery).
		WithArgs(sqlmock.AnyArg(), SettingSonarToken, obfuscateToken("squ_new"), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.LinkAccount(context.Background(), "https://sonar.example.com", "squ_new"))
	assert.Equal(t, "https://sonar.example.com", cfg.Sonar.URL)
	assert.Equal(t, "squ_new", cfg.Sonar.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsServiceLinkAccountRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := validConfig(t)
	cfg.Sonar.URL = "http://localhost:9000"
	cfg.Sonar.Token = "squ_old"
	svc := NewSettingsService(db, cfg, loggy.NewNoopLogger())
	svc.UseTransactions(txRunner(db))

	selectQuery := regexp.QuoteMeta("SELECT value FROM settings WHERE key = ? LIMIT 1")
	insertQuery := regexp.QuoteMeta("INSERT INTO settings (id,key,value,created_at,updated_at) VALUES (?,?,?,?,?)")
	diskFull := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(selectQuery).WithArgs(SettingSonarURL).WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectQuery).WithArgs(SettingSonarToken).WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(insertQuery).WillReturnError(diskFull)
	mock.ExpectRollback()

	err = svc.LinkAccount(context.Background(), "https://sonar.example.com", "squ_new")
	assert.ErrorIs(t, err, diskFull)

	// Nothing is applied when the transaction fails
	assert.Equal(t, "http://localhost:9000", cfg.Sonar.URL)
	assert.Equal(t, "squ_old", cfg.Sonar.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupConfigDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".sonarshift")

	envPath, err := SetupConfigDirectory(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env"), envPath)

	data, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SONARSHIFT_SONAR_URL")

	_, err = SetupConfigDirectory(dir, true)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, ".env.*.bak"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}
