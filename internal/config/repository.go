package config

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"github.com/tildaslashalef/sonarshift/internal/ulid"
)

// Setting keys persisted by the account commands
const (
	SettingSonarURL   = "sonar.server_url"
	SettingSonarToken = "sonar.token"
)

// Settings represents a persistent setting in the database
type Settings struct {
	ID        string
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SettingsRepository defines operations for managing settings in the database
type SettingsRepository interface {
	// GetSetting retrieves a setting by key
	GetSetting(ctx context.Context, key string) (string, error)

	// GetSettings retrieves multiple settings by prefix
	GetSettings(ctx context.Context, prefix string) (map[string]string, error)

	// SetSetting sets a setting value
	SetSetting(ctx context.Context, key, value string) error

	// DeleteSetting deletes a setting
	DeleteSetting(ctx context.Context, key string) error
}

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLSettingsRepository implements SettingsRepository using a SQL database
type SQLSettingsRepository struct {
	db     DBTX
	logger *loggy.Logger
}

// NewSQLSettingsRepository creates a new SQL settings repository on a connection or a transaction
func NewSQLSettingsRepository(db DBTX, logger *loggy.Logger) SettingsRepository {
	return &SQLSettingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetSetting retrieves a setting by key
func (r *SQLSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	q := squirrel.Select("value").
		From("settings").
		Where(squirrel.Eq{"key": key}).
		Limit(1)

	query, args, err := q.ToSql()
	if err != nil {
		return "", fmt.Errorf("building get setting query: %w", err)
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil // Return empty string if not found
		}
		return "", fmt.Errorf("executing get setting query: %w", err)
	}

	if key == SettingSonarToken && value != "" {
		return deobfuscateToken(value)
	}

	return value, nil
}

// GetSettings retrieves multiple settings by prefix
func (r *SQLSettingsRepository) GetSettings(ctx context.Context, prefix string) (map[string]string, error) {
	q := squirrel.Select("key", "value").
		From("settings").
		Where(squirrel.Like{"key": prefix + "%"})

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get settings query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing get settings query: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting row: %w", err)
		}

		if key == SettingSonarToken && value != "" {
			value, err = deobfuscateToken(value)
			if err != nil {
				r.logger.Warn("Failed to deobfuscate token", "error", err)
				continue
			}
		}

		settings[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating setting rows: %w", err)
	}

	return settings, nil
}

// SetSetting inserts or updates a setting value
func (r *SQLSettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	existingValue, err := r.GetSetting(ctx, key)
	if err != nil {
		return fmt.Errorf("checking for existing setting: %w", err)
	}

	storeValue := value
	if key == SettingSonarToken && value != "" {
		storeValue = obfuscateToken(value)
	}

	now := time.Now().UTC()

	var q squirrel.Sqlizer
	if existingValue == "" {
		q = squirrel.Insert("settings").
			Columns("id", "key", "value", "created_at", "updated_at").
			Values(ulid.SettingID(), key, storeValue, now, now)
	} else {
		q = squirrel.Update("settings").
			Set("value", storeValue).
			Set("updated_at", now).
			Where(squirrel.Eq{"key": key})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building set setting query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing set setting query: %w", err)
	}

	return nil
}

// DeleteSetting deletes a setting
func (r *SQLSettingsRepository) DeleteSetting(ctx context.Context, key string) error {
	query, args, err := squirrel.Delete("settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete setting query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing delete setting query: %w", err)
	}

	return nil
}

// LoadSonarSettings overlays persisted account settings onto cfg
func LoadSonarSettings(ctx context.Context, cfg *Config, repo SettingsRepository) error {
	settings, err := repo.GetSettings(ctx, "sonar.")
	if err != nil {
		return fmt.Errorf("loading sonar settings: %w", err)
	}

	// Update config only for non-empty values
	if url, ok := settings[SettingSonarURL]; ok && url != "" {
		cfg.Sonar.URL = url
	}

	if token, ok := settings[SettingSonarToken]; ok && token != "" {
		cfg.Sonar.Token = token
	}

	return nil
}

// obfuscateToken reverses the token and base64 encodes it behind a marker.
// This is obfuscation, not encryption: it only keeps the token out of casual sqlite dumps.
func obfuscateToken(token string) string {
	return "OBFS:" + base64.StdEncoding.EncodeToString([]byte(reverse(token)))
}

// deobfuscateToken reverses obfuscateToken; unmarked values are returned as is
func deobfuscateToken(obfuscated string) (string, error) {
	if !strings.HasPrefix(obfuscated, "OBFS:") {
		return obfuscated, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(obfuscated, "OBFS:"))
	if err != nil {
		return "", fmt.Errorf("decoding obfuscated token: %w", err)
	}

	return reverse(string(decoded)), nil
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
