package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tildaslashalef/sonarshift/internal/loggy"
)

// TxRunner runs fn inside a single database transaction
type TxRunner func(ctx context.Context, fn func(*sql.Tx) error) error

// SettingsService provides operations for managing persisted account settings
type SettingsService struct {
	repo     SettingsRepository
	config   *Config
	logger   *loggy.Logger
	transact TxRunner
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *sql.DB, config *Config, logger *loggy.Logger) *SettingsService {
	return NewSettingsServiceWithRepository(NewSQLSettingsRepository(db, logger), config, logger)
}

// NewSettingsServiceWithRepository creates a settings service on top of an existing repository
func NewSettingsServiceWithRepository(repo SettingsRepository, config *Config, logger *loggy.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// UseTransactions makes account changes that touch several settings atomic
func (s *SettingsService) UseTransactions(runner TxRunner) {
	s.transact = runner
}

// inTransaction runs fn against a repository bound to one transaction, or against
// the plain repository when no runner is configured
func (s *SettingsService) inTransaction(ctx context.Context, fn func(SettingsRepository) error) error {
	if s.transact == nil {
		return fn(s.repo)
	}
	return s.transact(ctx, func(tx *sql.Tx) error {
		return fn(NewSQLSettingsRepository(tx, s.logger))
	})
}

// LoadSonarSettings loads persisted account settings into the Config
func (s *SettingsService) LoadSonarSettings(ctx context.Context) error {
	return LoadSonarSettings(ctx, s.config, s.repo)
}

// LinkAccount stores the server URL and token and applies them to the Config.
// Both settings are written in one transaction when a runner is configured.
func (s *SettingsService) LinkAccount(ctx context.Context, url, token string) error {
	err := s.inTransaction(ctx, func(repo SettingsRepository) error {
		if url != "" {
			if err := repo.SetSetting(ctx, SettingSonarURL, url); err != nil {
				return fmt.Errorf("saving server url: %w", err)
			}
		}
		if err := repo.SetSetting(ctx, SettingSonarToken, token); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if url != "" {
		s.config.Sonar.URL = url
	}
	s.config.Sonar.Token = token

	s.logger.Info("Linked SonarQube account", "url", s.config.Sonar.URL)
	return nil
}

// UnlinkAccount removes the persisted server URL and token
func (s *SettingsService) UnlinkAccount(ctx context.Context) error {
	err := s.inTransaction(ctx, func(repo SettingsRepository) error {
		for _, key := range []string{SettingSonarURL, SettingSonarToken} {
			if err := repo.DeleteSetting(ctx, key); err != nil {
				return fmt.Errorf("deleting %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.config.Sonar.Token = ""
	s.logger.Info("Unlinked SonarQube account")
	return nil
}

// AccountStatus returns the persisted server URL and whether a token is stored
func (s *SettingsService) AccountStatus(ctx context.Context) (string, bool, error) {
	settings, err := s.repo.GetSettings(ctx, "sonar.")
	if err != nil {
		return "", false, err
	}

	return settings[SettingSonarURL], settings[SettingSonarToken] != "", nil
}
