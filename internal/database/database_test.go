package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tildaslashalef/sonarshift/internal/config"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Database = config.DatabaseConfig{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		BusyTimeout:     5000,
		ForeignKeys:     true,
		ConnMaxLife:     time.Minute,
		QueryTimeout:    time.Second,
	}
	return cfg
}

func TestBuildSQLiteDSN(t *testing.T) {
	dsn := buildSQLiteDSN(&config.DatabaseConfig{
		Path:            "/tmp/x.db",
		BusyTimeout:     5000,
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		CacheSize:       -16000,
		ForeignKeys:     true,
	})

	assert.Contains(t, dsn, "/tmp/x.db?")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_cache_size=-16000")
	assert.Contains(t, dsn, "_foreign_keys=true")

	assert.Equal(t, ":memory:", buildSQLiteDSN(&config.DatabaseConfig{Path: ":memory:"}))
}

func TestNotInitialized(t *testing.T) {
	require.NoError(t, CloseDB())

	_, err := DB()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = RunMigrations()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestMigrationsLifecycle(t *testing.T) {
	loggy.NewNoopLogger()
	require.NoError(t, InitDB(testConfig(t)))
	t.Cleanup(func() { _ = CloseDB() })

	applied, err := RunMigrations()
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	applied, err = RunMigrations()
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	conn, err := DB()
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM export_runs").Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, RevertMigrations(1))
	_, err = conn.Exec("SELECT COUNT(*) FROM export_runs")
	assert.Error(t, err)

	applied, err = RunMigrations()
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestWithTransactionRollsBack(t *testing.T) {
	loggy.NewNoopLogger()
	require.NoError(t, InitDB(testConfig(t)))
	t.Cleanup(func() { _ = CloseDB() })

	_, err := RunMigrations()
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTransaction(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO settings (id, key, value, created_at, updated_at) VALUES ('set-1', 'k', 'v', ?, ?)", time.Now(), time.Now())
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	conn, err := DB()
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count))
	assert.Zero(t, count)
}

func TestSettingsLinkedInsideTransaction(t *testing.T) {
	logger := loggy.NewNoopLogger()
	cfg := testConfig(t)
	require.NoError(t, InitDB(cfg))
	t.Cleanup(func() { _ = CloseDB() })

	_, err := RunMigrations()
	require.NoError(t, err)

	conn, err := DB()
	require.NoError(t, err)

	svc := config.NewSettingsService(conn, cfg, logger)
	svc.UseTransactions(WithTransaction)

	ctx := context.Background()
	require.NoError(t, svc.LinkAccount(ctx, "https://sonar.example.com", "squ_token"))

	url, hasToken, err := svc.AccountStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://sonar.example.com", url)
	assert.True(t, hasToken)

	require.NoError(t, svc.UnlinkAccount(ctx))

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count))
	assert.Zero(t, count)
}
