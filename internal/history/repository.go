package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
)

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("export run not found")

var runColumns = []string{
	"id",
	"project_key",
	"server_url",
	"project_root",
	"output_root",
	"report_path",
	"issue_count",
	"row_count",
	"created_at",
}

// Repository persists export runs
type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
}

// SQLRepository implements Repository on SQLite
type SQLRepository struct {
	db      *sql.DB
	logger  *loggy.Logger
	builder sq.StatementBuilderType
}

// NewSQLRepository creates a new history SQL repository
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) Repository {
	return &SQLRepository{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// CreateRun inserts a run
func (r *SQLRepository) CreateRun(ctx context.Context, run *Run) error {
	query, args, err := r.builder.
		Insert("export_runs").
		Columns(runColumns...).
		Values(
			run.ID,
			run.ProjectKey,
			run.ServerURL,
			run.ProjectRoot,
			run.OutputRoot,
			run.ReportPath,
			run.IssueCount,
			run.RowCount,
			run.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting export run: %w", err)
	}

	r.logger.Debug("Recorded export run", "id", run.ID, "project", run.ProjectKey)
	return nil
}

// GetRun returns the run with the given ID
func (r *SQLRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	query, args, err := r.builder.
		Select(runColumns...).
		From("export_runs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	run, err := scanRun(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting export run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs first; limit <= 0 returns all of them
func (r *SQLRepository) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	builder := r.builder.
		Select(runColumns...).
		From("export_runs").
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing export runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning export run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating export runs: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	err := s.Scan(
		&run.ID,
		&run.ProjectKey,
		&run.ServerURL,
		&run.ProjectRoot,
		&run.OutputRoot,
		&run.ReportPath,
		&run.IssueCount,
		&run.RowCount,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
