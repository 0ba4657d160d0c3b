package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"github.com/tildaslashalef/sonarshift/internal/ulid"
)

// DefaultListLimit is the number of runs shown when no limit is given
const DefaultListLimit = 20

// Service records and lists export runs
type Service struct {
	repo   Repository
	logger *loggy.Logger
}

// NewService creates a new history service
func NewService(db *sql.DB, logger *loggy.Logger) *Service {
	return NewServiceWithRepository(NewSQLRepository(db, logger), logger)
}

// NewServiceWithRepository creates a service with a custom repository implementation (for testing)
func NewServiceWithRepository(repo Repository, logger *loggy.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record assigns an ID and timestamp when missing and stores the run
func (s *Service) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = ulid.RunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	return s.repo.CreateRun(ctx, run)
}

// Get returns a single run
func (s *Service) Get(ctx context.Context, id string) (*Run, error) {
	return s.repo.GetRun(ctx, id)
}

// List returns the most recent runs
func (s *Service) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.ListRuns(ctx, limit)
}
