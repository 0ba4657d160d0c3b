// Package export runs the fetch, map and write pipeline for one SonarQube project
package export

import (
	"context"
	"fmt"

	"github.com/tildaslashalef/sonarshift/internal/config"
	"github.com/tildaslashalef/sonarshift/internal/history"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"github.com/tildaslashalef/sonarshift/internal/report"
	"github.com/tildaslashalef/sonarshift/internal/sonar"
)

// IssueFetcher returns every open issue of a project
type IssueFetcher interface {
	FetchAllIssues(ctx context.Context) ([]sonar.Issue, error)
}

// FetcherFunc builds the fetcher for a run
type FetcherFunc func(opts Options) IssueFetcher

// Recorder stores completed runs
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Result describes a finished export
type Result struct {
	RunID      string
	ReportPath string
	IssueCount int
	Rows       []report.Row
	Summary    report.Summary
}

// Service runs exports
type Service struct {
	newFetcher FetcherFunc
	builder    *report.Builder
	recorder   Recorder
	logger     *loggy.Logger
}

// NewService creates an export service fetching from SonarQube with the settings in cfg.
// recorder may be nil, in which case runs are not recorded.
func NewService(cfg *config.Config, recorder Recorder, logger *loggy.Logger) *Service {
	return NewServiceWithFetcher(SonarFetcher(cfg.Sonar, logger), recorder, logger)
}

// NewServiceWithFetcher creates a service with a custom fetcher (for testing)
func NewServiceWithFetcher(newFetcher FetcherFunc, recorder Recorder, logger *loggy.Logger) *Service {
	return &Service{
		newFetcher: newFetcher,
		builder:    report.NewBuilder(logger),
		recorder:   recorder,
		logger:     logger,
	}
}

// SonarFetcher returns a FetcherFunc that uses base for paging and pacing and
// the run's server URL and token for the connection
func SonarFetcher(base config.SonarConfig, logger *loggy.Logger) FetcherFunc {
	return func(opts Options) IssueFetcher {
		cfg := base
		cfg.URL = opts.ServerURL
		cfg.Token = opts.APIToken
		return sonar.NewClient(cfg, opts.ProjectKey, logger)
	}
}

// Run fetches all issues, builds the rows and writes the report.
// Nothing is written when the fetch or the build fails.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ctx = loggy.AddToContext(loggy.WithLogger(ctx, s.logger), loggy.Fields{"project": opts.ProjectKey})
	logger := loggy.FromContext(ctx)
	logger.Info("Starting export", "server", opts.ServerURL, "report", opts.ReportPath)

	issues, err := s.newFetcher(opts).FetchAllIssues(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch issues")
		return nil, fmt.Errorf("fetching issues: %w", err)
	}

	rows, err := s.builder.Build(issues, report.BuildOptions{
		ProjectKey:    opts.ProjectKey,
		ProjectRoot:   opts.ProjectRoot,
		NewOutputRoot: opts.NewOutputRoot,
	})
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	if err := report.WriteFile(opts.ReportPath, rows); err != nil {
		return nil, err
	}

	result := &Result{
		ReportPath: opts.ReportPath,
		IssueCount: len(issues),
		Rows:       rows,
		Summary:    report.Summarize(rows),
	}

	if s.recorder != nil {
		run := &history.Run{
			ProjectKey:  opts.ProjectKey,
			ServerURL:   opts.ServerURL,
			ProjectRoot: opts.ProjectRoot,
			OutputRoot:  opts.NewOutputRoot,
			ReportPath:  opts.ReportPath,
			IssueCount:  len(issues),
			RowCount:    len(rows),
		}
		// The report is already on disk, so a history failure only warrants a warning
		if err := s.recorder.Record(ctx, run); err != nil {
			logger.WithError(err).Warn("Failed to record export run")
		} else {
			result.RunID = run.ID
		}
	}

	logger.Info("Export complete", "issues", len(issues), "rows", len(rows), "run_id", result.RunID)
	return result, nil
}
