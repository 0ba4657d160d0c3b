// Package git locates the repository a project lives in
package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
)

// ErrNotRepository is returned when no repository encloses the given path
var ErrNotRepository = errors.New("not inside a git repository")

// Service provides Git lookups
type Service struct {
	logger *loggy.Logger
}

// NewService creates a new Git service
func NewService(logger *loggy.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// HasGitRepo checks if the provided path is the root of a valid Git repository
func (s *Service) HasGitRepo(path string) bool {
	_, err := git.PlainOpen(path)
	if err != nil {
		s.logger.Debug("Not a valid Git repository", "path", path, "error", err)
		return false
	}

	return true
}

// DetectProjectRoot returns the worktree root of the repository containing path,
// searching parent directories the way git itself does
func (s *Service) DetectProjectRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", fmt.Errorf("%s: %w", absPath, ErrNotRepository)
	}
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	s.logger.Debug("Detected project root", "path", absPath, "root", root)
	return root, nil
}
