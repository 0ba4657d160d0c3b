// Package scaffold creates the directories a report's relocated and test files will live in
package scaffold

import (
	"fmt"
	"os"
	"strings"

	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"github.com/tildaslashalef/sonarshift/internal/report"
)

// Kind names the report column a directory came from
type Kind string

const (
	KindTestLocation   Kind = "test_location"
	KindOutputLocation Kind = "output_location"
)

// Created is one ensured directory
type Created struct {
	Kind Kind
	Dir  string
}

// String renders the line printed for each directory
func (c Created) String() string {
	return fmt.Sprintf("Created directory for %s: %s", c.Kind, c.Dir)
}

// CreateDirectories ensures the parent directory of every non-empty test and output
// location exists, test location first for each row. Existing directories are not an error,
// so running it twice is harmless.
func CreateDirectories(rows []report.Row) ([]Created, error) {
	var created []Created

	for _, row := range rows {
		for _, loc := range []struct {
			kind Kind
			path string
		}{
			{KindTestLocation, row.TestLocation},
			{KindOutputLocation, row.OutputLocation},
		} {
			dir := parentDir(strings.TrimSpace(loc.path))
			if dir == "" {
				continue
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return created, fmt.Errorf("creating %s directory %s: %w", loc.kind, dir, err)
			}

			c := Created{Kind: loc.kind, Dir: dir}
			loggy.Debug("Ensured directory", "kind", c.Kind, "dir", c.Dir)
			created = append(created, c)
		}
	}

	return created, nil
}

// FromReport reads the CSV report at path and creates its directories
func FromReport(path string) ([]Created, error) {
	rows, err := report.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return CreateDirectories(rows)
}

// parentDir returns everything before the last separator, "" for a bare file name
// and "/" for a file directly under the root
func parentDir(p string) string {
	i := strings.LastIndexAny(p, `/\`)
	switch {
	case i < 0:
		return ""
	case i == 0:
		return p[:1]
	default:
		return strings.TrimRight(p[:i], `/\`)
	}
}
