package utils

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// SanitizeDirectoryName turns a project key or directory name into a safe file name stem
func SanitizeDirectoryName(dirName string) string {
	// Replace spaces with hyphens and convert to lowercase
	name := strings.ToLower(strings.ReplaceAll(dirName, " ", "-"))

	replacer := strings.NewReplacer(
		"_", "-",
		".", "-",
		",", "-",
		";", "-",
		":", "-",
		"/", "-",
		"\\", "-",
	)
	name = replacer.Replace(name)

	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	return strings.Trim(name, "-")
}

// DefaultReportPath returns <dir>/<sanitized project key>-issues.csv
func DefaultReportPath(dir, projectKey string) string {
	stem := SanitizeDirectoryName(projectKey)
	if stem == "" {
		stem = "sonar"
	}
	return filepath.Join(dir, stem+"-issues.csv")
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
