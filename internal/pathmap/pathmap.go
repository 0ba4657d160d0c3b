// Package pathmap maps server-reported component paths onto the local file system,
// relocates them beneath a new output root and derives conventional test file locations.
//
// All functions are pure and work on forward-slash paths regardless of the host OS.
package pathmap

import (
	"path"
	"strings"
)

// ToSlash converts every backslash to a forward slash.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Normalize converts p to forward slashes and resolves "." and ".." segments.
func Normalize(p string) string {
	return path.Clean(ToSlash(p))
}

// collapseSlashes replaces every doubled slash with a single one.
func collapseSlashes(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// ResolveComponentPath turns a component identifier such as "myproj:src/app/foo.py"
// into an absolute path below projectRoot. Malformed input degrades to a best-effort join.
func ResolveComponentPath(component, projectKey, projectRoot string) string {
	relative := component
	if projectKey != "" {
		relative = strings.TrimPrefix(relative, projectKey+":")
	}

	relative = strings.ReplaceAll(relative, ":", "")
	relative = collapseSlashes(ToSlash(relative))

	return path.Join(ToSlash(projectRoot), relative)
}

// RewriteRoot returns originalPath relocated from originalRoot to newRoot.
// The match is a plain string prefix, so "/root/old2/x" is rewritten by the root "/root/old".
// When originalPath does not start with originalRoot it is returned unchanged (normalized).
func RewriteRoot(originalPath, originalRoot, newRoot string) string {
	originalPath = Normalize(originalPath)
	originalRoot = Normalize(originalRoot)
	newRoot = Normalize(newRoot)

	if !strings.HasPrefix(originalPath, originalRoot) {
		return originalPath
	}

	rel := strings.TrimLeft(strings.TrimPrefix(originalPath, originalRoot), "/")
	return collapseSlashes(newRoot + "/" + rel)
}

// FileName returns the last slash-separated element of a raw component string.
// Unlike path.Base it returns "" for a trailing slash and never returns ".".
func FileName(component string) string {
	return component[strings.LastIndex(component, "/")+1:]
}
