package pathmap

import (
	"path"
	"strings"
)

// DirRule describes how the test directory is derived from a source directory.
type DirRule struct {
	// Kind selects the transformation.
	Kind DirRuleKind
	// From and To are the segments used by DirReplace.
	From string
	To   string
	// Sub is the subdirectory appended by DirAppend.
	Sub string
}

// DirRuleKind enumerates the supported directory transformations
type DirRuleKind int

const (
	// DirSame keeps the source directory
	DirSame DirRuleKind = iota
	// DirReplace replaces every occurrence of From with To
	DirReplace
	// DirAppend appends Sub below the source directory
	DirAppend
)

// Apply returns the test directory for baseDir
func (r DirRule) Apply(baseDir string) string {
	switch r.Kind {
	case DirReplace:
		return strings.ReplaceAll(baseDir, r.From, r.To)
	case DirAppend:
		return path.Join(baseDir, r.Sub)
	default:
		return baseDir
	}
}

// Rule is a per-language test file convention.
type Rule struct {
	Language string
	// Prefix and Suffix wrap the stem.
	Prefix string
	Suffix string
	// Ext is the fixed extension of the test file. Empty keeps the source extension.
	Ext string
	Dir DirRule
}

// TestFileName builds the test file name for a source stem and its original extension.
func (r Rule) TestFileName(stem, ext string) string {
	if r.Ext != "" {
		ext = r.Ext
	}
	return r.Prefix + stem + r.Suffix + ext
}

var (
	jsRule = Rule{Language: "JavaScript", Suffix: ".test", Dir: DirRule{Kind: DirAppend, Sub: "__tests__"}}
	cRule  = Rule{Language: "C/C++", Prefix: "test_", Dir: DirRule{Kind: DirAppend, Sub: "tests"}}
	ktRule = Rule{Language: "Kotlin", Suffix: "Test", Dir: DirRule{Kind: DirReplace, From: "/src/", To: "/test/"}}

	// defaultRule covers every extension without a dedicated convention
	defaultRule = Rule{Language: "Generic", Suffix: ".test", Dir: DirRule{Kind: DirAppend, Sub: "__tests__"}}

	// rules is keyed by lower-cased extension including the leading dot
	rules = map[string]Rule{
		".py":    {Language: "Python", Prefix: "test_", Ext: ".py", Dir: DirRule{Kind: DirReplace, From: "/src/", To: "/tests/"}},
		".js":    jsRule,
		".jsx":   jsRule,
		".ts":    jsRule,
		".tsx":   jsRule,
		".java":  {Language: "Java", Suffix: "Test", Ext: ".java", Dir: DirRule{Kind: DirReplace, From: "/main/", To: "/test/"}},
		".cs":    {Language: "C#", Suffix: "Tests", Ext: ".cs", Dir: DirRule{Kind: DirReplace, From: "/src/", To: "/tests/"}},
		".go":    {Language: "Go", Suffix: "_test", Ext: ".go", Dir: DirRule{Kind: DirSame}},
		".cpp":   cRule,
		".cxx":   cRule,
		".cc":    cRule,
		".c":     cRule,
		".php":   {Language: "PHP", Suffix: "Test", Ext: ".php", Dir: DirRule{Kind: DirReplace, From: "/src/", To: "/tests/"}},
		".kt":    ktRule,
		".kts":   ktRule,
		".swift": {Language: "Swift", Suffix: "Tests", Ext: ".swift", Dir: DirRule{Kind: DirReplace, From: "/Sources/", To: "/Tests/"}},
		".rs":    {Language: "Rust", Suffix: "_test", Ext: ".rs", Dir: DirRule{Kind: DirReplace, From: "/src/", To: "/tests/"}},
	}
)

// RuleFor returns the convention for ext (case-insensitive) and whether a dedicated one exists.
// The generic rule is returned for unknown extensions.
func RuleFor(ext string) (Rule, bool) {
	rule, ok := rules[strings.ToLower(ext)]
	if !ok {
		return defaultRule, false
	}
	return rule, true
}

// splitName splits a file name into stem and extension.
// Hidden files (leading dot) and names without an extension report ok=false.
func splitName(fileName string) (stem, ext string, ok bool) {
	if fileName == "" || strings.HasPrefix(fileName, ".") {
		return "", "", false
	}

	ext = path.Ext(fileName)
	if ext == "" {
		return "", "", false
	}

	return strings.TrimSuffix(fileName, ext), ext, true
}

// IsTestable reports whether a test location can be derived for filePath
func IsTestable(filePath string) bool {
	_, _, ok := splitName(path.Base(ToSlash(filePath)))
	return ok
}

// ResolveTestLocation returns the conventional test file path and name for a source file.
// It returns ("", "") for files without an extension and for hidden files.
func ResolveTestLocation(filePath string) (string, string) {
	filePath = ToSlash(filePath)
	baseDir, fileName := path.Split(filePath)
	baseDir = strings.TrimSuffix(baseDir, "/")
	if baseDir == "" && strings.HasPrefix(filePath, "/") {
		baseDir = "/"
	}

	stem, ext, ok := splitName(fileName)
	if !ok {
		return "", ""
	}

	rule, _ := RuleFor(ext)
	testName := rule.TestFileName(stem, ext)
	testDir := rule.Dir.Apply(baseDir)

	return ToSlash(path.Join(testDir, testName)), testName
}
