package report

import (
	"path"
	"sort"

	"github.com/go-enry/go-enry/v2"
)

// OtherLanguage labels files enry cannot classify by name
const OtherLanguage = "Other"

// Count is a label with its number of rows
type Count struct {
	Label string
	Count int
}

// Summary aggregates a set of rows for display
type Summary struct {
	Total      int
	Testable   int
	Files      int
	ByType     []Count
	ByLanguage []Count
}

// Summarize counts rows per issue type and per language, most frequent first
func Summarize(rows []Row) Summary {
	types := map[string]int{}
	languages := map[string]int{}
	files := map[string]struct{}{}
	testable := 0

	for _, row := range rows {
		types[row.Type]++
		languages[DetectLanguage(row.OriginalLocation)]++
		files[row.OriginalLocation] = struct{}{}
		if row.Testable() {
			testable++
		}
	}

	return Summary{
		Total:      len(rows),
		Testable:   testable,
		Files:      len(files),
		ByType:     sortedCounts(types),
		ByLanguage: sortedCounts(languages),
	}
}

// DetectLanguage names the language of a file from its name alone
func DetectLanguage(filePath string) string {
	name := path.Base(filePath)

	if language, _ := enry.GetLanguageByExtension(name); language != "" {
		return language
	}
	if language, _ := enry.GetLanguageByFilename(name); language != "" {
		return language
	}
	return OtherLanguage
}

func sortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for label, n := range m {
		counts = append(counts, Count{Label: label, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	return counts
}
