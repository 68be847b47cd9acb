package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// courseTitles adapts an analysis list to fuzzy.Source.
type courseTitles []insights.CourseAnalysis

func (c courseTitles) String(i int) string { return c[i].Course }
func (c courseTitles) Len() int            { return len(c) }

// FindCourse returns the index of the course whose title best matches
// query, fuzzily and case-insensitively. A blank query or no match
// returns false.
func FindCourse(res *insights.Result, query string) (int, bool) {
	query = strings.TrimSpace(query)
	if query == "" || !res.HasAnalysis() {
		return 0, false
	}
	matches := fuzzy.FindFrom(query, courseTitles(res.Analysis))
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Index, true
}
