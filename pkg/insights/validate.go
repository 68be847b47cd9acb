package insights

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Each record problem wraps one of these so callers can
// test with errors.Is.
var (
	ErrNoAnalysis       = errors.New("no analysis records")
	ErrMissingCourse    = errors.New("missing course title")
	ErrMissingSkillGaps = errors.New("missing skill_gaps")
	ErrMissingJobMarket = errors.New("missing job_market")
	ErrScoreOutOfRange  = errors.New("score out of range")
)

// RecordError describes a malformed analysis record.
type RecordError struct {
	Index  int
	Course string
	Err    error
}

func (e *RecordError) Error() string {
	name := e.Course
	if name == "" {
		name = "?"
	}
	return fmt.Sprintf("analysis[%d] (%s): %v", e.Index, name, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ValidateRecord checks one record against the fields the dashboard reads.
// It returns every problem found, joined.
func ValidateRecord(idx int, a CourseAnalysis) error {
	var errs []error
	add := func(err error) {
		errs = append(errs, &RecordError{Index: idx, Course: a.Course, Err: err})
	}

	if strings.TrimSpace(a.Course) == "" {
		add(ErrMissingCourse)
	}
	if a.MatchScore < 0 || a.MatchScore > 1 {
		add(fmt.Errorf("%w: match_score %v not in [0,1]", ErrScoreOutOfRange, a.MatchScore))
	}
	if a.SkillGaps == nil {
		add(ErrMissingSkillGaps)
	} else if a.SkillGaps.ReadinessScore < 0 || a.SkillGaps.ReadinessScore > 100 {
		add(fmt.Errorf("%w: readiness_score %v not in [0,100]", ErrScoreOutOfRange, a.SkillGaps.ReadinessScore))
	}
	if a.JobMarket == nil {
		add(ErrMissingJobMarket)
	}
	return errors.Join(errs...)
}

// Validate checks every record of res. A nil or empty result reports
// ErrNoAnalysis.
func Validate(res *Result) error {
	if !res.HasAnalysis() {
		return ErrNoAnalysis
	}
	var errs []error
	for i, a := range res.Analysis {
		if err := ValidateRecord(i, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sanitize returns a copy of res without malformed records, plus one
// warning per dropped record. A nil result stays nil. Rank and order of
// the surviving records are preserved.
func Sanitize(res *Result) (*Result, []string) {
	if res == nil {
		return nil, nil
	}

	out := &Result{
		Timestamp:    res.Timestamp,
		StudentLevel: res.StudentLevel,
		Analysis:     make([]CourseAnalysis, 0, len(res.Analysis)),
	}
	var warnings []string
	for i, a := range res.Analysis {
		if err := ValidateRecord(i, a); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s", strings.ReplaceAll(err.Error(), "\n", "; ")))
			continue
		}
		out.Analysis = append(out.Analysis, a)
	}
	return out, warnings
}
