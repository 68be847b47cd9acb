// Package insights holds the AI course-recommendation analysis payload
// consumed by the dashboard, plus decoding, validation and display
// formatting for it.
//
// The payload is produced upstream by the recommender API. Everything in
// this package treats it as read-only.
package insights

// Result is the full insights payload for one student: an ordered list of
// per-course analysis records. A nil *Result means no data was supplied.
type Result struct {
	Timestamp    string           `json:"timestamp,omitempty"`
	StudentLevel string           `json:"student_level,omitempty"`
	Analysis     []CourseAnalysis `json:"analysis"`
}

// HasAnalysis reports whether r carries at least one analysis record.
// Safe to call on a nil receiver.
func (r *Result) HasAnalysis() bool {
	return r != nil && len(r.Analysis) > 0
}

// Len returns the number of analysis records, 0 for a nil result.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Analysis)
}

// CourseAnalysis is one course's full evaluation.
type CourseAnalysis struct {
	Rank       int               `json:"rank"`
	Course     string            `json:"course"`
	MatchScore float64           `json:"match_score"` // 0..1
	CareerPath CareerPath        `json:"career_path"`
	SkillGaps  *SkillGapSummary  `json:"skill_gaps"`
	JobMarket  *JobMarketSummary `json:"job_market"`
}

// CareerPath is opaque to the dashboard; only the career pane reads it.
type CareerPath struct {
	Field               string         `json:"field,omitempty"`
	FieldName           string         `json:"field_name,omitempty"`
	CurrentLevel        string         `json:"current_level,omitempty"`
	Progression         []ProgressStep `json:"progression,omitempty"`
	CareerOptions       []CareerOption `json:"career_options,omitempty"`
	RecommendedNextStep *ProgressStep  `json:"recommended_next_step,omitempty"`
}

// ProgressStep is one rung of an academic progression ladder.
type ProgressStep struct {
	Level string `json:"level"`
	Field string `json:"field"`
	Next  string `json:"next"`
}

// CareerOption is a role reachable from the course.
type CareerOption struct {
	Role        string  `json:"role"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	Demand      float64 `json:"demand"`
	Description string  `json:"description"`
	YearsExp    int     `json:"years_exp"`
	Growth      float64 `json:"growth"`
}

// SkillGapSummary describes readiness for the course.
type SkillGapSummary struct {
	Course          string         `json:"course,omitempty"`
	RequiredSkills  []string       `json:"required_skills,omitempty"`
	PossessedSkills []string       `json:"possessed_skills,omitempty"`
	Gaps            []string       `json:"skill_gaps,omitempty"`
	GapsCount       int            `json:"gaps_count,omitempty"`
	ReadinessScore  float64        `json:"readiness_score"` // 0..100, pre-clamped upstream
	ReadinessLevel  string         `json:"readiness_level"`
	Prerequisites   []Prerequisite `json:"prerequisites,omitempty"`
}

// Prerequisite is a preparatory course suggested for skill gaps.
type Prerequisite struct {
	Course   string `json:"course"`
	Reason   string `json:"reason"`
	Duration string `json:"duration"`
}

// JobMarketSummary describes how well the course fits current demand.
type JobMarketSummary struct {
	Field            string  `json:"field,omitempty"`
	DemandScore      float64 `json:"demand_score,omitempty"`
	GrowthRate       float64 `json:"growth_rate"`
	Trend            string  `json:"trend,omitempty"`
	TrendIcon        string  `json:"trend_icon,omitempty"`
	AlignmentScore   float64 `json:"alignment_score"`
	SalaryPercentile float64 `json:"salary_percentile,omitempty"`
	Insight          string  `json:"insight,omitempty"`
	Recommendation   string  `json:"recommendation"`
}
