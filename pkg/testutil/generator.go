// Package testutil provides deterministic insights fixtures for tests.
// All generators produce the same output for the same seed.
package testutil

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// DefaultCourses are the course titles used when a config lists none.
var DefaultCourses = []string{
	"BSc Software Engineering",
	"BSc Data Science",
	"BBA Business Management",
	"BSc Nursing",
	"BEng Civil Engineering",
	"BSc Cyber Security",
}

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed         int64     // Random seed for determinism (0 = use current time)
	BaseTime     time.Time // Timestamp stamped on results (default: fixed time)
	StudentLevel string    // Level stamped on results (default: "AL")
	Courses      []string  // Course titles, cycled (default: DefaultCourses)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:         42,
		BaseTime:     time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		StudentLevel: "AL",
		Courses:      DefaultCourses,
	}
}

// Generator creates insights fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	if cfg.StudentLevel == "" {
		cfg.StudentLevel = "AL"
	}
	if len(cfg.Courses) == 0 {
		cfg.Courses = DefaultCourses
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Result builds an insights result with n ranked records. Match scores
// descend with rank, like the recommender's output.
func (g *Generator) Result(n int) *insights.Result {
	res := &insights.Result{
		Timestamp:    g.cfg.BaseTime.Format(time.RFC3339),
		StudentLevel: g.cfg.StudentLevel,
		Analysis:     make([]insights.CourseAnalysis, 0, n),
	}
	score := 0.95
	for i := 0; i < n; i++ {
		res.Analysis = append(res.Analysis, g.Course(i, score))
		score -= 0.05 + g.rng.Float64()*0.05
		if score < 0 {
			score = 0
		}
	}
	return res
}

// Course builds a single well-formed record at position idx.
func (g *Generator) Course(idx int, match float64) insights.CourseAnalysis {
	title := g.cfg.Courses[idx%len(g.cfg.Courses)]
	if idx >= len(g.cfg.Courses) {
		title = fmt.Sprintf("%s %d", title, idx/len(g.cfg.Courses)+1)
	}

	readiness := float64(40 + g.rng.Intn(61))
	growth := float64(3 + g.rng.Intn(20))
	demand := float64(60 + g.rng.Intn(40))
	alignment := float64(int((demand*0.6+min(100, growth*7)*0.4)*10)) / 10

	return insights.CourseAnalysis{
		Rank:       idx + 1,
		Course:     title,
		MatchScore: match,
		CareerPath: insights.CareerPath{
			Field:        "software-engineering",
			FieldName:    "Software Engineering",
			CurrentLevel: g.cfg.StudentLevel,
			Progression: []insights.ProgressStep{
				{Level: "AL", Field: "Science/Tech", Next: "BSc " + title},
				{Level: "BSc", Field: title, Next: "MSc Computer Science"},
			},
			CareerOptions: []insights.CareerOption{
				{Role: "Junior Developer", SalaryMin: 40000, SalaryMax: 60000, Demand: 95, Description: "Entry-level role", YearsExp: 0, Growth: 12},
				{Role: "Tech Lead", SalaryMin: 120000, SalaryMax: 160000, Demand: 75, Description: "Leads teams", YearsExp: 5, Growth: 6},
			},
			RecommendedNextStep: &insights.ProgressStep{Level: "AL", Field: "Science/Tech", Next: "BSc " + title},
		},
		SkillGaps: &insights.SkillGapSummary{
			Course:          title,
			RequiredSkills:  []string{"Programming", "Mathematics", "Problem Solving"},
			PossessedSkills: []string{"Problem Solving"},
			Gaps:            []string{"Programming", "Mathematics"},
			GapsCount:       2,
			ReadinessScore:  readiness,
			ReadinessLevel:  readinessLevel(readiness),
			Prerequisites: []insights.Prerequisite{
				{Course: "Preparatory Modules", Reason: "Some skill gaps detected", Duration: "1-2 months"},
			},
		},
		JobMarket: &insights.JobMarketSummary{
			Field:            "Software Engineering",
			DemandScore:      demand,
			GrowthRate:       growth,
			Trend:            "growing",
			TrendIcon:        "📈",
			AlignmentScore:   alignment,
			SalaryPercentile: 80,
			Insight:          fmt.Sprintf("High demand in job market with %v%% annual growth", growth),
			Recommendation:   "Good job market opportunity",
		},
	}
}

func readinessLevel(score float64) string {
	switch {
	case score > 80:
		return "Highly Ready"
	case score > 60:
		return "Ready"
	case score > 40:
		return "Needs Preparation"
	default:
		return "Requires Foundation"
	}
}

// ToJSON encodes a result the way the recommender writes it.
func ToJSON(res *insights.Result) string {
	var buf bytes.Buffer
	if err := insights.Encode(&buf, res); err != nil {
		panic(err)
	}
	return buf.String()
}

// QuickResult returns a default-seeded result with n records.
func QuickResult(n int) *insights.Result {
	return NewDefault().Result(n)
}

// Empty returns a resolved result with no records.
func Empty() *insights.Result {
	return &insights.Result{Analysis: []insights.CourseAnalysis{}}
}

// Single returns a result with one record.
func Single() *insights.Result {
	return QuickResult(1)
}
