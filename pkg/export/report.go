package export

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/vanderheijden86/unimatch/pkg/insights"
)

var slugNonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateReport renders res as a Markdown report: a comparison table, a
// table of contents, one section per course, and a closing recommendation
// for the top-ranked course.
func GenerateReport(res *insights.Result, title string, now time.Time) (string, error) {
	if !res.HasAnalysis() {
		return "", ErrNothingToExport
	}
	if title == "" {
		title = "AI-Powered Insights"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", now.Format(time.RFC1123)))
	if res.StudentLevel != "" {
		sb.WriteString(fmt.Sprintf("**Student level:** %s\n\n", res.StudentLevel))
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Rank | Course | Match | Readiness | Alignment | Growth |\n")
	sb.WriteString("|------|--------|-------|-----------|-----------|--------|\n")
	for _, a := range res.Analysis {
		readiness, alignment, growth := "-", "-", "-"
		if a.SkillGaps != nil {
			readiness = fmt.Sprintf("%s %d%% %s", barChart(a.SkillGaps.ReadinessScore/100),
				insights.ReadinessPercent(a.SkillGaps.ReadinessScore), a.SkillGaps.ReadinessLevel)
		}
		if a.JobMarket != nil {
			alignment = insights.FormatPercent(a.JobMarket.AlignmentScore)
			growth = insights.FormatGrowth(a.JobMarket.GrowthRate)
		}
		sb.WriteString(fmt.Sprintf("| #%d | %s | %s %s | %s | %s | %s |\n",
			a.Rank, escapeCell(a.Course), barChart(a.MatchScore), insights.FormatMatch(a.MatchScore),
			readiness, alignment, growth))
	}
	sb.WriteString("\n")

	slugCounts := make(map[string]int, res.Len())
	slugs := make([]string, res.Len())
	for i, a := range res.Analysis {
		slugs[i] = uniqueSlug(createSlug(courseHeading(a)), slugCounts)
	}

	sb.WriteString("## Table of Contents\n\n")
	for i, a := range res.Analysis {
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", courseHeading(a), slugs[i]))
	}
	sb.WriteString("\n---\n\n")

	for _, a := range res.Analysis {
		writeCourse(&sb, a)
	}

	top := res.Analysis[0]
	sb.WriteString("## ✨ Final Recommendation\n\n")
	sb.WriteString(fmt.Sprintf("Based on the analysis of career paths, skill requirements and market trends, "+
		"**%s** is the strongest match (%s) for your qualifications.\n", top.Course, insights.FormatMatch(top.MatchScore)))
	return sb.String(), nil
}

func courseHeading(a insights.CourseAnalysis) string {
	return fmt.Sprintf("#%d %s", a.Rank, a.Course)
}

func writeCourse(sb *strings.Builder, a insights.CourseAnalysis) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", courseHeading(a)))
	sb.WriteString(fmt.Sprintf("**Match:** %s\n\n", insights.FormatMatch(a.MatchScore)))

	cp := a.CareerPath
	sb.WriteString("### 🚀 Career Path\n\n")
	if name := firstNonEmpty(cp.FieldName, cp.Field); name != "" {
		sb.WriteString(fmt.Sprintf("**Field:** %s\n\n", name))
	}
	for _, step := range cp.Progression {
		sb.WriteString(fmt.Sprintf("- %s · %s → %s\n", step.Level, step.Field, step.Next))
	}
	if len(cp.Progression) > 0 {
		sb.WriteString("\n")
	}
	if next := cp.RecommendedNextStep; next != nil && next.Next != "" {
		sb.WriteString(fmt.Sprintf("**Recommended next step:** %s\n\n", next.Next))
	}
	if len(cp.CareerOptions) > 0 {
		sb.WriteString("| Role | Salary | Demand | Growth | Experience |\n")
		sb.WriteString("|------|--------|--------|--------|------------|\n")
		for _, o := range cp.CareerOptions {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %dy |\n",
				escapeCell(o.Role), insights.FormatSalaryRange(o.SalaryMin, o.SalaryMax),
				insights.FormatPercent(o.Demand), insights.FormatGrowth(o.Growth), o.YearsExp))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("### 🎓 Skill Gaps\n\n")
	if sg := a.SkillGaps; sg != nil {
		sb.WriteString(fmt.Sprintf("**Readiness:** %s (%d%%)\n\n", sg.ReadinessLevel, insights.ReadinessPercent(sg.ReadinessScore)))
		writeList(sb, "Required skills", sg.RequiredSkills)
		writeList(sb, "You have", sg.PossessedSkills)
		writeList(sb, "Skill gaps", sg.Gaps)
		for _, p := range sg.Prerequisites {
			sb.WriteString(fmt.Sprintf("- 📘 %s (%s): %s\n", p.Course, p.Duration, p.Reason))
		}
		if len(sg.Prerequisites) > 0 {
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("*No skill gap analysis.*\n\n")
	}

	sb.WriteString("### 📊 Job Market\n\n")
	if jm := a.JobMarket; jm != nil {
		sb.WriteString(fmt.Sprintf("- **Alignment:** %s\n", insights.FormatPercent(jm.AlignmentScore)))
		sb.WriteString(fmt.Sprintf("- **Growth:** %s per year\n", insights.FormatGrowth(jm.GrowthRate)))
		if jm.Trend != "" {
			sb.WriteString(fmt.Sprintf("- **Trend:** %s\n", strings.TrimSpace(jm.TrendIcon+" "+jm.Trend)))
		}
		if jm.Insight != "" {
			sb.WriteString(fmt.Sprintf("- 💡 %s\n", jm.Insight))
		}
		if jm.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("\n> %s\n", jm.Recommendation))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("*No job market data.*\n\n")
	}

	sb.WriteString("---\n\n")
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("**%s:** %s\n\n", label, strings.Join(items, ", ")))
}

// SaveReport writes the Markdown report for res to filename.
func SaveReport(res *insights.Result, filename string) error {
	content, err := GenerateReport(res, "", time.Now())
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func uniqueSlug(base string, counts map[string]int) string {
	if base == "" {
		base = "section"
	}
	if count, ok := counts[base]; ok {
		count++
		counts[base] = count
		return fmt.Sprintf("%s-%d", base, count)
	}
	counts[base] = 0
	return base
}

// createSlug creates a URL-friendly slug from heading text.
func createSlug(text string) string {
	slug := strings.ToLower(text)
	slug = slugNonAlphanumericRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// barChart creates a mini bar for a 0-1 value
func barChart(value float64) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value * 4)
	return strings.Repeat("█", filled) + strings.Repeat("░", 4-filled)
}
