package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// CareerPathRenderer draws the career tab.
type CareerPathRenderer interface {
	RenderCareerPath(cp insights.CareerPath, width int) string
}

// SkillGapRenderer draws the skills tab.
type SkillGapRenderer interface {
	RenderSkillGaps(sg *insights.SkillGapSummary, width int) string
}

// JobMarketRenderer draws the market tab.
type JobMarketRenderer interface {
	RenderJobMarket(jm *insights.JobMarketSummary, width int) string
}

// Panes are the three tab collaborators. Exactly one is asked to render,
// chosen by the active tab.
type Panes struct {
	Career CareerPathRenderer
	Skills SkillGapRenderer
	Market JobMarketRenderer
}

// DefaultPanes returns the built-in renderers.
func DefaultPanes(t Theme) Panes {
	return Panes{
		Career: careerPane{theme: t},
		Skills: skillPane{theme: t},
		Market: marketPane{theme: t},
	}
}

// Render delegates to the renderer for tab with the matching sub-field of a.
func (p Panes) Render(tab Tab, a insights.CourseAnalysis, width int) string {
	switch tab {
	case TabSkills:
		return p.Skills.RenderSkillGaps(a.SkillGaps, width)
	case TabMarket:
		return p.Market.RenderJobMarket(a.JobMarket, width)
	default:
		return p.Career.RenderCareerPath(a.CareerPath, width)
	}
}

type careerPane struct{ theme Theme }

func (c careerPane) RenderCareerPath(cp insights.CareerPath, width int) string {
	t := c.theme
	var sb strings.Builder

	field := cp.FieldName
	if field == "" {
		field = cp.Field
	}
	if field == "" {
		field = "General"
	}
	sb.WriteString(t.PrimaryBold.Render(field))
	if cp.CurrentLevel != "" {
		sb.WriteString(t.MutedText.Render("  current level: " + cp.CurrentLevel))
	}
	sb.WriteString("\n\n")

	if len(cp.Progression) > 0 {
		sb.WriteString(t.Label.Render("Academic progression") + "\n")
		for _, step := range cp.Progression {
			line := fmt.Sprintf("  %s · %s → %s", step.Level, step.Field, step.Next)
			sb.WriteString(truncate(line, width) + "\n")
		}
		sb.WriteString("\n")
	}

	if next := cp.RecommendedNextStep; next != nil && next.Next != "" {
		sb.WriteString(t.Label.Render("Recommended next step: "))
		sb.WriteString(t.SuccessBold.Render(truncate(next.Next, width-24)) + "\n\n")
	}

	if len(cp.CareerOptions) == 0 {
		sb.WriteString(t.MutedText.Render("No career options listed for this field."))
		return strings.TrimRight(sb.String(), "\n")
	}

	roleW := width - 42
	if roleW < 12 {
		roleW = 12
	}
	sb.WriteString(t.Label.Render("Career options") + "\n")
	header := fmt.Sprintf("  %s %-13s %-16s %-7s %s", padRight("Role", roleW), "Salary", "Demand", "Growth", "Exp")
	sb.WriteString(t.MutedText.Render(truncate(header, width)) + "\n")
	for _, opt := range cp.CareerOptions {
		demand := RenderMiniBar(opt.Demand, 10, t) + fmt.Sprintf(" %3.0f", opt.Demand)
		sb.WriteString(fmt.Sprintf("  %s %-13s %s  %-7s %dy\n",
			fitWidth(opt.Role, roleW),
			insights.FormatSalaryRange(opt.SalaryMin, opt.SalaryMax),
			demand,
			insights.FormatGrowth(opt.Growth),
			opt.YearsExp,
		))
		if opt.Description != "" {
			sb.WriteString(t.MutedText.Render(wrapIndent(opt.Description, width, 4)) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

type skillPane struct{ theme Theme }

func (s skillPane) RenderSkillGaps(sg *insights.SkillGapSummary, width int) string {
	t := s.theme
	if sg == nil {
		return t.MutedText.Render("No skill gap analysis for this course.")
	}
	var sb strings.Builder

	barW := clamp(width-30, 10, 40)
	sb.WriteString(t.Label.Render("Readiness  "))
	sb.WriteString(RenderBar(sg.ReadinessScore, barW, t.ReadinessColor(sg.ReadinessLevel), t))
	sb.WriteString(fmt.Sprintf(" %d%% · ", insights.ReadinessPercent(sg.ReadinessScore)))
	sb.WriteString(t.Renderer.NewStyle().Foreground(t.ReadinessColor(sg.ReadinessLevel)).Bold(true).Render(sg.ReadinessLevel))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(t.Label.Render(padRight(label, 18)))
		sb.WriteString(truncate(value, width-18) + "\n")
	}
	row("Required skills", joinList(sg.RequiredSkills, "none listed"))
	row("You have", joinList(prefixAll("✓ ", sg.PossessedSkills), "none yet"))

	gaps := len(sg.Gaps)
	if sg.GapsCount > gaps {
		gaps = sg.GapsCount
	}
	row(fmt.Sprintf("Skill gaps (%d)", gaps), joinList(prefixAll("✗ ", sg.Gaps), "no gaps 🎉"))

	if len(sg.Prerequisites) > 0 {
		sb.WriteString("\n" + t.Label.Render("Suggested preparation") + "\n")
		for _, p := range sg.Prerequisites {
			line := "  • " + p.Course
			if p.Duration != "" {
				line += " (" + p.Duration + ")"
			}
			if p.Reason != "" {
				line += " · " + p.Reason
			}
			sb.WriteString(truncate(line, width) + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func prefixAll(prefix string, items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = prefix + it
	}
	return out
}

type marketPane struct{ theme Theme }

func (mp marketPane) RenderJobMarket(jm *insights.JobMarketSummary, width int) string {
	t := mp.theme
	if jm == nil {
		return t.MutedText.Render("No job market data for this course.")
	}
	var sb strings.Builder

	if jm.Field != "" {
		sb.WriteString(t.PrimaryBold.Render(jm.Field))
	}
	if jm.Trend != "" {
		trend := strings.TrimSpace(jm.TrendIcon + " " + jm.Trend)
		sb.WriteString("  " + t.Renderer.NewStyle().Foreground(t.TrendColor(jm.Trend)).Render(trend))
	}
	if sb.Len() > 0 {
		sb.WriteString("\n\n")
	}

	barW := clamp(width-30, 10, 40)
	if jm.DemandScore > 0 {
		sb.WriteString(t.Label.Render(padRight("Demand", 12)))
		sb.WriteString(RenderMiniBar(jm.DemandScore, barW, t) + " " + insights.FormatPercent(jm.DemandScore) + "\n")
	}
	sb.WriteString(t.Label.Render(padRight("Alignment", 12)))
	sb.WriteString(RenderMiniBar(jm.AlignmentScore, barW, t) + " " + insights.FormatPercent(jm.AlignmentScore) + "\n")
	sb.WriteString(t.Label.Render(padRight("Growth", 12)))
	sb.WriteString(t.GrowthBold.Render(insights.FormatGrowth(jm.GrowthRate)) + t.MutedText.Render(" per year") + "\n")
	if jm.SalaryPercentile > 0 {
		sb.WriteString(t.Label.Render(padRight("Salary", 12)))
		sb.WriteString(fmt.Sprintf("%s percentile\n", ordinal(int(jm.SalaryPercentile))))
	}

	if jm.Insight != "" {
		sb.WriteString("\n" + wrapIndent("💡 "+jm.Insight, width, 0) + "\n")
	}
	if jm.Recommendation != "" {
		sb.WriteString(t.SuccessBold.Render(truncate(jm.Recommendation, width)) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
