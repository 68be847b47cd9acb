package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// Summary is the quick-summary view model for one course.
type Summary struct {
	Course           string
	ReadinessLevel   string
	ReadinessScore   float64
	ReadinessPercent int
	AlignmentScore   float64
	Recommendation   string
	GrowthRate       float64
}

// Summarize derives the summary panel values from a.
func Summarize(a insights.CourseAnalysis) Summary {
	s := Summary{Course: a.Course}
	if a.SkillGaps != nil {
		s.ReadinessLevel = a.SkillGaps.ReadinessLevel
		s.ReadinessScore = a.SkillGaps.ReadinessScore
		s.ReadinessPercent = insights.ReadinessPercent(a.SkillGaps.ReadinessScore)
	}
	if a.JobMarket != nil {
		s.AlignmentScore = a.JobMarket.AlignmentScore
		s.Recommendation = a.JobMarket.Recommendation
		s.GrowthRate = a.JobMarket.GrowthRate
	}
	return s
}

// ReadyLabel renders "73% Ready".
func (s Summary) ReadyLabel() string {
	return fmt.Sprintf("%d%% Ready", s.ReadinessPercent)
}

// Alignment renders the market opportunity value.
func (s Summary) Alignment() string {
	return insights.FormatPercent(s.AlignmentScore)
}

// Growth renders "+12%".
func (s Summary) Growth() string {
	return insights.FormatGrowth(s.GrowthRate)
}

// summaryHeight is the rendered height of the summary panel.
const summaryHeight = 8

func renderSummary(s Summary, width int, t Theme) string {
	inner := width - 4
	if inner < 30 {
		inner = 30
	}
	colW := inner / 3

	col := func(lines ...string) string {
		out := make([]string, 4)
		for i := range out {
			if i < len(lines) {
				out[i] = lines[i]
			}
		}
		clipped := t.Renderer.NewStyle().MaxWidth(colW).Render(strings.Join(out, "\n"))
		return t.Renderer.NewStyle().Width(colW).Render(clipped)
	}

	textW := colW - 2
	readiness := col(
		t.Label.Render("Career Readiness"),
		t.Renderer.NewStyle().Foreground(t.ReadinessColor(s.ReadinessLevel)).Render(truncate(s.ReadinessLevel, textW)),
		RenderBar(s.ReadinessScore, textW, t.Primary, t),
		t.Base.Bold(true).Render(s.ReadyLabel()),
	)
	market := col(
		t.Label.Render("Market Opportunity"),
		t.SuccessBold.Render(s.Alignment()),
		t.MutedText.Render(truncate(s.Recommendation, textW)),
	)
	growth := col(
		t.Label.Render("Growth Potential"),
		t.GrowthBold.Render(s.Growth()),
		t.MutedText.Render(truncate("Annual growth in field", textW)),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render("📋 Quick Summary"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, readiness, market, growth),
	)
	return t.Panel.Width(width - 2).Render(body)
}

// recommendationMarkdown is the final recommendation paragraph for course.
func recommendationMarkdown(course string) string {
	return "### ✨ Final Recommendation\n\n" +
		"Based on comprehensive AI analysis of career paths, skill requirements, and market trends, " +
		"**\"" + escapeMarkdown(course) + "\"** is an excellent choice for your qualifications and career " +
		"aspirations. With strong job market demand, clear career progression, and opportunities to develop " +
		"essential skills, this course positions you well for a successful and rewarding career."
}

// mdRenderer caches a glamour renderer per wrap width.
type mdRenderer struct {
	width int
	r     *glamour.TermRenderer
}

func (m *mdRenderer) render(md string, width int) string {
	if width <= 0 {
		return md
	}
	if m.r == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return plainMarkdown(md, width)
		}
		m.r, m.width = r, width
	}
	out, err := m.r.Render(md)
	if err != nil {
		return plainMarkdown(md, width)
	}
	// glamour pads with blank lines and trailing spaces
	return strings.Trim(out, "\n")
}

// plainMarkdown is the fallback when glamour is unavailable.
func plainMarkdown(md string, width int) string {
	md = strings.NewReplacer("### ", "", "**", "", `\`, "").Replace(md)
	return lipgloss.NewStyle().Width(width).Render(md)
}
