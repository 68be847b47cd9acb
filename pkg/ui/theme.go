package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile, computed once at
// package init.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns hex on TrueColor terminals and lipgloss.NoColor{}
// otherwise, leaving the terminal's own background in place.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns hex on ANSI256+ terminals and ANSI white below that.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor
	Growth  lipgloss.AdaptiveColor

	Border lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Header   lipgloss.Style

	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
	Panel        lipgloss.Style
	ModalPanel   lipgloss.Style
	Overlay      lipgloss.Style
	Button       lipgloss.Style
	ButtonFocus  lipgloss.Style
	CTA          lipgloss.Style

	MutedText   lipgloss.Style
	PrimaryBold lipgloss.Style
	SuccessBold lipgloss.Style
	GrowthBold  lipgloss.Style
	ErrorText   lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Subtext: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Success: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Info:    lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Warning: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Danger:  lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Growth:  lipgloss.AdaptiveColor{Light: "#904EE2", Dark: "#FF79C6"},

		Border: lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Muted:  lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Subtitle = r.NewStyle().Foreground(t.Subtext)
	t.Label = r.NewStyle().Foreground(t.Subtext).Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.SelectedCard = r.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Bold(true)

	t.Tab = r.NewStyle().Foreground(t.Subtext)
	t.ActiveTab = r.NewStyle().Foreground(t.Primary).Bold(true).Underline(true)

	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Info).
		Padding(0, 1)
	t.ModalPanel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)
	t.Overlay = r.NewStyle().Foreground(t.Border).Background(ThemeBg("#1E1F29"))

	t.Button = r.NewStyle().Foreground(t.Base.GetForeground())
	t.ButtonFocus = r.NewStyle().
		Foreground(ThemeFg("#282A36")).
		Background(t.Primary).
		Bold(true)
	t.CTA = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Background(t.Primary).
		Bold(true).
		Padding(0, 2)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.SuccessBold = r.NewStyle().Foreground(t.Success).Bold(true)
	t.GrowthBold = r.NewStyle().Foreground(t.Growth).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(t.Danger)

	return t
}

// ReadinessColor maps a readiness level label to a color.
func (t Theme) ReadinessColor(level string) lipgloss.AdaptiveColor {
	switch level {
	case "Highly Ready":
		return t.Success
	case "Ready":
		return t.Info
	case "Needs Preparation":
		return t.Warning
	case "Requires Foundation":
		return t.Danger
	default:
		return t.Subtext
	}
}

// TrendColor maps a market trend to a color.
func (t Theme) TrendColor(trend string) lipgloss.AdaptiveColor {
	switch trend {
	case "growing":
		return t.Success
	case "declining":
		return t.Danger
	default:
		return t.Warning
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
