package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ModalAction is what a key press or click inside the modal asks for.
type ModalAction int

const (
	ActionNone ModalAction = iota
	ActionPortal
	ActionEmail
	ActionPhone
	ActionClose
)

const modalTip = "💡 Tip: Most universities have online portals where you can apply directly. " +
	"Contact them if you need help with the application process."

type modalButton struct {
	action ModalAction
	icon   string
	label  string
	detail string
}

var modalButtons = []modalButton{
	{ActionPortal, "🌐", "Apply Online - University Portal", "Visit official university application portal"},
	{ActionEmail, "📧", "Email Admissions", AdmissionsEmail},
	{ActionPhone, "📞", "Call Admissions Office", AdmissionsPhone},
	{ActionClose, "", "Close", ""},
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// ApplicationModal is the "Start Your Application" dialog. It only
// reports actions; the dashboard performs them.
type ApplicationModal struct {
	theme  Theme
	course string
	focus  int
	width  int
	height int
	note   string
}

// NewApplicationModal builds a modal for course.
func NewApplicationModal(theme Theme, course string) ApplicationModal {
	return ApplicationModal{theme: theme, course: course}
}

// SetSize sets the area the overlay covers.
func (m *ApplicationModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetNote shows a one-line status inside the panel.
func (m *ApplicationModal) SetNote(note string) {
	m.note = note
}

// Course returns the course the modal was opened for.
func (m ApplicationModal) Course() string { return m.course }

// Focused returns the focused button's action.
func (m ApplicationModal) Focused() ModalAction { return modalButtons[m.focus].action }

// Update handles a key press.
func (m ApplicationModal) Update(msg tea.KeyMsg) (ApplicationModal, ModalAction) {
	switch {
	case key.Matches(msg, keys.CloseModal):
		return m, ActionClose
	case key.Matches(msg, keys.Portal):
		return m, ActionPortal
	case key.Matches(msg, keys.Email):
		return m, ActionEmail
	case key.Matches(msg, keys.Phone):
		return m, ActionPhone
	case key.Matches(msg, keys.FocusUp):
		m.focus = (m.focus + len(modalButtons) - 1) % len(modalButtons)
	case key.Matches(msg, keys.FocusDown):
		m.focus = (m.focus + 1) % len(modalButtons)
	case key.Matches(msg, keys.Activate):
		return m, modalButtons[m.focus].action
	}
	return m, ActionNone
}

func (m ApplicationModal) panelWidth() int {
	w := m.width - 4
	if w > 68 {
		w = 68
	}
	if w < 30 {
		w = 30
	}
	return w
}

// innerWidth is the text width inside border and padding.
func (m ApplicationModal) innerWidth() int {
	return m.panelWidth() - 2 - 4
}

// content returns the panel lines and the line index of each button.
func (m ApplicationModal) content() ([]string, map[int]ModalAction) {
	t := m.theme
	iw := m.innerWidth()
	rows := make(map[int]ModalAction)
	var lines []string

	title := "🎓 Start Your Application"
	closeX := "✕"
	gap := iw - lipgloss.Width(title) - lipgloss.Width(closeX)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines,
		t.Title.Render(title)+strings.Repeat(" ", gap)+t.MutedText.Render(closeX),
		"",
		t.MutedText.Render("Selected Course:"),
		t.Base.Bold(true).Render(truncate(singleLine(m.course), iw)),
		"",
		t.Base.Render("Choose how you'd like to proceed:"),
		"",
	)

	for i, b := range modalButtons {
		if b.action == ActionClose {
			continue
		}
		rows[len(lines)] = b.action
		lines = append(lines, m.renderButton(i, b, iw))
	}

	lines = append(lines, "")
	tip := t.Renderer.NewStyle().Foreground(t.Info).Width(iw).Render(modalTip)
	lines = append(lines, strings.Split(tip, "\n")...)
	lines = append(lines, "")

	if m.note != "" {
		lines = append(lines, t.SuccessBold.Render(truncate(m.note, iw)), "")
	}

	closeIdx := len(modalButtons) - 1
	rows[len(lines)] = ActionClose
	lines = append(lines, m.renderButton(closeIdx, modalButtons[closeIdx], iw))

	return lines, rows
}

func (m ApplicationModal) renderButton(i int, b modalButton, width int) string {
	text := b.label
	if b.icon != "" {
		text = b.icon + "  " + b.label
	}
	if b.detail != "" && lipgloss.Width(text)+3+lipgloss.Width(b.detail) <= width-2 {
		text += " · " + b.detail
	}
	text = " " + fitWidth(text, width-2) + " "

	if i == m.focus {
		return m.theme.ButtonFocus.Render(text)
	}
	return m.theme.Button.Render(text)
}

func (m ApplicationModal) renderPanel() (string, map[int]ModalAction) {
	lines, rows := m.content()
	panel := m.theme.ModalPanel.Width(m.panelWidth() - 2).Render(strings.Join(lines, "\n"))
	return panel, rows
}

// geometry returns the panel rectangle in overlay coordinates.
func (m ApplicationModal) geometry(panel string) rect {
	pw, ph := lipgloss.Width(panel), lipgloss.Height(panel)
	x := (m.width - pw) / 2
	y := (m.height - ph) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return rect{x: x, y: y, w: pw, h: ph}
}

// HitTest maps a click at (x, y) to an action. inside is false for
// clicks on the overlay around the panel.
func (m ApplicationModal) HitTest(x, y int) (inside bool, action ModalAction) {
	panel, rows := m.renderPanel()
	r := m.geometry(panel)
	if !r.contains(x, y) {
		return false, ActionNone
	}

	// Border (1) and padding (2 columns, 1 row) sit between the panel
	// edge and its content.
	innerX := r.x + 3
	iw := m.innerWidth()
	row := y - (r.y + 2)
	if x < innerX || x >= innerX+iw {
		return true, ActionNone
	}
	if row == 0 && x >= innerX+iw-2 {
		return true, ActionClose
	}
	if a, ok := rows[row]; ok {
		return true, a
	}
	return true, ActionNone
}

// View renders the dimmed overlay with the panel centered on it.
func (m ApplicationModal) View() string {
	panel, _ := m.renderPanel()
	r := m.geometry(panel)
	panelLines := strings.Split(panel, "\n")

	shade := func(n int) string {
		if n <= 0 {
			return ""
		}
		return m.theme.Overlay.Render(strings.Repeat("░", n))
	}

	out := make([]string, 0, m.height)
	for row := 0; row < m.height; row++ {
		if row >= r.y && row < r.y+len(panelLines) {
			line := panelLines[row-r.y]
			out = append(out, shade(r.x)+line+shade(m.width-r.x-lipgloss.Width(line)))
			continue
		}
		out = append(out, shade(m.width))
	}
	return strings.Join(out, "\n")
}
