// Package ui implements the unimatch terminal dashboard: a course selector,
// three analysis tabs, a quick summary and the application modal, gated
// by a loading/empty/ready state derived from the insights input.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/unimatch/pkg/debug"
	"github.com/vanderheijden86/unimatch/pkg/insights"
	"github.com/vanderheijden86/unimatch/pkg/watcher"
)

// InsightsLoadedMsg delivers a new insights value to the dashboard. It is
// both the initial load and every later update.
type InsightsLoadedMsg struct {
	Result   *insights.Result
	Err      error
	Source   string
	Warnings []string
}

// Loader produces an insights value. It runs off the UI goroutine.
type Loader func() (*insights.Result, error)

// LoadCmd runs load and sanitizes its result so every record the
// dashboard sees has its sub-structures.
func LoadCmd(source string, load Loader) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := load()
		debug.LogTiming("load "+source, time.Since(start))
		if err != nil {
			return InsightsLoadedMsg{Err: err, Source: source}
		}
		clean, warnings := insights.Sanitize(res)
		for _, w := range warnings {
			debug.Log("load %s: %s", source, w)
		}
		return InsightsLoadedMsg{Result: clean, Source: source, Warnings: warnings}
	}
}

// Option configures a Model.
type Option func(*Model)

// WithPanes replaces the tab renderers.
func WithPanes(p Panes) Option {
	return func(m *Model) { m.panes = p }
}

// WithNavigator replaces the URL handler used by the modal actions.
func WithNavigator(n Navigator) Option {
	return func(m *Model) { m.nav = n }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copyFn = write }
}

// WithDefaultTab sets the tab active on mount.
func WithDefaultTab(t Tab) Option {
	return func(m *Model) { m.state.SetTab(t) }
}

// WithMouse enables or disables click handling.
func WithMouse(on bool) Option {
	return func(m *Model) { m.mouse = on }
}

// WithLoader makes Init load from load, and reloads reuse it.
func WithLoader(source string, load Loader) Option {
	return func(m *Model) {
		m.source = source
		m.loader = load
	}
}

// WithWatcher reloads through the loader whenever w reports a change.
func WithWatcher(w *watcher.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithCourseQuery preselects the best fuzzy match for query once data
// first arrives. Later reloads keep whatever the user selected.
func WithCourseQuery(query string) Option {
	return func(m *Model) { m.courseQuery = query }
}

// WithResult supplies an already loaded value.
func WithResult(res *insights.Result) Option {
	return func(m *Model) { m.state.SetInput(res) }
}

// Model is the root bubbletea model.
type Model struct {
	state DashboardState
	theme Theme

	panes   Panes
	nav     Navigator
	copyFn  func(string) error
	modal   ApplicationModal
	spinner spinner.Model
	body    viewport.Model
	help    help.Model
	md      *mdRenderer

	source      string
	loader      Loader
	watcher     *watcher.Watcher
	courseQuery string

	width     int
	height    int
	mouse     bool
	showHelp  bool
	status    string
	statusErr bool
}

// Default dimensions until the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 32
)

// NewModel builds the dashboard.
func NewModel(theme Theme, opts ...Option) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Renderer.NewStyle().Foreground(theme.Info).Bold(true)),
	)

	m := Model{
		state:   NewDashboardState(TabCareer),
		theme:   theme,
		panes:   DefaultPanes(theme),
		nav:     SystemNavigator{},
		copyFn:  clipboard.WriteAll,
		spinner: sp,
		body:    viewport.New(defaultWidth, 10),
		help:    help.New(),
		md:      &mdRenderer{},
		width:   defaultWidth,
		height:  defaultHeight,
		mouse:   true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.applyCourseQuery()
	m.resize()
	m.refreshBody(true)
	return m
}

// applyCourseQuery consumes the pending course query once there is data.
func (m *Model) applyCourseQuery() {
	if m.courseQuery == "" || m.state.Phase() != PhaseReady {
		return
	}
	if idx, ok := FindCourse(m.state.Data(), m.courseQuery); ok {
		m.state.Select(idx)
	} else {
		debug.Log("ui: no course matches %q", m.courseQuery)
	}
	m.courseQuery = ""
}

// State returns the dashboard state.
func (m Model) State() DashboardState { return m.state }

// Phase returns the current gate outcome.
func (m Model) Phase() Phase { return m.state.Phase() }

// Status returns the footer status text.
func (m Model) Status() string { return m.status }

// Modal returns the application modal.
func (m Model) Modal() ApplicationModal { return m.modal }

// Stop releases the watcher.
func (m Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.state.Phase() == PhaseLoading {
		cmds = append(cmds, m.spinner.Tick)
	}
	if m.loader != nil {
		cmds = append(cmds, LoadCmd(m.source, m.loader))
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.WaitCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshBody(false)
		return m, nil

	case InsightsLoadedMsg:
		m.applyLoad(msg)
		return m, nil

	case watcher.ChangedMsg:
		debug.Log("ui: %s changed, reloading", msg.Path)
		var cmds []tea.Cmd
		if m.loader != nil {
			cmds = append(cmds, LoadCmd(m.source, m.loader))
		}
		cmds = append(cmds, m.watcher.WaitCmd())
		return m, tea.Batch(cmds...)

	case watcher.ErrorMsg:
		debug.Log("ui: watch %s: %v", msg.Path, msg.Err)
		if errors.Is(msg.Err, watcher.ErrFileRemoved) {
			m.setStatus("Insights file removed: "+msg.Path+" (showing last loaded data)", true)
		} else {
			m.setStatus("Live reload: "+msg.Err.Error(), true)
		}
		return m, m.watcher.WaitCmd()

	case spinner.TickMsg:
		if m.state.Phase() != PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case navigatedMsg:
		if msg.err == nil {
			m.setStatus("Opened "+msg.url, false)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setStatus("Clipboard unavailable: "+msg.err.Error(), true)
		} else {
			m.setStatus("Copied admissions contact to clipboard", false)
			m.modal.SetNote("✓ Contact details copied")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) applyLoad(msg InsightsLoadedMsg) {
	before := m.state.Selected()

	if msg.Err != nil {
		debug.Log("ui: load %s failed: %v", msg.Source, msg.Err)
		m.state.SetError()
		m.setStatus("Error loading insights: "+msg.Err.Error(), true)
	} else {
		m.state.SetInput(msg.Result)
		m.applyCourseQuery()
		switch {
		case len(msg.Warnings) > 0:
			m.setStatus(fmt.Sprintf("Skipped %d malformed record(s)", len(msg.Warnings)), true)
		case m.state.Phase() == PhaseReady:
			m.setStatus(fmt.Sprintf("Loaded %d courses", m.state.Len()), false)
		default:
			m.setStatus("", false)
		}
	}

	if m.state.ModalOpen() {
		if cur, ok := m.state.Current(); ok && cur.Course != m.modal.Course() {
			m.modal = NewApplicationModal(m.theme, cur.Course)
			m.modal.SetSize(m.width, m.height-1)
		}
	}
	m.resize()
	m.refreshBody(before != m.state.Selected())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, keys.Help, keys.CloseModal, keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.state.ModalOpen() {
		if key.Matches(msg, keys.Copy) {
			return m, copyCmd(m.copyFn, ContactText())
		}
		var action ModalAction
		m.modal, action = m.modal.Update(msg)
		return m.runModalAction(action)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil
	}

	if m.state.Phase() != PhaseReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.PrevCourse):
		m.selectCourse(m.state.Selected() - 1)
	case key.Matches(msg, keys.NextCourse):
		m.selectCourse(m.state.Selected() + 1)
	case key.Matches(msg, keys.PickCourse):
		m.selectCourse(int(msg.Runes[0] - '1'))
	case key.Matches(msg, keys.NextTab):
		m.state.NextTab()
		m.refreshBody(true)
	case key.Matches(msg, keys.PrevTab):
		m.state.PrevTab()
		m.refreshBody(true)
	case key.Matches(msg, keys.Career):
		m.setTab(TabCareer)
	case key.Matches(msg, keys.Skills):
		m.setTab(TabSkills)
	case key.Matches(msg, keys.Market):
		m.setTab(TabMarket)
	case key.Matches(msg, keys.ScrollDown):
		m.body.LineDown(1)
	case key.Matches(msg, keys.ScrollUp):
		m.body.LineUp(1)
	case key.Matches(msg, keys.PageDown):
		m.body.LineDown(m.body.Height)
	case key.Matches(msg, keys.PageUp):
		m.body.LineUp(m.body.Height)
	case key.Matches(msg, keys.Apply):
		m.openModal()
	}
	return m, nil
}

func (m *Model) selectCourse(i int) {
	if m.state.Select(i) {
		m.refreshBody(true)
	}
}

func (m *Model) setTab(t Tab) {
	if t != m.state.ActiveTab() && m.state.SetTab(t) {
		m.refreshBody(true)
	}
}

func (m *Model) openModal() {
	if !m.state.OpenModal() {
		return
	}
	cur, _ := m.state.Current()
	m.modal = NewApplicationModal(m.theme, cur.Course)
	m.modal.SetSize(m.width, m.height-1)
}

func (m Model) runModalAction(a ModalAction) (tea.Model, tea.Cmd) {
	switch a {
	case ActionPortal:
		m.modal.SetNote("Opening university portal…")
		return m, navigateCmd(m.nav, PortalURL, true)
	case ActionEmail:
		m.modal.SetNote("Opening mail client…")
		return m, navigateCmd(m.nav, MailtoURL, false)
	case ActionPhone:
		m.modal.SetNote("Calling " + AdmissionsPhone + "…")
		return m, navigateCmd(m.nav, TelURL, false)
	case ActionClose:
		m.state.CloseModal()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.mouse || m.showHelp {
		return m, nil
	}
	ready := m.state.Phase() == PhaseReady && !m.state.ModalOpen()

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		if ready {
			m.body.LineDown(3)
		}
		return m, nil
	case tea.MouseButtonWheelUp:
		if ready {
			m.body.LineUp(3)
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	return m.handleClick(msg.X, msg.Y)
}

func (m Model) handleClick(x, y int) (tea.Model, tea.Cmd) {
	if m.state.ModalOpen() {
		inside, action := m.modal.HitTest(x, y)
		if !inside {
			m.state.CloseModal()
			return m, nil
		}
		return m.runModalAction(action)
	}

	if m.state.Phase() != PhaseReady {
		return m, nil
	}

	l := m.layout()
	for i, r := range l.cards {
		if r.contains(x, y) {
			m.selectCourse(i)
			return m, nil
		}
	}
	for i, r := range l.tabs {
		if r.contains(x, y) {
			m.setTab(Tabs[i])
			return m, nil
		}
	}
	if l.cta.contains(x, y) {
		m.openModal()
	}
	return m, nil
}

// Layout constants, in cells.
const (
	headerLines   = 4
	cardHeight    = 5
	cardGap       = 1
	minCardWidth  = 22
	tabGap        = 2
	minBodyHeight = 3
)

// dashLayout holds the screen rectangles of every clickable element.
type dashLayout struct {
	cards    []rect
	cardRows int
	perRow   int
	cardW    int
	tabs     []rect
	tabsY    int
	bodyY    int
	bodyH    int
	summaryY int
	cta      rect
	footerY  int
}

func (m Model) layout() dashLayout {
	var l dashLayout
	n := m.state.Len()

	l.perRow = clamp((m.width+cardGap)/(minCardWidth+cardGap), 1, max(n, 1))
	l.cardW = (m.width - cardGap*(l.perRow-1)) / l.perRow
	if n > 0 {
		l.cardRows = (n + l.perRow - 1) / l.perRow
	}
	for i := 0; i < n; i++ {
		row, col := i/l.perRow, i%l.perRow
		l.cards = append(l.cards, rect{
			x: col * (l.cardW + cardGap),
			y: headerLines + row*cardHeight,
			w: l.cardW,
			h: cardHeight,
		})
	}

	l.tabsY = headerLines + l.cardRows*cardHeight + 1
	x := 0
	for _, t := range Tabs {
		w := lipgloss.Width(tabText(t))
		l.tabs = append(l.tabs, rect{x: x, y: l.tabsY, w: w, h: 1})
		x += w + tabGap
	}
	l.bodyY = l.tabsY + 2

	l.footerY = m.height - 1
	ctaY := l.footerY - 1
	l.summaryY = ctaY - summaryHeight
	l.bodyH = l.summaryY - 1 - l.bodyY
	if l.bodyH < minBodyHeight {
		l.bodyH = minBodyHeight
		l.summaryY = l.bodyY + l.bodyH + 1
		ctaY = l.summaryY + summaryHeight
		l.footerY = ctaY + 1
	}
	l.cta = rect{x: 0, y: ctaY, w: lipgloss.Width(m.renderCTAButton()), h: 1}
	return l
}

func (m *Model) resize() {
	l := m.layout()
	m.body.Width = m.width
	m.body.Height = l.bodyH
	m.help.Width = m.width
	m.modal.SetSize(m.width, m.height-1)
}

// refreshBody re-renders the active tab and the final recommendation into
// the scrollable body.
func (m *Model) refreshBody(resetScroll bool) {
	cur, ok := m.state.Current()
	if !ok {
		m.body.SetContent("")
		return
	}
	w := m.width - 2
	pane := m.panes.Render(m.state.ActiveTab(), cur, w)
	rec := m.md.render(recommendationMarkdown(cur.Course), w)
	m.body.SetContent(pane + "\n\n" + RenderDivider(w) + "\n" + rec)
	if resetScroll {
		m.body.GotoTop()
	}
}

func tabText(t Tab) string {
	return " " + t.Label() + " "
}

func (m Model) View() string {
	var body string
	switch {
	case m.showHelp:
		body = m.renderHelpOverlay()
	case m.state.Phase() == PhaseLoading:
		body = m.renderLoadingScreen()
	case m.state.Phase() == PhaseEmpty:
		body = m.renderEmptyNotice()
	case m.state.ModalOpen():
		body = m.modal.View()
	default:
		body = m.renderDashboard()
	}

	finalStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)
	screen := lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
	return finalStyle.Render(lipgloss.NewStyle().MaxWidth(m.width).Render(screen))
}

func (m Model) renderLoadingScreen() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.spinner.View(),
		"",
		m.theme.Base.Bold(true).Render("Generating AI insights..."),
	)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderEmptyNotice() string {
	t := m.theme
	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Warning).
		Padding(1, 4).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			t.Renderer.NewStyle().Foreground(t.Warning).Render("⚠"),
			t.Renderer.NewStyle().Foreground(t.Warning).Bold(true).Render("Unable to generate insights"),
			t.MutedText.Render("Please try again with valid course recommendations"),
		))
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelpOverlay() string {
	h := m.help
	h.ShowAll = true
	var view string
	if m.state.ModalOpen() {
		view = h.View(modalKeyMap{keys})
	} else {
		view = h.View(keys)
	}
	box := m.theme.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Keyboard shortcuts"),
		"",
		view,
		"",
		m.theme.MutedText.Render("press ? or esc to close"),
	))
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderDashboard() string {
	t := m.theme
	l := m.layout()

	sections := []string{
		t.Header.Render("🤖 AI-Powered Insights"),
		t.Subtitle.Render(truncate("Comprehensive analysis of your top course recommendations", m.width)),
		"",
		t.Label.Render("SELECT A COURSE TO ANALYZE"),
	}
	sections = append(sections, m.renderCards(l)...)
	sections = append(sections,
		"",
		m.renderTabs(),
		RenderDivider(m.width),
		m.body.View(),
		"",
	)

	if cur, ok := m.state.Current(); ok {
		sections = append(sections, renderSummary(Summarize(cur), m.width, t))
	}
	sections = append(sections, m.renderCTAButton()+t.MutedText.Render("  a / enter"))
	return strings.Join(sections, "\n")
}

func (m Model) renderCards(l dashLayout) []string {
	data := m.state.Data()
	var rows []string
	for start := 0; start < len(l.cards); start += l.perRow {
		end := min(start+l.perRow, len(l.cards))
		var parts []string
		for i := start; i < end; i++ {
			if i > start {
				parts = append(parts, strings.Repeat(" ", cardGap))
			}
			parts = append(parts, m.renderCard(i, data.Analysis[i], l.cardW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return rows
}

func (m Model) renderCard(i int, a insights.CourseAnalysis, w int) string {
	t := m.theme
	selected := i == m.state.Selected()
	style, marker := t.Card, ""
	if selected {
		style, marker = t.SelectedCard, "▶"
	}

	tw := w - 4
	rank := RenderRankBadge(a.Rank, m.state.Len(), t)
	gap := tw - lipgloss.Width(rank) - lipgloss.Width(marker)
	if gap < 1 {
		gap = 1
	}
	lines := []string{
		rank + strings.Repeat(" ", gap) + t.PrimaryBold.Render(marker),
		truncate(singleLine(a.Course), tw),
		t.MutedText.Render("Match: ") + t.Base.Bold(true).Render(insights.FormatMatch(a.MatchScore)),
	}
	return style.Width(w - 2).Height(3).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(Tabs))
	for _, tab := range Tabs {
		style := m.theme.Tab
		if tab == m.state.ActiveTab() {
			style = m.theme.ActiveTab
		}
		parts = append(parts, style.Render(tabText(tab)))
	}
	return strings.Join(parts, strings.Repeat(" ", tabGap))
}

func (m Model) renderCTAButton() string {
	return m.theme.CTA.Render("Start Your Application →")
}

func (m Model) renderFooter() string {
	t := m.theme
	h := m.help
	h.ShowAll = false

	var hints string
	if m.state.ModalOpen() {
		hints = h.View(modalKeyMap{keys})
	} else {
		hints = h.View(keys)
	}

	status := m.status
	if status == "" && m.source != "" && m.state.Phase() != PhaseLoading {
		status = m.source
	}
	room := m.width - lipgloss.Width(hints) - 2
	if room < 0 {
		room = 0
	}
	status = truncate(status, room)
	statusStyle := t.MutedText
	if m.statusErr {
		statusStyle = t.ErrorText
	}

	gap := m.width - lipgloss.Width(status) - lipgloss.Width(hints)
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Render(status) + strings.Repeat(" ", gap) + hints
}
