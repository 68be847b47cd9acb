package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/unimatch/pkg/insights"
	"github.com/vanderheijden86/unimatch/pkg/testutil"
	"github.com/vanderheijden86/unimatch/pkg/watcher"
)

// recordingPanes remembers the last input each tab renderer received.
type recordingPanes struct {
	career *insights.CareerPath
	skills *insights.SkillGapSummary
	market *insights.JobMarketSummary
	calls  []Tab
}

func (r *recordingPanes) RenderCareerPath(cp insights.CareerPath, width int) string {
	r.career = &cp
	r.calls = append(r.calls, TabCareer)
	return "CAREER " + cp.FieldName
}

func (r *recordingPanes) RenderSkillGaps(sg *insights.SkillGapSummary, width int) string {
	r.skills = sg
	r.calls = append(r.calls, TabSkills)
	return "SKILLS " + sg.ReadinessLevel
}

func (r *recordingPanes) RenderJobMarket(jm *insights.JobMarketSummary, width int) string {
	r.market = jm
	r.calls = append(r.calls, TabMarket)
	return "MARKET " + jm.Recommendation
}

func (r *recordingPanes) panes() Panes {
	return Panes{Career: r, Skills: r, Market: r}
}

type fakeNavigator struct {
	mu       sync.Mutex
	opened   []string
	navigate []string
	err      error
}

func (f *fakeNavigator) OpenNew(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, url)
	return f.err
}

func (f *fakeNavigator) Navigate(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigate = append(f.navigate, url)
	return f.err
}

// threeCourses is A, B, C with short titles so cards never truncate.
func threeCourses() *insights.Result {
	g := testutil.New(testutil.GeneratorConfig{Seed: 7, Courses: []string{"Alpha", "Beta", "Gamma"}})
	res := g.Result(3)
	res.Analysis[0].MatchScore = 0.555
	res.Analysis[1].MatchScore = 1
	res.Analysis[2].MatchScore = 0
	res.Analysis[2].JobMarket.GrowthRate = 17
	res.Analysis[2].JobMarket.AlignmentScore = 88.5
	res.Analysis[2].JobMarket.Recommendation = "Gamma outlook"
	return res
}

func newTestModel(t *testing.T, opts ...Option) (Model, *recordingPanes, *fakeNavigator) {
	t.Helper()
	rec := &recordingPanes{}
	nav := &fakeNavigator{}
	base := []Option{
		WithPanes(rec.panes()),
		WithNavigator(nav),
		WithClipboard(func(string) error { return nil }),
	}
	m := NewModel(TestTheme(), append(base, opts...)...)
	m = step(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	return m, rec, nav
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func stepCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func loaded(res *insights.Result) InsightsLoadedMsg {
	return InsightsLoadedMsg{Result: res, Source: "test"}
}

func TestNullThenEmptyRendersNotice(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.Phase() != PhaseLoading {
		t.Fatalf("initial phase = %v", m.Phase())
	}
	if !strings.Contains(m.View(), "Generating AI insights") {
		t.Error("loading view missing placeholder")
	}

	m = step(t, m, loaded(nil))
	if m.Phase() != PhaseLoading {
		t.Errorf("nil input phase = %v, want loading", m.Phase())
	}

	m = step(t, m, loaded(&insights.Result{Analysis: []insights.CourseAnalysis{}}))
	if m.Phase() != PhaseEmpty {
		t.Fatalf("empty analysis phase = %v", m.Phase())
	}
	view := m.View()
	if !strings.Contains(view, "Unable to generate insights") {
		t.Error("empty view missing notice")
	}
	if strings.Contains(view, "Quick Summary") || strings.Contains(view, "Generating AI insights") {
		t.Error("empty view rendered other phases")
	}
}

func TestLoadErrorRendersNotice(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, InsightsLoadedMsg{Err: errors.New("boom"), Source: "api"})
	if m.Phase() != PhaseEmpty {
		t.Fatalf("phase = %v", m.Phase())
	}
	if !strings.Contains(m.Status(), "boom") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestEmptyPhaseIgnoresInteraction(t *testing.T) {
	m, _, nav := newTestModel(t)
	m = step(t, m, loaded(testutil.Empty()))
	for _, k := range []string{"a", "enter", "right", "m"} {
		m = step(t, m, keyMsg(k))
	}
	m = step(t, m, click(2, 5))
	if m.State().ModalOpen() || m.State().Selected() != 0 || m.State().ActiveTab() != TabCareer {
		t.Error("empty phase reacted to input")
	}
	if len(nav.opened)+len(nav.navigate) != 0 {
		t.Error("navigation happened in empty phase")
	}
}

func TestReadyDefaults(t *testing.T) {
	m, rec, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))

	if m.Phase() != PhaseReady {
		t.Fatalf("phase = %v", m.Phase())
	}
	if m.State().ActiveTab() != TabCareer || m.State().Selected() != 0 {
		t.Errorf("tab=%v selected=%d", m.State().ActiveTab(), m.State().Selected())
	}
	if rec.career == nil || rec.career.CurrentLevel != m.State().Data().Analysis[0].CareerPath.CurrentLevel {
		t.Error("career pane not rendered with first course")
	}

	view := m.View()
	for _, want := range []string{"Alpha", "Beta", "Gamma", "#1", "#3", "Match: 56%", "Match: 100%", "Match: 0%", "Start Your Application"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if n := strings.Count(view, "▶"); n != 1 {
		t.Errorf("selected markers = %d, want 1", n)
	}

	sum := Summarize(m.State().Data().Analysis[0])
	if !strings.Contains(view, sum.ReadyLabel()) || !strings.Contains(view, sum.Growth()) {
		t.Error("summary does not show first course values")
	}
}

func TestSelectThenMarketReflectsCourse(t *testing.T) {
	m, rec, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))

	m = step(t, m, keyMsg("3"))
	m = step(t, m, keyMsg("m"))

	if m.State().Selected() != 2 || m.State().ActiveTab() != TabMarket {
		t.Fatalf("selected=%d tab=%v", m.State().Selected(), m.State().ActiveTab())
	}
	if rec.market == nil || rec.market.Recommendation != "Gamma outlook" {
		t.Fatalf("market pane got %+v", rec.market)
	}

	view := m.View()
	if !strings.Contains(view, "MARKET Gamma outlook") {
		t.Error("market pane output not shown")
	}
	if strings.Contains(view, "CAREER ") {
		t.Error("career pane still shown")
	}
	if !strings.Contains(view, "+17%") || !strings.Contains(view, "88.5%") {
		t.Error("summary does not reflect third course")
	}
}

func TestTabPersistsAcrossSelection(t *testing.T) {
	m, rec, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("s"))
	m = step(t, m, keyMsg("right"))

	if m.State().ActiveTab() != TabSkills {
		t.Errorf("tab = %v, want skills", m.State().ActiveTab())
	}
	want := m.State().Data().Analysis[1].SkillGaps
	if rec.skills != want {
		t.Error("skills pane not re-rendered for new course")
	}

	m = step(t, m, keyMsg("tab"))
	if m.State().Selected() != 1 {
		t.Errorf("tab key moved selection to %d", m.State().Selected())
	}
}

func TestSelectionStopsAtEnds(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("left"))
	if m.State().Selected() != 0 {
		t.Errorf("left at start moved to %d", m.State().Selected())
	}
	for i := 0; i < 5; i++ {
		m = step(t, m, keyMsg("right"))
	}
	if m.State().Selected() != 2 {
		t.Errorf("right past end = %d", m.State().Selected())
	}
	m = step(t, m, keyMsg("9"))
	if m.State().Selected() != 2 {
		t.Errorf("pick out of range moved to %d", m.State().Selected())
	}
}

func TestClickCardsAndTabs(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	l := m.layout()
	if len(l.cards) != 3 || len(l.tabs) != 3 {
		t.Fatalf("layout cards=%d tabs=%d", len(l.cards), len(l.tabs))
	}

	c := l.cards[1]
	m = step(t, m, click(c.x+2, c.y+2))
	if m.State().Selected() != 1 {
		t.Errorf("card click selected %d", m.State().Selected())
	}

	tab := l.tabs[TabMarket]
	m = step(t, m, click(tab.x+1, tab.y))
	if m.State().ActiveTab() != TabMarket {
		t.Errorf("tab click activated %v", m.State().ActiveTab())
	}
	if m.State().Selected() != 1 {
		t.Error("tab click changed selection")
	}
}

func TestCardRowsMatchRenderedView(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	l := m.layout()
	lines := strings.Split(m.View(), "\n")

	if !strings.Contains(lines[l.cards[0].y+1], "#1") {
		t.Errorf("card rank not on row %d: %q", l.cards[0].y+1, lines[l.cards[0].y+1])
	}
	if !strings.Contains(lines[l.tabsY], "Career") {
		t.Errorf("tab bar not on row %d: %q", l.tabsY, lines[l.tabsY])
	}
	if !strings.Contains(lines[l.cta.y], "Start Your Application") {
		t.Errorf("CTA not on row %d: %q", l.cta.y, lines[l.cta.y])
	}
	if len(lines) != 50 {
		t.Errorf("view height = %d, want 50", len(lines))
	}
}

func TestModalOpenAndClose(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("2"))

	cta := m.layout().cta
	m = step(t, m, click(cta.x+1, cta.y))
	if !m.State().ModalOpen() {
		t.Fatal("CTA click did not open modal")
	}
	if m.Modal().Course() != "Beta" {
		t.Errorf("modal course = %q", m.Modal().Course())
	}
	if !strings.Contains(m.View(), "Beta") {
		t.Error("modal view missing selected course")
	}

	m = step(t, m, keyMsg("esc"))
	if m.State().ModalOpen() {
		t.Error("esc did not close modal")
	}

	m = step(t, m, keyMsg("a"))
	if !m.State().ModalOpen() {
		t.Fatal("a did not open modal")
	}
}

func TestModalPanelClickKeepsOpenOverlayCloses(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("a"))

	panel, _ := m.modal.renderPanel()
	r := m.modal.geometry(panel)

	// Title row, away from the close glyph.
	m = step(t, m, click(r.x+4, r.y+2))
	if !m.State().ModalOpen() {
		t.Fatal("click inside panel closed modal")
	}
	// Border.
	m = step(t, m, click(r.x, r.y))
	if !m.State().ModalOpen() {
		t.Fatal("click on panel border closed modal")
	}

	m = step(t, m, click(0, 0))
	if m.State().ModalOpen() {
		t.Error("overlay click did not close modal")
	}
}

func TestModalCloseGlyph(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("a"))

	panel, _ := m.modal.renderPanel()
	r := m.modal.geometry(panel)
	x := r.x + 3 + m.modal.innerWidth() - 1
	m = step(t, m, click(x, r.y+2))
	if m.State().ModalOpen() {
		t.Error("close glyph did not close modal")
	}
}

func TestModalNavigationKeepsModalOpen(t *testing.T) {
	m, _, nav := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("a"))

	for _, k := range []string{"o", "e", "p"} {
		var cmd tea.Cmd
		m, cmd = stepCmd(t, m, keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s produced no command", k)
		}
		m = step(t, m, cmd())
		if !m.State().ModalOpen() {
			t.Fatalf("%s closed the modal", k)
		}
	}

	if len(nav.opened) != 1 || nav.opened[0] != PortalURL {
		t.Errorf("opened = %v", nav.opened)
	}
	if len(nav.navigate) != 2 || nav.navigate[0] != MailtoURL || nav.navigate[1] != TelURL {
		t.Errorf("navigate = %v", nav.navigate)
	}
	if !strings.HasPrefix(MailtoURL, "mailto:") || !strings.HasPrefix(TelURL, "tel:") {
		t.Errorf("bad link schemes %q %q", MailtoURL, TelURL)
	}
}

func TestModalNavigationFailureIsSilent(t *testing.T) {
	m, _, nav := newTestModel(t)
	nav.err = errors.New("no browser")
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("a"))
	m = step(t, m, loaded(threeCourses()))

	m, cmd := stepCmd(t, m, keyMsg("o"))
	m = step(t, m, cmd())
	if !m.State().ModalOpen() {
		t.Error("failed navigation closed modal")
	}
	if strings.Contains(m.Status(), "no browser") {
		t.Error("navigation failure surfaced in status")
	}
}

func TestModalCopyContact(t *testing.T) {
	var copied string
	m, _, _ := newTestModel(t, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("a"))

	m, cmd := stepCmd(t, m, keyMsg("y"))
	m = step(t, m, cmd())
	if copied != ContactText() {
		t.Errorf("copied %q", copied)
	}
	if !m.State().ModalOpen() {
		t.Error("copy closed modal")
	}
}

func TestModalCloseButtonByKeyboard(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("a"))
	for i := 0; i < 3; i++ {
		m = step(t, m, keyMsg("down"))
	}
	if m.Modal().Focused() != ActionClose {
		t.Fatalf("focus = %v", m.Modal().Focused())
	}
	m = step(t, m, keyMsg("enter"))
	if m.State().ModalOpen() {
		t.Error("Close button did not close modal")
	}
}

func TestReloadKeepsSelectionAndTab(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("2"))
	m = step(t, m, keyMsg("m"))

	m = step(t, m, loaded(threeCourses()))
	if m.State().Selected() != 1 || m.State().ActiveTab() != TabMarket {
		t.Errorf("reload reset state: selected=%d tab=%v", m.State().Selected(), m.State().ActiveTab())
	}

	m = step(t, m, loaded(nil))
	if m.Phase() != PhaseEmpty {
		t.Errorf("nil after ready = %v, want empty", m.Phase())
	}
}

func TestLoadCmdSanitizes(t *testing.T) {
	res := threeCourses()
	res.Analysis[1].SkillGaps = nil

	msg := LoadCmd("test", func() (*insights.Result, error) { return res, nil })()
	got, ok := msg.(InsightsLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if got.Result.Len() != 2 || len(got.Warnings) != 1 {
		t.Fatalf("len=%d warnings=%v", got.Result.Len(), got.Warnings)
	}

	m, _, _ := newTestModel(t)
	m = step(t, m, got)
	if !strings.Contains(m.Status(), "Skipped 1") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestInitWithLoader(t *testing.T) {
	m := NewModel(TestTheme(), WithLoader("fixture", func() (*insights.Result, error) {
		return testutil.QuickResult(2), nil
	}))
	if m.Init() == nil {
		t.Fatal("Init returned nil with a loader")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, keyMsg("?"))
	if !strings.Contains(m.View(), "Keyboard shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m = step(t, m, keyMsg("right"))
	if m.State().Selected() != 0 {
		t.Error("keys leaked through help overlay")
	}
	m = step(t, m, keyMsg("esc"))
	if strings.Contains(m.View(), "Keyboard shortcuts") {
		t.Error("help overlay not closed")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := stepCmd(t, m, keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestMouseDisabled(t *testing.T) {
	m, _, _ := newTestModel(t, WithMouse(false))
	m = step(t, m, loaded(threeCourses()))
	c := m.layout().cards[2]
	m = step(t, m, click(c.x+2, c.y+2))
	if m.State().Selected() != 0 {
		t.Error("click handled with mouse disabled")
	}
}

func TestDefaultTabOption(t *testing.T) {
	m, _, _ := newTestModel(t, WithResult(threeCourses()), WithDefaultTab(TabSkills))
	if m.Phase() != PhaseReady || m.State().ActiveTab() != TabSkills {
		t.Errorf("phase=%v tab=%v", m.Phase(), m.State().ActiveTab())
	}
}

func TestNarrowTerminalWrapsCards(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(testutil.QuickResult(6)))
	m = step(t, m, tea.WindowSizeMsg{Width: 50, Height: 40})
	l := m.layout()
	if l.cardRows < 2 {
		t.Fatalf("cardRows = %d, want wrap", l.cardRows)
	}
	last := l.cards[5]
	m = step(t, m, click(last.x+1, last.y+1))
	if m.State().Selected() != 5 {
		t.Errorf("selected = %d", m.State().Selected())
	}
}

func TestCourseQueryAppliesOnFirstLoadOnly(t *testing.T) {
	m, _, _ := newTestModel(t, WithCourseQuery("gam"))
	m = step(t, m, loaded(threeCourses()))
	if m.State().Selected() != 2 {
		t.Fatalf("selected = %d, want 2 (Gamma)", m.State().Selected())
	}

	m = step(t, m, keyMsg("left"))
	m = step(t, m, loaded(threeCourses()))
	if m.State().Selected() != 1 {
		t.Errorf("reload re-applied the query: selected = %d", m.State().Selected())
	}
}

func TestCourseQueryWithResult(t *testing.T) {
	m, _, _ := newTestModel(t, WithResult(threeCourses()), WithCourseQuery("beta"))
	if m.State().Selected() != 1 {
		t.Errorf("selected = %d, want 1 (Beta)", m.State().Selected())
	}
}

func TestWatchedFileRemovalShowsStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")
	if err := os.WriteFile(path, []byte(testutil.ToJSON(threeCourses())), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := watcher.New(path,
		watcher.WithForcePoll(true),
		watcher.WithPollInterval(20*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	load := func() (*insights.Result, error) { return insights.LoadFile(path) }
	m, _, _ := newTestModel(t, WithLoader(path, load), WithWatcher(w))
	m = step(t, m, LoadCmd(path, load)())
	if m.Phase() != PhaseReady {
		t.Fatalf("phase = %v", m.Phase())
	}

	time.Sleep(50 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	ch := make(chan tea.Msg, 1)
	wait := w.WaitCmd()
	go func() { ch <- wait() }()
	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("removal never reached the dashboard")
	}
	if _, ok := msg.(watcher.ErrorMsg); !ok {
		t.Fatalf("msg = %T, want watcher.ErrorMsg", msg)
	}

	m, cmd := stepCmd(t, m, msg)
	if !strings.Contains(m.Status(), "Insights file removed") {
		t.Errorf("status = %q", m.Status())
	}
	if !strings.Contains(m.View(), "Insights file removed") {
		t.Error("footer does not show the removal")
	}
	if m.Phase() != PhaseReady || m.State().Len() != 3 {
		t.Errorf("last data should stay visible: phase=%v len=%d", m.Phase(), m.State().Len())
	}
	if cmd == nil {
		t.Error("watch should be re-armed after an error")
	}
}

func TestWatchErrorStatus(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(threeCourses()))
	m = step(t, m, watcher.ErrorMsg{Path: "/x.json", Err: errors.New("too many open files")})
	if m.Status() != "Live reload: too many open files" {
		t.Errorf("status = %q", m.Status())
	}
}

func TestMultilineTitleKeepsCardGeometry(t *testing.T) {
	res := threeCourses()
	res.Analysis[0].Course = "Alpha\nwith\ttabs\nand lines"
	m, _, _ := newTestModel(t)
	m = step(t, m, loaded(res))

	view := m.View()
	if !strings.Contains(view, "Alpha with tabs and lines") {
		t.Errorf("title not collapsed onto one line:\n%s", view)
	}

	// The tab bar still sits where layout() says, so clicks stay aligned.
	l := m.layout()
	lines := strings.Split(view, "\n")
	if !strings.Contains(lines[l.tabsY], "Career Path") {
		t.Errorf("line %d = %q, want the tab bar", l.tabsY, lines[l.tabsY])
	}
	m = step(t, m, click(l.tabs[2].x+1, l.tabsY))
	if m.State().ActiveTab() != TabMarket {
		t.Errorf("tab click missed: %v", m.State().ActiveTab())
	}
}
