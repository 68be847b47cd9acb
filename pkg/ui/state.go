package ui

import (
	"strings"

	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// Tab identifies one of the three analysis views.
type Tab int

const (
	TabCareer Tab = iota
	TabSkills
	TabMarket
	tabCount
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabCareer, TabSkills, TabMarket}

func (t Tab) String() string {
	switch t {
	case TabCareer:
		return "career"
	case TabSkills:
		return "skills"
	case TabMarket:
		return "market"
	default:
		return "unknown"
	}
}

// Label is the tab's title in the tab bar.
func (t Tab) Label() string {
	switch t {
	case TabCareer:
		return "🚀 Career Path"
	case TabSkills:
		return "🎓 Skill Gaps"
	case TabMarket:
		return "📊 Job Market"
	default:
		return "?"
	}
}

// ParseTab converts "career", "skills" or "market" to a Tab, ignoring case.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if strings.EqualFold(t.String(), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return TabCareer, false
}

// Phase is the readiness gate outcome.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseEmpty
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseEmpty:
		return "empty"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// DashboardState is the dashboard's local view state. The phase is never
// stored; it is derived from the current input and whether any input has
// been observed.
type DashboardState struct {
	data      *insights.Result
	resolved  bool
	selected  int
	tab       Tab
	modalOpen bool
}

// NewDashboardState returns the mount-time state: nothing observed,
// first course, the given tab, modal closed.
func NewDashboardState(tab Tab) DashboardState {
	if tab < 0 || tab >= tabCount {
		tab = TabCareer
	}
	return DashboardState{tab: tab}
}

// SetInput applies a new insights value. A nil value before anything has
// been observed keeps the gate in Loading; once resolved it never goes
// back.
func (s *DashboardState) SetInput(res *insights.Result) {
	s.data = res
	if res != nil {
		s.resolved = true
	}
	s.normalize()
}

// SetError records a failed load. The gate resolves to Empty.
func (s *DashboardState) SetError() {
	s.data = nil
	s.resolved = true
	s.normalize()
}

func (s *DashboardState) normalize() {
	if n := s.data.Len(); n > 0 {
		s.selected = clamp(s.selected, 0, n-1)
	} else {
		s.selected = 0
	}
	if s.Phase() != PhaseReady {
		s.modalOpen = false
	}
}

// Phase derives the gate outcome.
func (s DashboardState) Phase() Phase {
	switch {
	case s.data.HasAnalysis():
		return PhaseReady
	case !s.resolved:
		return PhaseLoading
	default:
		return PhaseEmpty
	}
}

// Data returns the current input, possibly nil.
func (s DashboardState) Data() *insights.Result { return s.data }

// Len is the number of analysis records.
func (s DashboardState) Len() int { return s.data.Len() }

// Selected returns the selected course index.
func (s DashboardState) Selected() int { return s.selected }

// ActiveTab returns the active tab.
func (s DashboardState) ActiveTab() Tab { return s.tab }

// ModalOpen reports whether the application modal is open.
func (s DashboardState) ModalOpen() bool { return s.modalOpen }

// Current returns analysis[selected]. ok is false outside PhaseReady.
func (s DashboardState) Current() (insights.CourseAnalysis, bool) {
	if !s.data.HasAnalysis() {
		return insights.CourseAnalysis{}, false
	}
	return s.data.Analysis[s.selected], true
}

// Select moves the selection to i. Out-of-range requests are ignored.
func (s *DashboardState) Select(i int) bool {
	if i < 0 || i >= s.data.Len() {
		return false
	}
	s.selected = i
	return true
}

// SelectNext moves one course right, stopping at the last.
func (s *DashboardState) SelectNext() bool { return s.Select(s.selected + 1) }

// SelectPrev moves one course left, stopping at the first.
func (s *DashboardState) SelectPrev() bool { return s.Select(s.selected - 1) }

// SetTab activates t. Unknown tabs are ignored.
func (s *DashboardState) SetTab(t Tab) bool {
	if t < 0 || t >= tabCount {
		return false
	}
	s.tab = t
	return true
}

// NextTab cycles forward through the tabs.
func (s *DashboardState) NextTab() { s.tab = (s.tab + 1) % tabCount }

// PrevTab cycles backward through the tabs.
func (s *DashboardState) PrevTab() { s.tab = (s.tab + tabCount - 1) % tabCount }

// OpenModal opens the application modal. Only possible when Ready.
func (s *DashboardState) OpenModal() bool {
	if s.Phase() != PhaseReady {
		return false
	}
	s.modalOpen = true
	return true
}

// CloseModal closes the application modal.
func (s *DashboardState) CloseModal() { s.modalOpen = false }
