package ui

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/unimatch/pkg/insights"
	"github.com/vanderheijden86/unimatch/pkg/testutil"
)

func TestDashboardStatePhases(t *testing.T) {
	s := NewDashboardState(TabCareer)
	if got := s.Phase(); got != PhaseLoading {
		t.Fatalf("mount phase = %v, want loading", got)
	}

	s.SetInput(nil)
	if got := s.Phase(); got != PhaseLoading {
		t.Errorf("nil before resolution = %v, want loading", got)
	}

	s.SetInput(&insights.Result{})
	if got := s.Phase(); got != PhaseEmpty {
		t.Errorf("empty analysis = %v, want empty", got)
	}

	s.SetInput(testutil.QuickResult(2))
	if got := s.Phase(); got != PhaseReady {
		t.Errorf("two records = %v, want ready", got)
	}

	s.SetInput(nil)
	if got := s.Phase(); got != PhaseEmpty {
		t.Errorf("nil after resolution = %v, want empty", got)
	}
}

func TestDashboardStateErrorResolvesEmpty(t *testing.T) {
	s := NewDashboardState(TabCareer)
	s.SetError()
	if got := s.Phase(); got != PhaseEmpty {
		t.Fatalf("phase after error = %v, want empty", got)
	}
	if s.OpenModal() {
		t.Error("modal opened outside ready")
	}
}

func TestDashboardStateSelectionClampsOnShrink(t *testing.T) {
	s := NewDashboardState(TabSkills)
	s.SetInput(testutil.QuickResult(5))
	s.Select(4)

	s.SetInput(testutil.QuickResult(2))
	if s.Selected() != 1 {
		t.Errorf("selected = %d, want 1", s.Selected())
	}
	if s.ActiveTab() != TabSkills {
		t.Errorf("tab changed to %v", s.ActiveTab())
	}
}

func TestDashboardStateModalClosesWhenDataVanishes(t *testing.T) {
	s := NewDashboardState(TabCareer)
	s.SetInput(testutil.QuickResult(3))
	if !s.OpenModal() {
		t.Fatal("OpenModal failed while ready")
	}
	s.SetInput(&insights.Result{})
	if s.ModalOpen() {
		t.Error("modal still open after data emptied")
	}
}

func TestDashboardStateSelectOutOfRange(t *testing.T) {
	s := NewDashboardState(TabCareer)
	s.SetInput(testutil.QuickResult(3))
	s.Select(1)
	for _, i := range []int{-1, 3, 99} {
		if s.Select(i) {
			t.Errorf("Select(%d) accepted", i)
		}
	}
	if s.Selected() != 1 {
		t.Errorf("selected = %d, want 1", s.Selected())
	}
}

func TestTabCycling(t *testing.T) {
	s := NewDashboardState(TabMarket)
	s.NextTab()
	if s.ActiveTab() != TabCareer {
		t.Errorf("next after market = %v", s.ActiveTab())
	}
	s.PrevTab()
	if s.ActiveTab() != TabMarket {
		t.Errorf("prev after career = %v", s.ActiveTab())
	}
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in   string
		want Tab
		ok   bool
	}{
		{"career", TabCareer, true},
		{"Skills", TabSkills, true},
		{"market", TabMarket, true},
		{"history", TabCareer, false},
	}
	for _, tt := range tests {
		got, ok := ParseTab(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseTab(%q) = %v, %v", tt.in, got, ok)
		}
	}
}

// Operations drawn at random must keep the selection in range and the
// modal closed outside the ready phase.
func TestDashboardStateInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewDashboardState(Tab(rapid.IntRange(0, 2).Draw(rt, "tab")))
		steps := rapid.IntRange(1, 60).Draw(rt, "steps")

		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 7).Draw(rt, "op") {
			case 0:
				n := rapid.IntRange(0, 8).Draw(rt, "n")
				s.SetInput(testutil.QuickResult(n))
			case 1:
				s.SetInput(nil)
			case 2:
				s.Select(rapid.IntRange(-2, 10).Draw(rt, "idx"))
			case 3:
				s.SelectNext()
			case 4:
				s.SelectPrev()
			case 5:
				s.NextTab()
			case 6:
				s.OpenModal()
			case 7:
				s.CloseModal()
			}

			if n := s.Len(); n > 0 {
				if s.Selected() < 0 || s.Selected() >= n {
					rt.Fatalf("selected %d out of range [0,%d)", s.Selected(), n)
				}
			} else if s.Selected() != 0 {
				rt.Fatalf("selected %d with no data", s.Selected())
			}
			if s.ModalOpen() && s.Phase() != PhaseReady {
				rt.Fatalf("modal open in phase %v", s.Phase())
			}
			if s.ActiveTab() < 0 || s.ActiveTab() >= tabCount {
				rt.Fatalf("tab %d out of range", s.ActiveTab())
			}
		}
	})
}

// Switching tabs never moves the selection and selecting never moves the
// tab.
func TestTabAndSelectionIndependent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewDashboardState(TabCareer)
		s.SetInput(testutil.QuickResult(rapid.IntRange(1, 6).Draw(rt, "n")))
		s.Select(rapid.IntRange(0, 5).Draw(rt, "sel"))

		sel := s.Selected()
		s.SetTab(Tab(rapid.IntRange(0, 2).Draw(rt, "tab")))
		if s.Selected() != sel {
			rt.Fatalf("tab change moved selection %d -> %d", sel, s.Selected())
		}

		tab := s.ActiveTab()
		s.Select(rapid.IntRange(0, 5).Draw(rt, "sel2"))
		if s.ActiveTab() != tab {
			rt.Fatalf("selection moved tab %v -> %v", tab, s.ActiveTab())
		}
	})
}
