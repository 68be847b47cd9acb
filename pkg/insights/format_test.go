package insights

import (
	"strconv"
	"testing"

	"pgregory.net/rapid"
)

func TestFormatMatch(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "0%"},
		{1, "100%"},
		{0.555, "56%"},
		{0.5, "50%"},
		{0.004, "0%"},
		{0.874, "87%"},
	}
	for _, tt := range tests {
		if got := FormatMatch(tt.score); got != tt.want {
			t.Errorf("FormatMatch(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestReadinessPercent(t *testing.T) {
	if got := ReadinessPercent(72.5); got != 73 {
		t.Errorf("ReadinessPercent(72.5) = %d, want 73", got)
	}
	if got := ReadinessPercent(0); got != 0 {
		t.Errorf("ReadinessPercent(0) = %d, want 0", got)
	}
}

func TestFormatGrowthAndPercent(t *testing.T) {
	if got := FormatGrowth(12); got != "+12%" {
		t.Errorf("FormatGrowth(12) = %q", got)
	}
	if got := FormatGrowth(7.5); got != "+7.5%" {
		t.Errorf("FormatGrowth(7.5) = %q", got)
	}
	if got := FormatPercent(84.2); got != "84.2%" {
		t.Errorf("FormatPercent(84.2) = %q", got)
	}
}

func TestFormatSalaryRange(t *testing.T) {
	tests := []struct {
		lo, hi float64
		want   string
	}{
		{40000, 60000, "40k-60k"},
		{1500, 2500, "1.5k-2.5k"},
		{500, 900, "500-900"},
		{1_000_000, 2_000_000, "1M-2M"},
	}
	for _, tt := range tests {
		if got := FormatSalaryRange(tt.lo, tt.hi); got != tt.want {
			t.Errorf("FormatSalaryRange(%v, %v) = %q, want %q", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestMatchPercentBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		score := rapid.Float64Range(0, 1).Draw(t, "score")
		pct := MatchPercent(score)
		if pct < 0 || pct > 100 {
			t.Fatalf("MatchPercent(%v) = %d", score, pct)
		}
		if got := FormatMatch(score); got != strconv.Itoa(pct)+"%" {
			t.Fatalf("FormatMatch(%v) = %q, want %d%%", score, got, pct)
		}
	})
}
