package insights

import (
	"fmt"
	"math"
	"strconv"
)

// MatchPercent converts a 0..1 match score to a whole percentage.
// Rounding is half away from zero on the float product, so 0.555 -> 56.
func MatchPercent(score float64) int {
	return int(math.Round(score * 100))
}

// ReadinessPercent rounds a 0..100 readiness score.
func ReadinessPercent(score float64) int {
	return int(math.Round(score))
}

// FormatMatch renders a match score as "56%".
func FormatMatch(score float64) string {
	return fmt.Sprintf("%d%%", MatchPercent(score))
}

// FormatPercent renders an already-scaled percentage with the shortest
// exact representation: 78.4 -> "78.4%", 12 -> "12%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// FormatGrowth renders a growth rate as "+12%".
func FormatGrowth(rate float64) string {
	return "+" + FormatPercent(rate)
}

// FormatSalaryRange renders "40k-60k" style salary bands.
func FormatSalaryRange(lo, hi float64) string {
	return compactAmount(lo) + "-" + compactAmount(hi)
}

func compactAmount(v float64) string {
	switch {
	case v >= 1_000_000:
		return strconv.FormatFloat(v/1_000_000, 'f', -1, 64) + "M"
	case v >= 1_000:
		return strconv.FormatFloat(v/1_000, 'f', -1, 64) + "k"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
