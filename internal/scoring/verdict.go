package scoring

import "math"

// Verdict labels, best first.
const (
	VerdictBuy     = "Buy"
	VerdictLeanBuy = "Lean Buy (watch price)"
	VerdictWait    = "Wait / Re-evaluate"
	VerdictSkip    = "Skip for now"
)

// Aggregate combines pillar scores into the rounded decision score.
func Aggregate(w WeightSet, financial, utility, risk float64) int {
	return roundScore(w.Financial*financial + w.Utility*utility + w.Risk*risk)
}

// roundScore clamps v to [0,100] and rounds half away from zero. NaN maps to 0.
func roundScore(v float64) int {
	v = clampScore(v)
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(v))
}

// VerdictFor maps a decision score to its verdict label. Bands include their
// lower bound.
func VerdictFor(score int) string {
	switch {
	case score >= 80:
		return VerdictBuy
	case score >= 65:
		return VerdictLeanBuy
	case score >= 50:
		return VerdictWait
	default:
		return VerdictSkip
	}
}
