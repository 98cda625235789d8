package scoring

import "math"

// FactorResult captures one pillar's contribution to the decision score.
type FactorResult struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

const (
	PillarFinancial = "financial"
	PillarUtility   = "utility"
	PillarRisk      = "risk"
)

// CostBasis is the price-dependent part of the inputs to the pillar
// calculators. Sensitivity scenarios swap it out while reusing ItemInputs.
type CostBasis struct {
	StickerCost   float64
	Offset        float64
	EffectiveCost float64
	CostPerUse    float64
}

// --- Pillar calculators ---

// FinancialScore blends affordability, usage, price drag and resale/per-use
// bonuses.
func FinancialScore(in ItemInputs, b CostBasis) float64 {
	affordability := clampScore(100 - in.BudgetImpact*10)
	usage := clampScore(in.UseFrequency*8 + in.Longevity*4)
	priceDrag := clampScore(100 - (b.EffectiveCost/math.Max(1, in.Price))*50)

	resaleBonus := 0.0
	if in.AggressiveResale {
		resaleBonus = clampScore(b.Offset/math.Max(1, b.StickerCost)*100) * 0.2
	}

	var cpuBonus float64
	switch {
	case b.CostPerUse < 1:
		cpuBonus = 8
	case b.CostPerUse < 3:
		cpuBonus = 5
	}

	return clampScore(0.43*affordability + 0.32*usage + 0.20*priceDrag + resaleBonus + cpuBonus)
}

// UtilityScore blends need, frequency and joy. Work use and aggressive resale
// add flat nudges.
func UtilityScore(in ItemInputs, b CostBasis) float64 {
	need := in.NeedLevel * 10
	joy := in.JoyScore * 10
	freq := in.UseFrequency * 8

	work := 0.0
	if in.WorkRelated {
		work = 10
	}
	nudge := 0.0
	if in.AggressiveResale {
		nudge = math.Min(10, b.Offset/math.Max(1, b.StickerCost)*50)
	}

	return clampScore(0.40*need + 0.35*freq + 0.25*joy + work + nudge)
}

// RiskScore rates returns, warranty, fit, alternatives and urgency, less the
// clutter penalty for keeping the old item. It does not depend on price.
func RiskScore(in ItemInputs) float64 {
	returns := in.ReturnPolicy * 10
	warr := in.Warranty * 8
	space := in.SpaceFit * 8
	alt := 100 - in.AltAvailable*7
	urg := in.Urgency * 6

	clutter := 0.0
	if in.KeepOldItem {
		clutter = in.MinimalismStrength
	}

	return clampScore(0.30*returns + 0.25*warr + 0.25*space + 0.10*alt + 0.10*urg - clutter)
}

func clampScore(v float64) float64 {
	return clamp(v, 0, 100)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
