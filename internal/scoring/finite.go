package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is returned by CheckFinite when a derived figure overflowed.
var ErrNonFinite = errors.New("non-finite result")

type namedFigure struct {
	name  string
	value float64
}

// CheckFinite reports the first NaN or infinite figure in d. Finite inputs
// can still overflow, e.g. a price near math.MaxFloat64 with tax applied.
func (d Decision) CheckFinite() error {
	c := d.Costs
	figures := []namedFigure{
		{"sticker_cost", c.StickerCost},
		{"adjusted_probability_pct", c.AdjustedProbabilityPct},
		{"adjusted_hours", c.AdjustedHours},
		{"adjusted_sale_price", c.AdjustedSalePrice},
		{"resale_offset", c.ResaleOffset},
		{"best_offset", c.BestOffset},
		{"effective_cost", c.EffectiveCost},
		{"total_expected_uses", c.TotalExpectedUses},
		{"cost_per_use", c.CostPerUse},
		{"financial_score", d.Score.FinancialScore},
		{"utility_score", d.Score.UtilityScore},
		{"risk_score", d.Score.RiskScore},
	}
	if c.WaitStickerCost != nil {
		figures = append(figures, namedFigure{"wait_sticker_cost", *c.WaitStickerCost})
	}
	for _, p := range d.Pillars {
		figures = append(figures,
			namedFigure{p.Name + ".score", p.Score},
			namedFigure{p.Name + ".weight", p.Weight},
			namedFigure{p.Name + ".weighted", p.Weighted},
		)
	}

	for _, f := range figures {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, f.name)
		}
	}
	return nil
}
