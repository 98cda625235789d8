package scoring

// SensitivityResult holds decision scores under counterfactual assumptions.
// WaitSale is nil unless wait-for-sale is enabled.
type SensitivityResult struct {
	Current    int  `json:"current"`
	NoResale   int  `json:"no_resale"`
	BestResale int  `json:"best_resale"`
	WaitSale   *int `json:"wait_sale,omitempty"`
}

// scenarioScorer re-scores the live inputs with a substituted sticker cost and
// offset. Risk is carried over because it does not depend on either.
type scenarioScorer struct {
	in   ItemInputs
	uses float64
	risk float64
}

func (s scenarioScorer) scoreFor(stickerCost, offset float64) int {
	effective := EffectiveCost(stickerCost, offset)
	b := CostBasis{
		StickerCost:   stickerCost,
		Offset:        offset,
		EffectiveCost: effective,
		CostPerUse:    effective / s.uses,
	}
	return Aggregate(s.in.Weights, FinancialScore(s.in, b), UtilityScore(s.in, b), s.risk)
}

// Sensitivity computes the what-if scores for in given its live costs and
// score. The wait scenario varies only the sticker price and keeps the live
// resale offset.
func Sensitivity(in ItemInputs, costs Costs, live ScoreResult) SensitivityResult {
	s := scenarioScorer{in: in, uses: costs.TotalExpectedUses, risk: live.RiskScore}

	res := SensitivityResult{
		Current:    live.DecisionScore,
		NoResale:   s.scoreFor(costs.StickerCost, 0),
		BestResale: s.scoreFor(costs.StickerCost, costs.BestOffset),
	}
	if in.WaitForSale {
		sticker := StickerCostAtDiscount(in.Price, in.TaxRatePct, in.TargetDiscountPct)
		wait := s.scoreFor(sticker, costs.ResaleOffset)
		res.WaitSale = &wait
	}
	return res
}
