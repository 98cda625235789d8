package scoring

// ScoreResult is the live scoring output for one snapshot.
type ScoreResult struct {
	FinancialScore float64 `json:"financial_score"`
	UtilityScore   float64 `json:"utility_score"`
	RiskScore      float64 `json:"risk_score"`
	DecisionScore  int     `json:"decision_score"`
	Verdict        string  `json:"verdict"`
}

// Decision is everything derived from one ItemInputs snapshot.
type Decision struct {
	Costs       Costs             `json:"costs"`
	Score       ScoreResult       `json:"score"`
	Sensitivity SensitivityResult `json:"sensitivity"`
	Pillars     []FactorResult    `json:"pillars"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// ComputeDecision runs the full pipeline: presets, costs, pillars, aggregate,
// verdict and sensitivity. It is pure and safe for concurrent use.
func ComputeDecision(in ItemInputs) Decision {
	costs := ComputeCosts(in)
	basis := CostBasis{
		StickerCost:   costs.StickerCost,
		Offset:        costs.ResaleOffset,
		EffectiveCost: costs.EffectiveCost,
		CostPerUse:    costs.CostPerUse,
	}

	pillars := []FactorResult{
		{Name: PillarFinancial, Score: FinancialScore(in, basis), Weight: in.Weights.Financial},
		{Name: PillarUtility, Score: UtilityScore(in, basis), Weight: in.Weights.Utility},
		{Name: PillarRisk, Score: RiskScore(in), Weight: in.Weights.Risk},
	}
	for i := range pillars {
		pillars[i].Weighted = pillars[i].Score * pillars[i].Weight
	}

	score := ScoreResult{
		FinancialScore: pillars[0].Score,
		UtilityScore:   pillars[1].Score,
		RiskScore:      pillars[2].Score,
	}
	score.DecisionScore = Aggregate(in.Weights, score.FinancialScore, score.UtilityScore, score.RiskScore)
	score.Verdict = VerdictFor(score.DecisionScore)

	d := Decision{
		Costs:       costs,
		Score:       score,
		Sensitivity: Sensitivity(in, costs, score),
		Pillars:     pillars,
	}
	if err := in.Weights.Validate(); err != nil {
		d.Warnings = append(d.Warnings, err.Error())
	}
	return d
}
