package scoring

import "math"

// WeeksPerMonth approximates the average number of weeks in a month.
const WeeksPerMonth = 4.33

// Costs holds the derived money figures for one computation.
type Costs struct {
	StickerCost            float64  `json:"sticker_cost"`
	AdjustedProbabilityPct float64  `json:"adjusted_probability_pct"`
	AdjustedHours          float64  `json:"adjusted_hours"`
	AdjustedSalePrice      float64  `json:"adjusted_sale_price"`
	ResaleOffset           float64  `json:"resale_offset"`
	BestOffset             float64  `json:"best_offset"`
	EffectiveCost          float64  `json:"effective_cost"`
	TotalExpectedUses      float64  `json:"total_expected_uses"`
	CostPerUse             float64  `json:"cost_per_use"`
	WaitStickerCost        *float64 `json:"wait_sticker_cost,omitempty"`
}

// StickerCost is price plus tax. Negative prices propagate unchanged.
func StickerCost(price, taxRatePct float64) float64 {
	return price + price*taxRatePct/100
}

// StickerCostAtDiscount is the sticker cost of price reduced by discountPct.
func StickerCostAtDiscount(price, taxRatePct, discountPct float64) float64 {
	discounted := price * (1 - discountPct/100)
	return discounted + discounted*taxRatePct/100
}

// ResaleAdjustment is the base sell-side assumption after presets are applied.
type ResaleAdjustment struct {
	ProbabilityPct float64
	Hours          float64
	SalePrice      float64
}

// AdjustResale applies condition and demand multipliers to the base resale
// assumptions in in.
func AdjustResale(in ItemInputs) ResaleAdjustment {
	cond := LookupCondition(in.Condition)
	dem := LookupDemand(in.Demand)
	return ResaleAdjustment{
		ProbabilityPct: clamp(in.SaleProbabilityPct*cond.ProbMult*dem.ProbMult, 0, 100),
		Hours:          math.Max(0, in.TimeHours+dem.TimeHoursAdd),
		SalePrice:      in.ExpectSalePrice * cond.PriceMult,
	}
}

// ResaleOffset is the net cash expected from selling the replaced item,
// floored at zero.
func ResaleOffset(in ItemInputs, adj ResaleAdjustment) float64 {
	return math.Max(0, adj.SalePrice*(adj.ProbabilityPct/100)-
		in.PlatformFees-in.ShipCost-adj.Hours*in.HourlyValue-in.Friction)
}

// BestOffset is ResaleOffset with a guaranteed sale.
func BestOffset(in ItemInputs, adj ResaleAdjustment) float64 {
	return math.Max(0, adj.SalePrice-
		in.PlatformFees-in.ShipCost-adj.Hours*in.HourlyValue-in.Friction)
}

// EffectiveCost is sticker cost less the resale offset, floored at zero.
func EffectiveCost(stickerCost, offset float64) float64 {
	return math.Max(0, stickerCost-offset)
}

// TotalExpectedUses is never below 1.
func TotalExpectedUses(usesPerWeek, monthsOwned float64) float64 {
	return math.Max(1, usesPerWeek*WeeksPerMonth*monthsOwned)
}

// ComputeCosts runs the cost and resale models for in.
func ComputeCosts(in ItemInputs) Costs {
	adj := AdjustResale(in)
	sticker := StickerCost(in.Price, in.TaxRatePct)
	offset := ResaleOffset(in, adj)
	effective := EffectiveCost(sticker, offset)
	uses := TotalExpectedUses(in.UsesPerWeek, in.MonthsOwned)

	c := Costs{
		StickerCost:            sticker,
		AdjustedProbabilityPct: adj.ProbabilityPct,
		AdjustedHours:          adj.Hours,
		AdjustedSalePrice:      adj.SalePrice,
		ResaleOffset:           offset,
		BestOffset:             BestOffset(in, adj),
		EffectiveCost:          effective,
		TotalExpectedUses:      uses,
		CostPerUse:             effective / uses,
	}
	if in.WaitForSale {
		wait := StickerCostAtDiscount(in.Price, in.TaxRatePct, in.TargetDiscountPct)
		c.WaitStickerCost = &wait
	}
	return c
}
