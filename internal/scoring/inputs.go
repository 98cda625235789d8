package scoring

import "math"

// ItemInputs is the complete snapshot driving one decision computation.
// Level fields are ratings on a 0–10 scale unless noted otherwise.
type ItemInputs struct {
	Price        float64 `json:"price" yaml:"price"`
	TaxRatePct   float64 `json:"tax_rate_pct" yaml:"tax_rate_pct"`
	BudgetImpact float64 `json:"budget_impact" yaml:"budget_impact"`
	NeedLevel    float64 `json:"need_level" yaml:"need_level"`
	UseFrequency float64 `json:"use_frequency" yaml:"use_frequency"`
	JoyScore     float64 `json:"joy_score" yaml:"joy_score"`
	Longevity    float64 `json:"longevity" yaml:"longevity"`
	WorkRelated  bool    `json:"work_related" yaml:"work_related"`

	// Sell side: the item being replaced.
	ExpectSalePrice    float64   `json:"expect_sale_price" yaml:"expect_sale_price"`
	SaleProbabilityPct float64   `json:"sale_probability_pct" yaml:"sale_probability_pct"`
	PlatformFees       float64   `json:"platform_fees" yaml:"platform_fees"`
	ShipCost           float64   `json:"ship_cost" yaml:"ship_cost"`
	TimeHours          float64   `json:"time_hours" yaml:"time_hours"`
	HourlyValue        float64   `json:"hourly_value" yaml:"hourly_value"`
	Friction           float64   `json:"friction" yaml:"friction"`
	AggressiveResale   bool      `json:"aggressive_resale" yaml:"aggressive_resale"`
	Condition          Condition `json:"condition" yaml:"condition"`
	Demand             Demand    `json:"demand" yaml:"demand"`

	// Wait for sale.
	WaitForSale       bool    `json:"wait_for_sale" yaml:"wait_for_sale"`
	TargetDiscountPct float64 `json:"target_discount_pct" yaml:"target_discount_pct"`
	MonthsToWait      float64 `json:"months_to_wait" yaml:"months_to_wait"`

	// Per use.
	MonthsOwned float64 `json:"months_owned" yaml:"months_owned"`
	UsesPerWeek float64 `json:"uses_per_week" yaml:"uses_per_week"`

	// Minimalism. MinimalismStrength ranges 0–12.
	KeepOldItem        bool    `json:"keep_old_item" yaml:"keep_old_item"`
	MinimalismStrength float64 `json:"minimalism_strength" yaml:"minimalism_strength"`

	// Risk and logistics.
	ReturnPolicy float64 `json:"return_policy" yaml:"return_policy"`
	Warranty     float64 `json:"warranty" yaml:"warranty"`
	SpaceFit     float64 `json:"space_fit" yaml:"space_fit"`
	AltAvailable float64 `json:"alt_available" yaml:"alt_available"`
	Urgency      float64 `json:"urgency" yaml:"urgency"`

	Weights WeightSet `json:"weights" yaml:"weights"`
}

// DefaultInputs returns the snapshot a fresh form starts from.
func DefaultInputs() ItemInputs {
	return ItemInputs{
		Price:        500,
		TaxRatePct:   13,
		BudgetImpact: 5,
		NeedLevel:    6,
		UseFrequency: 7,
		JoyScore:     7,
		Longevity:    6,

		ExpectSalePrice:    250,
		SaleProbabilityPct: 80,
		PlatformFees:       25,
		ShipCost:           20,
		TimeHours:          2,
		HourlyValue:        40,
		Friction:           10,
		Condition:          DefaultCondition,
		Demand:             DefaultDemand,

		TargetDiscountPct: 15,
		MonthsToWait:      2,

		MonthsOwned: 24,
		UsesPerWeek: 5,

		MinimalismStrength: 6,

		ReturnPolicy: 6,
		Warranty:     5,
		SpaceFit:     7,
		AltAvailable: 5,
		Urgency:      4,

		Weights: DefaultWeights(),
	}
}

// Update modifies a copy of ItemInputs. See ItemInputs.With.
type Update func(*ItemInputs)

// With returns a copy of in with updates applied in order. The receiver is
// never modified.
func (in ItemInputs) With(updates ...Update) ItemInputs {
	out := in
	for _, u := range updates {
		u(&out)
	}
	return out
}

func SetPrice(price float64) Update {
	return func(in *ItemInputs) { in.Price = price }
}

func SetTaxRate(pct float64) Update {
	return func(in *ItemInputs) { in.TaxRatePct = pct }
}

func SetBudgetImpact(level float64) Update {
	return func(in *ItemInputs) { in.BudgetImpact = level }
}

func SetCondition(c Condition) Update {
	return func(in *ItemInputs) { in.Condition = ParseCondition(string(c)) }
}

func SetDemand(d Demand) Update {
	return func(in *ItemInputs) { in.Demand = ParseDemand(string(d)) }
}

// SetWaitForSale toggles the wait scenario with its discount and horizon.
func SetWaitForSale(enabled bool, discountPct, months float64) Update {
	return func(in *ItemInputs) {
		in.WaitForSale = enabled
		in.TargetDiscountPct = discountPct
		in.MonthsToWait = months
	}
}

func SetMinimalism(keepOld bool, strength float64) Update {
	return func(in *ItemInputs) {
		in.KeepOldItem = keepOld
		in.MinimalismStrength = strength
	}
}

func SetWeights(w WeightSet) Update {
	return func(in *ItemInputs) { in.Weights = w }
}

// Normalize returns a copy of in where every non-finite number is replaced by
// its default and unknown preset keys are resolved to their defaults.
func (in ItemInputs) Normalize() ItemInputs {
	def := DefaultInputs()
	out := in

	fields := []struct {
		v   *float64
		def float64
	}{
		{&out.Price, def.Price},
		{&out.TaxRatePct, def.TaxRatePct},
		{&out.BudgetImpact, def.BudgetImpact},
		{&out.NeedLevel, def.NeedLevel},
		{&out.UseFrequency, def.UseFrequency},
		{&out.JoyScore, def.JoyScore},
		{&out.Longevity, def.Longevity},
		{&out.ExpectSalePrice, def.ExpectSalePrice},
		{&out.SaleProbabilityPct, def.SaleProbabilityPct},
		{&out.PlatformFees, def.PlatformFees},
		{&out.ShipCost, def.ShipCost},
		{&out.TimeHours, def.TimeHours},
		{&out.HourlyValue, def.HourlyValue},
		{&out.Friction, def.Friction},
		{&out.TargetDiscountPct, def.TargetDiscountPct},
		{&out.MonthsToWait, def.MonthsToWait},
		{&out.MonthsOwned, def.MonthsOwned},
		{&out.UsesPerWeek, def.UsesPerWeek},
		{&out.MinimalismStrength, def.MinimalismStrength},
		{&out.ReturnPolicy, def.ReturnPolicy},
		{&out.Warranty, def.Warranty},
		{&out.SpaceFit, def.SpaceFit},
		{&out.AltAvailable, def.AltAvailable},
		{&out.Urgency, def.Urgency},
		{&out.Weights.Financial, def.Weights.Financial},
		{&out.Weights.Utility, def.Weights.Utility},
		{&out.Weights.Risk, def.Weights.Risk},
	}
	for _, f := range fields {
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			*f.v = f.def
		}
	}

	out.Condition = ParseCondition(string(out.Condition))
	out.Demand = ParseDemand(string(out.Demand))
	return out
}
