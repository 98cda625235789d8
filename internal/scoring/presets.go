package scoring

import "strings"

// Condition is the resale condition of the item being replaced.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// DefaultCondition is used whenever a condition key is not recognised.
const DefaultCondition = ConditionLikeNew

// Demand is the expected market demand for the replaced item.
type Demand string

const (
	DemandHigh   Demand = "high"
	DemandMedium Demand = "medium"
	DemandLow    Demand = "low"
)

// DefaultDemand is used whenever a demand key is not recognised.
const DefaultDemand = DemandMedium

// ConditionPreset adjusts resale probability and price for a condition.
type ConditionPreset struct {
	Key       Condition `json:"key"`
	ProbMult  float64   `json:"prob_mult"`
	PriceMult float64   `json:"price_mult"`
}

// DemandPreset adjusts resale probability and time-to-sell for a demand level.
// TimeHoursAdd may be negative.
type DemandPreset struct {
	Key          Demand  `json:"key"`
	ProbMult     float64 `json:"prob_mult"`
	TimeHoursAdd float64 `json:"time_hours_add"`
}

var conditionPresets = []ConditionPreset{
	{Key: ConditionNew, ProbMult: 1.10, PriceMult: 1.00},
	{Key: ConditionLikeNew, ProbMult: 1.05, PriceMult: 0.95},
	{Key: ConditionGood, ProbMult: 1.00, PriceMult: 0.85},
	{Key: ConditionFair, ProbMult: 0.90, PriceMult: 0.70},
	{Key: ConditionPoor, ProbMult: 0.75, PriceMult: 0.50},
}

var demandPresets = []DemandPreset{
	{Key: DemandHigh, ProbMult: 1.15, TimeHoursAdd: -1},
	{Key: DemandMedium, ProbMult: 1.00, TimeHoursAdd: 0},
	{Key: DemandLow, ProbMult: 0.80, TimeHoursAdd: 2},
}

// ConditionPresets returns a copy of the condition table in display order.
func ConditionPresets() []ConditionPreset {
	out := make([]ConditionPreset, len(conditionPresets))
	copy(out, conditionPresets)
	return out
}

// DemandPresets returns a copy of the demand table in display order.
func DemandPresets() []DemandPreset {
	out := make([]DemandPreset, len(demandPresets))
	copy(out, demandPresets)
	return out
}

func findCondition(key Condition) (ConditionPreset, bool) {
	for _, p := range conditionPresets {
		if p.Key == key {
			return p, true
		}
	}
	return ConditionPreset{}, false
}

func findDemand(key Demand) (DemandPreset, bool) {
	for _, p := range demandPresets {
		if p.Key == key {
			return p, true
		}
	}
	return DemandPreset{}, false
}

// LookupCondition returns the preset for key, falling back to DefaultCondition.
func LookupCondition(key Condition) ConditionPreset {
	if p, ok := findCondition(key); ok {
		return p
	}
	p, _ := findCondition(DefaultCondition)
	return p
}

// LookupDemand returns the preset for key, falling back to DefaultDemand.
func LookupDemand(key Demand) DemandPreset {
	if p, ok := findDemand(key); ok {
		return p
	}
	p, _ := findDemand(DefaultDemand)
	return p
}

// ParseCondition maps a raw key to a known Condition. Unknown keys resolve to
// DefaultCondition.
func ParseCondition(raw string) Condition {
	c := Condition(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := findCondition(c); ok {
		return c
	}
	return DefaultCondition
}

// ParseDemand maps a raw key to a known Demand. Unknown keys resolve to
// DefaultDemand.
func ParseDemand(raw string) Demand {
	d := Demand(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := findDemand(d); ok {
		return d
	}
	return DefaultDemand
}

// UnmarshalText makes decoded conditions always valid.
func (c *Condition) UnmarshalText(text []byte) error {
	*c = ParseCondition(string(text))
	return nil
}

// UnmarshalText makes decoded demand levels always valid.
func (d *Demand) UnmarshalText(text []byte) error {
	*d = ParseDemand(string(text))
	return nil
}
