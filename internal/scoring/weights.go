package scoring

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each pillar.
// Weights conventionally sum to 1.0, but any non-negative values are scored;
// Validate reports the deviation so callers can surface it as a warning.
type WeightSet struct {
	Financial float64 `json:"financial" yaml:"financial"`
	Utility   float64 `json:"utility" yaml:"utility"`
	Risk      float64 `json:"risk" yaml:"risk"`
}

// DefaultWeights returns the default pillar weight distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		Financial: 0.40,
		Utility:   0.35,
		Risk:      0.25,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Financial + w.Utility + w.Risk
}

// Validate checks that weights sum to 1.0 (±0.001) and none are negative.
func (w WeightSet) Validate() error {
	for _, v := range w.asList() {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, expected 1.0", w.Sum())
	}
	return nil
}

func (w WeightSet) asList() []float64 {
	return []float64{w.Financial, w.Utility, w.Risk}
}
