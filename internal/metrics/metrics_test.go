package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

func TestObserveDecision(t *testing.T) {
	d := scoring.ComputeDecision(scoring.DefaultInputs())
	before := testutil.ToFloat64(DecisionsTotal.WithLabelValues(d.Score.Verdict))
	warnBefore := testutil.ToFloat64(WeightWarnings)

	ObserveDecision(d)

	if got := testutil.ToFloat64(DecisionsTotal.WithLabelValues(d.Score.Verdict)); got != before+1 {
		t.Errorf("expected verdict counter %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(WeightWarnings); got != warnBefore {
		t.Errorf("weight warnings should not change for valid weights, got %v", got)
	}

	bad := scoring.ComputeDecision(scoring.DefaultInputs().With(
		scoring.SetWeights(scoring.WeightSet{Financial: 2, Utility: 0, Risk: 0}),
	))
	ObserveDecision(bad)
	if got := testutil.ToFloat64(WeightWarnings); got != warnBefore+1 {
		t.Errorf("expected weight warnings %v, got %v", warnBefore+1, got)
	}
}
