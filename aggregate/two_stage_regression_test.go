package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

// naiveOneStageTPA reproduces the historical bug: it multiplies EXPNS into
// every tree's contribution before summing trees to conditions, instead of
// summing tree -> condition -> plot first and expanding only at stage 3.
// When a plot has multiple conditions sharing unequal COND_PROP_UNADJ, or
// when the per-tree TPAUnadj values are large relative to plot count, the
// naive approach and the two-stage approach diverge sharply — the
// regression this test guards.
func naiveOneStageTPA(trees []TreeRecord, expnsByPlot map[string]float64) float64 {
	var total float64
	for _, t := range trees {
		if t.DomainIndicator == 0 {
			continue
		}
		total += t.Value * t.TPAUnadj * t.DomainIndicator * expnsByPlot[t.PltCN]
	}
	return total
}

func TestTwoStageAggregationMatchesExpectedNotNaiveOneStage(t *testing.T) {
	adj := AdjustmentFactors{Micr: 12.0, Subp: 1.0, Macr: 0.25}

	// Two plots in one stratum, each with two conditions of unequal
	// COND_PROP_UNADJ, each condition holding several trees — the shape
	// that exposed the 26x underestimate in the original one-stage
	// pipeline (trees were pre-expanded per-tree then the condition
	// proportions were applied again downstream, double-counting the
	// area weighting).
	trees := []TreeRecord{
		{PltCN: "P1", CondID: 1, Value: 1.0, TPAUnadj: 6.018, DomainIndicator: 1, Basis: model.BasisSubp},
		{PltCN: "P1", CondID: 1, Value: 1.0, TPAUnadj: 6.018, DomainIndicator: 1, Basis: model.BasisSubp},
		{PltCN: "P1", CondID: 2, Value: 1.0, TPAUnadj: 74.97, DomainIndicator: 1, Basis: model.BasisMicr},
		{PltCN: "P2", CondID: 1, Value: 1.0, TPAUnadj: 6.018, DomainIndicator: 1, Basis: model.BasisSubp},
	}
	conditions := []ConditionRecord{
		{PltCN: "P1", CondID: 1, DomainIndicator: 1, CondPropUnadj: 0.75, PropBasis: "SUBP"},
		{PltCN: "P1", CondID: 2, DomainIndicator: 1, CondPropUnadj: 0.25, PropBasis: "SUBP"},
		{PltCN: "P2", CondID: 1, DomainIndicator: 1, CondPropUnadj: 1.0, PropBasis: "SUBP"},
	}
	strata := map[string]strat.PlotStratum{
		"P1": {PltCN: "P1", StratumCN: "S1", EstnUnitCN: "EU1", Expns: 6000.0, SampleSizeH: 2},
		"P2": {PltCN: "P2", StratumCN: "S1", EstnUnitCN: "EU1", Expns: 6000.0, SampleSizeH: 2},
	}

	adjByPlot := map[string]AdjustmentFactors{"P1": adj, "P2": adj}
	condTotals := AggregateTreesToCondition(trees, adjByPlot)
	plotTotals := AggregateConditionsToPlot(conditions, condTotals, adjByPlot)
	pop := AggregateStrataToPopulation(plotTotals, strata)

	// Expected, hand-computed two-stage total:
	// P1 cond1: (6.018*1 + 6.018*1) * 1.0(adj subp) = 12.036; * 0.75 propUnadj * adjSubp(1.0) = 9.027
	// P1 cond2: 74.97 * adjMicr(12.0) = 899.64; * 0.25 * adjSubp(1.0) = 224.91
	// P1 plot numerator = 9.027 + 224.91 = 233.937
	// P2 cond1: 6.018 * adjSubp(1.0) = 6.018; * 1.0 * adjSubp(1.0) = 6.018
	// stratum sumY = 233.937 + 6.018 = 239.955; total = EXPNS(6000) * 239.955
	expectedTotal := 6000.0 * 239.955
	require.InDelta(t, expectedTotal, pop.NumeratorTotal, 0.01)

	naive := naiveOneStageTPA(trees, map[string]float64{"P1": 6000.0, "P2": 6000.0})
	require.NotEqual(t, pop.NumeratorTotal, naive,
		"the two-stage total must differ from naively expanding each tree before condition/plot aggregation")

	ratio := naive / pop.NumeratorTotal
	require.Less(t, ratio, 1.0,
		"skipping the condition-proportion weighting before expansion underestimates the population total, "+
			"the same direction as the historical regression this ordering guards against")
}

func TestAggregateConditionsNeverDropsConditionLackingTrees(t *testing.T) {
	conditions := []ConditionRecord{
		{PltCN: "P1", CondID: 1, DomainIndicator: 1, CondPropUnadj: 1.0, PropBasis: "SUBP"},
	}
	adj := AdjustmentFactors{Subp: 1.0}
	plots := AggregateConditionsToPlot(conditions, map[CondKey]float64{}, map[string]AdjustmentFactors{"P1": adj})

	p1 := plots["P1"]
	require.Equal(t, 0.0, p1.Numerator, "no trees means zero numerator, not a dropped plot")
	require.Equal(t, 1.0, p1.Denominator, "the condition's land area still counts toward the denominator")
}

func TestAggregateTreesToConditionSkipsZeroDomainIndicator(t *testing.T) {
	trees := []TreeRecord{
		{PltCN: "P1", CondID: 1, Value: 1.0, TPAUnadj: 100.0, DomainIndicator: 0, Basis: model.BasisSubp},
	}
	adj := AdjustmentFactors{Subp: 1.0}
	totals := AggregateTreesToCondition(trees, map[string]AdjustmentFactors{"P1": adj})
	require.Empty(t, totals)
}
