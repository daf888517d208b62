// Package estimate implements the estimator family (C8): area, TPA,
// volume, biomass, carbon, growth, mortality, removals, and carbon flux.
// Every estimator is a thin assembly of the same pipeline — build
// TreeRecord/ConditionRecord inputs with the estimator's own value and
// domain-indicator rules, then run the shared two-stage aggregation and
// ratio-of-means variance.
package estimate

import (
	"github.com/mihiarc/pyfia-sub006/aggregate"
	"github.com/mihiarc/pyfia-sub006/strat"
	"github.com/mihiarc/pyfia-sub006/variance"
)

// Estimate is the common result shape for every estimator in this
// package: a per-acre (or per-unit) ratio, its population total, and the
// variance outputs spec.md §4.7 requires alongside it.
type Estimate struct {
	Value      float64 // the ratio-of-means estimate (per acre, per unit)
	Total      float64 // the expanded population numerator total
	Variance   float64
	SE         float64
	SEPercent  float64
	NPlots     int
	NStrata    int
	Group      map[string]string
}

// computeRatio runs the shared stage-1..4 pipeline plus ratio variance
// for estimators expressed as a ratio of two expanded totals (the
// overwhelming majority — area percent, TPA, BAA, volume, biomass,
// carbon). Estimators whose numerator is not itself drawn from trees
// (e.g. a pure land-area total) use computeConditionTotal instead.
//
// Per spec.md §4.7, a non-empty stratification with no condition records
// at all to attribute the variance to is never silently treated as zero
// variance — it raises ErrVariance instead (see checkPlotConditionCoverage).
func computeRatio(trees []aggregate.TreeRecord, conditions []aggregate.ConditionRecord, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := checkPlotConditionCoverage(conditions, strata); err != nil {
		return Estimate{}, err
	}

	adjByPlot := aggregate.AdjustmentFactorsByPlot(strata)
	condTotals := aggregate.AggregateTreesToCondition(trees, adjByPlot)
	plotTotals := aggregate.AggregateConditionsToPlot(conditions, condTotals, adjByPlot)
	pop := aggregate.AggregateStrataToPopulation(plotTotals, strata)
	v := variance.RatioVariance(pop.Strata, pop.Ratio, pop.DenominatorTotal)

	return Estimate{
		Value:     pop.Ratio,
		Total:     pop.NumeratorTotal,
		Variance:  v.Variance,
		SE:        v.SE,
		SEPercent: v.SEPercent,
		NPlots:    countPlots(pop.Strata),
		NStrata:   len(pop.Strata),
	}, nil
}

// computeConditionTotal runs the stage-2..4 pipeline directly from a
// pre-built stage-1 map (rather than deriving one from TreeRecords), for
// callers with no tree dimension — the area estimator totals a condition
// attribute directly, with no trees to sum in stage 1.
func computeConditionTotal(conditions []aggregate.ConditionRecord, stage1 map[aggregate.CondKey]float64, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := checkPlotConditionCoverage(conditions, strata); err != nil {
		return Estimate{}, err
	}

	adjByPlot := aggregate.AdjustmentFactorsByPlot(strata)
	plotTotals := aggregate.AggregateConditionsToPlot(conditions, stage1, adjByPlot)
	pop := aggregate.AggregateStrataToPopulation(plotTotals, strata)
	v := variance.TotalVariance(pop.Strata, pop.NumeratorTotal)

	return Estimate{
		Value:     pop.NumeratorTotal,
		Total:     pop.NumeratorTotal,
		Variance:  v.Variance,
		SE:        v.SE,
		SEPercent: v.SEPercent,
		NPlots:    countPlots(pop.Strata),
		NStrata:   len(pop.Strata),
	}, nil
}

// checkPlotConditionCoverage rejects the one case spec.md §4.7 calls out
// by name: a non-empty set of sampled plots with no condition records at
// all to attribute the ratio's variance to. It does not attempt to detect
// partial coverage (a handful of plots each individually missing their
// conditions) — that is a data-quality problem the caller's own plot/
// condition join is responsible for, not something this package can
// recover from by inspection alone.
func checkPlotConditionCoverage(conditions []aggregate.ConditionRecord, strata map[string]strat.PlotStratum) error {
	if len(strata) > 0 && len(conditions) == 0 {
		return errMissingPlotCondition()
	}
	return nil
}

func countPlots(strata []aggregate.StratumTotal) int {
	n := 0
	for _, st := range strata {
		n += len(st.NumeratorY)
	}
	return n
}
