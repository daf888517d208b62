package aggregate

import "github.com/mihiarc/pyfia-sub006/model"

// CondKey uniquely identifies a condition within the aggregator (spec.md
// §3: ⟨PltCN, CondID⟩).
type CondKey struct {
	PltCN  string
	CondID int
}

// TreeRecord is everything stage 1 needs from one tree: the attribute
// value already resolved for the estimator in question (volume, biomass,
// a constant 1.0 for TPA, ...), the per-acre expansion factor TPAUnadj,
// the domain indicator (0 or 1, never a dropped row), and the basis used
// to pick the per-stratum adjustment factor.
type TreeRecord struct {
	PltCN          string
	CondID         int
	Value          float64
	TPAUnadj       float64
	DomainIndicator float64
	Basis          model.TreeBasis
}

// AggregateTreesToCondition is stage 1: sum each tree's contribution
// (value * TPAUnadj * domain indicator * ADJ_FACTOR[basis]) into the
// condition it belongs to. No expansion factor (EXPNS) is applied here —
// that happens only at stage 3, after stage 2 has summed conditions to
// plots. Applying EXPNS any earlier is exactly the bug this ordering
// guards against.
//
// adjByPlot resolves each tree's plot to the ADJ_FACTOR triple of the
// stratum that plot belongs to (adjustment factors are a per-stratum
// property, not a global constant — two plots in different strata can
// carry different MICR/SUBP/MACR factors). A tree whose plot has no entry
// in adjByPlot contributes nothing; callers are expected to have already
// validated every plot they pass in via strat.Lookup, so this is reached
// only for plots deliberately excluded upstream.
func AggregateTreesToCondition(trees []TreeRecord, adjByPlot map[string]AdjustmentFactors) map[CondKey]float64 {
	totals := make(map[CondKey]float64)
	for _, t := range trees {
		if t.DomainIndicator == 0 {
			continue
		}
		adj, ok := adjByPlot[t.PltCN]
		if !ok {
			continue
		}
		k := CondKey{t.PltCN, t.CondID}
		totals[k] += t.Value * t.TPAUnadj * t.DomainIndicator * adj.ForTreeBasis(t.Basis)
	}
	return totals
}

// ConditionRecord is everything stage 2 needs from one condition: its
// land-type domain indicator, its proportion of the plot (COND_PROP_UNADJ),
// and the basis (PROP_BASIS) used to pick the adjustment factor.
type ConditionRecord struct {
	PltCN           string
	CondID          int
	DomainIndicator float64
	CondPropUnadj   float64
	PropBasis       string
}

// PlotAggregate is a plot's numerator and denominator contribution,
// ready for stage 3's stratum expansion. Numerator is the attribute total
// (e.g. total volume on the plot); Denominator is the land-area total the
// attribute is expressed per-acre against (spec.md §4.6's ratio-of-means
// design: both sides are expanded identically, so their ratio is the
// per-acre estimate).
type PlotAggregate struct {
	PltCN       string
	Numerator   float64
	Denominator float64
}

// AggregateConditionsToPlot is stage 2: sum each condition's
// domain-indicator-weighted, adjustment-factor-scaled proportion into its
// plot, for both the numerator (tree-condition totals from stage 1) and
// the denominator (land area alone). A condition with no tree records
// still contributes to the denominator — conditions are never dropped for
// lacking trees (spec.md §4.4.2). adjByPlot is the same per-stratum
// lookup AggregateTreesToCondition uses; a condition whose plot is absent
// from it is skipped for the same reason. A condition with a zero domain
// indicator adds zero to both sides but still puts its plot in the result,
// so plots wholly outside the domain stay in the variance sample as zeros.
func AggregateConditionsToPlot(conditions []ConditionRecord, treeConditionTotals map[CondKey]float64, adjByPlot map[string]AdjustmentFactors) map[string]PlotAggregate {
	plots := make(map[string]PlotAggregate)
	for _, c := range conditions {
		adj, ok := adjByPlot[c.PltCN]
		if !ok {
			continue
		}
		factor := c.DomainIndicator * c.CondPropUnadj * adj.ForPropBasis(c.PropBasis)
		k := CondKey{c.PltCN, c.CondID}
		p := plots[c.PltCN]
		p.PltCN = c.PltCN
		p.Numerator += factor * treeConditionTotals[k]
		p.Denominator += factor
		plots[c.PltCN] = p
	}
	return plots
}
