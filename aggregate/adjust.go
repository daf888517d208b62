// Package aggregate implements the two-stage aggregator (C6): the core of
// the estimation engine. Stage 1 sums tree-level contributions to the
// condition they belong to; stage 2 sums condition-level contributions to
// the plot; stage 3 expands plot totals to stratum totals; stage 4 sums
// stratum totals to a population total and forms the per-acre ratio.
// Nothing here applies an expansion factor before stage 1 has finished —
// that ordering is the fix for the historical TPA underestimate a
// one-stage pipeline produced (see two_stage_regression_test.go).
package aggregate

import (
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

// AdjustmentFactors is the per-stratum ADJ_FACTOR_{MICR,SUBP,MACR} triple
// (spec.md invariant 4), selected per record by its basis.
type AdjustmentFactors struct {
	Micr float64
	Subp float64
	Macr float64
}

// ForTreeBasis returns the adjustment factor for a tree-level record
// classified by domain.AssignTreeBasis.
func (a AdjustmentFactors) ForTreeBasis(basis model.TreeBasis) float64 {
	switch basis {
	case model.BasisMicr:
		return a.Micr
	case model.BasisMacr:
		return a.Macr
	default:
		return a.Subp
	}
}

// ForPropBasis returns the adjustment factor for a condition-level record
// classified by domain.AssignPropBasis ("SUBP" or "MACR").
func (a AdjustmentFactors) ForPropBasis(propBasis string) float64 {
	if propBasis == "MACR" {
		return a.Macr
	}
	return a.Subp
}

// AdjustmentFactorsByPlot derives the per-plot adjustment-factor lookup
// AggregateTreesToCondition and AggregateConditionsToPlot need directly
// from the stratification loader's output, since each plot's stratum
// already carries its own MICR/SUBP/MACR triple.
func AdjustmentFactorsByPlot(strata map[string]strat.PlotStratum) map[string]AdjustmentFactors {
	out := make(map[string]AdjustmentFactors, len(strata))
	for pltCN, ps := range strata {
		out[pltCN] = AdjustmentFactors{Micr: ps.AdjFactorMicr, Subp: ps.AdjFactorSubp, Macr: ps.AdjFactorMacr}
	}
	return out
}

// ForSubpTypGRM returns the adjustment factor for a GRM record's
// SUBPTYP_GRM code (spec.md invariant 4): 0 contributes nothing, since an
// unsampled GRM record still participates in the denominator elsewhere
// but never carries a non-zero adjustment factor of its own.
func (a AdjustmentFactors) ForSubpTypGRM(code model.SubpTypGRM) float64 {
	switch code {
	case model.GRMMicr:
		return a.Micr
	case model.GRMSubp:
		return a.Subp
	case model.GRMMacr:
		return a.Macr
	default:
		return 0
	}
}
