// Package strat implements the stratification loader (C5): resolving
// POP_PLOT_STRATUM_ASSGN ⋈ POP_STRATUM ⋈ POP_ESTN_UNIT for the active
// EVALID set and materializing the per-plot expansion data every
// downstream estimator needs.
package strat

import (
	"fmt"

	"github.com/mihiarc/pyfia-sub006/model"
)

// PlotStratum is the per-plot row the loader produces: everything an
// estimator needs to expand a plot's contribution to a stratum/population
// total (spec.md §4.5 step 5).
type PlotStratum struct {
	PltCN         string
	StratumCN     string
	EstnUnitCN    string
	Expns         float64
	AdjFactorMicr float64
	AdjFactorSubp float64
	AdjFactorMacr float64
	WeightH       float64 // w_h = P1POINTCNT_h / P1PNTCNT_EU_h
	SampleSizeH   float64 // n_h = P2POINTCNT_h
	NEu           float64 // total plots in the estimation unit
	AreaUsed      float64
}

// MissingStratumError is returned when a plot that a downstream estimator
// needs is absent from PPSA under the active EVALID set — an error, never
// a silent zero (spec.md §4.5 invariant).
type MissingStratumError struct {
	PltCN   string
	EvalIDs []int
}

func (e *MissingStratumError) Error() string {
	return fmt.Sprintf("plot %s has no stratum assignment for EVALID set %v", e.PltCN, e.EvalIDs)
}

// Load resolves the stratification frame for the given active EVALID set,
// following spec.md §4.5 steps 1-5.
func Load(
	evalIDs []int,
	ppsa []model.PlotStratumAssign,
	strata []model.Stratum,
	estnUnits []model.EstnUnit,
) (map[string]PlotStratum, error) {
	active := make(map[int]bool, len(evalIDs))
	for _, id := range evalIDs {
		active[id] = true
	}

	strataByCN := make(map[string]model.Stratum, len(strata))
	for _, s := range strata {
		strataByCN[s.CN] = s
	}
	euByCN := make(map[string]model.EstnUnit, len(estnUnits))
	for _, eu := range estnUnits {
		euByCN[eu.CN] = eu
	}

	out := make(map[string]PlotStratum)
	for _, a := range ppsa {
		if !active[a.EvalID] {
			continue
		}
		s, ok := strataByCN[a.StratumCN]
		if !ok {
			continue
		}
		eu := euByCN[s.EstnUnitCN]

		wH := 0.0
		if eu.P1PntCntEU > 0 {
			wH = s.P1PointCnt / eu.P1PntCntEU
		}

		out[a.PltCN] = PlotStratum{
			PltCN:         a.PltCN,
			StratumCN:     s.CN,
			EstnUnitCN:    s.EstnUnitCN,
			Expns:         s.Expns,
			AdjFactorMicr: s.AdjFactorMicr,
			AdjFactorSubp: s.AdjFactorSubp,
			AdjFactorMacr: s.AdjFactorMacr,
			WeightH:       wH,
			SampleSizeH:   s.P2PointCnt,
			NEu:           eu.P2PntCntEU,
			AreaUsed:      eu.AreaUsed,
		}
	}
	return out, nil
}

// Lookup fetches the PlotStratum for pltCN, returning MissingStratumError
// when the plot is not present — callers must propagate this as ErrStrat,
// never treat it as a zero contribution.
func Lookup(strata map[string]PlotStratum, pltCN string, activeEvalIDs []int) (PlotStratum, error) {
	ps, ok := strata[pltCN]
	if !ok {
		return PlotStratum{}, &MissingStratumError{PltCN: pltCN, EvalIDs: activeEvalIDs}
	}
	return ps, nil
}
