package aggregate

import (
	"sort"

	"github.com/mihiarc/pyfia-sub006/strat"
)

// StratumTotal is the stage-3 result for one stratum: expanded numerator
// and denominator totals, plus the plot-level values variance needs
// (s²_yh in spec.md §4.7 is computed from exactly these).
type StratumTotal struct {
	StratumCN     string
	EstnUnitCN    string
	SampleSize    float64 // n_h
	Expns         float64
	NumeratorY    []float64 // per-plot numerator values in this stratum, unweighted
	DenominatorX  []float64 // per-plot denominator values in this stratum, unweighted
	NumeratorTotal   float64
	DenominatorTotal float64
}

// PopulationTotal is the stage-4 result: the population numerator and
// denominator totals and their ratio (the per-acre/per-unit estimate).
type PopulationTotal struct {
	NumeratorTotal   float64
	DenominatorTotal float64
	Ratio            float64
	Strata           []StratumTotal
}

// AggregateStrataToPopulation is stages 3 and 4: for each stratum, expand
// plot totals by EXPNS and sum across strata, then form the ratio. A plot
// present in plots but absent from strata is skipped here; callers are
// expected to have already resolved every plot via strat.Lookup before
// calling this (the facade's Session.ClipByEvalID fails with ErrStrat for
// such a plot, so it never reaches this point as a silent zero).
func AggregateStrataToPopulation(plots map[string]PlotAggregate, strata map[string]strat.PlotStratum) PopulationTotal {
	byStratum := make(map[string]*StratumTotal)

	for pltCN, p := range plots {
		ps, ok := strata[pltCN]
		if !ok {
			continue
		}
		st, ok := byStratum[ps.StratumCN]
		if !ok {
			st = &StratumTotal{
				StratumCN:  ps.StratumCN,
				EstnUnitCN: ps.EstnUnitCN,
				SampleSize: ps.SampleSizeH,
				Expns:      ps.Expns,
			}
			byStratum[ps.StratumCN] = st
		}
		st.NumeratorY = append(st.NumeratorY, p.Numerator)
		st.DenominatorX = append(st.DenominatorX, p.Denominator)
	}

	keys := make([]string, 0, len(byStratum))
	for k := range byStratum {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pop PopulationTotal
	for _, k := range keys {
		st := byStratum[k]
		var sumY, sumX float64
		for _, y := range st.NumeratorY {
			sumY += y
		}
		for _, x := range st.DenominatorX {
			sumX += x
		}
		st.NumeratorTotal = st.Expns * sumY
		st.DenominatorTotal = st.Expns * sumX
		pop.NumeratorTotal += st.NumeratorTotal
		pop.DenominatorTotal += st.DenominatorTotal
		pop.Strata = append(pop.Strata, *st)
	}

	if pop.DenominatorTotal != 0 {
		pop.Ratio = pop.NumeratorTotal / pop.DenominatorTotal
	}
	return pop
}
