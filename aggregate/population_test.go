package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihiarc/pyfia-sub006/strat"
)

func TestAggregateStrataToPopulationExpandsAndRatios(t *testing.T) {
	plots := map[string]PlotAggregate{
		"P1": {PltCN: "P1", Numerator: 10.0, Denominator: 1.0},
		"P2": {PltCN: "P2", Numerator: 20.0, Denominator: 1.0},
	}
	strata := map[string]strat.PlotStratum{
		"P1": {PltCN: "P1", StratumCN: "S1", EstnUnitCN: "EU1", Expns: 100.0, SampleSizeH: 2},
		"P2": {PltCN: "P2", StratumCN: "S1", EstnUnitCN: "EU1", Expns: 100.0, SampleSizeH: 2},
	}

	pop := AggregateStrataToPopulation(plots, strata)
	require.Equal(t, 3000.0, pop.NumeratorTotal) // (10+20)*100
	require.Equal(t, 200.0, pop.DenominatorTotal) // (1+1)*100
	require.Equal(t, 15.0, pop.Ratio)
	require.Len(t, pop.Strata, 1)
	require.Equal(t, "S1", pop.Strata[0].StratumCN)
}

func TestAggregateStrataToPopulationSkipsPlotsMissingStratification(t *testing.T) {
	plots := map[string]PlotAggregate{
		"P1":   {PltCN: "P1", Numerator: 10.0, Denominator: 1.0},
		"PNOSTRAT": {PltCN: "PNOSTRAT", Numerator: 99.0, Denominator: 1.0},
	}
	strata := map[string]strat.PlotStratum{
		"P1": {PltCN: "P1", StratumCN: "S1", EstnUnitCN: "EU1", Expns: 100.0, SampleSizeH: 1},
	}
	pop := AggregateStrataToPopulation(plots, strata)
	require.Equal(t, 1000.0, pop.NumeratorTotal)
}

func TestAggregateStrataToPopulationMultipleStrataSumAcrossThem(t *testing.T) {
	plots := map[string]PlotAggregate{
		"P1": {PltCN: "P1", Numerator: 5.0, Denominator: 1.0},
		"P2": {PltCN: "P2", Numerator: 7.0, Denominator: 1.0},
	}
	strata := map[string]strat.PlotStratum{
		"P1": {PltCN: "P1", StratumCN: "S1", Expns: 50.0, SampleSizeH: 1},
		"P2": {PltCN: "P2", StratumCN: "S2", Expns: 200.0, SampleSizeH: 1},
	}
	pop := AggregateStrataToPopulation(plots, strata)
	require.Equal(t, 5.0*50.0+7.0*200.0, pop.NumeratorTotal)
	require.Len(t, pop.Strata, 2)
}

func TestAggregateStrataToPopulationZeroDenominatorYieldsZeroRatioNotNaN(t *testing.T) {
	plots := map[string]PlotAggregate{
		"P1": {PltCN: "P1", Numerator: 10.0, Denominator: 0.0},
	}
	strata := map[string]strat.PlotStratum{
		"P1": {PltCN: "P1", StratumCN: "S1", Expns: 100.0, SampleSizeH: 1},
	}
	pop := AggregateStrataToPopulation(plots, strata)
	require.Equal(t, 0.0, pop.Ratio)
}
