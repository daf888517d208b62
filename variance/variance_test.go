package variance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihiarc/pyfia-sub006/aggregate"
)

func TestStratumStatsZeroForSingletonStratum(t *testing.T) {
	st := aggregate.StratumTotal{
		StratumCN:    "S1",
		Expns:        100.0,
		NumeratorY:   []float64{5.0},
		DenominatorX: []float64{1.0},
	}
	sv := stratumStats(st)
	require.Equal(t, 0.0, sv.VarY)
	require.Equal(t, 0.0, sv.VarX)
	require.Equal(t, 0.0, sv.CovYX)
}

func TestStratumStatsZeroForEmptyStratum(t *testing.T) {
	sv := stratumStats(aggregate.StratumTotal{StratumCN: "S1", Expns: 100.0})
	require.Equal(t, 0.0, sv.VarY)
}

func TestTotalVarianceNonNegativeForTypicalSample(t *testing.T) {
	strata := []aggregate.StratumTotal{
		{StratumCN: "S1", Expns: 100.0, NumeratorY: []float64{10, 12, 9, 11}, DenominatorX: []float64{1, 1, 1, 1}},
	}
	result := TotalVariance(strata, 4300.0)
	require.Greater(t, result.Variance, 0.0)
	require.Greater(t, result.SE, 0.0)
	require.Greater(t, result.SEPercent, 0.0)
}

func TestRatioVarianceZeroDenominatorYieldsZeroResultNotNaN(t *testing.T) {
	result := RatioVariance(nil, 0, 0)
	require.Equal(t, 0.0, result.Variance)
	require.Equal(t, 0.0, result.SE)
}

func TestRatioVarianceNeverNegative(t *testing.T) {
	strata := []aggregate.StratumTotal{
		{StratumCN: "S1", Expns: 50.0, NumeratorY: []float64{10, 10, 10}, DenominatorX: []float64{1, 1, 1}},
	}
	result := RatioVariance(strata, 10.0, 150.0)
	require.GreaterOrEqual(t, result.Variance, 0.0)
}

func TestRatioVarianceIncreasesWithinStratumDispersion(t *testing.T) {
	tight := []aggregate.StratumTotal{
		{StratumCN: "S1", Expns: 50.0, NumeratorY: []float64{10, 10.1, 9.9}, DenominatorX: []float64{1, 1, 1}},
	}
	loose := []aggregate.StratumTotal{
		{StratumCN: "S1", Expns: 50.0, NumeratorY: []float64{2, 18, 10}, DenominatorX: []float64{1, 1, 1}},
	}
	tightResult := RatioVariance(tight, 10.0, 150.0)
	looseResult := RatioVariance(loose, 10.0, 150.0)
	require.Greater(t, looseResult.Variance, tightResult.Variance)
}
