package strat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihiarc/pyfia-sub006/model"
)

func fixtureStratification() ([]model.PlotStratumAssign, []model.Stratum, []model.EstnUnit) {
	ppsa := []model.PlotStratumAssign{
		{PltCN: "P1", StratumCN: "S1", EvalID: 132021},
		{PltCN: "P2", StratumCN: "S1", EvalID: 132021},
		{PltCN: "P3", StratumCN: "S2", EvalID: 132021},
		{PltCN: "P4", StratumCN: "S1", EvalID: 999999}, // inactive EVALID
	}
	strata := []model.Stratum{
		{CN: "S1", EstnUnitCN: "EU1", Expns: 6000.0, AdjFactorMicr: 12.0, AdjFactorSubp: 1.0, AdjFactorMacr: 0.25, P1PointCnt: 40, P2PointCnt: 20},
		{CN: "S2", EstnUnitCN: "EU1", Expns: 4000.0, AdjFactorMicr: 12.0, AdjFactorSubp: 1.0, AdjFactorMacr: 0.25, P1PointCnt: 60, P2PointCnt: 30},
	}
	estnUnits := []model.EstnUnit{
		{CN: "EU1", AreaUsed: 1000000.0, P1PntCntEU: 100, P2PntCntEU: 50},
	}
	return ppsa, strata, estnUnits
}

func TestLoadJoinsStratumAndEstnUnitAttributes(t *testing.T) {
	ppsa, strata, estnUnits := fixtureStratification()

	result, err := Load([]int{132021}, ppsa, strata, estnUnits)
	require.NoError(t, err)
	require.Len(t, result, 3)

	p1 := result["P1"]
	require.Equal(t, "S1", p1.StratumCN)
	require.Equal(t, "EU1", p1.EstnUnitCN)
	require.Equal(t, 6000.0, p1.Expns)
	require.Equal(t, 0.4, p1.WeightH) // 40/100
	require.Equal(t, 20.0, p1.SampleSizeH)
	require.Equal(t, 50.0, p1.NEu)
	require.Equal(t, 1000000.0, p1.AreaUsed)

	p3 := result["P3"]
	require.Equal(t, "S2", p3.StratumCN)
	require.Equal(t, 0.6, p3.WeightH) // 60/100
}

func TestLoadExcludesPlotsOutsideActiveEvalIDs(t *testing.T) {
	ppsa, strata, estnUnits := fixtureStratification()

	result, err := Load([]int{132021}, ppsa, strata, estnUnits)
	require.NoError(t, err)
	_, ok := result["P4"]
	require.False(t, ok, "P4 belongs to an inactive EVALID and must not appear")
}

func TestLookupMissingPlotIsAnErrorNotZero(t *testing.T) {
	ppsa, strata, estnUnits := fixtureStratification()
	result, err := Load([]int{132021}, ppsa, strata, estnUnits)
	require.NoError(t, err)

	_, err = Lookup(result, "P404", []int{132021})
	require.Error(t, err)
	var missing *MissingStratumError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "P404", missing.PltCN)
}

func TestLookupFoundPlotReturnsStratum(t *testing.T) {
	ppsa, strata, estnUnits := fixtureStratification()
	result, err := Load([]int{132021}, ppsa, strata, estnUnits)
	require.NoError(t, err)

	ps, err := Lookup(result, "P1", []int{132021})
	require.NoError(t, err)
	require.Equal(t, "P1", ps.PltCN)
}

func TestLoadZeroP1PntCntEUYieldsZeroWeightNotPanic(t *testing.T) {
	ppsa := []model.PlotStratumAssign{{PltCN: "P1", StratumCN: "S1", EvalID: 1}}
	strata := []model.Stratum{{CN: "S1", EstnUnitCN: "EU1", P1PointCnt: 10}}
	estnUnits := []model.EstnUnit{{CN: "EU1", P1PntCntEU: 0}}

	result, err := Load([]int{1}, ppsa, strata, estnUnits)
	require.NoError(t, err)
	require.Equal(t, 0.0, result["P1"].WeightH)
}
