package estimate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mihiarc/pyfia-sub006/domain"
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

func fixtureStrata() map[string]strat.PlotStratum {
	return map[string]strat.PlotStratum{
		"P1": {PltCN: "P1", StratumCN: "S1", Expns: 6000.0, SampleSizeH: 2, AdjFactorMicr: 12.0, AdjFactorSubp: 1.0, AdjFactorMacr: 0.25},
		"P2": {PltCN: "P2", StratumCN: "S1", Expns: 6000.0, SampleSizeH: 2, AdjFactorMicr: 12.0, AdjFactorSubp: 1.0, AdjFactorMacr: 0.25},
	}
}

func fixtureConditions() []ConditionInput {
	return []ConditionInput{
		{PltCN: "P1", CondID: 1, CondStatusCD: 1, SiteClCD: 3, CondPropUnadj: 1.0},
		{PltCN: "P2", CondID: 1, CondStatusCD: 1, SiteClCD: 3, CondPropUnadj: 1.0},
	}
}

func TestAreaForestPercentAgainstAllLand(t *testing.T) {
	conds := []ConditionInput{
		{PltCN: "P1", CondID: 1, CondStatusCD: 1, SiteClCD: 3, CondPropUnadj: 1.0},
		{PltCN: "P2", CondID: 1, CondStatusCD: 2, SiteClCD: 3, CondPropUnadj: 1.0},
	}
	est, err := Area(conds, AreaConfig{BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	require.NoError(t, err)
	require.InDelta(t, 50.0, est.Value, 1e-9, "one of two plots is forest, so forest is 50%% of all land")
}

func TestTPABasicCount(t *testing.T) {
	trees := []TreeInput{
		{PltCN: "P1", CondID: 1, StatusCD: 1, TreeClCD: 2, DIA: 8.0, TPAUnadj: 6.018},
	}
	est, err := TPA(trees, fixtureConditions(), TPAConfig{BaseConfig: BaseConfig{LandType: domain.LandTypeForest, TreeType: domain.TreeTypeLive}}, fixtureStrata())
	require.NoError(t, err)
	require.Greater(t, est.Value, 0.0)
}

func TestTPABasalAreaUsesTreeGeometry(t *testing.T) {
	trees := []TreeInput{
		{PltCN: "P1", CondID: 1, StatusCD: 1, TreeClCD: 2, DIA: 12.0, TPAUnadj: 1.0},
	}
	countEst, _ := TPA(trees, fixtureConditions(), TPAConfig{BaseConfig: BaseConfig{LandType: domain.LandTypeForest, TreeType: domain.TreeTypeLive}}, fixtureStrata())
	baEst, _ := TPA(trees, fixtureConditions(), TPAConfig{BaseConfig: BaseConfig{LandType: domain.LandTypeForest, TreeType: domain.TreeTypeLive}, BasalArea: true}, fixtureStrata())
	require.NotEqual(t, countEst.Value, baEst.Value)
}

func TestMortalityRejectsLiveTreeType(t *testing.T) {
	cfg := MortalityConfig{BaseConfig: BaseConfig{TreeType: domain.TreeTypeLive}}
	_, err := Mortality(nil, fixtureConditions(), cfg, fixtureStrata())
	require.Error(t, err)
}

func TestMortalityBothPopulatesTPAAndVolume(t *testing.T) {
	records := []model.GRMRecord{
		{PltCN: "P1", CondID: 1, Component: model.ComponentMortality1, SubpTypGRM: model.GRMSubp, TPAMortUnadj: 6.018, VolCFNetMidpt: 20.0},
	}
	cfg := MortalityConfig{BaseConfig: BaseConfig{}, MortalityType: MortalityBoth}
	result, err := Mortality(records, fixtureConditions(), cfg, fixtureStrata())
	require.NoError(t, err)
	require.NotNil(t, result.TPA)
	require.NotNil(t, result.Volume)
	require.Nil(t, result.Biomass)
}

func TestGrowthSurvivorSubtractsBeginFromMidpoint(t *testing.T) {
	records := []model.GRMRecord{
		{PltCN: "P1", CondID: 1, Component: model.ComponentSurvivor, SubpTypGRM: model.GRMSubp, TPAGrowUnadj: 6.018, VolCFNetMidpt: 50.0, VolCFNetBegin: 40.0},
	}
	est, err := Growth(records, fixtureConditions(), GrowthConfig{}, GrowthVolume, fixtureStrata())
	require.NoError(t, err)
	require.Greater(t, est.Value, 0.0)
}

func TestGrowthIngrowthUsesFullMidpointNotDifference(t *testing.T) {
	survivor := []model.GRMRecord{
		{PltCN: "P1", CondID: 1, Component: model.ComponentSurvivor, SubpTypGRM: model.GRMSubp, TPAGrowUnadj: 6.018, VolCFNetMidpt: 50.0, VolCFNetBegin: 40.0},
	}
	ingrowth := []model.GRMRecord{
		{PltCN: "P1", CondID: 1, Component: model.ComponentIngrowth, SubpTypGRM: model.GRMSubp, TPAGrowUnadj: 6.018, VolCFNetMidpt: 10.0, VolCFNetBegin: 0.0},
	}
	survivorVal := growthComponentValue(survivor[0], grmVolume)
	ingrowthVal := growthComponentValue(ingrowth[0], grmVolume)
	require.Equal(t, 10.0, survivorVal)
	require.Equal(t, 10.0, ingrowthVal)
}

func TestGrowthExcludesCutAndMortalityComponents(t *testing.T) {
	rec := model.GRMRecord{Component: model.ComponentCut1, VolCFNetMidpt: 99.0}
	require.Equal(t, 0.0, growthComponentValue(rec, grmVolume))
}

func TestRemovalsOnlyCutComponents(t *testing.T) {
	cut := model.GRMRecord{Component: model.ComponentCut2, VolCFNetMidpt: 30.0}
	survivor := model.GRMRecord{Component: model.ComponentSurvivor, VolCFNetMidpt: 30.0}
	require.Equal(t, 30.0, removalsComponentValue(cut, grmVolume))
	require.Equal(t, 0.0, removalsComponentValue(survivor, grmVolume))
}

func TestGRMNoneDomainIndicatorZeroedNotDropped(t *testing.T) {
	records := []model.GRMRecord{
		{PltCN: "P1", CondID: 1, Component: model.ComponentSurvivor, SubpTypGRM: model.GRMNone, TPAGrowUnadj: 6.018, VolCFNetMidpt: 50.0, VolCFNetBegin: 40.0},
	}
	recs := grmToTreeRecords(records, func(r model.GRMRecord) float64 { return r.TPAGrowUnadj }, growthComponentValue, grmVolume)
	require.Len(t, recs, 1)
	require.Equal(t, 0.0, recs[0].DomainIndicator)
}

func TestCarbonFluxIsGrowthMinusMortalityMinusRemovalsTimesCarbonFraction(t *testing.T) {
	records := []model.GRMRecord{
		{PltCN: "P1", CondID: 1, Component: model.ComponentSurvivor, SubpTypGRM: model.GRMSubp, TPAGrowUnadj: 6.018, TPAMortUnadj: 0, TPARemvUnadj: 0, DryBioAGMidpt: 100.0, DryBioAGBegin: 80.0},
	}
	est, err := CarbonFlux(records, fixtureConditions(), CarbonFluxConfig{}, fixtureStrata())
	require.NoError(t, err)
	require.Greater(t, est.Value, 0.0, "pure growth with no mortality/removals yields a positive net flux")
	require.Greater(t, est.Total, 0.0, "the population total tracks the per-acre ratio's sign")
	require.NotEqual(t, est.Value, est.Total, "Total is the expanded population total, not the per-acre ratio")
}

func TestComputeRatioRaisesVarianceErrorWhenConditionsMissing(t *testing.T) {
	trees := []TreeInput{
		{PltCN: "P1", CondID: 1, StatusCD: 1, TreeClCD: 2, DIA: 10.0, TPAUnadj: 6.018, VolCFNet: 10.0},
	}
	_, err := Volume(trees, nil, VolumeConfig{BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	require.Error(t, err)
	require.True(t, ErrVariance.Is(err))
}

func TestVolumeTypeSelectsCorrectField(t *testing.T) {
	trees := []TreeInput{
		{PltCN: "P1", CondID: 1, StatusCD: 1, TreeClCD: 2, DIA: 10.0, TPAUnadj: 6.018, VolCFNet: 10.0, VolCFGross: 12.0, VolCSNet: 8.0},
	}
	net, _ := Volume(trees, fixtureConditions(), VolumeConfig{VolumeType: VolumeNet, BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	gross, _ := Volume(trees, fixtureConditions(), VolumeConfig{VolumeType: VolumeGross, BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	require.Greater(t, gross.Value, net.Value)
}

func TestBiomassIncludeFoliageIncreasesAboveGroundValue(t *testing.T) {
	trees := []TreeInput{
		{PltCN: "P1", CondID: 1, StatusCD: 1, TreeClCD: 2, DIA: 10.0, TPAUnadj: 6.018, DryBioAG: 100.0},
	}
	without, _ := Biomass(trees, fixtureConditions(), BiomassConfig{Component: BiomassAboveGround, BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	with, _ := Biomass(trees, fixtureConditions(), BiomassConfig{Component: BiomassAboveGround, IncludeFoliage: true, BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	require.Greater(t, with.Value, without.Value)
}

func TestCarbonIsCarbonFractionOfBiomass(t *testing.T) {
	trees := []TreeInput{
		{PltCN: "P1", CondID: 1, StatusCD: 1, TreeClCD: 2, DIA: 10.0, TPAUnadj: 6.018, DryBioAG: 100.0},
	}
	biomassEst, _ := Biomass(trees, fixtureConditions(), BiomassConfig{Component: BiomassAboveGround, BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	carbonEst, _ := Carbon(trees, fixtureConditions(), CarbonConfig{Pool: CarbonAboveGround, BaseConfig: BaseConfig{LandType: domain.LandTypeForest}}, fixtureStrata())
	require.InDelta(t, biomassEst.Value*0.47, carbonEst.Value, 1e-9)
}
