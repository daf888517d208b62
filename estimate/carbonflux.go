package estimate

import (
	"math"

	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

// CarbonFlux implements the net carbon flux estimator (spec.md's
// supplemented carbon family): net annual carbon flux per acre as
// growth - mortality - removals, each converted from biomass to carbon
// by carbonFraction. The combined variance is the conservative sum of
// the three component variances (no covariance term is subtracted),
// since growth, mortality, and removals are drawn from overlapping but
// not identical subsets of the same GRM rows and their true covariance is
// not estimable from the component totals alone.
func CarbonFlux(records []model.GRMRecord, conds []ConditionInput, cfg CarbonFluxConfig, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	condRecords := toConditionRecords(conds, cfg.LandType)
	attr := grmBiomass

	growthTrees := grmToTreeRecords(records, func(r model.GRMRecord) float64 { return r.TPAGrowUnadj }, growthComponentValue, attr)
	mortTrees := grmToTreeRecords(records, func(r model.GRMRecord) float64 { return r.TPAMortUnadj }, mortalityComponentValue, attr)
	remvTrees := grmToTreeRecords(records, func(r model.GRMRecord) float64 { return r.TPARemvUnadj }, removalsComponentValue, attr)

	growth, err := computeRatio(growthTrees, condRecords, strata)
	if err != nil {
		return Estimate{}, err
	}
	mortality, err := computeRatio(mortTrees, condRecords, strata)
	if err != nil {
		return Estimate{}, err
	}
	removals, err := computeRatio(remvTrees, condRecords, strata)
	if err != nil {
		return Estimate{}, err
	}

	flux := (growth.Value - mortality.Value - removals.Value) * carbonFraction
	total := (growth.Total - mortality.Total - removals.Total) * carbonFraction
	variance := (growth.Variance + mortality.Variance + removals.Variance) * carbonFraction * carbonFraction
	se := math.Sqrt(variance)
	sePercent := 0.0
	if flux != 0 {
		sePercent = (se / math.Abs(flux)) * 100
	}

	return Estimate{
		Value:     flux,
		Total:     total,
		Variance:  variance,
		SE:        se,
		SEPercent: sePercent,
		NPlots:    growth.NPlots,
		NStrata:   growth.NStrata,
	}, nil
}
