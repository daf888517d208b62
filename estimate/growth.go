package estimate

import (
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

// GrowthMeasure selects the quantity growth is expressed in.
type GrowthMeasure string

const (
	GrowthVolume  GrowthMeasure = "volume"
	GrowthBiomass GrowthMeasure = "biomass"
)

func growthAttribute(m GrowthMeasure) grmAttribute {
	if m == GrowthBiomass {
		return grmBiomass
	}
	return grmVolume
}

// Growth implements the growth estimator (spec.md §4.8/§6): annual net
// growth per acre, computed from TREE_GRM_COMPONENT rows via the
// SURVIVOR/INGROWTH/REVERSION arithmetic in growthComponentValue. The
// result column this feeds is GROWTH_ACRE — output renaming must never
// touch that name (see DESIGN.md).
func Growth(records []model.GRMRecord, conds []ConditionInput, cfg GrowthConfig, measure GrowthMeasure, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	attr := growthAttribute(measure)
	treeRecords := grmToTreeRecords(records, func(r model.GRMRecord) float64 { return r.TPAGrowUnadj }, growthComponentValue, attr)
	condRecords := toConditionRecords(conds, cfg.LandType)

	return computeRatio(treeRecords, condRecords, strata)
}
