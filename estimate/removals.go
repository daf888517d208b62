package estimate

import (
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

// Removals implements the removals estimator (spec.md §4.8/§6): annual
// harvest removals per acre, computed from TREE_GRM_COMPONENT rows via
// removalsComponentValue (CUT1/CUT2/CUT3/DIVERSION1/DIVERSION2 components).
func Removals(records []model.GRMRecord, conds []ConditionInput, cfg RemovalsConfig, measure GrowthMeasure, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	attr := growthAttribute(measure)
	treeRecords := grmToTreeRecords(records, func(r model.GRMRecord) float64 { return r.TPARemvUnadj }, removalsComponentValue, attr)
	condRecords := toConditionRecords(conds, cfg.LandType)

	return computeRatio(treeRecords, condRecords, strata)
}
