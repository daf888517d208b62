package estimate

import (
	"github.com/mihiarc/pyfia-sub006/strat"
)

// TPA implements the trees-per-acre / basal-area-per-acre estimator
// (spec.md §4.4/§6). cfg.BasalArea switches the per-tree value from a
// constant 1.0 (TPA) to the tree's basal area in square feet (BAA).
func TPA(trees []TreeInput, conds []ConditionInput, cfg TPAConfig, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	value := valueFunc(countOne)
	if cfg.BasalArea {
		value = basalAreaSqFt
	}

	treeRecords := toTreeRecords(trees, cfg.TreeType, value)
	condRecords := toConditionRecords(conds, cfg.LandType)

	return computeRatio(treeRecords, condRecords, strata)
}
