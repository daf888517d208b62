package estimate

import (
	"github.com/mihiarc/pyfia-sub006/strat"
)

// carbonFraction is the standard IPCC/FIA dry-biomass-to-carbon
// conversion factor.
const carbonFraction = 0.47

func carbonValue(pool CarbonPool) valueFunc {
	switch pool {
	case CarbonBelowGround:
		return func(t TreeInput) float64 { return t.DryBioBG * carbonFraction }
	case CarbonTotal:
		return func(t TreeInput) float64 { return (t.DryBioAG + t.DryBioBG) * carbonFraction }
	default: // AG
		return func(t TreeInput) float64 { return t.DryBioAG * carbonFraction }
	}
}

// Carbon implements the standing-carbon estimator (spec.md's
// supplemented carbon family): above-ground, below-ground, or total
// carbon per acre, derived from biomass by the standard carbon fraction.
func Carbon(trees []TreeInput, conds []ConditionInput, cfg CarbonConfig, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	treeRecords := toTreeRecords(trees, cfg.TreeType, carbonValue(cfg.Pool))
	condRecords := toConditionRecords(conds, cfg.LandType)

	return computeRatio(treeRecords, condRecords, strata)
}
