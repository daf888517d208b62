package estimate

import (
	"github.com/mihiarc/pyfia-sub006/strat"
)

func volumeValue(cfg VolumeConfig) valueFunc {
	switch cfg.VolumeType {
	case VolumeGross:
		return func(t TreeInput) float64 { return t.VolCFGross }
	case VolumeSawlog:
		return func(t TreeInput) float64 { return t.VolCSNet }
	default: // net
		return func(t TreeInput) float64 { return t.VolCFNet }
	}
}

// Volume implements the volume estimator (spec.md §4.4/§6): net, gross,
// or sawlog cubic-foot volume per acre.
func Volume(trees []TreeInput, conds []ConditionInput, cfg VolumeConfig, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	treeRecords := toTreeRecords(trees, cfg.TreeType, volumeValue(cfg))
	condRecords := toConditionRecords(conds, cfg.LandType)

	return computeRatio(treeRecords, condRecords, strata)
}
