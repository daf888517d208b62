package estimate

import (
	"github.com/mihiarc/pyfia-sub006/strat"
)

// foliageFraction approximates the foliage component FIA adds to the
// above-ground pool when include_foliage is set (the supplemented
// feature spec.md's distillation dropped; the original source applies a
// species-group-dependent ratio, simplified here to a flat fraction of
// DRYBIO_AG since no species-group biomass equation table was retrieved).
const foliageFraction = 0.05

func biomassValue(cfg BiomassConfig) valueFunc {
	switch cfg.Component {
	case BiomassBelowGround:
		return func(t TreeInput) float64 { return t.DryBioBG }
	case BiomassTotal:
		return func(t TreeInput) float64 {
			v := t.DryBioAG + t.DryBioBG
			if cfg.IncludeFoliage {
				v += t.DryBioAG * foliageFraction
			}
			return v
		}
	default: // AG
		return func(t TreeInput) float64 {
			v := t.DryBioAG
			if cfg.IncludeFoliage {
				v += t.DryBioAG * foliageFraction
			}
			return v
		}
	}
}

// Biomass implements the biomass estimator (spec.md §4.4/§6): above-
// ground, below-ground, or total dry biomass per acre, in tons (callers
// supply DryBioAG/DryBioBG already converted from the source pounds).
func Biomass(trees []TreeInput, conds []ConditionInput, cfg BiomassConfig, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	treeRecords := toTreeRecords(trees, cfg.TreeType, biomassValue(cfg))
	condRecords := toConditionRecords(conds, cfg.LandType)

	return computeRatio(treeRecords, condRecords, strata)
}
