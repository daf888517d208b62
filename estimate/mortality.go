package estimate

import (
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

func grmBasalArea(r model.GRMRecord) (float64, float64) { return r.BasalAreaMidpt, 0 }

// MortalityResult carries whichever attributes cfg.MortalityType asked
// for; MortalityBoth populates TPA and Volume so a caller can report
// mortality rate alongside mortality volume in one call (Biomass and
// BasalArea stay nil for it; the supplemented feature spec.md's
// distillation dropped — see DESIGN.md).
type MortalityResult struct {
	TPA       *Estimate
	Volume    *Estimate
	Biomass   *Estimate
	BasalArea *Estimate
}

// Mortality implements the mortality estimator (spec.md §4.8/§6):
// annualized mortality per acre, computed from TREE_GRM_COMPONENT rows
// via mortalityComponentValue (MORTALITY1/MORTALITY2 components only).
func Mortality(records []model.GRMRecord, conds []ConditionInput, cfg MortalityConfig, strata map[string]strat.PlotStratum) (MortalityResult, error) {
	if err := cfg.Validate(); err != nil {
		return MortalityResult{}, err
	}

	condRecords := toConditionRecords(conds, cfg.LandType)
	tpaField := func(r model.GRMRecord) float64 { return r.TPAMortUnadj }

	compute := func(attr grmAttribute) (Estimate, error) {
		treeRecords := grmToTreeRecords(records, tpaField, mortalityComponentValue, attr)
		return computeRatio(treeRecords, condRecords, strata)
	}

	var result MortalityResult
	switch cfg.MortalityType {
	case MortalityVolume:
		e, err := compute(grmVolume)
		if err != nil {
			return MortalityResult{}, err
		}
		result.Volume = &e
	case MortalityBiomass:
		e, err := compute(grmBiomass)
		if err != nil {
			return MortalityResult{}, err
		}
		result.Biomass = &e
	case MortalityBasalArea:
		e, err := compute(grmBasalArea)
		if err != nil {
			return MortalityResult{}, err
		}
		result.BasalArea = &e
	case MortalityBoth:
		tpa, err := compute(grmCount)
		if err != nil {
			return MortalityResult{}, err
		}
		vol, err := compute(grmVolume)
		if err != nil {
			return MortalityResult{}, err
		}
		result.TPA = &tpa
		result.Volume = &vol
	default: // tpa, or unset
		e, err := compute(grmCount)
		if err != nil {
			return MortalityResult{}, err
		}
		result.TPA = &e
	}
	return result, nil
}
