package estimate

import (
	"github.com/mihiarc/pyfia-sub006/aggregate"
	"github.com/mihiarc/pyfia-sub006/domain"
	"github.com/mihiarc/pyfia-sub006/strat"
)

// ConditionInput is the sourced condition data area/TPA/volume/biomass all
// need to build a ConditionRecord; callers (the session facade) resolve
// it from COND rows already joined to PLOT for MacroBreakpointDia.
type ConditionInput struct {
	PltCN             string
	CondID            int
	CondStatusCD      int
	SiteClCD          int
	ReservCD          int
	CondPropUnadj     float64
	ExistingPropBasis string
	MacroBreakpointDia *float64
}

func toConditionRecords(conds []ConditionInput, landType domain.LandType) []aggregate.ConditionRecord {
	out := make([]aggregate.ConditionRecord, 0, len(conds))
	for _, c := range conds {
		ind := domain.DomainIndicator(landType, c.CondStatusCD, c.SiteClCD, c.ReservCD)
		propBasis := domain.AssignPropBasis(c.ExistingPropBasis, c.MacroBreakpointDia)
		out = append(out, aggregate.ConditionRecord{
			PltCN:           c.PltCN,
			CondID:          c.CondID,
			DomainIndicator: ind,
			CondPropUnadj:   c.CondPropUnadj,
			PropBasis:       propBasis,
		})
	}
	return out
}

// allLandConditionRecords is the same conditions rendered against
// LandTypeAll, used as the AREA_PERC denominator (spec.md's Open Question
// on the AREA_PERC denominator convention: total land area, not the
// domain's own land type, so a forest-land percentage is read against all
// land rather than against itself).
func allLandConditionRecords(conds []ConditionInput) []aggregate.ConditionRecord {
	return toConditionRecords(conds, domain.LandTypeAll)
}

// areaTotal expands a set of condition records to a population land-area
// total. Unlike the tree-based estimators, area has no tree dimension to
// sum in stage 1 — each condition's own domain-indicator-weighted,
// adjustment-scaled proportion (aggregate.ConditionRecord's "factor") IS
// the quantity being totaled, so stage 1 is given a unit value of 1.0 per
// condition rather than zero.
func areaTotal(conds []aggregate.ConditionRecord, strata map[string]strat.PlotStratum) (Estimate, error) {
	unit := make(map[aggregate.CondKey]float64, len(conds))
	for _, c := range conds {
		unit[aggregate.CondKey{PltCN: c.PltCN, CondID: c.CondID}] = 1.0
	}
	return computeConditionTotal(conds, unit, strata)
}

// Area implements the area estimator (spec.md §4.4/§6): AREA_TOTAL is the
// expanded acreage of the domain; AREA_PERC is that total expressed as a
// percent of all land (never of the domain's own land type, which would
// trivially be 100%).
func Area(conds []ConditionInput, cfg AreaConfig, strata map[string]strat.PlotStratum) (Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return Estimate{}, err
	}

	domainConds := toConditionRecords(conds, cfg.LandType)
	allConds := allLandConditionRecords(conds)

	domainEst, err := areaTotal(domainConds, strata)
	if err != nil {
		return Estimate{}, err
	}
	allEst, err := areaTotal(allConds, strata)
	if err != nil {
		return Estimate{}, err
	}

	areaPerc := 0.0
	if allEst.Total != 0 {
		areaPerc = (domainEst.Total / allEst.Total) * 100
	}

	return Estimate{
		Value:     areaPerc,
		Total:     domainEst.Total,
		Variance:  domainEst.Variance,
		SE:        domainEst.SE,
		SEPercent: domainEst.SEPercent,
		NPlots:    domainEst.NPlots,
		NStrata:   domainEst.NStrata,
	}, nil
}
