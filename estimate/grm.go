package estimate

import (
	"github.com/mihiarc/pyfia-sub006/aggregate"
	"github.com/mihiarc/pyfia-sub006/model"
)

// grmAttribute pulls the (midpoint, period-begin) pair for whichever
// quantity an estimator is built over (count, volume, biomass); growth's
// SURVIVOR arithmetic needs both, mortality/removals need only midpoint.
type grmAttribute func(model.GRMRecord) (midpt, begin float64)

func grmCount(model.GRMRecord) (float64, float64) { return 1.0, 0.0 }
func grmVolume(r model.GRMRecord) (float64, float64) {
	return r.VolCFNetMidpt, r.VolCFNetBegin
}
func grmBiomass(r model.GRMRecord) (float64, float64) {
	return r.DryBioAGMidpt, r.DryBioAGBegin
}

// growthComponentValue implements spec.md §4.8's GRM component dispatch
// for the growth estimator: SURVIVOR trees grow by (midpoint - begin);
// INGROWTH and REVERSION trees enter the population mid-period and
// contribute their full midpoint value; CUT, MORTALITY, and DIVERSION
// components removed the tree from the live population and contribute
// nothing to growth.
func growthComponentValue(rec model.GRMRecord, attr grmAttribute) float64 {
	midpt, begin := attr(rec)
	switch rec.Component {
	case model.ComponentSurvivor:
		return midpt - begin
	case model.ComponentIngrowth, model.ComponentReversion1, model.ComponentReversion2:
		return midpt
	default:
		return 0
	}
}

// mortalityComponentValue contributes a tree's midpoint value only for
// the MORTALITY1/MORTALITY2 components.
func mortalityComponentValue(rec model.GRMRecord, attr grmAttribute) float64 {
	switch rec.Component {
	case model.ComponentMortality1, model.ComponentMortality2:
		midpt, _ := attr(rec)
		return midpt
	default:
		return 0
	}
}

// removalsComponentValue contributes a tree's midpoint value only for the
// CUT1/CUT2/CUT3/DIVERSION1/DIVERSION2 components — a tree diverted to a
// non-forest use is removed from the timberland population exactly like
// one that was cut.
func removalsComponentValue(rec model.GRMRecord, attr grmAttribute) float64 {
	switch rec.Component {
	case model.ComponentCut1, model.ComponentCut2, model.ComponentCut3,
		model.ComponentDiversion1, model.ComponentDiversion2:
		midpt, _ := attr(rec)
		return midpt
	default:
		return 0
	}
}

// grmToTreeRecords converts GRM rows to aggregate.TreeRecord using the
// per-row TPA field the caller selects (TPAGrowUnadj/TPAMortUnadj/
// TPARemvUnadj) and the component-value function. SUBPTYP_GRM == 0 (not
// sampled) zeros the domain indicator rather than being dropped, so it
// still participates correctly wherever it is joined against a
// denominator built from the same plot set.
func grmToTreeRecords(records []model.GRMRecord, tpa func(model.GRMRecord) float64, componentValue func(model.GRMRecord, grmAttribute) float64, attr grmAttribute) []aggregate.TreeRecord {
	out := make([]aggregate.TreeRecord, 0, len(records))
	for _, r := range records {
		ind := 1.0
		if r.SubpTypGRM == model.GRMNone {
			ind = 0
		}
		out = append(out, aggregate.TreeRecord{
			PltCN:           r.PltCN,
			CondID:          r.CondID,
			Value:           componentValue(r, attr),
			TPAUnadj:        tpa(r),
			DomainIndicator: ind,
			Basis:           subpTypGRMToBasis(r.SubpTypGRM),
		})
	}
	return out
}

func subpTypGRMToBasis(s model.SubpTypGRM) model.TreeBasis {
	switch s {
	case model.GRMMicr:
		return model.BasisMicr
	case model.GRMMacr:
		return model.BasisMacr
	default:
		return model.BasisSubp
	}
}
