package estimate

import (
	"github.com/mihiarc/pyfia-sub006/aggregate"
	"github.com/mihiarc/pyfia-sub006/domain"
)

// TreeInput is the sourced tree data every tree-based estimator needs;
// callers resolve it from TREE rows (IsSoftwood from the tree's SPCD) joined
// to PLOT (for MacroBreakpointDia).
type TreeInput struct {
	PltCN              string
	CondID             int
	StatusCD           int
	TreeClCD           int
	DIA                float64
	TPAUnadj           float64
	IsSoftwood         bool
	VolCFNet           float64
	VolCFGross         float64
	VolCSNet           float64
	DryBioAG           float64
	DryBioBG           float64
	MacroBreakpointDia *float64
}

// valueFunc resolves the attribute an estimator cares about from a
// TreeInput (1.0 for TPA, DIA²·π/4÷144 for basal area, a volume/biomass
// field otherwise).
type valueFunc func(TreeInput) float64

// toTreeRecords classifies each tree's basis and domain indicator and
// attaches the estimator-specific value, ready for
// aggregate.AggregateTreesToCondition.
func toTreeRecords(trees []TreeInput, treeType domain.TreeType, value valueFunc) []aggregate.TreeRecord {
	out := make([]aggregate.TreeRecord, 0, len(trees))
	for _, t := range trees {
		basis := domain.AssignTreeBasis(t.DIA, t.MacroBreakpointDia)
		ind := domain.TreeDomainIndicator(treeType, t.StatusCD, t.TreeClCD, t.DIA, t.IsSoftwood)
		out = append(out, aggregate.TreeRecord{
			PltCN:           t.PltCN,
			CondID:          t.CondID,
			Value:           value(t),
			TPAUnadj:        t.TPAUnadj,
			DomainIndicator: ind,
			Basis:           basis,
		})
	}
	return out
}

// basalAreaSqFt is the per-tree basal area in square feet from DIA in
// inches: π·(DIA/2)²/144.
func basalAreaSqFt(t TreeInput) float64 {
	r := t.DIA / 2.0
	return 3.14159265358979 * r * r / 144.0
}

func countOne(TreeInput) float64 { return 1.0 }

