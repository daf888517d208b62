package pyfia

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mihiarc/pyfia-sub006/domain"
	"github.com/mihiarc/pyfia-sub006/estimate"
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/output"
)

// condKey identifies one condition the way aggregate.CondKey does, local
// to this file so the facade doesn't need to import the aggregate
// package just to build lookup maps.
type condKey struct {
	PltCN  string
	CondID int
}

// indexed is the per-Clip lookup state every facade call builds once:
// plots and conditions keyed for the tree/condition -> input conversions
// below, and for resolving grp_by column values.
type indexed struct {
	plots map[string]model.Plot
	conds map[condKey]model.Condition
}

func buildIndex(c *Clip) indexed {
	idx := indexed{
		plots: make(map[string]model.Plot, len(c.Plots)),
		conds: make(map[condKey]model.Condition, len(c.Conditions)),
	}
	for _, p := range c.Plots {
		idx.plots[p.CN] = p
	}
	for _, cond := range c.Conditions {
		idx.conds[condKey{cond.PltCN, cond.CondID}] = cond
	}
	return idx
}

func (idx indexed) conditionInput(c model.Condition) estimate.ConditionInput {
	plot := idx.plots[c.PltCN]
	return estimate.ConditionInput{
		PltCN:               c.PltCN,
		CondID:              c.CondID,
		CondStatusCD:        c.CondStatusCD,
		SiteClCD:            c.SiteClCD,
		ReservCD:            c.ReservCD,
		CondPropUnadj:       c.CondPropUnadj,
		ExistingPropBasis:   c.PropBasis,
		MacroBreakpointDia:  plot.MacroBreakpointDia,
	}
}

// poundsPerTon converts TREE's DRYBIO_AG/DRYBIO_BG (pounds) to the tons
// estimate.Biomass and estimate.Carbon work in.
const poundsPerTon = 2000.0

func (idx indexed) treeInput(t model.Tree) estimate.TreeInput {
	plot := idx.plots[t.PltCN]
	return estimate.TreeInput{
		PltCN:              t.PltCN,
		CondID:             t.CondID,
		StatusCD:           t.StatusCD,
		TreeClCD:           t.TreeClCD,
		DIA:                t.DIA,
		TPAUnadj:           t.TPAUnadj,
		IsSoftwood:         domain.IsSoftwood(t.SPCD),
		VolCFNet:           t.VolCFNet,
		VolCFGross:         t.VolCFGross,
		VolCSNet:           t.VolCSNet,
		DryBioAG:           t.DryBioAG / poundsPerTon,
		DryBioBG:           t.DryBioBG / poundsPerTon,
		MacroBreakpointDia: plot.MacroBreakpointDia,
	}
}

func (idx indexed) allConditionInputs(conds []model.Condition) []estimate.ConditionInput {
	out := make([]estimate.ConditionInput, 0, len(conds))
	for _, c := range conds {
		out = append(out, idx.conditionInput(c))
	}
	return out
}

// groupLabel resolves one grp_by column for one tree/condition pair. Only
// columns the facade can resolve without a further database round trip
// are supported (spec.md §9's no-process-wide-state rule means grouping
// columns must already live on the Clip's decoded rows).
func (idx indexed) groupLabel(col string, p model.Plot, c model.Condition, t *model.Tree) (string, bool) {
	switch strings.ToUpper(col) {
	case "STATECD":
		return strconv.Itoa(p.STATECD), true
	case "OWNGRPCD":
		return strconv.Itoa(c.OwngrpCD), true
	case "FORTYPCD":
		return strconv.Itoa(c.FortypCD), true
	case "SPCD":
		if t == nil {
			return "", false
		}
		return strconv.Itoa(t.SPCD), true
	case "SIZE_CLASS":
		if t == nil {
			return "", false
		}
		return domain.AssignSizeClass(t.DIA, domain.SizeClassStandard), true
	default:
		return "", false
	}
}

// groupKeyForTree joins every requested grp_by column into one key,
// skipping columns it can't resolve for this tree (caller-supplied
// columns are validated by BaseConfig.GroupBy's presence, not here).
func (idx indexed) groupKeyForTree(cols []string, t model.Tree) map[string]string {
	plot := idx.plots[t.PltCN]
	cond := idx.conds[condKey{t.PltCN, t.CondID}]
	out := make(map[string]string, len(cols))
	for _, col := range cols {
		if v, ok := idx.groupLabel(col, plot, cond, &t); ok {
			out[col] = v
		}
	}
	return out
}

func (idx indexed) groupKeyForCondition(cols []string, c model.Condition) map[string]string {
	plot := idx.plots[c.PltCN]
	out := make(map[string]string, len(cols))
	for _, col := range cols {
		if v, ok := idx.groupLabel(col, plot, c, nil); ok {
			out[col] = v
		}
	}
	return out
}

func joinGroup(g map[string]string, cols []string) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, c+"="+g[c])
	}
	return strings.Join(parts, "|")
}

func sortedGroupKeys(groups map[string]map[string]string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func withGroup(est estimate.Estimate, group map[string]string) estimate.Estimate {
	est.Group = group
	return est
}

// partitionTrees buckets trees by their grp_by key; the empty key always
// maps to the full slice when cols is empty, so every estimator below can
// call this unconditionally instead of special-casing the ungrouped path.
func (idx indexed) partitionTrees(trees []model.Tree, cols []string) (map[string][]model.Tree, map[string]map[string]string) {
	buckets := make(map[string][]model.Tree)
	groups := make(map[string]map[string]string)
	for _, t := range trees {
		g := idx.groupKeyForTree(cols, t)
		key := joinGroup(g, cols)
		buckets[key] = append(buckets[key], t)
		groups[key] = g
	}
	if len(buckets) == 0 {
		buckets[""] = nil
		groups[""] = map[string]string{}
	}
	return buckets, groups
}

func (idx indexed) partitionGRM(records []model.GRMRecord, cols []string) (map[string][]model.GRMRecord, map[string]map[string]string) {
	buckets := make(map[string][]model.GRMRecord)
	groups := make(map[string]map[string]string)
	for _, r := range records {
		cond := idx.conds[condKey{r.PltCN, r.CondID}]
		plot := idx.plots[r.PltCN]
		g := make(map[string]string, len(cols))
		for _, col := range cols {
			if v, ok := idx.groupLabel(col, plot, cond, nil); ok {
				g[col] = v
			}
		}
		key := joinGroup(g, cols)
		buckets[key] = append(buckets[key], r)
		groups[key] = g
	}
	if len(buckets) == 0 {
		buckets[""] = nil
		groups[""] = map[string]string{}
	}
	return buckets, groups
}

func (idx indexed) partitionConditions(conds []model.Condition, cols []string) (map[string][]model.Condition, map[string]map[string]string) {
	buckets := make(map[string][]model.Condition)
	groups := make(map[string]map[string]string)
	for _, c := range conds {
		g := idx.groupKeyForCondition(cols, c)
		key := joinGroup(g, cols)
		buckets[key] = append(buckets[key], c)
		groups[key] = g
	}
	if len(buckets) == 0 {
		buckets[""] = nil
		groups[""] = map[string]string{}
	}
	return buckets, groups
}

// toTreeInputs converts a []model.Tree slice through the index in one
// pass, the shape every tree-based estimator below needs.
func (idx indexed) toTreeInputs(trees []model.Tree) []estimate.TreeInput {
	out := make([]estimate.TreeInput, 0, len(trees))
	for _, t := range trees {
		out = append(out, idx.treeInput(t))
	}
	return out
}

func estimatorError(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}

// Area implements spec.md §6's area(...) facade: AREA_PERC/AREA_TOTAL, one
// row per distinct grp_by combination (a single ungrouped row when
// cfg.GroupBy is empty).
func Area(c *Clip, cfg estimate.AreaConfig) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionConditions(c.Conditions, cfg.GroupBy)

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		conds := idx.allConditionInputs(buckets[key])
		est, err := estimate.Area(conds, cfg, c.Strata)
		if err != nil {
			return nil, estimatorError("area", err)
		}
		rows = append(rows, output.Area(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}

// TPA implements spec.md §6's tpa(...)/baa(...) facade (cfg.BasalArea
// switches between them).
func TPA(c *Clip, cfg estimate.TPAConfig) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionTrees(c.Trees, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	formatRow := output.TPA
	if cfg.BasalArea {
		formatRow = output.BAA
	}

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		trees := idx.toTreeInputs(buckets[key])
		est, err := estimate.TPA(trees, condInputs, cfg, c.Strata)
		if err != nil {
			return nil, estimatorError("tpa", err)
		}
		rows = append(rows, formatRow(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}

// Volume implements spec.md §6's volume(...) facade.
func Volume(c *Clip, cfg estimate.VolumeConfig) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionTrees(c.Trees, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		trees := idx.toTreeInputs(buckets[key])
		est, err := estimate.Volume(trees, condInputs, cfg, c.Strata)
		if err != nil {
			return nil, estimatorError("volume", err)
		}
		rows = append(rows, output.Volume(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}

// Biomass implements spec.md §6's biomass(...) facade.
func Biomass(c *Clip, cfg estimate.BiomassConfig) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionTrees(c.Trees, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		trees := idx.toTreeInputs(buckets[key])
		est, err := estimate.Biomass(trees, condInputs, cfg, c.Strata)
		if err != nil {
			return nil, estimatorError("biomass", err)
		}
		rows = append(rows, output.Biomass(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}

// Carbon implements spec.md's supplemented carbon(...) facade.
func Carbon(c *Clip, cfg estimate.CarbonConfig) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionTrees(c.Trees, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		trees := idx.toTreeInputs(buckets[key])
		est, err := estimate.Carbon(trees, condInputs, cfg, c.Strata)
		if err != nil {
			return nil, estimatorError("carbon", err)
		}
		rows = append(rows, output.Carbon(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}

// Growth implements spec.md §6's growth(...) facade (GRM-based).
func Growth(c *Clip, cfg estimate.GrowthConfig, measure estimate.GrowthMeasure) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionGRM(c.GRM, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		est, err := estimate.Growth(buckets[key], condInputs, cfg, measure, c.Strata)
		if err != nil {
			return nil, estimatorError("growth", err)
		}
		rows = append(rows, output.Growth(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}

// Mortality implements spec.md §6's mortality(...) facade. Unlike the
// other estimators a single call may populate more than one attribute
// (cfg.MortalityType == both), so each grp_by bucket can contribute more
// than one row.
func Mortality(c *Clip, cfg estimate.MortalityConfig) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionGRM(c.GRM, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	var rows []output.Row
	for _, key := range sortedGroupKeys(groups) {
		result, err := estimate.Mortality(buckets[key], condInputs, cfg, c.Strata)
		if err != nil {
			return nil, estimatorError("mortality", err)
		}
		for _, e := range []*estimate.Estimate{result.TPA, result.Volume, result.Biomass, result.BasalArea} {
			if e != nil {
				rows = append(rows, output.Mortality(withGroup(*e, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
			}
		}
	}
	return rows, nil
}

// Removals implements spec.md §6's removals(...) facade (GRM-based).
func Removals(c *Clip, cfg estimate.RemovalsConfig, measure estimate.GrowthMeasure) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionGRM(c.GRM, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		est, err := estimate.Removals(buckets[key], condInputs, cfg, measure, c.Strata)
		if err != nil {
			return nil, estimatorError("removals", err)
		}
		rows = append(rows, output.Removals(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}

// CarbonFlux implements spec.md's supplemented carbon_flux(...) facade.
func CarbonFlux(c *Clip, cfg estimate.CarbonFluxConfig) ([]output.Row, error) {
	idx := buildIndex(c)
	buckets, groups := idx.partitionGRM(c.GRM, cfg.GroupBy)
	condInputs := idx.allConditionInputs(c.Conditions)

	rows := make([]output.Row, 0, len(buckets))
	for _, key := range sortedGroupKeys(groups) {
		est, err := estimate.CarbonFlux(buckets[key], condInputs, cfg, c.Strata)
		if err != nil {
			return nil, estimatorError("carbon_flux", err)
		}
		rows = append(rows, output.CarbonFlux(withGroup(est, groups[key]), cfg.GroupBy, cfg.Totals, cfg.Variance))
	}
	return rows, nil
}
