// Package output implements the output formatter (C9): renders an
// estimate into the column names and ordering spec.md §4.9 fixes per
// estimator family. Renaming is table-driven and additive only — no
// estimator's table may omit or rename a column another part of the
// engine reads back by name (growth.go reads GROWTH_ACRE; this package
// is what writes it, so the two must never drift apart).
package output

import (
	"github.com/mihiarc/pyfia-sub006/estimate"
)

// Row is one formatted output row: ordered column names paired with
// values, ready for a tabular writer.
type Row struct {
	Columns []string
	Values  map[string]interface{}
}

// columnSet defines one estimator family's base output column order, laid
// out as [value, total, se, sePercent, n_plots], before any GROUP_BY
// columns are prepended. total/se/sePercent are conditionally emitted —
// see baseRow.
type columnSet []string

var (
	areaColumns       = columnSet{"AREA_PERC", "AREA_TOTAL", "AREA_TOTAL_SE", "AREA_TOTAL_SE_PERCENT", "N_PLOTS"}
	tpaColumns        = columnSet{"TPA", "TPA_TOTAL", "TPA_SE", "TPA_SE_PERCENT", "N_PLOTS"}
	baaColumns        = columnSet{"BAA", "BAA_TOTAL", "BAA_SE", "BAA_SE_PERCENT", "N_PLOTS"}
	volumeColumns     = columnSet{"VOL_ACRE", "VOL_TOTAL", "VOL_ACRE_SE", "VOL_ACRE_SE_PERCENT", "N_PLOTS"}
	biomassColumns    = columnSet{"BIO_ACRE", "BIO_TOTAL", "BIO_ACRE_SE", "BIO_ACRE_SE_PERCENT", "N_PLOTS"}
	carbonColumns     = columnSet{"CARB_ACRE", "CARB_TOTAL", "CARB_ACRE_SE", "CARB_ACRE_SE_PERCENT", "N_PLOTS"}
	growthColumns     = columnSet{"GROWTH_ACRE", "GROWTH_TOTAL", "GROWTH_ACRE_SE", "GROWTH_ACRE_SE_PERCENT", "N_PLOTS"}
	mortalityColumns  = columnSet{"MORT_ACRE", "MORT_TOTAL", "MORT_ACRE_SE", "MORT_ACRE_SE_PERCENT", "N_PLOTS"}
	removalsColumns   = columnSet{"REMV_ACRE", "REMV_TOTAL", "REMV_ACRE_SE", "REMV_ACRE_SE_PERCENT", "N_PLOTS"}
	carbonFluxColumns = columnSet{"NET_CARBON_FLUX_ACRE", "NET_CARBON_FLUX_TOTAL", "NET_CARBON_FLUX_ACRE_SE", "NET_CARBON_FLUX_ACRE_SE_PERCENT", "N_PLOTS"}
)

// baseRow assembles a row from a columnSet whose fixed positions are
// [value, total, se, sePercent, n_plots] — the layout every estimator
// family shares. totals/variance gate whether the TOTAL and SE/SE_PERCENT
// (CV%) columns appear at all, per spec.md §6's totals=false,
// variance=false defaults; the value column and N_PLOTS are always
// present.
func baseRow(cols columnSet, valueCol string, est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	all := make([]string, 0, len(groupBy)+len(cols))
	all = append(all, groupBy...)
	all = append(all, valueCol)
	if totals {
		all = append(all, cols[1])
	}
	if variance {
		all = append(all, cols[2], cols[3])
	}
	all = append(all, cols[4])

	values := make(map[string]interface{}, len(all))
	for k, v := range est.Group {
		values[k] = v
	}
	values[valueCol] = est.Value
	if totals {
		values[cols[1]] = est.Total
	}
	if variance {
		values[cols[2]] = est.SE
		values[cols[3]] = est.SEPercent
	}
	values[cols[4]] = est.NPlots

	return Row{Columns: all, Values: values}
}

// Area formats an area estimate.
func Area(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(areaColumns, "AREA_PERC", est, groupBy, totals, variance)
}

// TPA formats a trees-per-acre estimate.
func TPA(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(tpaColumns, "TPA", est, groupBy, totals, variance)
}

// BAA formats a basal-area-per-acre estimate.
func BAA(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(baaColumns, "BAA", est, groupBy, totals, variance)
}

// Volume formats a volume estimate.
func Volume(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(volumeColumns, "VOL_ACRE", est, groupBy, totals, variance)
}

// Biomass formats a biomass estimate.
func Biomass(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(biomassColumns, "BIO_ACRE", est, groupBy, totals, variance)
}

// Carbon formats a standing-carbon estimate.
func Carbon(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(carbonColumns, "CARB_ACRE", est, groupBy, totals, variance)
}

// Growth formats a growth estimate. GROWTH_ACRE is never renamed — the
// growth estimator's own documentation depends on downstream code reading
// this exact column name back.
func Growth(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(growthColumns, "GROWTH_ACRE", est, groupBy, totals, variance)
}

// Mortality formats a mortality estimate for whichever measure the
// caller resolved (TPA, volume, biomass, or basal area); the caller picks
// the right field off estimate.MortalityResult before calling this.
func Mortality(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(mortalityColumns, "MORT_ACRE", est, groupBy, totals, variance)
}

// Removals formats a removals estimate.
func Removals(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(removalsColumns, "REMV_ACRE", est, groupBy, totals, variance)
}

// CarbonFlux formats a net carbon flux estimate. NET_CARBON_FLUX_TOTAL is
// the expanded population total (growth - mortality - removals, each
// already expanded and converted to carbon before the subtraction) — see
// estimate.CarbonFlux, which computes it from the three components'
// population totals rather than from the per-acre ratio.
func CarbonFlux(est estimate.Estimate, groupBy []string, totals, variance bool) Row {
	return baseRow(carbonFluxColumns, "NET_CARBON_FLUX_ACRE", est, groupBy, totals, variance)
}
