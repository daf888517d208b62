// Package domain implements the domain filter & classifier (C4): the
// expression parser lives in domain/expr; this file and its siblings hold
// the pure classification functions spec.md §4.4.4 requires (no side
// effects, individually testable).
package domain

import (
	"math"

	"github.com/mihiarc/pyfia-sub006/model"
)

// AssignTreeBasis implements spec.md invariant 4's tree-level basis rule:
// DIA < 5.0 -> MICR; 5.0 <= DIA < breakpoint -> SUBP; DIA >= breakpoint
// (when breakpoint is set and > 0) -> MACR. A nil or zero breakpoint means
// the plot has no macroplot design, so DIA >= 5.0 is always SUBP.
func AssignTreeBasis(dia float64, macroBreakpointDia *float64) model.TreeBasis {
	if dia < 5.0 {
		return model.BasisMicr
	}
	if macroBreakpointDia != nil && *macroBreakpointDia > 0 && dia >= *macroBreakpointDia {
		return model.BasisMacr
	}
	return model.BasisSubp
}

// AssignPropBasis implements spec.md §4.4.4: PROP_BASIS = MACR when the
// plot has a positive macroplot breakpoint and the condition doesn't
// already carry its own PROP_BASIS; existingPropBasis, when non-empty, is
// returned unchanged (COND.PROP_BASIS as sourced takes precedence).
func AssignPropBasis(existingPropBasis string, macroBreakpointDia *float64) string {
	if existingPropBasis != "" {
		return existingPropBasis
	}
	if macroBreakpointDia != nil && *macroBreakpointDia > 0 {
		return "MACR"
	}
	return "SUBP"
}

// SizeClassScheme selects one of the three named 2-inch-based binning
// tables from spec.md §4.4.4.
type SizeClassScheme string

const (
	SizeClassStandard SizeClassScheme = "standard"
	SizeClassDetailed SizeClassScheme = "detailed"
	SizeClassSimple   SizeClassScheme = "simple"
)

// AssignSizeClass bins dia into a 2-inch class, e.g. floor(DIA/2)*2, then
// renders it per scheme. "simple" collapses to three buckets regardless of
// the 2-inch class; "detailed" keeps every 2-inch bin as its own label;
// "standard" groups small trees below 5" into a single "0.0-4.9" bucket
// and otherwise keeps 2-inch bins.
func AssignSizeClass(dia float64, scheme SizeClassScheme) string {
	bin := math.Floor(dia/2.0) * 2.0

	switch scheme {
	case SizeClassSimple:
		switch {
		case dia < 5.0:
			return "Small"
		case dia < 20.0:
			return "Medium"
		default:
			return "Large"
		}
	case SizeClassStandard:
		if dia < 5.0 {
			return "0.0-4.9"
		}
		return formatBin(bin)
	default: // detailed
		return formatBin(bin)
	}
}

func formatBin(bin float64) string {
	low := bin
	high := bin + 1.9
	return floatLabel(low) + "-" + floatLabel(high)
}

func floatLabel(v float64) string {
	// Render with one decimal place without pulling in fmt's rounding
	// surprises for .0 cases like "6.0".
	whole := math.Floor(v)
	frac := math.Round((v - whole) * 10)
	if frac >= 10 {
		whole++
		frac = 0
	}
	return itoa(int(whole)) + "." + itoa(int(frac))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// LandUseClass is the classification spec.md §4.4.4 names.
type LandUseClass string

const (
	LandUseTimberland     LandUseClass = "Timberland"
	LandUseReservedForest LandUseClass = "Reserved forest"
	LandUseOtherForest    LandUseClass = "Other forest"
	LandUseNonForest      LandUseClass = "Non-forest"
	LandUseOther          LandUseClass = "Other/unknown"
)

// AssignLandUseClass derives the land-use class from COND_STATUS_CD and
// RESERVCD.
func AssignLandUseClass(condStatusCD, reservCD int) LandUseClass {
	switch {
	case condStatusCD == 1 && reservCD == 0:
		return LandUseTimberland
	case condStatusCD == 1 && reservCD != 0:
		return LandUseReservedForest
	case condStatusCD == 1:
		return LandUseOtherForest
	case condStatusCD == 2 || condStatusCD == 3:
		return LandUseNonForest
	default:
		return LandUseOther
	}
}

// AssignForestTypeGroup maps an FORTYPCD into its named group per
// spec.md §4.4.4's range table. Ranges below follow the standard FIA
// FORTYPCD-to-group convention (100s = pine/fir groups, 200s = spruce/fir
// group, etc.); codes outside any named range fall to "Other/Unknown".
func AssignForestTypeGroup(fortypcd int) string {
	switch {
	case fortypcd >= 100 && fortypcd < 200:
		return "White/Red/Jack Pine Group"
	case fortypcd >= 200 && fortypcd < 300:
		return "Spruce/Fir Group"
	case fortypcd >= 300 && fortypcd < 400:
		return "Longleaf/Slash Pine Group"
	case fortypcd >= 400 && fortypcd < 500:
		return "Loblolly/Shortleaf Pine Group"
	case fortypcd >= 500 && fortypcd < 600:
		return "Oak/Pine Group"
	case fortypcd >= 600 && fortypcd < 700:
		return "Oak/Hickory Group"
	case fortypcd >= 700 && fortypcd < 800:
		return "Oak/Gum/Cypress Group"
	case fortypcd >= 800 && fortypcd < 900:
		return "Elm/Ash/Cottonwood Group"
	case fortypcd >= 900 && fortypcd < 1000:
		return "Maple/Beech/Birch Group"
	case fortypcd >= 920 && fortypcd < 1000:
		return "Aspen/Birch Group"
	default:
		return "Other/Unknown"
	}
}

// SpeciesGroupLevel selects the granularity of assign_species_group.
type SpeciesGroupLevel string

const (
	SpeciesGroupMajor  SpeciesGroupLevel = "major_species"
	SpeciesGroupGenus  SpeciesGroupLevel = "genus"
	SpeciesGroupFamily SpeciesGroupLevel = "family"
)

// SpeciesRef is the slice of REF_SPECIES columns AssignSpeciesGroup needs;
// the full reference table is joined in by the table/join layer, not
// reimplemented here.
type SpeciesRef struct {
	SPCD   int
	Genus  string
	Family string
	Common string
}

// AssignSpeciesGroup resolves spcd to a species-group label at the
// requested level via a broadcast-joined reference table, falling back to
// "Unknown" for an SPCD absent from ref.
func AssignSpeciesGroup(spcd int, ref map[int]SpeciesRef, level SpeciesGroupLevel) string {
	r, ok := ref[spcd]
	if !ok {
		return "Unknown"
	}
	switch level {
	case SpeciesGroupGenus:
		return r.Genus
	case SpeciesGroupFamily:
		return r.Family
	default:
		return r.Common
	}
}
