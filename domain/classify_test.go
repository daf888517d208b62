package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func bp(v float64) *float64 { return &v }

func TestAssignTreeBasis(t *testing.T) {
	require.Equal(t, "MICR", string(AssignTreeBasis(4.9, bp(24.0))))
	require.Equal(t, "SUBP", string(AssignTreeBasis(5.0, bp(24.0))))
	require.Equal(t, "SUBP", string(AssignTreeBasis(23.9, bp(24.0))))
	require.Equal(t, "MACR", string(AssignTreeBasis(24.0, bp(24.0))))
	require.Equal(t, "SUBP", string(AssignTreeBasis(30.0, nil)), "no breakpoint means always SUBP for DIA >= 5")
	zero := 0.0
	require.Equal(t, "SUBP", string(AssignTreeBasis(30.0, &zero)), "breakpoint of 0 means no MACR")
}

func TestAssignPropBasis(t *testing.T) {
	require.Equal(t, "MACR", AssignPropBasis("", bp(24.0)))
	require.Equal(t, "SUBP", AssignPropBasis("", nil))
	require.Equal(t, "SUBP", AssignPropBasis("SUBP", bp(24.0)), "existing PROP_BASIS wins")
}

func TestAssignLandUseClass(t *testing.T) {
	require.Equal(t, LandUseTimberland, AssignLandUseClass(1, 0))
	require.Equal(t, LandUseReservedForest, AssignLandUseClass(1, 1))
	require.Equal(t, LandUseNonForest, AssignLandUseClass(2, 0))
}

func TestAssignSizeClassSchemes(t *testing.T) {
	require.Equal(t, "Small", AssignSizeClass(3.0, SizeClassSimple))
	require.Equal(t, "0.0-4.9", AssignSizeClass(3.0, SizeClassStandard))
	require.Equal(t, "6.0-7.9", AssignSizeClass(6.5, SizeClassDetailed))
}

func TestAssignSpeciesGroup(t *testing.T) {
	ref := map[int]SpeciesRef{131: {SPCD: 131, Genus: "Pinus", Family: "Pinaceae", Common: "loblolly pine"}}
	require.Equal(t, "loblolly pine", AssignSpeciesGroup(131, ref, SpeciesGroupMajor))
	require.Equal(t, "Pinus", AssignSpeciesGroup(131, ref, SpeciesGroupGenus))
	require.Equal(t, "Unknown", AssignSpeciesGroup(999, ref, SpeciesGroupMajor))
}
