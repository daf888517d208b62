package estimate

import (
	"fmt"

	"github.com/mihiarc/pyfia-sub006/domain"
)

// TemporalMethod selects how repeated-measurement EVALIDs are combined
// (spec.md §4.3's TI/ANNUAL/SMA/LMA/EMA family). Only TI is valid for
// every estimator; the others are gated per-estimator in validate().
type TemporalMethod string

const (
	TemporalTI      TemporalMethod = "TI"
	TemporalAnnual  TemporalMethod = "ANNUAL"
	TemporalSMA     TemporalMethod = "SMA"
	TemporalLMA     TemporalMethod = "LMA"
	TemporalEMA     TemporalMethod = "EMA"
)

// BaseConfig is embedded by every per-estimator config and carries the
// options common to all of them.
type BaseConfig struct {
	LandType   domain.LandType
	TreeType   domain.TreeType
	GroupBy    []string
	Temporal   TemporalMethod
	MostRecent bool

	// Totals requests the expanded population TOTAL column alongside the
	// per-acre ratio (spec.md §6's totals=false default).
	Totals bool
	// Variance requests the SE/SE% columns and switches variance_method
	// semantics (spec.md §6's variance=false default). When false, the
	// formatter still has a computed variance available internally (it
	// is never skipped, since RatioVariance is cheap relative to the
	// aggregation it rides on) but omits the columns from the row.
	Variance bool
}

func (c BaseConfig) validateTemporal(supportsNonTI bool) error {
	if c.Temporal == "" || c.Temporal == TemporalTI {
		return nil
	}
	if !supportsNonTI {
		return fmt.Errorf("temporal method %q is not available for this estimator; only TI is", c.Temporal)
	}
	return nil
}

// MortalityType selects which attribute a mortality estimate reports
// (spec.md's supplemented mortality_type decision, expanding on the
// distilled spec's tpa-only mortality).
type MortalityType string

const (
	MortalityTPA       MortalityType = "tpa"
	MortalityVolume    MortalityType = "volume"
	MortalityBiomass   MortalityType = "biomass"
	MortalityBasalArea MortalityType = "basal_area"
	MortalityBoth      MortalityType = "both"
)

// MortalityConfig configures the mortality estimator.
type MortalityConfig struct {
	BaseConfig
	MortalityType MortalityType
}

func (c MortalityConfig) Validate() error {
	if err := c.validateTemporal(false); err != nil {
		return err
	}
	if c.TreeType == domain.TreeTypeLive {
		return fmt.Errorf("mortality is defined over trees that died during the remeasurement period; tree_type=live is invalid")
	}
	switch c.MortalityType {
	case MortalityTPA, MortalityVolume, MortalityBiomass, MortalityBasalArea, MortalityBoth, "":
	default:
		return fmt.Errorf("unknown mortality_type %q", c.MortalityType)
	}
	return nil
}

// VolumeType selects net, gross, or sawlog volume (spec.md §4.4's volume
// family).
type VolumeType string

const (
	VolumeNet    VolumeType = "net"
	VolumeGross  VolumeType = "gross"
	VolumeSawlog VolumeType = "sawlog"
)

// VolumeConfig configures the volume estimator.
type VolumeConfig struct {
	BaseConfig
	VolumeType VolumeType
}

func (c VolumeConfig) Validate() error {
	if err := c.validateTemporal(true); err != nil {
		return err
	}
	switch c.VolumeType {
	case VolumeNet, VolumeGross, VolumeSawlog, "":
	default:
		return fmt.Errorf("unknown volume_type %q", c.VolumeType)
	}
	return nil
}

// BiomassComponent selects above-ground, below-ground, or total biomass.
type BiomassComponent string

const (
	BiomassAboveGround BiomassComponent = "AG"
	BiomassBelowGround BiomassComponent = "BG"
	BiomassTotal       BiomassComponent = "TOTAL"
)

// BiomassConfig configures the biomass estimator.
type BiomassConfig struct {
	BaseConfig
	Component      BiomassComponent
	IncludeFoliage bool
}

func (c BiomassConfig) Validate() error {
	if err := c.validateTemporal(true); err != nil {
		return err
	}
	switch c.Component {
	case BiomassAboveGround, BiomassBelowGround, BiomassTotal, "":
	default:
		return fmt.Errorf("unknown biomass component %q", c.Component)
	}
	return nil
}

// AreaConfig configures the area estimator.
type AreaConfig struct {
	BaseConfig
}

func (c AreaConfig) Validate() error {
	return c.validateTemporal(true)
}

// TPAConfig configures the trees-per-acre / basal-area-per-acre estimator.
type TPAConfig struct {
	BaseConfig
	BasalArea bool
}

func (c TPAConfig) Validate() error {
	return c.validateTemporal(true)
}

// GrowthConfig configures the growth estimator (GRM-based).
type GrowthConfig struct {
	BaseConfig
}

func (c GrowthConfig) Validate() error {
	return c.validateTemporal(false)
}

// RemovalsConfig configures the removals estimator (GRM-based).
type RemovalsConfig struct {
	BaseConfig
}

func (c RemovalsConfig) Validate() error {
	return c.validateTemporal(false)
}

// CarbonPool selects the carbon pool reported (spec.md's carbon family).
type CarbonPool string

const (
	CarbonAboveGround CarbonPool = "AG"
	CarbonBelowGround CarbonPool = "BG"
	CarbonTotal       CarbonPool = "TOTAL"
)

// CarbonConfig configures the standing-carbon estimator.
type CarbonConfig struct {
	BaseConfig
	Pool CarbonPool
}

func (c CarbonConfig) Validate() error {
	return c.validateTemporal(true)
}

// CarbonFluxConfig configures the net carbon flux estimator
// (growth - mortality - removals).
type CarbonFluxConfig struct {
	BaseConfig
}

func (c CarbonFluxConfig) Validate() error {
	return c.validateTemporal(false)
}
