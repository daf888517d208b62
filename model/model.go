// Package model defines the FIA entities the estimation engine reasons
// about directly (spec.md §3). All control-number fields (CN, PLT_CN,
// STRATUM_CN, ESTN_UNIT_CN, TRE_CN) are strings: FIA CNs exceed the safe
// range of a 64-bit integer in general, and the engine never reinterprets
// them as numeric (spec.md invariant 5).
package model

// Plot is static, sourced data; the engine never mutates it.
type Plot struct {
	CN                  string
	STATECD             int
	INVYR               int
	MacroBreakpointDia   *float64 // nil means "no macroplot design on this plot"
	PlotStatusCD        int
	Remper              *float64 // years; nil for plots with no remeasurement
}

// Condition is a homogeneous sub-portion of a plot. ⟨PltCN, CondID⟩
// uniquely identifies it.
type Condition struct {
	PltCN          string
	CondID         int
	CondStatusCD   int // 1=forest, 2=non-forest, 3=water, ...
	CondPropUnadj  float64
	PropBasis      string // "SUBP" or "MACR"
	SiteClCD       int
	ReservCD       int
	FortypCD       int
	OwngrpCD       int
	AlstkCD        int
}

// Tree is static, sourced data.
type Tree struct {
	CN          string
	PltCN       string
	CondID      int
	StatusCD    int // 1=live, 2=dead
	SPCD        int
	DIA         float64
	HT          float64
	TPAUnadj    float64
	VolCFNet    float64
	VolCFGross  float64
	VolCSNet    float64
	DryBioAG    float64
	DryBioBG    float64
	AgentCD     int
	TreeClCD    int
}

// GRMComponent is the FIA code describing how a GRM tree behaved across a
// remeasurement: SURVIVOR, INGROWTH, REVERSION{1,2}, MORTALITY{1,2},
// CUT{1,2,3}, DIVERSION{1,2}, or "" (not applicable / not sampled).
type GRMComponent string

const (
	ComponentSurvivor    GRMComponent = "SURVIVOR"
	ComponentIngrowth    GRMComponent = "INGROWTH"
	ComponentReversion1  GRMComponent = "REVERSION1"
	ComponentReversion2  GRMComponent = "REVERSION2"
	ComponentMortality1  GRMComponent = "MORTALITY1"
	ComponentMortality2  GRMComponent = "MORTALITY2"
	ComponentCut1        GRMComponent = "CUT1"
	ComponentCut2        GRMComponent = "CUT2"
	ComponentCut3        GRMComponent = "CUT3"
	ComponentDiversion1  GRMComponent = "DIVERSION1"
	ComponentDiversion2  GRMComponent = "DIVERSION2"
)

// SubpTypGRM is the GRM adjustment-basis code (spec.md invariant 4):
// 0 = not sampled (contributes 0 but still participates in denominators),
// 1 = SUBP, 2 = MICR, 3 = MACR.
type SubpTypGRM int

const (
	GRMNone SubpTypGRM = 0
	GRMSubp SubpTypGRM = 1
	GRMMicr SubpTypGRM = 2
	GRMMacr SubpTypGRM = 3
)

// GRMRecord is one TREE_GRM_COMPONENT row (joined against _MIDPT/_BEGIN
// measurement columns by TreCN).
type GRMRecord struct {
	TreCN       string
	PltCN       string
	CondID      int
	Component   GRMComponent
	SubpTypGRM  SubpTypGRM
	TPAGrowUnadj float64
	TPAMortUnadj float64
	TPARemvUnadj float64

	// Measurement values at midpoint and period-begin, used by the growth
	// arithmetic in spec.md §4.8 (SURVIVOR subtracts Begin from Midpt;
	// INGROWTH/REVERSION use Midpt alone).
	VolCFNetMidpt float64
	VolCFNetBegin float64
	DryBioAGMidpt float64
	DryBioAGBegin float64

	// BasalAreaMidpt is the tree's basal area (sq ft) at the
	// remeasurement midpoint, used by the mortality estimator's
	// basal_area mortality_type.
	BasalAreaMidpt float64
}

// Evaluation groups plots and strata under one EVALID.
type Evaluation struct {
	EvalID      int
	StateCD     int
	EvalTyp     string // e.g. "EXPVOL", "EXPMORT", "EXPGROW", "EXPREMV", "EXPALL", "EXPCURR"
	StartInvyr  int
	EndInvyr    int
}

// PlotStratumAssign maps one plot to one stratum within one EVALID.
type PlotStratumAssign struct {
	PltCN      string
	StratumCN  string
	EvalID     int
}

// Stratum belongs to an estimation unit.
type Stratum struct {
	CN             string
	EstnUnitCN     string
	Expns          float64
	AdjFactorMicr  float64
	AdjFactorSubp  float64
	AdjFactorMacr  float64
	P1PointCnt     float64
	P2PointCnt     float64
}

// EstnUnit aggregates strata to a reporting area.
type EstnUnit struct {
	CN          string
	AreaUsed    float64
	P1PntCntEU  float64
	P2PntCntEU  float64
}

// TreeBasis is the per-tree adjustment basis chosen by DIA and
// MacroBreakpointDia (spec.md invariant 4).
type TreeBasis string

const (
	BasisMicr TreeBasis = "MICR"
	BasisSubp TreeBasis = "SUBP"
	BasisMacr TreeBasis = "MACR"
)
