package pyfia

import (
	"github.com/spf13/cast"

	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/table"
)

// Row decoding uses spf13/cast rather than hand-rolled type switches: the
// two backend adapters (SQLite, DuckDB) don't always agree on the Go type
// a numeric column surfaces as (int64 vs float64 vs string), and cast's
// permissive conversions absorb that without the engine special-casing
// either driver.

func decodePlot(r table.Row) model.Plot {
	p := model.Plot{
		CN:           cast.ToString(r.MustGet("CN")),
		STATECD:      cast.ToInt(r.MustGet("STATECD")),
		INVYR:        cast.ToInt(r.MustGet("INVYR")),
		PlotStatusCD: cast.ToInt(r.MustGet("PLOT_STATUS_CD")),
	}
	if v, ok := r.Get("MACRO_BREAKPOINT_DIA"); ok && v != nil {
		f := cast.ToFloat64(v)
		p.MacroBreakpointDia = &f
	}
	if v, ok := r.Get("REMPER"); ok && v != nil {
		f := cast.ToFloat64(v)
		p.Remper = &f
	}
	return p
}

func decodeCondition(r table.Row) model.Condition {
	return model.Condition{
		PltCN:         cast.ToString(r.MustGet("PLT_CN")),
		CondID:        cast.ToInt(r.MustGet("CONDID")),
		CondStatusCD:  cast.ToInt(r.MustGet("COND_STATUS_CD")),
		CondPropUnadj: cast.ToFloat64(r.MustGet("CONDPROP_UNADJ")),
		PropBasis:     cast.ToString(r.MustGet("PROP_BASIS")),
		SiteClCD:      cast.ToInt(r.MustGet("SITECLCD")),
		ReservCD:      cast.ToInt(r.MustGet("RESERVCD")),
		FortypCD:      cast.ToInt(r.MustGet("FORTYPCD")),
		OwngrpCD:      cast.ToInt(r.MustGet("OWNGRPCD")),
		AlstkCD:       cast.ToInt(r.MustGet("ALSTKCD")),
	}
}

func decodeTree(r table.Row) model.Tree {
	return model.Tree{
		CN:         cast.ToString(r.MustGet("CN")),
		PltCN:      cast.ToString(r.MustGet("PLT_CN")),
		CondID:     cast.ToInt(r.MustGet("CONDID")),
		StatusCD:   cast.ToInt(r.MustGet("STATUSCD")),
		SPCD:       cast.ToInt(r.MustGet("SPCD")),
		DIA:        cast.ToFloat64(r.MustGet("DIA")),
		HT:         cast.ToFloat64(r.MustGet("HT")),
		TPAUnadj:   cast.ToFloat64(r.MustGet("TPA_UNADJ")),
		VolCFNet:   cast.ToFloat64(r.MustGet("VOLCFNET")),
		VolCFGross: cast.ToFloat64(r.MustGet("VOLCFGRS")),
		VolCSNet:   cast.ToFloat64(r.MustGet("VOLCSNET")),
		DryBioAG:   cast.ToFloat64(r.MustGet("DRYBIO_AG")),
		DryBioBG:   cast.ToFloat64(r.MustGet("DRYBIO_BG")),
		AgentCD:    cast.ToInt(r.MustGet("AGENTCD")),
		TreeClCD:   cast.ToInt(r.MustGet("TREECLCD")),
	}
}

func decodeEvaluation(r table.Row) model.Evaluation {
	return model.Evaluation{
		EvalID:     cast.ToInt(r.MustGet("EVALID")),
		StateCD:    cast.ToInt(r.MustGet("STATECD")),
		EvalTyp:    cast.ToString(r.MustGet("EVAL_TYP")),
		StartInvyr: cast.ToInt(r.MustGet("START_INVYR")),
		EndInvyr:   cast.ToInt(r.MustGet("END_INVYR")),
	}
}

func decodePlotStratumAssign(r table.Row) model.PlotStratumAssign {
	return model.PlotStratumAssign{
		PltCN:     cast.ToString(r.MustGet("PLT_CN")),
		StratumCN: cast.ToString(r.MustGet("STRATUM_CN")),
		EvalID:    cast.ToInt(r.MustGet("EVALID")),
	}
}

func decodeStratum(r table.Row) model.Stratum {
	return model.Stratum{
		CN:            cast.ToString(r.MustGet("CN")),
		EstnUnitCN:    cast.ToString(r.MustGet("ESTN_UNIT_CN")),
		Expns:         cast.ToFloat64(r.MustGet("EXPNS")),
		AdjFactorMicr: cast.ToFloat64(r.MustGet("ADJ_FACTOR_MICR")),
		AdjFactorSubp: cast.ToFloat64(r.MustGet("ADJ_FACTOR_SUBP")),
		AdjFactorMacr: cast.ToFloat64(r.MustGet("ADJ_FACTOR_MACR")),
		P1PointCnt:    cast.ToFloat64(r.MustGet("P1POINTCNT")),
		P2PointCnt:    cast.ToFloat64(r.MustGet("P2POINTCNT")),
	}
}

func decodeEstnUnit(r table.Row) model.EstnUnit {
	return model.EstnUnit{
		CN:         cast.ToString(r.MustGet("CN")),
		AreaUsed:   cast.ToFloat64(r.MustGet("AREA_USED")),
		P1PntCntEU: cast.ToFloat64(r.MustGet("P1PNTCNT_EU")),
		P2PntCntEU: cast.ToFloat64(r.MustGet("P2PNTCNT_EU")),
	}
}

func decodeGRMRecord(r table.Row) model.GRMRecord {
	rec := model.GRMRecord{
		TreCN:          cast.ToString(r.MustGet("TRE_CN")),
		PltCN:          cast.ToString(r.MustGet("PLT_CN")),
		CondID:         cast.ToInt(r.MustGet("CONDID")),
		Component:      model.GRMComponent(cast.ToString(r.MustGet("COMPONENT"))),
		SubpTypGRM:     model.SubpTypGRM(cast.ToInt(r.MustGet("SUBPTYP_GRM"))),
		TPAGrowUnadj:   cast.ToFloat64(r.MustGet("TPAGROW_UNADJ")),
		TPAMortUnadj:   cast.ToFloat64(r.MustGet("TPAMORT_UNADJ")),
		TPARemvUnadj:   cast.ToFloat64(r.MustGet("TPAREMV_UNADJ")),
		VolCFNetMidpt:  cast.ToFloat64(r.MustGet("VOLCFNET_MIDPT")),
		VolCFNetBegin:  cast.ToFloat64(r.MustGet("VOLCFNET_BEGIN")),
		DryBioAGMidpt:  cast.ToFloat64(r.MustGet("DRYBIO_AG_MIDPT")),
		DryBioAGBegin:  cast.ToFloat64(r.MustGet("DRYBIO_AG_BEGIN")),
		BasalAreaMidpt: cast.ToFloat64(r.MustGet("BASAL_AREA_MIDPT")),
	}
	return rec
}
