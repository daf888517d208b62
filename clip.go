package pyfia

import (
	"context"

	"github.com/mihiarc/pyfia-sub006/eval"
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/strat"
)

// Clip is the active population a facade call (Area, TPA, Volume, ...)
// runs against: the resolved EVALID set and the decoded rows that belong
// to it. A Session produces a Clip via ClipByEvalID/ClipByState/
// ClipMostRecent/FindEvalID; nothing in the facade layer queries the
// backend again once a Clip exists.
type Clip struct {
	ActiveEvalIDs []int
	Warnings      []string

	Plots      []model.Plot
	Conditions []model.Condition
	Trees      []model.Tree
	GRM        []model.GRMRecord

	Strata map[string]strat.PlotStratum
}

// FindEvalID runs the evaluation selector (C3) against s's loaded
// POP_EVAL/POP_EVAL_TYP rows and returns the matching EVALID set plus any
// warnings, without yet building a Clip.
func (s *Session) FindEvalID(q eval.Query) ([]int, []string) {
	evaluations := make([]eval.Evaluation, 0, len(s.evaluations))
	for _, e := range s.evaluations {
		evaluations = append(evaluations, eval.Evaluation{
			EvalID:   e.EvalID,
			StateCD:  e.StateCD,
			EvalTyp:  e.EvalTyp,
			EndInvyr: e.EndInvyr,
		})
	}
	return eval.Select(evaluations, q)
}

// ClipByEvalID builds a Clip restricted to the given EVALID set: it
// resolves stratification via strat.Load and filters the session's
// decoded PLOT/COND/TREE/GRM rows down to plots assigned to one of
// evalIDs. A plot assigned to one of evalIDs but missing from the
// stratification frame makes ClipByEvalID fail with ErrStrat, never a
// silent zero (spec.md §4.5).
func (s *Session) ClipByEvalID(ctx context.Context, evalIDs []int) (*Clip, error) {
	strata, err := strat.Load(evalIDs, s.ppsa, s.strata, s.estnUnits)
	if err != nil {
		return nil, err
	}

	active := make(map[int]bool, len(evalIDs))
	for _, id := range evalIDs {
		active[id] = true
	}
	plotInSet := make(map[string]bool)
	for _, a := range s.ppsa {
		if active[a.EvalID] {
			plotInSet[a.PltCN] = true
		}
	}

	clip := &Clip{ActiveEvalIDs: evalIDs, Strata: strata}
	for _, p := range s.plots {
		if plotInSet[p.CN] {
			if _, err := strat.Lookup(strata, p.CN, evalIDs); err != nil {
				return nil, ErrStrat.New(p.CN, evalIDs)
			}
			clip.Plots = append(clip.Plots, p)
		}
	}
	for _, c := range s.conditions {
		if plotInSet[c.PltCN] {
			clip.Conditions = append(clip.Conditions, c)
		}
	}
	for _, t := range s.trees {
		if plotInSet[t.PltCN] {
			clip.Trees = append(clip.Trees, t)
		}
	}
	for _, g := range s.grm {
		if plotInSet[g.PltCN] {
			clip.GRM = append(clip.GRM, g)
		}
	}
	return clip, nil
}

// ClipByState is ClipByEvalID after restricting FindEvalID to the given
// state codes, using each state's most-recent evaluation.
func (s *Session) ClipByState(ctx context.Context, stateCDs []int, evalType string) (*Clip, error) {
	ids, warnings := s.FindEvalID(eval.Query{States: stateCDs, EvalType: evalType, MostRecent: true})
	clip, err := s.ClipByEvalID(ctx, ids)
	if err != nil {
		return nil, err
	}
	clip.Warnings = warnings
	return clip, nil
}

// ClipMostRecent is ClipByEvalID restricted to the most recent evaluation
// of evalType across every state loaded in the session.
func (s *Session) ClipMostRecent(ctx context.Context, evalType string) (*Clip, error) {
	ids, warnings := s.FindEvalID(eval.Query{EvalType: evalType, MostRecent: true})
	clip, err := s.ClipByEvalID(ctx, ids)
	if err != nil {
		return nil, err
	}
	clip.Warnings = warnings
	return clip, nil
}
