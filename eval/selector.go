// Package eval implements the evaluation selector (C3): given a decoded
// set of POP_EVAL ⋈ POP_EVAL_TYP rows, choose the EVALIDs that define a
// statistically valid plot population for a query.
package eval

import "sort"

// Evaluation is the subset of model.Evaluation the selector needs. It is
// declared locally (rather than importing the model package) to keep the
// selector logic a free function of plain data, as spec.md §9 asks for
// pure, individually testable selection.
type Evaluation struct {
	EvalID     int
	StateCD    int
	EvalTyp    string
	EndInvyr   int
}

// Query is the user's evaluation-selection request (spec.md §4.3).
type Query struct {
	States     []int  // nil/empty means "no state filter"
	Years      []int  // nil/empty means "no year filter"
	EvalType   string // e.g. "VOL", matched against EVAL_TYP == "EXP"+EvalType
	MostRecent bool
}

// Select runs the spec.md §4.3 algorithm against evaluations (already
// joined from POP_EVAL/POP_EVAL_TYP) and returns the sorted, unique,
// active EVALID set plus any warnings. It never invents an EVALID: if
// evaluations is empty the result is an empty slice with a warning, never
// an error and never a guess.
func Select(evaluations []Evaluation, q Query) ([]int, []string) {
	if len(evaluations) == 0 {
		return nil, []string{"no POP_EVAL/EVALID data available; returning empty evaluation set"}
	}

	states := toSet(q.States)
	years := toSet(q.Years)
	wantType := ""
	if q.EvalType != "" {
		wantType = "EXP" + q.EvalType
	}

	var filtered []Evaluation
	for _, e := range evaluations {
		if len(states) > 0 && !states[e.StateCD] {
			continue
		}
		if len(years) > 0 && !years[e.EndInvyr] {
			continue
		}
		if wantType != "" && e.EvalTyp != wantType {
			continue
		}
		filtered = append(filtered, e)
	}

	if q.MostRecent {
		filtered = mostRecentPerGroup(filtered)
	}

	return uniqueSortedIDs(filtered), nil
}

// mostRecentPerGroup partitions by (StateCD, EvalTyp) and keeps only the
// rows with the maximum EndInvyr in each partition (spec.md §4.3 step 3).
func mostRecentPerGroup(evaluations []Evaluation) []Evaluation {
	type key struct {
		state int
		typ   string
	}
	maxYear := make(map[key]int)
	for _, e := range evaluations {
		k := key{e.StateCD, e.EvalTyp}
		if y, ok := maxYear[k]; !ok || e.EndInvyr > y {
			maxYear[k] = e.EndInvyr
		}
	}
	var out []Evaluation
	for _, e := range evaluations {
		k := key{e.StateCD, e.EvalTyp}
		if e.EndInvyr == maxYear[k] {
			out = append(out, e)
		}
	}
	return out
}

func uniqueSortedIDs(evaluations []Evaluation) []int {
	seen := make(map[int]bool, len(evaluations))
	for _, e := range evaluations {
		seen[e.EvalID] = true
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func toSet(vals []int) map[int]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[int]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
