package pyfia

import (
	"context"

	"github.com/mihiarc/pyfia-sub006/backend"
	"github.com/mihiarc/pyfia-sub006/model"
	"github.com/mihiarc/pyfia-sub006/table"
)

// Session owns one backend connection, its schema/join caches, and the
// decoded FIA rows a facade call clips down from. A Session is scoped to
// its caller's lifetime (spec.md §9: "no process-wide singletons") — every
// piece of mutable state it touches (the join manager's LRU cache, the
// loaded table slices) lives on the Session value, not a package global.
type Session struct {
	backend backend.Backend
	joins   *table.JoinManager

	plots      []model.Plot
	conditions []model.Condition
	trees      []model.Tree
	grm        []model.GRMRecord
	evaluations []model.Evaluation
	ppsa       []model.PlotStratumAssign
	strata     []model.Stratum
	estnUnits  []model.EstnUnit
}

// joinCacheCapacity bounds the JoinManager's LRU result cache (spec.md
// §4.2: "a bounded cache, never unbounded").
const joinCacheCapacity = 64

// NewSession opens a Session against b. Load must be called before any
// Clip/facade operation; a freshly-opened Session has no rows loaded.
func NewSession(b backend.Backend) *Session {
	return &Session{backend: b, joins: table.NewJoinManager(joinCacheCapacity)}
}

// Backend exposes the underlying connection for callers that need direct
// schema introspection (e.g. a CLI's `--describe` flag).
func (s *Session) Backend() backend.Backend { return s.backend }

// Close releases the session's backend connection.
func (s *Session) Close() error { return s.backend.Close() }

// loadTable is the shared FromTable -> Rows -> decode sequence every
// Load* method below follows.
func loadTable[T any](ctx context.Context, b backend.Backend, tbl string, decode func(table.Row) T) ([]T, error) {
	f, err := table.FromTable(ctx, b, tbl)
	if err != nil {
		return nil, err
	}
	rows, err := f.Rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = decode(r)
	}
	return out, nil
}

// Load reads every table the estimators need (PLOT, COND, TREE,
// TREE_GRM_COMPONENT, POP_EVAL, POP_PLOT_STRATUM_ASSGN, POP_STRATUM,
// POP_ESTN_UNIT) into the session, decoded into the model package's
// typed structs. It is the one place SQL touches the raw backend for a
// read-all workflow; ClipByEvalID and friends work entirely off these
// decoded slices afterward.
func (s *Session) Load(ctx context.Context) error {
	var err error
	if s.plots, err = loadTable(ctx, s.backend, "PLOT", decodePlot); err != nil {
		return err
	}
	if s.conditions, err = loadTable(ctx, s.backend, "COND", decodeCondition); err != nil {
		return err
	}
	if s.trees, err = loadTable(ctx, s.backend, "TREE", decodeTree); err != nil {
		return err
	}
	if ok, _ := s.backend.TableExists(ctx, "TREE_GRM_COMPONENT"); ok {
		if s.grm, err = loadTable(ctx, s.backend, "TREE_GRM_COMPONENT", decodeGRMRecord); err != nil {
			return err
		}
	}
	if s.evaluations, err = loadTable(ctx, s.backend, "POP_EVAL", decodeEvaluation); err != nil {
		return err
	}
	if s.ppsa, err = loadTable(ctx, s.backend, "POP_PLOT_STRATUM_ASSGN", decodePlotStratumAssign); err != nil {
		return err
	}
	if s.strata, err = loadTable(ctx, s.backend, "POP_STRATUM", decodeStratum); err != nil {
		return err
	}
	if s.estnUnits, err = loadTable(ctx, s.backend, "POP_ESTN_UNIT", decodeEstnUnit); err != nil {
		return err
	}
	return nil
}
