package pyfia

import (
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/mihiarc/pyfia-sub006/estimate"
)

// Error kinds for the engine's failure classes; there is no silent
// fallback to a heuristic or an implicit default when one of these
// conditions is hit. Not every error is built from one of them: estimator
// configuration errors from the estimate package's Validate methods are
// plain errors, and domain-expression parse errors come from domain/expr.
var (
	// ErrConfig signals an invalid option or combination of options on an
	// EstimatorConfig (e.g. mortality with tree_type=live and a volume
	// measure, an out-of-range lambda, an unknown grouping column when
	// available_columns was supplied).
	ErrConfig = goerrors.NewKind("config error: %s")

	// ErrDomain signals a domain-expression parse failure.
	ErrDomain = goerrors.NewKind("domain error (%s): %s")

	// ErrEval signals that no EVALID matches the selection, or that
	// POP_EVAL is missing the EVALID column entirely.
	ErrEval = goerrors.NewKind("evaluation error: %s")

	// ErrStrat signals a plot with no stratum assignment under the active
	// EVALID set. This is never silently treated as zero contribution.
	ErrStrat = goerrors.NewKind("stratification error: plot %s has no stratum assignment for EVALID set %v")

	// ErrDb wraps a connection, query, or schema failure from the backend
	// adapter.
	ErrDb = goerrors.NewKind("database error (%s): %s")

	// ErrVariance signals that plot-condition data needed to compute a
	// variance was not available. The engine never substitutes a CV
	// heuristic for this — see SPEC_FULL.md "Fallback variance heuristic".
	// It is the same kind the estimate package raises directly, re-
	// exported here so callers of this package's facade never need to
	// import estimate just to match on error kind.
	ErrVariance = estimate.ErrVariance

	// ErrTimeout signals a query exceeded its configured deadline.
	ErrTimeout = goerrors.NewKind("query timed out after %s")
)

// DomainErrorKind enumerates the §7 sub-kinds of ErrDomain.
type DomainErrorKind string

const (
	DomainErrEmpty          DomainErrorKind = "empty"
	DomainErrSyntax         DomainErrorKind = "syntax"
	DomainErrForbidden      DomainErrorKind = "forbidden"
	DomainErrUnknownColumn  DomainErrorKind = "unknown_column"
)

// DbErrorKind enumerates the §7 sub-kinds of ErrDb.
type DbErrorKind string

const (
	DbErrConnect DbErrorKind = "connect"
	DbErrQuery   DbErrorKind = "query"
	DbErrSchema  DbErrorKind = "schema"
)

// Warning is a recoverable condition the engine surfaces alongside a
// successful result rather than failing the call outright. spec.md §7
// allows exactly two: unknown grouping columns, and an empty EVALID list
// from clip_most_recent.
type Warning struct {
	Message string
}

// Outcome pairs a result with zero or more warnings, per the "Error vs
// warning taxonomy" design note: callers observe both instead of the
// source's ambiguous warnings.warn/raise split.
type Outcome[T any] struct {
	Value    T
	Warnings []Warning
}

func (o Outcome[T]) WithWarning(msg string) Outcome[T] {
	o.Warnings = append(o.Warnings, Warning{Message: msg})
	return o
}
