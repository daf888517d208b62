package estimate

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrVariance signals that plot-condition data needed to compute a
// variance was not available: stratified plots were supplied with no
// condition records at all. The estimator never substitutes a CV
// heuristic for this — see SPEC_FULL.md "Fallback variance heuristic".
var ErrVariance = goerrors.NewKind("variance error: %s")

// errMissingPlotCondition is the single §4.7 sub-kind this package
// raises: plots were stratified but no condition records were supplied,
// so the ratio-of-means variance cannot be attributed correctly.
func errMissingPlotCondition() error {
	return ErrVariance.New("missing_plot_condition")
}
