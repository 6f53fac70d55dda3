// Package reversierr defines the sentinel errors surfaced at the
// engine's API boundary. Inner search code never returns these; it assumes its
// preconditions hold once past the boundary.
package reversierr

import "errors"

var (
	// ErrInvalidPosition names caller-supplied bitboards or move
	// notation that fail validation. No function in this module returns
	// it: Search.Run and engine.New do not validate positions.
	ErrInvalidPosition = errors.New("reversi: invalid position")

	// ErrWeightsLoad is returned by engine.New when no evaluator weights
	// are supplied. eval.LoadWeights reports its own wrapped errors and
	// does not return it.
	ErrWeightsLoad = errors.New("reversi: failed to load evaluator weights")

	// ErrAborted names a search that returned early due to
	// cancellation. No function in this module returns it: Search.Run
	// has no error result.
	ErrAborted = errors.New("reversi: search aborted")
)
