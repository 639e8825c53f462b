package history

import "errors"

// Common errors for history operations.
var (
	ErrEmptyHistory    = errors.New("no history recorded")
	ErrAtInitialState  = errors.New("reached the initial state")
	ErrNoFuture        = errors.New("nothing to redo")
	ErrInvalidPosition = errors.New("invalid history position")
)
