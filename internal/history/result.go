package history

// Outcome tags the result of an undo or redo.
type Outcome uint8

const (
	// OutcomeOK means the cursor moved and Value holds the new current state.
	OutcomeOK Outcome = iota
	// OutcomeEmpty means nothing has been recorded yet.
	OutcomeEmpty
	// OutcomeAtInitial means an undo was attempted at the oldest state.
	OutcomeAtInitial
	// OutcomeNoFuture means a redo was attempted at the newest state.
	OutcomeNoFuture
)

// String returns the tag name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty-history"
	case OutcomeAtInitial:
		return "at-initial-state"
	case OutcomeNoFuture:
		return "no-future"
	default:
		return "unknown"
	}
}

// Result is what Undo and Redo return.
// Value is the zero value of T unless Outcome is OutcomeOK.
type Result[T any] struct {
	Value   T
	Outcome Outcome
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeOK}
}

func failed[T any](o Outcome) Result[T] {
	return Result[T]{Outcome: o}
}

// OK reports whether the cursor moved.
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeOK
}

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Outcome == OutcomeOK
}

// Err returns nil on success, or the sentinel error for the failure outcome.
func (r Result[T]) Err() error {
	switch r.Outcome {
	case OutcomeOK:
		return nil
	case OutcomeEmpty:
		return ErrEmptyHistory
	case OutcomeAtInitial:
		return ErrAtInitialState
	case OutcomeNoFuture:
		return ErrNoFuture
	default:
		return ErrInvalidPosition
	}
}
