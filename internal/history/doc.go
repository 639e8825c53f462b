// Package history provides a linear undo/redo history of application states.
//
// A Manager records opaque state values in insertion order and keeps a cursor
// on the current one. Undo and redo only move the cursor; recording a new
// state first discards everything after the cursor, so redo history is lost
// once the caller branches off an earlier point.
//
// # Recording
//
//	h := history.New[string]()
//	h.Record("State 1")
//	h.Record("State 2")
//
// # Undo/Redo
//
// Undo and Redo return a Result that carries the new current state on
// success, or an Outcome telling the caller why nothing happened:
//
//	res := h.Undo()
//	switch res.Outcome {
//	case history.OutcomeOK:
//	    render(res.Value)
//	case history.OutcomeAtInitial:
//	    // already at the oldest state
//	case history.OutcomeEmpty:
//	    // nothing recorded yet
//	}
//
// Result.Err maps failure outcomes to sentinel errors for callers that
// prefer errors.Is.
//
// # Checkpoints
//
// A Checkpoint remembers a cursor position. UndoToCheckpoint and
// RedoToCheckpoint walk back to it one step at a time.
//
// # Concurrency
//
// A Manager is not safe for concurrent use. Callers sharing one across
// goroutines must guard every call with a single lock.
package history
