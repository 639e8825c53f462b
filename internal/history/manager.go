package history

import (
	"time"
)

// emptyCursor marks a manager with no recorded entries.
const emptyCursor = -1

// Manager records a linear history of states of type T and tracks the
// current one.
type Manager[T any] struct {
	entries []entry[T]
	cursor  int

	now func() time.Time
}

// New creates an empty history manager.
func New[T any]() *Manager[T] {
	return &Manager[T]{
		cursor: emptyCursor,
		now:    time.Now,
	}
}

// Record appends state as the new current entry.
// Any entries after the current one are discarded first.
func (h *Manager[T]) Record(state T) {
	h.RecordLabeled("", state)
}

// RecordLabeled is Record with a description kept in the entry metadata.
func (h *Manager[T]) RecordLabeled(label string, state T) {
	h.truncate()
	h.entries = append(h.entries, entry[T]{
		id:        newEntryID(),
		label:     label,
		timestamp: h.now(),
		state:     state,
	})
	h.cursor = len(h.entries) - 1
}

// truncate drops every entry after the cursor.
func (h *Manager[T]) truncate() {
	keep := h.cursor + 1
	if keep >= len(h.entries) {
		return
	}
	// Zero the tail so discarded states can be collected.
	clear(h.entries[keep:])
	h.entries = h.entries[:keep]
}

// Undo moves the cursor one entry back and returns the state there.
func (h *Manager[T]) Undo() Result[T] {
	if h.cursor == emptyCursor {
		return failed[T](OutcomeEmpty)
	}
	if h.cursor == 0 {
		return failed[T](OutcomeAtInitial)
	}
	h.cursor--
	return ok(h.entries[h.cursor].state)
}

// Redo moves the cursor one entry forward and returns the state there.
func (h *Manager[T]) Redo() Result[T] {
	if h.cursor == emptyCursor {
		return failed[T](OutcomeEmpty)
	}
	if h.cursor == len(h.entries)-1 {
		return failed[T](OutcomeNoFuture)
	}
	h.cursor++
	return ok(h.entries[h.cursor].state)
}

// Current returns the state at the cursor.
// The boolean is false if nothing has been recorded.
func (h *Manager[T]) Current() (T, bool) {
	if h.cursor == emptyCursor {
		var zero T
		return zero, false
	}
	return h.entries[h.cursor].state, true
}

// At returns the state at index without moving the cursor.
func (h *Manager[T]) At(index int) (T, bool) {
	if index < 0 || index >= len(h.entries) {
		var zero T
		return zero, false
	}
	return h.entries[index].state, true
}

// Len returns the number of recorded entries, including redo-able ones.
func (h *Manager[T]) Len() int {
	return len(h.entries)
}

// IsEmpty returns true if nothing has been recorded.
func (h *Manager[T]) IsEmpty() bool {
	return h.cursor == emptyCursor
}

// Position returns the cursor index.
// The boolean is false if nothing has been recorded.
func (h *Manager[T]) Position() (int, bool) {
	return h.cursor, h.cursor != emptyCursor
}

// CanUndo returns true if undo would move the cursor.
func (h *Manager[T]) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo returns true if redo would move the cursor.
func (h *Manager[T]) CanRedo() bool {
	return h.cursor != emptyCursor && h.cursor < len(h.entries)-1
}

// UndoCount returns the number of undo steps available.
func (h *Manager[T]) UndoCount() int {
	if h.cursor == emptyCursor {
		return 0
	}
	return h.cursor
}

// RedoCount returns the number of redo steps available.
func (h *Manager[T]) RedoCount() int {
	if h.cursor == emptyCursor {
		return 0
	}
	return len(h.entries) - 1 - h.cursor
}

// Clear discards all entries and returns the manager to its empty state.
func (h *Manager[T]) Clear() {
	clear(h.entries)
	h.entries = nil
	h.cursor = emptyCursor
}

func (h *Manager[T]) info(i int) EntryInfo {
	e := h.entries[i]
	return EntryInfo{
		Index:     i,
		ID:        e.id,
		Label:     e.label,
		Timestamp: e.timestamp,
		Current:   i == h.cursor,
	}
}

// Entries returns metadata for every entry in history order.
func (h *Manager[T]) Entries() []EntryInfo {
	result := make([]EntryInfo, len(h.entries))
	for i := range h.entries {
		result[i] = h.info(i)
	}
	return result
}

// Lookup returns metadata for the entry with the given ID.
// Entries discarded by truncation or Clear are not found.
func (h *Manager[T]) Lookup(id EntryID) (EntryInfo, bool) {
	if id == NilEntryID {
		return EntryInfo{}, false
	}
	for i := range h.entries {
		if h.entries[i].id == id {
			return h.info(i), true
		}
	}
	return EntryInfo{}, false
}

// PeekUndo returns metadata for the entry an undo would move to.
func (h *Manager[T]) PeekUndo() (EntryInfo, bool) {
	if !h.CanUndo() {
		return EntryInfo{}, false
	}
	return h.info(h.cursor - 1), true
}

// PeekRedo returns metadata for the entry a redo would move to.
func (h *Manager[T]) PeekRedo() (EntryInfo, bool) {
	if !h.CanRedo() {
		return EntryInfo{}, false
	}
	return h.info(h.cursor + 1), true
}
