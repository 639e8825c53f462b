package history

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	index int
	id    EntryID
}

// Index returns the cursor position the checkpoint was taken at.
func (c Checkpoint) Index() int {
	return c.index
}

// ID returns the entry the checkpoint refers to.
func (c Checkpoint) ID() EntryID {
	return c.id
}

// Checkpoint creates a checkpoint at the current history position.
// On an empty manager the checkpoint never resolves.
func (h *Manager[T]) Checkpoint() Checkpoint {
	if h.cursor == emptyCursor {
		return Checkpoint{index: emptyCursor}
	}
	return Checkpoint{index: h.cursor, id: h.entries[h.cursor].id}
}

// resolve checks that the checkpoint's entry still exists at its index.
func (h *Manager[T]) resolve(cp Checkpoint) error {
	if h.cursor == emptyCursor {
		return ErrEmptyHistory
	}
	if cp.index < 0 || cp.index >= len(h.entries) || h.entries[cp.index].id != cp.id {
		return ErrInvalidPosition
	}
	return nil
}

// UndoToCheckpoint undoes all steps taken since the checkpoint.
// It does nothing if the cursor is already at or before the checkpoint.
func (h *Manager[T]) UndoToCheckpoint(cp Checkpoint) error {
	if err := h.resolve(cp); err != nil {
		return err
	}
	for h.cursor > cp.index {
		if err := h.Undo().Err(); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes steps until the cursor reaches the checkpoint.
// It does nothing if the cursor is already at or after the checkpoint.
func (h *Manager[T]) RedoToCheckpoint(cp Checkpoint) error {
	if err := h.resolve(cp); err != nil {
		return err
	}
	for h.cursor < cp.index {
		if err := h.Redo().Err(); err != nil {
			return err
		}
	}
	return nil
}

// GoTo moves the cursor to index by stepping through undo or redo.
func (h *Manager[T]) GoTo(index int) (T, error) {
	var zero T
	if h.cursor == emptyCursor {
		return zero, ErrEmptyHistory
	}
	if index < 0 || index >= len(h.entries) {
		return zero, ErrInvalidPosition
	}
	for h.cursor > index {
		h.Undo()
	}
	for h.cursor < index {
		h.Redo()
	}
	return h.entries[h.cursor].state, nil
}
