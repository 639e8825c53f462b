package history

import (
	"time"

	"github.com/google/uuid"
)

// EntryID is a stable handle to a recorded entry.
// It stops resolving once the entry is discarded by truncation or Clear.
type EntryID uuid.UUID

// NilEntryID is the zero handle; it never resolves.
var NilEntryID EntryID

func newEntryID() EntryID {
	return EntryID(uuid.New())
}

// ParseEntryID parses the string form of an EntryID.
func ParseEntryID(s string) (EntryID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NilEntryID, err
	}
	return EntryID(id), nil
}

// String returns the canonical UUID form.
func (id EntryID) String() string {
	return uuid.UUID(id).String()
}

// entry wraps a state with metadata.
type entry[T any] struct {
	id        EntryID
	label     string
	timestamp time.Time
	state     T
}

// EntryInfo describes a recorded entry without exposing its state.
type EntryInfo struct {
	Index     int
	ID        EntryID
	Label     string
	Timestamp time.Time
	Current   bool
}
