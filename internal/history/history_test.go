package history

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// Helper to build a manager with the given states recorded in order
func newTestManager(states ...string) *Manager[string] {
	h := New[string]()
	for _, s := range states {
		h.Record(s)
	}
	return h
}

func fiveStates() *Manager[string] {
	return newTestManager("State 1", "State 2", "State 3", "State 4", "State 5")
}

func mustCurrent(t *testing.T, h *Manager[string], want string) {
	t.Helper()
	got, ok := h.Current()
	if !ok {
		t.Fatalf("Current() reported no state, want %q", want)
	}
	if got != want {
		t.Errorf("Current() = %q, want %q", got, want)
	}
}

// Empty manager tests

func TestNewManagerIsEmpty(t *testing.T) {
	h := New[string]()

	if !h.IsEmpty() {
		t.Error("new manager should be empty")
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
	if _, ok := h.Position(); ok {
		t.Error("Position() should report no cursor")
	}
	if v, ok := h.Current(); ok || v != "" {
		t.Errorf("Current() = %q, %v; want zero value, false", v, ok)
	}
}

func TestEmptyManagerUndoRedo(t *testing.T) {
	h := New[string]()

	res := h.Undo()
	if res.Outcome != OutcomeEmpty {
		t.Errorf("Undo() outcome = %v, want %v", res.Outcome, OutcomeEmpty)
	}
	if !errors.Is(res.Err(), ErrEmptyHistory) {
		t.Errorf("Undo().Err() = %v, want ErrEmptyHistory", res.Err())
	}

	res = h.Redo()
	if res.Outcome != OutcomeEmpty {
		t.Errorf("Redo() outcome = %v, want %v", res.Outcome, OutcomeEmpty)
	}
	if _, ok := res.Get(); ok {
		t.Error("Redo() on empty manager should not return a value")
	}

	if _, ok := h.Current(); ok {
		t.Error("Current() should report no state")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty manager should not allow undo or redo")
	}
	if h.UndoCount() != 0 || h.RedoCount() != 0 {
		t.Error("empty manager should have zero undo/redo counts")
	}
}

// Record tests

func TestRecordMovesCursor(t *testing.T) {
	h := New[int]()
	for i := 1; i <= 10; i++ {
		h.Record(i)
		got, ok := h.Current()
		if !ok || got != i {
			t.Fatalf("after Record(%d), Current() = %d, %v", i, got, ok)
		}
		pos, _ := h.Position()
		if pos != i-1 {
			t.Errorf("Position() = %d, want %d", pos, i-1)
		}
	}
	if h.Len() != 10 {
		t.Errorf("Len() = %d, want 10", h.Len())
	}
	if h.UndoCount() != 9 {
		t.Errorf("UndoCount() = %d, want 9", h.UndoCount())
	}
	if h.RedoCount() != 0 {
		t.Errorf("RedoCount() = %d, want 0", h.RedoCount())
	}
}

func TestRecordStoresStateVerbatim(t *testing.T) {
	type snapshot struct {
		Text  string
		Lines []string
	}
	h := New[*snapshot]()
	first := &snapshot{Text: "a", Lines: []string{"a"}}
	second := &snapshot{Text: "b"}
	h.Record(first)
	h.Record(second)

	res := h.Undo()
	if res.Value != first {
		t.Error("Undo() should return the exact recorded value")
	}
}

func TestRecordAfterNUndoDepth(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			h := New[int]()
			for i := 0; i < n; i++ {
				h.Record(i)
			}
			if got, _ := h.Current(); got != n-1 {
				t.Fatalf("Current() = %d, want %d", got, n-1)
			}
			for i := 0; i < n-1; i++ {
				if res := h.Undo(); !res.OK() {
					t.Fatalf("undo %d failed: %v", i, res.Outcome)
				}
			}
			res := h.Undo()
			if res.Outcome != OutcomeAtInitial {
				t.Errorf("extra Undo() outcome = %v, want %v", res.Outcome, OutcomeAtInitial)
			}
		})
	}
}

// Undo/Redo tests

func TestUndoRedoScenario(t *testing.T) {
	h := fiveStates()
	mustCurrent(t, h, "State 5")

	steps := []struct {
		op   string
		want string
	}{
		{"undo", "State 4"},
		{"undo", "State 3"},
		{"redo", "State 4"},
		{"redo", "State 5"},
		{"undo", "State 4"},
	}

	for _, step := range steps {
		var res Result[string]
		if step.op == "undo" {
			res = h.Undo()
		} else {
			res = h.Redo()
		}
		if !res.OK() {
			t.Fatalf("%s failed: %v", step.op, res.Outcome)
		}
		if res.Value != step.want {
			t.Errorf("%s returned %q, want %q", step.op, res.Value, step.want)
		}
		mustCurrent(t, h, step.want)
	}
}

func TestUndoAtInitialState(t *testing.T) {
	h := newTestManager("A")

	for i := 0; i < 3; i++ {
		res := h.Undo()
		if res.Outcome != OutcomeAtInitial {
			t.Errorf("Undo() outcome = %v, want %v", res.Outcome, OutcomeAtInitial)
		}
		if !errors.Is(res.Err(), ErrAtInitialState) {
			t.Errorf("Undo().Err() = %v, want ErrAtInitialState", res.Err())
		}
		mustCurrent(t, h, "A")
	}
}

func TestRedoAtNewestState(t *testing.T) {
	h := newTestManager("A", "B")

	for i := 0; i < 3; i++ {
		res := h.Redo()
		if res.Outcome != OutcomeNoFuture {
			t.Errorf("Redo() outcome = %v, want %v", res.Outcome, OutcomeNoFuture)
		}
		if !errors.Is(res.Err(), ErrNoFuture) {
			t.Errorf("Redo().Err() = %v, want ErrNoFuture", res.Err())
		}
		mustCurrent(t, h, "B")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	states := []string{"a", "b", "c", "d", "e", "f"}
	for k := 0; k < len(states); k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			h := newTestManager(states...)

			for i := 1; i <= k; i++ {
				res := h.Undo()
				if want := states[len(states)-1-i]; res.Value != want {
					t.Fatalf("undo %d = %q, want %q", i, res.Value, want)
				}
			}
			for i := k - 1; i >= 0; i-- {
				res := h.Redo()
				if want := states[len(states)-1-i]; res.Value != want {
					t.Fatalf("redo to depth %d = %q, want %q", i, res.Value, want)
				}
			}
			mustCurrent(t, h, "f")
		})
	}
}

func TestUndoDoesNotDestroyEntries(t *testing.T) {
	h := fiveStates()
	h.Undo()
	h.Undo()

	if h.Len() != 5 {
		t.Errorf("Len() = %d, want 5", h.Len())
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
	if h.RedoCount() != 2 {
		t.Errorf("RedoCount() = %d, want 2", h.RedoCount())
	}
	if !h.CanUndo() || !h.CanRedo() {
		t.Error("should be able to undo and redo")
	}
}

// Truncation tests

func TestRecordTruncatesRedoHistory(t *testing.T) {
	tests := []struct {
		name  string
		undos int
	}{
		{"no undo", 0},
		{"one undo", 1},
		{"three undos", 3},
		{"back to initial", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := fiveStates()
			for i := 0; i < tt.undos; i++ {
				h.Undo()
			}

			h.Record("branch")

			if want := 5 - tt.undos + 1; h.Len() != want {
				t.Errorf("Len() = %d, want %d", h.Len(), want)
			}
			mustCurrent(t, h, "branch")

			res := h.Redo()
			if res.Outcome != OutcomeNoFuture {
				t.Errorf("Redo() after branch outcome = %v, want %v", res.Outcome, OutcomeNoFuture)
			}

			res = h.Undo()
			if want := fmt.Sprintf("State %d", 5-tt.undos); res.Value != want {
				t.Errorf("Undo() after branch = %q, want %q", res.Value, want)
			}
		})
	}
}

func TestTruncatedEntriesStopResolving(t *testing.T) {
	h := fiveStates()
	entries := h.Entries()
	h.Undo()
	h.Undo()
	h.Record("branch")

	for i, info := range entries {
		_, found := h.Lookup(info.ID)
		if wantFound := i <= 2; found != wantFound {
			t.Errorf("Lookup(entry %d) found = %v, want %v", i, found, wantFound)
		}
	}
}

func TestTruncateReleasesStates(t *testing.T) {
	h := New[*int]()
	for i := 0; i < 4; i++ {
		v := i
		h.Record(&v)
	}
	h.Undo()
	h.Undo()
	h.Record(nil)

	// The backing array beyond the new length must not retain old pointers.
	tail := h.entries[len(h.entries):cap(h.entries)]
	for i, e := range tail {
		if e.state != nil {
			t.Errorf("discarded slot %d still holds a state", i)
		}
	}
}

func TestAt(t *testing.T) {
	h := fiveStates()
	h.Undo()

	for i := 0; i < 5; i++ {
		got, ok := h.At(i)
		if want := fmt.Sprintf("State %d", i+1); !ok || got != want {
			t.Errorf("At(%d) = %q, %v; want %q", i, got, ok, want)
		}
	}
	for _, i := range []int{-1, 5} {
		if _, ok := h.At(i); ok {
			t.Errorf("At(%d) should fail", i)
		}
	}
	mustCurrent(t, h, "State 4")
}

// Metadata tests

func TestEntriesMetadata(t *testing.T) {
	h := New[string]()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	h.RecordLabeled("first", "a")
	h.Record("b")
	h.RecordLabeled("third", "c")
	h.Undo()

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Index != i {
			t.Errorf("entry %d Index = %d", i, e.Index)
		}
		if !e.Timestamp.Equal(fixed) {
			t.Errorf("entry %d Timestamp = %v, want %v", i, e.Timestamp, fixed)
		}
		if e.ID == NilEntryID {
			t.Errorf("entry %d has nil ID", i)
		}
		if e.Current != (i == 1) {
			t.Errorf("entry %d Current = %v", i, e.Current)
		}
	}
	if entries[0].Label != "first" || entries[1].Label != "" || entries[2].Label != "third" {
		t.Error("labels not preserved")
	}
	if entries[0].ID == entries[1].ID {
		t.Error("entry IDs should be unique")
	}
}

func TestPeekUndoRedo(t *testing.T) {
	h := New[string]()
	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo() on empty manager should fail")
	}
	if _, ok := h.PeekRedo(); ok {
		t.Error("PeekRedo() on empty manager should fail")
	}

	h.RecordLabeled("one", "1")
	h.RecordLabeled("two", "2")
	h.RecordLabeled("three", "3")
	h.Undo()

	info, ok := h.PeekUndo()
	if !ok || info.Label != "one" {
		t.Errorf("PeekUndo() = %+v, %v; want label one", info, ok)
	}
	info, ok = h.PeekRedo()
	if !ok || info.Label != "three" {
		t.Errorf("PeekRedo() = %+v, %v; want label three", info, ok)
	}

	// Peeking must not move the cursor
	mustCurrent(t, h, "2")
}

func TestLookupNilID(t *testing.T) {
	h := newTestManager("a")
	if _, ok := h.Lookup(NilEntryID); ok {
		t.Error("Lookup(NilEntryID) should not resolve")
	}
}

func TestParseEntryID(t *testing.T) {
	h := newTestManager("a")
	id := h.Entries()[0].ID

	parsed, err := ParseEntryID(id.String())
	if err != nil {
		t.Fatalf("ParseEntryID failed: %v", err)
	}
	if parsed != id {
		t.Errorf("ParseEntryID(%q) = %v", id.String(), parsed)
	}

	if _, err := ParseEntryID("not-a-uuid"); err == nil {
		t.Error("ParseEntryID should reject malformed input")
	}
}

func TestClear(t *testing.T) {
	h := fiveStates()
	id := h.Entries()[0].ID
	h.Clear()

	if !h.IsEmpty() || h.Len() != 0 {
		t.Error("Clear() should empty the manager")
	}
	if res := h.Undo(); res.Outcome != OutcomeEmpty {
		t.Errorf("Undo() after Clear outcome = %v, want %v", res.Outcome, OutcomeEmpty)
	}
	if _, ok := h.Lookup(id); ok {
		t.Error("cleared entry should not resolve")
	}

	h.Record("fresh")
	mustCurrent(t, h, "fresh")
}

// Outcome tests

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected string
	}{
		{OutcomeOK, "ok"},
		{OutcomeEmpty, "empty-history"},
		{OutcomeAtInitial, "at-initial-state"},
		{OutcomeNoFuture, "no-future"},
		{Outcome(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.expected {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.expected)
		}
	}
}

func TestResultErr(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    error
	}{
		{OutcomeOK, nil},
		{OutcomeEmpty, ErrEmptyHistory},
		{OutcomeAtInitial, ErrAtInitialState},
		{OutcomeNoFuture, ErrNoFuture},
		{Outcome(42), ErrInvalidPosition},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			r := Result[int]{Outcome: tt.outcome}
			if err := r.Err(); !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("Err() = %v, want %v", err, tt.want)
			}
		})
	}
}

// Checkpoint tests

func TestCheckpointUndoRedo(t *testing.T) {
	h := newTestManager("a", "b")
	cp := h.Checkpoint()
	h.Record("c")
	h.Record("d")

	if err := h.UndoToCheckpoint(cp); err != nil {
		t.Fatalf("UndoToCheckpoint failed: %v", err)
	}
	mustCurrent(t, h, "b")
	if h.RedoCount() != 2 {
		t.Errorf("RedoCount() = %d, want 2", h.RedoCount())
	}

	end := h.Entries()[3]
	h.Redo()
	h.Redo()
	endCp := h.Checkpoint()
	if endCp.ID() != end.ID || endCp.Index() != 3 {
		t.Errorf("Checkpoint() = %d/%v, want 3/%v", endCp.Index(), endCp.ID(), end.ID)
	}

	if err := h.UndoToCheckpoint(cp); err != nil {
		t.Fatalf("UndoToCheckpoint failed: %v", err)
	}
	if err := h.RedoToCheckpoint(endCp); err != nil {
		t.Fatalf("RedoToCheckpoint failed: %v", err)
	}
	mustCurrent(t, h, "d")
}

func TestCheckpointNoOpWhenBehind(t *testing.T) {
	h := newTestManager("a", "b", "c")
	cp := h.Checkpoint()
	h.Undo()

	if err := h.UndoToCheckpoint(cp); err != nil {
		t.Fatalf("UndoToCheckpoint failed: %v", err)
	}
	mustCurrent(t, h, "b")
}

func TestCheckpointInvalidatedByTruncation(t *testing.T) {
	h := newTestManager("a", "b", "c")
	cp := h.Checkpoint()
	h.Undo()
	h.Record("x")

	if err := h.RedoToCheckpoint(cp); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("RedoToCheckpoint() error = %v, want ErrInvalidPosition", err)
	}
	mustCurrent(t, h, "x")
}

func TestCheckpointOnEmptyManager(t *testing.T) {
	h := New[string]()
	cp := h.Checkpoint()

	if err := h.UndoToCheckpoint(cp); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("UndoToCheckpoint() error = %v, want ErrEmptyHistory", err)
	}

	h.Record("a")
	if err := h.UndoToCheckpoint(cp); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("UndoToCheckpoint() error = %v, want ErrInvalidPosition", err)
	}
}

func TestGoTo(t *testing.T) {
	h := fiveStates()

	tests := []struct {
		index   int
		want    string
		wantErr error
	}{
		{0, "State 1", nil},
		{3, "State 4", nil},
		{4, "State 5", nil},
		{2, "State 3", nil},
		{5, "", ErrInvalidPosition},
		{-1, "", ErrInvalidPosition},
	}

	for _, tt := range tests {
		got, err := h.GoTo(tt.index)
		if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
			t.Errorf("GoTo(%d) error = %v, want %v", tt.index, err, tt.wantErr)
			continue
		}
		if tt.wantErr == nil && got != tt.want {
			t.Errorf("GoTo(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}

	// Failed moves leave the cursor where it was
	mustCurrent(t, h, "State 3")

	if _, err := New[string]().GoTo(0); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("GoTo on empty manager error = %v, want ErrEmptyHistory", err)
	}
}

// Benchmarks

func BenchmarkRecord(b *testing.B) {
	h := New[int]()
	for i := 0; i < b.N; i++ {
		h.Record(i)
	}
}

func BenchmarkUndoRedo(b *testing.B) {
	h := New[int]()
	for i := 0; i < 1000; i++ {
		h.Record(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Undo()
		h.Redo()
	}
}
