package app

import (
	"io"
	"os"
	"sync"

	"github.com/dshills/statehistory/internal/history"
	"github.com/dshills/statehistory/internal/logging"
	"github.com/dshills/statehistory/internal/script"
)

// Options configures a Session.
type Options struct {
	// Logger receives transition logs. Defaults to a null logger.
	Logger *logging.Logger
	// Output receives rendered command output. Defaults to os.Stdout.
	Output io.Writer
	// Prompt is written before each REPL line.
	Prompt string
	// Echo writes each REPL line back after the prompt.
	Echo bool
}

// Session owns a string history shared by the REPL and scripts.
//
// All history access goes through the session mutex, so a Session can be
// handed to the script runtime and the REPL at the same time.
type Session struct {
	mu      sync.Mutex
	history *history.Manager[string]

	mark    history.Checkpoint
	hasMark bool

	stats *Stats

	logger *logging.Logger
	out    io.Writer
	prompt string
	echo   bool
}

var _ script.History = (*Session)(nil)

// NewSession creates a session with an empty history.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Session{
		history: history.New[string](),
		stats:   newStats(),
		logger:  opts.Logger.WithComponent("session"),
		out:     opts.Output,
		prompt:  opts.Prompt,
		echo:    opts.Echo,
	}
}

// RecordLabeled records state as the new current entry.
func (s *Session) RecordLabeled(label, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	discarded := s.history.RedoCount()
	s.history.RecordLabeled(label, state)
	s.stats.recordAction(discarded)
	pos, _ := s.history.Position()
	s.logger.WithFields(map[string]any{"position": pos, "discarded": discarded}).Debug("recorded %q", state)
}

// Record records state without a label.
func (s *Session) Record(state string) {
	s.RecordLabeled("", state)
}

// Undo moves back one entry.
func (s *Session) Undo() history.Result[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.history.Undo()
	s.stats.recordMove(true, res.Outcome)
	s.logResult("undo", res)
	return res
}

// Redo moves forward one entry.
func (s *Session) Redo() history.Result[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.history.Redo()
	s.stats.recordMove(false, res.Outcome)
	s.logResult("redo", res)
	return res
}

func (s *Session) logResult(op string, res history.Result[string]) {
	if res.OK() {
		pos, _ := s.history.Position()
		s.logger.WithField("position", pos).Debug("%s to %q", op, res.Value)
		return
	}
	s.logger.WithField("outcome", res.Outcome).Info("%s refused: %v", op, res.Err())
}

// Stats returns the session's operation counters.
func (s *Session) Stats() *Stats {
	return s.stats
}

// Current returns the current state.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// Len returns the number of entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// Position returns the cursor index.
func (s *Session) Position() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Position()
}

// CanUndo returns true if undo would move the cursor.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo returns true if redo would move the cursor.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Clear empties the history and drops the REPL mark.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.history.Len()
	s.history.Clear()
	s.hasMark = false
	s.stats.recordClear(n)
	s.logger.Debug("cleared %d entries", n)
}

// Entries returns entry metadata.
func (s *Session) Entries() []history.EntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// Checkpoint captures the current position.
func (s *Session) Checkpoint() history.Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Checkpoint()
}

// UndoToCheckpoint undoes back to cp.
func (s *Session) UndoToCheckpoint(cp history.Checkpoint) error {
	_, err := s.undoToCheckpoint(cp)
	return err
}

// undoToCheckpoint is UndoToCheckpoint that also reports the steps taken.
func (s *Session) undoToCheckpoint(cp history.Checkpoint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jump("undo to checkpoint", func() error {
		return s.history.UndoToCheckpoint(cp)
	})
}

// RedoToCheckpoint redoes forward to cp.
func (s *Session) RedoToCheckpoint(cp history.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.jump("redo to checkpoint", func() error {
		return s.history.RedoToCheckpoint(cp)
	})
	return err
}

// GoTo moves the cursor to index.
func (s *Session) GoTo(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var state string
	_, err := s.jump("goto", func() error {
		v, err := s.history.GoTo(index)
		state = v
		return err
	})
	return state, err
}

// jump runs a multi-step move and counts each step it took.
// The caller must hold s.mu.
func (s *Session) jump(op string, move func() error) (int, error) {
	from, _ := s.history.Position()
	if err := move(); err != nil {
		s.logger.WithField("position", from).Info("%s refused: %v", op, err)
		return 0, err
	}
	to, _ := s.history.Position()

	steps := to - from
	undo := steps < 0
	if undo {
		steps = -steps
	}
	s.stats.recordMoves(undo, steps)

	state, _ := s.history.Current()
	s.logger.WithFields(map[string]any{"from": from, "position": to, "steps": steps}).Debug("%s: now at %q", op, state)
	return steps, nil
}

// snapshot is a consistent copy of the history for listing.
type snapshot struct {
	info  history.EntryInfo
	state string
}

func (s *Session) snapshot() []snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.history.Entries()
	result := make([]snapshot, len(entries))
	for i, e := range entries {
		state, _ := s.history.At(i)
		result[i] = snapshot{info: e, state: state}
	}
	return result
}

// NewScriptState creates a Lua state bound to this session. print output
// goes to the session output.
func (s *Session) NewScriptState(opts ...script.StateOption) *script.State {
	opts = append([]script.StateOption{script.WithOutput(s.out)}, opts...)
	st := script.NewState(opts...)
	st.Register(script.NewHistoryModule(s))
	return st
}
