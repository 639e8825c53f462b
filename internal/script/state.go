package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for a script run.
const (
	DefaultTimeout   = 5 * time.Second
	DefaultCallLimit = 100_000
)

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs
// started from different goroutines.
type State struct {
	L *lua.LState

	mu sync.Mutex

	timeout   time.Duration
	callLimit int64
	calls     int64
	exceeded  bool
	output    io.Writer

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout bounds each run. Zero disables the timeout.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithCallLimit caps the history calls per run. Zero or less disables it.
func WithCallLimit(limit int64) StateOption {
	return func(s *State) {
		s.callLimit = limit
	}
}

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		s.output = w
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		timeout:   DefaultTimeout,
		callLimit: DefaultCallLimit,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.installSandbox()
	return s
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed.
}

func (s *State) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		return 0
	}))
}

// countCall records one history call and raises a Lua error past the limit.
func (s *State) countCall(L *lua.LState) {
	if s.callLimit <= 0 {
		return
	}
	s.calls++
	if s.calls > s.callLimit {
		s.exceeded = true
		L.RaiseError("%s", ErrCallLimit.Error())
	}
}

// RunString executes Lua source. name is used as the chunk name in errors.
func (s *State) RunString(ctx context.Context, name, code string) error {
	return s.run(ctx, name, strings.NewReader(code))
}

// RunFile executes the Lua file at path.
func (s *State) RunFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	return s.run(ctx, path, f)
}

func (s *State) run(ctx context.Context, name string, r io.Reader) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	s.calls = 0
	s.exceeded = false

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	defer s.L.SetTop(0)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	fn, err := s.L.Load(r, name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}

	s.L.Push(fn)
	if err := s.L.PCall(0, lua.MultRet, nil); err != nil {
		switch {
		case s.exceeded:
			return fmt.Errorf("running %s: %w", name, ErrCallLimit)
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("running %s: %w", name, ErrExecutionTimeout)
		case ctx.Err() != nil:
			return fmt.Errorf("running %s: %w", name, ctx.Err())
		}
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

// Register installs the history module as the global "history".
func (s *State) Register(m *HistoryModule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.L.SetGlobal("history", m.table(s))
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Close releases all resources associated with the Lua state.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
