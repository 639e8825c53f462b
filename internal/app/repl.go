package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/statehistory/internal/history"
)

const helpText = `Commands:
  do <state>     record a new state (alias: record)
  undo           move back one state
  redo           move forward one state
  current        show the current state
  list           show all states, * marks the current one
  mark           remember the current position
  back           undo to the mark (no-op if already at or before it)
  goto <n>       jump to state n (as numbered by list)
  clear          forget all states
  stats          show operation counters
  help           show this text
  quit           leave (alias: exit)
`

// Exec runs one REPL command line and writes its output.
// Blank lines and lines starting with # are ignored.
func (s *Session) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "do", "record":
		if arg == "" {
			return NewCommandError(cmd, "", ErrMissingArgument)
		}
		s.Record(arg)
	case "undo":
		s.renderUndo(s.Undo())
	case "redo":
		s.renderRedo(s.Redo())
	case "current":
		if v, ok := s.Current(); ok {
			s.printf("Current state: %s\n", v)
		} else {
			s.printf("No current state\n")
		}
	case "list":
		s.renderList()
	case "mark":
		cp, ok := s.setMark()
		if !ok {
			return NewCommandError(cmd, "", history.ErrEmptyHistory)
		}
		s.printf("Marked state %d\n", cp.Index())
	case "back":
		cp, ok := s.getMark()
		if !ok {
			return NewCommandError(cmd, "", ErrNoMark)
		}
		steps, err := s.undoToCheckpoint(cp)
		if err != nil {
			return NewCommandError(cmd, "", err)
		}
		if steps == 0 {
			s.printf("Already at or before mark\n")
			return nil
		}
		v, _ := s.Current()
		s.printf("Current state: %s\n", v)
	case "goto":
		if arg == "" {
			return NewCommandError(cmd, "", ErrMissingArgument)
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return NewCommandError(cmd, arg, err)
		}
		v, err := s.GoTo(n)
		if err != nil {
			return NewCommandError(cmd, arg, err)
		}
		s.printf("Current state: %s\n", v)
	case "clear":
		s.Clear()
		s.printf("History cleared\n")
	case "stats":
		s.printf("%s\n", s.stats.Snapshot())
	case "help":
		s.printf("%s", helpText)
	case "quit", "exit":
		return ErrQuit
	default:
		return NewCommandError(cmd, "", ErrUnknownCommand)
	}
	return nil
}

// setMark remembers the current position for "back".
func (s *Session) setMark() (history.Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history.IsEmpty() {
		return history.Checkpoint{}, false
	}
	s.mark = s.history.Checkpoint()
	s.hasMark = true
	return s.mark, true
}

func (s *Session) getMark() (history.Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mark, s.hasMark
}

func (s *Session) renderUndo(res history.Result[string]) {
	switch res.Outcome {
	case history.OutcomeOK:
		s.printf("Current state after undo: %s\n", res.Value)
	case history.OutcomeEmpty:
		s.printf("No state to undo\n")
	case history.OutcomeAtInitial:
		s.printf("Reached the initial state\n")
	}
}

func (s *Session) renderRedo(res history.Result[string]) {
	switch res.Outcome {
	case history.OutcomeOK:
		s.printf("Current state after redo: %s\n", res.Value)
	case history.OutcomeEmpty, history.OutcomeNoFuture:
		s.printf("No state to redo\n")
	}
}

func (s *Session) renderList() {
	entries := s.snapshot()
	if len(entries) == 0 {
		s.printf("No states recorded\n")
		return
	}
	for _, e := range entries {
		marker := " "
		if e.info.Current {
			marker = "*"
		}
		if e.info.Label != "" {
			s.printf("%s %d: %s (%s)\n", marker, e.info.Index, e.state, e.info.Label)
		} else {
			s.printf("%s %d: %s\n", marker, e.info.Index, e.state)
		}
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// Run reads commands from r until EOF, quit, or ctx is done.
// Command errors are printed and do not stop the loop.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	defer func() {
		s.logger.Debug("session ended: %s", s.stats.Snapshot())
	}()

	scanner := bufio.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			s.printf("%s", s.prompt)
		}
		if !scanner.Scan() {
			if s.prompt != "" {
				s.printf("\n")
			}
			return scanner.Err()
		}
		line := scanner.Text()
		if s.echo {
			s.printf("%s\n", line)
		}

		err := s.Exec(line)
		switch {
		case err == nil:
		case errors.Is(err, ErrQuit):
			return nil
		default:
			s.logger.Warn("command failed: %v", err)
			s.printf("error: %v\n", err)
		}
	}
}
