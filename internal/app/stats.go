package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/statehistory/internal/history"
)

// Stats counts history operations performed through a Session.
type Stats struct {
	records   atomic.Uint64
	discarded atomic.Uint64 // truncated or cleared entries
	undos     atomic.Uint64
	redos     atomic.Uint64
	clears    atomic.Uint64

	// Refused moves by outcome
	emptyRefusals    atomic.Uint64
	initialRefusals  atomic.Uint64
	noFutureRefusals atomic.Uint64

	startTime time.Time
}

func newStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// recordAction counts a record and the redo entries it discarded.
func (s *Stats) recordAction(discarded int) {
	s.records.Add(1)
	s.discarded.Add(uint64(discarded))
}

// recordClear counts a Clear and the entries it dropped.
func (s *Stats) recordClear(dropped int) {
	s.clears.Add(1)
	s.discarded.Add(uint64(dropped))
}

// recordMoves counts the steps of a successful multi-step move.
func (s *Stats) recordMoves(undo bool, steps int) {
	if steps <= 0 {
		return
	}
	if undo {
		s.undos.Add(uint64(steps))
	} else {
		s.redos.Add(uint64(steps))
	}
}

// recordMove counts an undo or redo by outcome.
func (s *Stats) recordMove(undo bool, outcome history.Outcome) {
	switch outcome {
	case history.OutcomeOK:
		if undo {
			s.undos.Add(1)
		} else {
			s.redos.Add(1)
		}
	case history.OutcomeEmpty:
		s.emptyRefusals.Add(1)
	case history.OutcomeAtInitial:
		s.initialRefusals.Add(1)
	case history.OutcomeNoFuture:
		s.noFutureRefusals.Add(1)
	}
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Records          uint64
	Discarded        uint64
	Undos            uint64
	Redos            uint64
	Clears           uint64
	EmptyRefusals    uint64
	InitialRefusals  uint64
	NoFutureRefusals uint64
	Uptime           time.Duration
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Records:          s.records.Load(),
		Discarded:        s.discarded.Load(),
		Undos:            s.undos.Load(),
		Redos:            s.redos.Load(),
		Clears:           s.clears.Load(),
		EmptyRefusals:    s.emptyRefusals.Load(),
		InitialRefusals:  s.initialRefusals.Load(),
		NoFutureRefusals: s.noFutureRefusals.Load(),
		Uptime:           time.Since(s.startTime),
	}
}

// Refusals returns the total number of undo/redo calls that did not move.
func (s StatsSnapshot) Refusals() uint64 {
	return s.EmptyRefusals + s.InitialRefusals + s.NoFutureRefusals
}

// String renders the snapshot as a single line, without uptime.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("records=%d discarded=%d undos=%d redos=%d clears=%d refused=%d",
		s.Records, s.Discarded, s.Undos, s.Redos, s.Clears, s.Refusals())
}
