package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statehistory/internal/history"
)

// History is the history surface exposed to scripts.
// *history.Manager[string] satisfies it, as does app.Session.
type History interface {
	RecordLabeled(label, state string)
	Undo() history.Result[string]
	Redo() history.Result[string]
	Current() (string, bool)
	Len() int
	Position() (int, bool)
	CanUndo() bool
	CanRedo() bool
	Clear()
	Entries() []history.EntryInfo
	Checkpoint() history.Checkpoint
	UndoToCheckpoint(cp history.Checkpoint) error
	RedoToCheckpoint(cp history.Checkpoint) error
	GoTo(index int) (string, error)
}

// HistoryModule implements the history Lua module.
type HistoryModule struct {
	h History
}

// NewHistoryModule creates a module bound to h.
func NewHistoryModule(h History) *HistoryModule {
	return &HistoryModule{h: h}
}

// Name returns the module name.
func (m *HistoryModule) Name() string {
	return "history"
}

// table builds the module table. Every function counts against the
// state's call limit.
func (m *HistoryModule) table(s *State) *lua.LTable {
	L := s.L
	funcs := map[string]lua.LGFunction{
		"record":   m.record,
		"undo":     m.undo,
		"redo":     m.redo,
		"current":  m.current,
		"len":      m.length,
		"position": m.position,
		"can_undo": m.canUndo,
		"can_redo": m.canRedo,
		"clear":    m.clear,
		"entries":  m.entries,
		"mark":     m.mark,
		"undo_to":  m.undoTo,
		"redo_to":  m.redoTo,
		"go_to":    m.goTo,
	}

	mod := L.NewTable()
	for name, fn := range funcs {
		fn := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			s.countCall(L)
			return fn(L)
		}))
	}
	return mod
}

// record(state [, label])
func (m *HistoryModule) record(L *lua.LState) int {
	state := L.CheckString(1)
	label := L.OptString(2, "")
	m.h.RecordLabeled(label, state)
	return 0
}

// undo() -> value|nil, outcome
func (m *HistoryModule) undo(L *lua.LState) int {
	return pushResult(L, m.h.Undo())
}

// redo() -> value|nil, outcome
func (m *HistoryModule) redo(L *lua.LState) int {
	return pushResult(L, m.h.Redo())
}

func pushResult(L *lua.LState, res history.Result[string]) int {
	if v, ok := res.Get(); ok {
		L.Push(lua.LString(v))
	} else {
		L.Push(lua.LNil)
	}
	L.Push(lua.LString(res.Outcome.String()))
	return 2
}

// current() -> value|nil
func (m *HistoryModule) current(L *lua.LState) int {
	if v, ok := m.h.Current(); ok {
		L.Push(lua.LString(v))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// len() -> number
func (m *HistoryModule) length(L *lua.LState) int {
	L.Push(lua.LNumber(m.h.Len()))
	return 1
}

// position() -> number|nil (1-based)
func (m *HistoryModule) position(L *lua.LState) int {
	if pos, ok := m.h.Position(); ok {
		L.Push(lua.LNumber(pos + 1))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (m *HistoryModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.h.CanUndo()))
	return 1
}

func (m *HistoryModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.h.CanRedo()))
	return 1
}

func (m *HistoryModule) clear(L *lua.LState) int {
	m.h.Clear()
	return 0
}

// entries() -> {{index, id, label, current}, ...}
func (m *HistoryModule) entries(L *lua.LState) int {
	list := L.NewTable()
	for _, e := range m.h.Entries() {
		t := L.NewTable()
		t.RawSetString("index", lua.LNumber(e.Index+1))
		t.RawSetString("id", lua.LString(e.ID.String()))
		t.RawSetString("label", lua.LString(e.Label))
		t.RawSetString("current", lua.LBool(e.Current))
		list.Append(t)
	}
	L.Push(list)
	return 1
}

// mark() -> checkpoint userdata | nil, err
func (m *HistoryModule) mark(L *lua.LState) int {
	if _, ok := m.h.Position(); !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString(history.ErrEmptyHistory.Error()))
		return 2
	}
	ud := L.NewUserData()
	ud.Value = m.h.Checkpoint()
	L.Push(ud)
	return 1
}

func checkCheckpoint(L *lua.LState, n int) history.Checkpoint {
	ud := L.CheckUserData(n)
	cp, ok := ud.Value.(history.Checkpoint)
	if !ok {
		L.ArgError(n, "checkpoint expected")
	}
	return cp
}

// undo_to(cp) -> true | false, err
func (m *HistoryModule) undoTo(L *lua.LState) int {
	return pushOK(L, m.h.UndoToCheckpoint(checkCheckpoint(L, 1)))
}

// redo_to(cp) -> true | false, err
func (m *HistoryModule) redoTo(L *lua.LState) int {
	return pushOK(L, m.h.RedoToCheckpoint(checkCheckpoint(L, 1)))
}

func pushOK(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// go_to(i) -> value | nil, err (1-based)
func (m *HistoryModule) goTo(L *lua.LState) int {
	v, err := m.h.GoTo(L.CheckInt(1) - 1)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(v))
	return 1
}
