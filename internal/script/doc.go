// Package script runs Lua scripts against a state history.
//
// Scripts see a global "history" table:
//
//	history.record(state [, label])
//	value, outcome = history.undo()
//	value, outcome = history.redo()
//	value = history.current()
//	n = history.len()
//	i = history.position()        -- 1-based, nil when empty
//	ok = history.can_undo() / history.can_redo()
//	value, err = history.go_to(i)  -- 1-based
//	cp, err = history.mark()       -- nil, err when empty
//	ok, err = history.undo_to(cp) / history.redo_to(cp)
//	list = history.entries()       -- {index, id, label, current}
//	history.clear()
//
// undo and redo return nil plus the outcome tag ("empty-history",
// "at-initial-state", "no-future") when the cursor does not move, and the
// new current state plus "ok" when it does.
//
// The state is sandboxed: only the base, table, string and math libraries
// are opened, and dofile, loadfile, load, loadstring, require and module
// are removed. print writes to the configured output.
package script
