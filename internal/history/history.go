// Package history keeps the bounded undo/redo stack of the editor.
//
// Every document mutation is recorded as a pair of actions captured when the
// mutation happened: Do re-applies it, Undo reverses it. The stack never
// re-derives a change by diffing document state.
package history

import (
	"InkBinder/internal/event"
	"InkBinder/internal/logging"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 100

// Action applies or reverts one recorded change.
type Action func()

// Entry is one reversible change.
type Entry struct {
	Label string
	Do    Action
	Undo  Action
}

// Overflow is delivered to listeners when pushing evicts the oldest entry.
type Overflow struct {
	Capacity int
	Evicted  Entry
}

// Manager is the undo/redo stack. It is used from the UI goroutine only.
type Manager struct {
	capacity int
	undo     []Entry
	redo     []Entry

	// Overflows receives a warning whenever an entry is evicted.
	Overflows event.Registry[Overflow]
	// Changes fires after every Push, Undo, Redo and Clear.
	Changes event.Registry[*Manager]
}

// New creates a manager holding at most capacity entries.
func New(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{capacity: capacity}
}

// Push records a change that has already been applied. The redo stack is
// discarded. When the stack is full the oldest entry is evicted and an
// Overflow is delivered; Push never fails.
func (m *Manager) Push(label string, do, undo Action) {
	if do == nil || undo == nil {
		panic("history: Push with nil action")
	}
	m.redo = nil
	m.undo = append(m.undo, Entry{Label: label, Do: do, Undo: undo})
	if len(m.undo) > m.capacity {
		evicted := m.undo[0]
		m.undo = append(m.undo[:0:0], m.undo[1:]...)
		logging.Logger().Warn("history: capacity reached, dropping oldest entry",
			"capacity", m.capacity, "label", evicted.Label)
		m.Overflows.Notify(Overflow{Capacity: m.capacity, Evicted: evicted})
	}
	m.Changes.Notify(m)
}

// Undo reverts the most recent change. It reports false when there is
// nothing to undo.
func (m *Manager) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	e := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	e.Undo()
	m.redo = append(m.redo, e)
	m.Changes.Notify(m)
	return true
}

// Redo re-applies the most recently undone change.
func (m *Manager) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	e.Do()
	m.undo = append(m.undo, e)
	m.Changes.Notify(m)
	return true
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// UndoLabel returns the label of the entry Undo would revert.
func (m *Manager) UndoLabel() string {
	if len(m.undo) == 0 {
		return ""
	}
	return m.undo[len(m.undo)-1].Label
}

// RedoLabel returns the label of the entry Redo would re-apply.
func (m *Manager) RedoLabel() string {
	if len(m.redo) == 0 {
		return ""
	}
	return m.redo[len(m.redo)-1].Label
}

// Len returns the number of undoable entries.
func (m *Manager) Len() int { return len(m.undo) }

// Capacity returns the maximum number of undoable entries.
func (m *Manager) Capacity() int { return m.capacity }

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo, m.redo = nil, nil
	m.Changes.Notify(m)
}
