package ui

import "github.com/piwi3910/CircleCut/internal/model"

const defaultMaxDepth = 50

// Snapshot is the editable state an undo step restores: the pack inputs
// and the machining settings, plus the name of the change that replaced it.
type Snapshot struct {
	Settings model.PackSettings
	Cut      model.CutSettings
	Label    string
}

// MakeSnapshot bundles the current state under label.
func MakeSnapshot(settings model.PackSettings, cut model.CutSettings, label string) Snapshot {
	return Snapshot{Settings: settings, Cut: cut, Label: label}
}

// snapshotStack is a LIFO that drops its oldest entries beyond limit.
// A limit of zero means unbounded.
type snapshotStack struct {
	items []Snapshot
	limit int
}

func (s *snapshotStack) push(snap Snapshot) {
	s.items = append(s.items, snap)
	if s.limit > 0 && len(s.items) > s.limit {
		s.items = append([]Snapshot(nil), s.items[len(s.items)-s.limit:]...)
	}
}

func (s *snapshotStack) pop() (Snapshot, bool) {
	n := len(s.items)
	if n == 0 {
		return Snapshot{}, false
	}
	top := s.items[n-1]
	s.items = s.items[:n-1]
	return top, true
}

func (s *snapshotStack) peek() (Snapshot, bool) {
	if len(s.items) == 0 {
		return Snapshot{}, false
	}
	return s.items[len(s.items)-1], true
}

// History is the undo/redo log of the parameter panel. Callers Push the
// state they are about to replace; Undo and Redo take the live state so it
// can be restored by the opposite operation.
type History struct {
	undo snapshotStack
	redo snapshotStack
}

// NewHistory keeps up to defaultMaxDepth undo steps.
func NewHistory() *History {
	return newHistoryWithDepth(defaultMaxDepth)
}

func newHistoryWithDepth(depth int) *History {
	return &History{undo: snapshotStack{limit: depth}}
}

// Push records s as the state before a change and forgets any redo steps.
func (h *History) Push(s Snapshot) {
	h.undo.push(s)
	h.redo.items = nil
}

// Undo returns the state to restore, moving current onto the redo stack.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	prev, ok := h.undo.pop()
	if ok {
		h.redo.push(current)
	}
	return prev, ok
}

// Redo reverses the last Undo, moving current back onto the undo stack.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	next, ok := h.redo.pop()
	if ok {
		h.undo.push(current)
	}
	return next, ok
}

func (h *History) CanUndo() bool { return len(h.undo.items) > 0 }
func (h *History) CanRedo() bool { return len(h.redo.items) > 0 }

// UndoLabel names the change the next Undo reverts, or "" if there is none.
func (h *History) UndoLabel() string {
	top, _ := h.undo.peek()
	return top.Label
}

// Clear forgets every step, as after opening another job.
func (h *History) Clear() {
	h.undo.items = nil
	h.redo.items = nil
}
