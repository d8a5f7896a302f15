// Package history keeps the undo and redo stacks of full-surface snapshots.
package history

import (
	"fmt"

	"github.com/example/paintapp/internal/surface"
)

// Target is captured by Commit and overwritten by Undo and Redo.
type Target interface {
	Snapshot() (surface.Snapshot, error)
	Restore(surface.Snapshot) error
}

// Store holds the undo sequence, oldest first, and the redo sequence, most
// recently undone first. Once initialized the undo sequence is never empty and
// its last element matches what the target shows.
type Store struct {
	undo  []surface.Snapshot
	redo  []surface.Snapshot
	limit int
}

// New returns a store that keeps at most limit undo snapshots. A limit below
// one means unlimited.
func New(limit int) *Store {
	s := &Store{}
	s.SetLimit(limit)
	return s
}

// SetLimit changes the undo depth cap and trims the oldest snapshots to fit.
func (s *Store) SetLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	s.limit = limit
	s.trim()
}

func (s *Store) Limit() int { return s.limit }

// UndoDepth is the number of undo snapshots, including the baseline.
func (s *Store) UndoDepth() int { return len(s.undo) }

// RedoDepth is the number of snapshots a redo can step through.
func (s *Store) RedoDepth() int { return len(s.redo) }

// CanUndo reports whether Undo would change the target.
func (s *Store) CanUndo() bool { return len(s.undo) > 1 }

// CanRedo reports whether Redo would change the target.
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }

// Initialize records the target's current state as the only undo element and
// empties redo.
func (s *Store) Initialize(t Target) error {
	snap, err := t.Snapshot()
	if err != nil {
		return fmt.Errorf("history initialize: %w", err)
	}
	s.undo = append(s.undo[:0], snap)
	s.redo = nil
	return nil
}

// Reset is Initialize under the name page lifecycle code uses.
func (s *Store) Reset(t Target) error {
	return s.Initialize(t)
}

// Commit appends the target's current state and discards all redo history.
func (s *Store) Commit(t Target) error {
	snap, err := t.Snapshot()
	if err != nil {
		return fmt.Errorf("history commit: %w", err)
	}
	s.undo = append(s.undo, snap)
	s.redo = nil
	s.trim()
	return nil
}

// Undo restores the state before the last commit. It returns false without
// touching anything when only the baseline remains. If the restore fails the
// store and target keep their current state.
func (s *Store) Undo(t Target) (bool, error) {
	if len(s.undo) <= 1 {
		return false, nil
	}
	top := s.undo[len(s.undo)-1]
	prev := s.undo[len(s.undo)-2]
	if err := t.Restore(prev); err != nil {
		return false, fmt.Errorf("history undo: %w", err)
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append([]surface.Snapshot{top}, s.redo...)
	return true, nil
}

// Redo reapplies the most recently undone state. It returns false when there
// is nothing to redo.
func (s *Store) Redo(t Target) (bool, error) {
	if len(s.redo) == 0 {
		return false, nil
	}
	next := s.redo[0]
	if err := t.Restore(next); err != nil {
		return false, fmt.Errorf("history redo: %w", err)
	}
	s.redo = s.redo[1:]
	s.undo = append(s.undo, next)
	return true, nil
}

// Top returns the snapshot matching the target's current state.
func (s *Store) Top() (surface.Snapshot, bool) {
	if len(s.undo) == 0 {
		return surface.Snapshot{}, false
	}
	return s.undo[len(s.undo)-1], true
}

// Bytes is the encoded size of every retained snapshot.
func (s *Store) Bytes() int {
	n := 0
	for _, snap := range s.undo {
		n += snap.Len()
	}
	for _, snap := range s.redo {
		n += snap.Len()
	}
	return n
}

func (s *Store) trim() {
	if s.limit <= 0 || len(s.undo) <= s.limit {
		return
	}
	drop := len(s.undo) - s.limit
	s.undo = append([]surface.Snapshot(nil), s.undo[drop:]...)
}
