// Package selection tracks the file the user has picked or dropped but not
// yet uploaded. Both entry points go through filecheck.
package selection

import (
	"sync"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/filecheck"
	"github.com/dharsanguruparan/docchat/internal/model"
)

// State is the selection phase.
type State string

const (
	StateEmpty    State = "empty"
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
)

// Snapshot is a read-only view of the current selection.
type Snapshot struct {
	State   State
	File    model.PendingFile
	Verdict filecheck.Verdict
	// Notice is the user-facing rejection text, empty unless Rejected.
	Notice  string
}

// Selector holds at most one PendingFile.
type Selector struct {
	mu      sync.RWMutex
	file    model.PendingFile
	verdict filecheck.Verdict
	state   State
}

// New returns an empty Selector.
func New() *Selector {
	return &Selector{state: StateEmpty}
}

// Pick selects a file from disk, as a pick dialog would.
func (s *Selector) Pick(path string) (Snapshot, error) {
	f, err := model.PendingFromPath(path)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Drop(f), nil
}

// Drop selects a file handed over directly, as a drag-and-drop target would.
// The new file replaces any previous selection, accepted or not.
func (s *Selector) Drop(f model.PendingFile) Snapshot {
	verdict := filecheck.Validate(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = f
	s.verdict = verdict
	if verdict.Accepted {
		s.state = StateAccepted
	} else {
		s.state = StateRejected
	}
	return s.snapshotLocked()
}

// Accepted returns the selected file when it passed validation.
func (s *Selector) Accepted() (model.PendingFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case StateAccepted:
		return s.file, nil
	case StateRejected:
		return model.PendingFile{}, s.verdict.Err()
	default:
		return model.PendingFile{}, apperr.Precondition(apperr.ErrNoSelection)
	}
}

// Discard clears the selection. Called after a successful upload.
func (s *Selector) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = model.PendingFile{}
	s.verdict = filecheck.Verdict{}
	s.state = StateEmpty
}

// Snapshot returns the current selection.
func (s *Selector) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Selector) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state, File: s.file, Verdict: s.verdict}
	if s.state == StateRejected {
		snap.Notice = apperr.Message(s.verdict.Err())
	}
	return snap
}
