// Package docstate holds the single document the client currently knows
// about, plus the phase of the most recent upload attempt.
package docstate

import (
	"errors"
	"sync"
	"time"

	"github.com/dharsanguruparan/docchat/internal/model"
)

// ErrIncomplete is returned by Set when the descriptor is missing a required
// field. The store never holds a partially populated descriptor.
var ErrIncomplete = errors.New("document descriptor is incomplete")

// Phase describes the upload lifecycle as seen by the UI.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseUploading Phase = "uploading"
	PhaseReady     Phase = "ready"
	PhaseFailed    Phase = "failed"
)

// Store owns the current DocumentDescriptor. RWMutex lets the UI read the
// projection while an upload goroutine applies a transition.
type Store struct {
	mu        sync.RWMutex
	current   *model.DocumentDescriptor
	phase     Phase
	uploading string
	notice    string
	updatedAt time.Time
}

// NewStore returns a store in the "no document" state.
func NewStore() *Store {
	return &Store{phase: PhaseIdle}
}

// Current returns a copy of the descriptor, if any.
func (s *Store) Current() (model.DocumentDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.DocumentDescriptor{}, false
	}
	return s.current.Clone(), true
}

// Set replaces the descriptor wholesale. There is no merge with the previous
// one, and an incomplete descriptor is refused without touching state.
func (s *Store) Set(d model.DocumentDescriptor) error {
	if !d.Complete() {
		return ErrIncomplete
	}
	next := d.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &next
	s.phase = PhaseReady
	s.uploading = ""
	s.notice = ""
	s.updatedAt = time.Now().UTC()
	return nil
}

// Clear returns the store to its initial state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.phase = PhaseIdle
	s.uploading = ""
	s.notice = ""
	s.updatedAt = time.Now().UTC()
}

// BeginUpload marks an upload of filename as in flight. The descriptor is
// left untouched.
func (s *Store) BeginUpload(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseUploading
	s.uploading = filename
	s.notice = ""
	s.updatedAt = time.Now().UTC()
}

// FailUpload records a failed attempt. The prior descriptor stays current.
func (s *Store) FailUpload(notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseFailed
	s.uploading = ""
	s.notice = notice
	s.updatedAt = time.Now().UTC()
}
