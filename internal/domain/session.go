package domain

import (
	"fmt"
	"time"
)

// Session is a single tracked work interval. While Running is true the
// session occupies the running-session slot: at most one such record may
// exist in the local store at any time.
type Session struct {
	ID          string
	FirestoreID string
	ProjectID   string
	Start       time.Time
	Stop        *time.Time
	DurationMS  int64
	PausedMS    int64
	Running     bool
	Paused      bool
	PausedAt    *time.Time
	Note        string
	CreatedAt   time.Time
}

func (s *Session) LocalID() string       { return s.ID }
func (s *Session) RemoteID() string      { return s.FirestoreID }
func (s *Session) SetRemoteID(id string) { s.FirestoreID = id }

// Elapsed derives the accumulated working time at the given instant.
// It is computed from timestamps, never from a ticking counter, so it stays
// correct across process restarts, device sleep, and suspended tabs.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if !s.Running {
		return time.Duration(s.DurationMS) * time.Millisecond
	}
	end := now
	if s.Paused && s.PausedAt != nil {
		end = *s.PausedAt
	}
	elapsed := end.Sub(s.Start) - time.Duration(s.PausedMS)*time.Millisecond
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// MarkPaused freezes elapsed time at now.
func (s *Session) MarkPaused(now time.Time) error {
	if !s.Running {
		return fmt.Errorf("pause: session is not running: %w", ErrNoSession)
	}
	if s.Paused {
		return fmt.Errorf("pause: session is already paused: %w", ErrValidation)
	}
	t := now
	s.Paused = true
	s.PausedAt = &t
	return nil
}

// MarkResumed folds the just-ended pause interval into the accumulated
// paused total and clears PausedAt. Deriving everything from the single
// PausedMS counter keeps multi-pause sessions drift-free.
func (s *Session) MarkResumed(now time.Time) error {
	if !s.Running || !s.Paused || s.PausedAt == nil {
		return fmt.Errorf("resume: session is not paused: %w", ErrValidation)
	}
	s.PausedMS += now.Sub(*s.PausedAt).Milliseconds()
	s.Paused = false
	s.PausedAt = nil
	return nil
}

// Finish completes the session at now. A still-open pause interval counts
// as paused up to the stop instant.
func (s *Session) Finish(now time.Time) error {
	if !s.Running {
		return fmt.Errorf("stop: session is not running: %w", ErrNoSession)
	}
	if s.Paused && s.PausedAt != nil {
		s.PausedMS += now.Sub(*s.PausedAt).Milliseconds()
		s.Paused = false
		s.PausedAt = nil
	}
	t := now
	s.Stop = &t
	s.Running = false
	s.DurationMS = t.Sub(s.Start).Milliseconds() - s.PausedMS
	if s.DurationMS < 0 {
		s.DurationMS = 0
	}
	return nil
}
