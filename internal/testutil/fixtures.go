package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempus/internal/domain"
)

// TestNow is the fixed reference instant used by fixtures.
var TestNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

// Project options
type ProjectOption func(*domain.Project)

func WithProjectColor(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Color = c
	}
}

func WithProjectArchived() ProjectOption {
	return func(p *domain.Project) {
		p.Archived = true
	}
}

func WithProjectRemoteID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.FirestoreID = id
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     "#83a598",
		CreatedAt: TestNow,
		UpdatedAt: TestNow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session options
type SessionOption func(*domain.Session)

func WithSessionStart(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.Start = t
	}
}

func WithSessionNote(note string) SessionOption {
	return func(s *domain.Session) {
		s.Note = note
	}
}

func WithSessionRunning() SessionOption {
	return func(s *domain.Session) {
		s.Running = true
		s.Stop = nil
		s.DurationMS = 0
	}
}

func WithSessionPaused(at time.Time) SessionOption {
	return func(s *domain.Session) {
		s.Running = true
		s.Stop = nil
		s.DurationMS = 0
		s.Paused = true
		s.PausedAt = &at
	}
}

func WithSessionRemoteID(id string) SessionOption {
	return func(s *domain.Session) {
		s.FirestoreID = id
	}
}

// NewTestSession builds a completed session of the given length ending at
// TestNow. Options may reopen it as running or paused.
func NewTestSession(projectID string, minutes int, opts ...SessionOption) *domain.Session {
	stop := TestNow
	s := &domain.Session{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		Start:      TestNow.Add(-time.Duration(minutes) * time.Minute),
		Stop:       &stop,
		DurationMS: int64(minutes) * 60 * 1000,
		CreatedAt:  TestNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Note options
type NoteOption func(*domain.PredefinedNote)

func WithNoteRemoteID(id string) NoteOption {
	return func(n *domain.PredefinedNote) {
		n.FirestoreID = id
	}
}

func NewTestNote(text string, opts ...NoteOption) *domain.PredefinedNote {
	n := &domain.PredefinedNote{
		ID:        uuid.NewString(),
		Note:      text,
		CreatedAt: TestNow,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Organization options
type OrgOption func(*domain.Organization)

func WithOrgRemoteID(id string) OrgOption {
	return func(o *domain.Organization) {
		o.FirestoreID = id
	}
}

func WithOrgCreatedBy(uid string) OrgOption {
	return func(o *domain.Organization) {
		o.CreatedBy = uid
	}
}

func NewTestOrganization(companyName string, opts ...OrgOption) *domain.Organization {
	o := &domain.Organization{
		ID: uuid.NewString(),
		Corporate: domain.CorporateInfo{
			CompanyName: companyName,
			City:        "Hamburg",
			Country:     "DE",
		},
		CreatedAt: TestNow,
		UpdatedAt: TestNow,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
