package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/reconcile"
	"github.com/alexanderramin/tempus/internal/repository"
)

type noteService struct {
	engine *reconcile.Engine[*domain.PredefinedNote]
	notes  repository.NoteRepo
}

// NewNoteService creates the predefined-note service on top of its
// reconciliation engine.
func NewNoteService(engine *reconcile.Engine[*domain.PredefinedNote], notes repository.NoteRepo) NoteService {
	return &noteService{engine: engine, notes: notes}
}

func (s *noteService) Add(ctx context.Context, text string) (*domain.PredefinedNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("note text is required: %w", domain.ErrValidation)
	}
	n := &domain.PredefinedNote{
		ID:        uuid.New().String(),
		Note:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.engine.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *noteService) Edit(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("note text is required: %w", domain.ErrValidation)
	}
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	n.Note = text
	return s.engine.Update(ctx, n)
}

func (s *noteService) Remove(ctx context.Context, id string) error {
	return s.engine.Delete(ctx, id)
}

func (s *noteService) List(ctx context.Context) ([]*domain.PredefinedNote, error) {
	return s.notes.List(ctx)
}

func (s *noteService) StartSync(ctx context.Context) error {
	return s.engine.StartSync(ctx)
}

func (s *noteService) StopSync() {
	s.engine.StopSync()
}

func (s *noteService) SyncErr() error {
	return s.engine.Err()
}
