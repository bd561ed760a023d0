package repository

import (
	"context"

	"github.com/alexanderramin/tempus/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	GetRunning(ctx context.Context) (*domain.Session, error)
	GetByRemoteID(ctx context.Context, firestoreID string) (*domain.Session, error)
	List(ctx context.Context) ([]*domain.Session, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}

type NoteRepo interface {
	Create(ctx context.Context, n *domain.PredefinedNote) error
	GetByID(ctx context.Context, id string) (*domain.PredefinedNote, error)
	GetByRemoteID(ctx context.Context, firestoreID string) (*domain.PredefinedNote, error)
	List(ctx context.Context) ([]*domain.PredefinedNote, error)
	Update(ctx context.Context, n *domain.PredefinedNote) error
	Delete(ctx context.Context, id string) error
}

type OrganizationRepo interface {
	Create(ctx context.Context, o *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetByRemoteID(ctx context.Context, firestoreID string) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
	Update(ctx context.Context, o *domain.Organization) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByName(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type UserLinkRepo interface {
	Upsert(ctx context.Context, l *domain.UserLink) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserLink, error)
	Delete(ctx context.Context, id string) error
}
