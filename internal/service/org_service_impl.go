package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/reconcile"
	"github.com/alexanderramin/tempus/internal/remote"
	"github.com/alexanderramin/tempus/internal/repository"
)

type orgService struct {
	engine *reconcile.Engine[*domain.Organization]
	orgs   repository.OrganizationRepo
	links  repository.UserLinkRepo
	auth   remote.Auth
	logger *slog.Logger
}

// NewOrganizationService creates the organization service. Observed
// organization snapshots keep the local user-link row current, so the
// membership survives offline restarts.
func NewOrganizationService(engine *reconcile.Engine[*domain.Organization], orgs repository.OrganizationRepo, links repository.UserLinkRepo, auth remote.Auth, logger *slog.Logger) OrganizationService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &orgService{engine: engine, orgs: orgs, links: links, auth: auth, logger: logger}
	engine.OnSnapshot(s.recordMembership)
	return s
}

// Save creates or updates the single organization held by this client.
func (s *orgService) Save(ctx context.Context, info domain.CorporateInfo) (*domain.Organization, error) {
	if info.CompanyName == "" {
		return nil, fmt.Errorf("company name is required: %w", domain.ErrValidation)
	}

	now := time.Now().UTC()
	existing, err := s.Get(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.Corporate = info
		existing.UpdatedAt = now
		if err := s.engine.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	uid, _ := s.auth.CurrentUser()
	org := &domain.Organization{
		ID:        uuid.New().String(),
		Corporate: info,
		CreatedBy: uid,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.engine.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Get returns the locally held organization; the client model keeps at
// most one.
func (s *orgService) Get(ctx context.Context) (*domain.Organization, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, fmt.Errorf("organization: %w", repository.ErrNotFound)
	}
	return orgs[0], nil
}

func (s *orgService) StartSync(ctx context.Context) error {
	return s.engine.StartSync(ctx)
}

func (s *orgService) StopSync() {
	s.engine.StopSync()
}

func (s *orgService) SyncErr() error {
	return s.engine.Err()
}

func (s *orgService) recordMembership(orgs []*domain.Organization) {
	uid, ok := s.auth.CurrentUser()
	if !ok || len(orgs) == 0 {
		return
	}
	org := orgs[0]
	link := &domain.UserLink{
		ID:             uuid.New().String(),
		UserID:         uid,
		OrganizationID: org.ID,
		Role:           "member",
		UpdatedAt:      time.Now().UTC(),
	}
	if org.CreatedBy == uid {
		link.Role = "owner"
	}
	if err := s.links.Upsert(context.Background(), link); err != nil {
		s.logger.Warn("recording organization membership", "err", err)
	}
}
