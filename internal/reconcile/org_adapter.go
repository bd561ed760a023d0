package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/remote"
	"github.com/alexanderramin/tempus/internal/repository"
)

// OrgAdapter binds the organization document to the top-level organizations
// collection.
type OrgAdapter struct{}

var _ Adapter[*domain.Organization] = OrgAdapter{}

func (OrgAdapter) Kind() remote.Kind { return remote.KindOrganizations }

func (OrgAdapter) Encode(o *domain.Organization) map[string]any {
	return map[string]any{
		"companyName":  o.Corporate.CompanyName,
		"addressLine1": o.Corporate.AddressLine1,
		"addressLine2": o.Corporate.AddressLine2,
		"zipCode":      o.Corporate.ZipCode,
		"city":         o.Corporate.City,
		"country":      o.Corporate.Country,
		"taxId":        o.Corporate.TaxID,
		"email":        o.Corporate.Email,
		"phone":        o.Corporate.Phone,
		"logoRef":      o.Corporate.LogoRef,
		"createdBy":    o.CreatedBy,
		"createdAt":    o.CreatedAt,
		"updatedAt":    o.UpdatedAt,
	}
}

func (OrgAdapter) Decode(remoteID string, data map[string]any) (*domain.Organization, error) {
	createdAt := payloadTime(data, "createdAt")
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := payloadTime(data, "updatedAt")
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return &domain.Organization{
		ID:          uuid.New().String(),
		FirestoreID: remoteID,
		Corporate:   decodeCorporate(data),
		CreatedBy:   payloadString(data, "createdBy"),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (OrgAdapter) Merge(o *domain.Organization, data map[string]any) {
	o.Corporate = decodeCorporate(data)
	o.CreatedBy = payloadString(data, "createdBy")
	if t := payloadTime(data, "updatedAt"); !t.IsZero() {
		o.UpdatedAt = t
	}
}

func decodeCorporate(data map[string]any) domain.CorporateInfo {
	return domain.CorporateInfo{
		CompanyName:  payloadString(data, "companyName"),
		AddressLine1: payloadString(data, "addressLine1"),
		AddressLine2: payloadString(data, "addressLine2"),
		ZipCode:      payloadString(data, "zipCode"),
		City:         payloadString(data, "city"),
		Country:      payloadString(data, "country"),
		TaxID:        payloadString(data, "taxId"),
		Email:        payloadString(data, "email"),
		Phone:        payloadString(data, "phone"),
		LogoRef:      payloadString(data, "logoRef"),
	}
}

func (OrgAdapter) Get(ctx context.Context, tx db.DBTX, localID string) (*domain.Organization, error) {
	return repository.NewSQLiteOrganizationRepo(tx).GetByID(ctx, localID)
}

func (OrgAdapter) GetByRemoteID(ctx context.Context, tx db.DBTX, remoteID string) (*domain.Organization, error) {
	return repository.NewSQLiteOrganizationRepo(tx).GetByRemoteID(ctx, remoteID)
}

func (OrgAdapter) Insert(ctx context.Context, tx db.DBTX, o *domain.Organization) error {
	return repository.NewSQLiteOrganizationRepo(tx).Create(ctx, o)
}

func (OrgAdapter) Update(ctx context.Context, tx db.DBTX, o *domain.Organization) error {
	return repository.NewSQLiteOrganizationRepo(tx).Update(ctx, o)
}

func (OrgAdapter) Delete(ctx context.Context, tx db.DBTX, localID string) error {
	return repository.NewSQLiteOrganizationRepo(tx).Delete(ctx, localID)
}

func (OrgAdapter) List(ctx context.Context, tx db.DBTX) ([]*domain.Organization, error) {
	return repository.NewSQLiteOrganizationRepo(tx).List(ctx)
}
