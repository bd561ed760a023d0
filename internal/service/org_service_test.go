package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/reconcile"
	"github.com/alexanderramin/tempus/internal/remote"
	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/testutil"
)

func orgServiceSetup(t *testing.T, uid string) (OrganizationService, *repository.SQLiteUserLinkRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	store := testutil.NewFakeStore()

	engine := reconcile.NewEngine[*domain.Organization](
		reconcile.OrgAdapter{}, store, remote.StaticAuth(uid), uow, nil)
	links := repository.NewSQLiteUserLinkRepo(database)
	svc := NewOrganizationService(engine,
		repository.NewSQLiteOrganizationRepo(database), links, remote.StaticAuth(uid), nil)
	return svc, links
}

func TestOrgService_SaveCreatesThenUpdates(t *testing.T) {
	svc, _ := orgServiceSetup(t, "user-1")
	ctx := context.Background()

	org, err := svc.Save(ctx, domain.CorporateInfo{CompanyName: "Ramin GmbH"})
	require.NoError(t, err)
	assert.NotEmpty(t, org.FirestoreID)
	assert.Equal(t, "user-1", org.CreatedBy)

	// A second save updates the same organization instead of creating one.
	updated, err := svc.Save(ctx, domain.CorporateInfo{CompanyName: "Ramin GmbH", City: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, org.ID, updated.ID)

	fetched, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", fetched.Corporate.City)
}

func TestOrgService_Save_RequiresCompanyName(t *testing.T) {
	svc, _ := orgServiceSetup(t, "user-1")

	_, err := svc.Save(context.Background(), domain.CorporateInfo{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrgService_Get_Empty(t *testing.T) {
	svc, _ := orgServiceSetup(t, "user-1")

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrgService_RecordsOwnerMembership(t *testing.T) {
	svc, links := orgServiceSetup(t, "user-1")
	ctx := context.Background()

	org, err := svc.Save(ctx, domain.CorporateInfo{CompanyName: "Ramin GmbH"})
	require.NoError(t, err)

	link, err := links.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, org.ID, link.OrganizationID)
	assert.Equal(t, "owner", link.Role)
}
