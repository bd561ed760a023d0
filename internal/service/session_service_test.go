package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/testutil"
	"github.com/alexanderramin/tempus/internal/timer"
)

// fakeExporter records pushed sessions and optionally fails.
type fakeExporter struct {
	pushed []*domain.Session
	err    error
}

func (f *fakeExporter) Export(ctx context.Context, s *domain.Session) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, s)
	return nil
}

func sessionServiceSetup(t *testing.T, exporter SessionExporter) (SessionService, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	sessionRepo := repository.NewSQLiteSessionRepo(database)
	project := testutil.NewTestProject("Acme")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, project))

	machine := timer.NewMachine(uow, nil)
	return NewSessionService(machine, sessionRepo, exporter, nil), project.ID
}

func TestSessionService_StopPushesSessionRemotely(t *testing.T) {
	exporter := &fakeExporter{}
	svc, projectID := sessionServiceSetup(t, exporter)
	ctx := context.Background()

	_, err := svc.Start(ctx, projectID, "focus")
	require.NoError(t, err)

	done, err := svc.Stop(ctx)
	require.NoError(t, err)

	require.Len(t, exporter.pushed, 1)
	assert.Equal(t, done.ID, exporter.pushed[0].ID)
	assert.False(t, exporter.pushed[0].Running)
}

func TestSessionService_StopSucceedsWhenPushFails(t *testing.T) {
	exporter := &fakeExporter{err: errors.New("network down")}
	svc, projectID := sessionServiceSetup(t, exporter)
	ctx := context.Background()

	_, err := svc.Start(ctx, projectID, "")
	require.NoError(t, err)

	// Timer correctness never depends on connectivity.
	done, err := svc.Stop(ctx)
	require.NoError(t, err)
	assert.NotNil(t, done.Stop)
	assert.Empty(t, done.FirestoreID)

	sessions, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}

func TestSessionService_StopWithoutExporter(t *testing.T) {
	svc, projectID := sessionServiceSetup(t, nil)
	ctx := context.Background()

	_, err := svc.Start(ctx, projectID, "")
	require.NoError(t, err)
	_, err = svc.Stop(ctx)
	require.NoError(t, err)
}

func TestSessionService_Status(t *testing.T) {
	svc, projectID := sessionServiceSetup(t, nil)
	ctx := context.Background()

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, timer.StateIdle, status.State)
	assert.Nil(t, status.Session)

	started, err := svc.Start(ctx, projectID, "note")
	require.NoError(t, err)

	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, timer.StateRunning, status.State)
	require.NotNil(t, status.Session)
	assert.Equal(t, started.ID, status.Session.ID)
	assert.GreaterOrEqual(t, status.Elapsed, time.Duration(0))
}

func TestSessionService_DiscardRemovesRecord(t *testing.T) {
	svc, projectID := sessionServiceSetup(t, nil)
	ctx := context.Background()

	_, err := svc.Start(ctx, projectID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Discard(ctx))

	sessions, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	err = svc.Discard(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestSessionService_ListByProject(t *testing.T) {
	svc, projectID := sessionServiceSetup(t, nil)
	ctx := context.Background()

	_, err := svc.Start(ctx, projectID, "")
	require.NoError(t, err)
	_, err = svc.Stop(ctx)
	require.NoError(t, err)

	byProject, err := svc.ListByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	other, err := svc.ListByProject(ctx, "other-project")
	require.NoError(t, err)
	assert.Empty(t, other)
}
