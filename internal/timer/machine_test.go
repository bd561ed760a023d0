package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/testutil"
)

// testClock is a manually advanced clock shared by a machine under test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func machineTestSetup(t *testing.T) (*Machine, *testClock, db.UnitOfWork, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	project := testutil.NewTestProject("Acme")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(context.Background(), project))

	clock := &testClock{now: testutil.TestNow}
	return NewMachine(uow, clock.Now), clock, uow, project.ID
}

func TestMachine_StartPersistsRunningSession(t *testing.T) {
	machine, _, uow, projectID := machineTestSetup(t)
	ctx := context.Background()

	s, err := machine.Start(ctx, projectID, "deep work")
	require.NoError(t, err)
	assert.Equal(t, StateRunning, machine.State())
	assert.True(t, s.Running)
	assert.Equal(t, "deep work", s.Note)

	var persisted *domain.Session
	err = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var getErr error
		persisted, getErr = repository.NewSQLiteSessionRepo(tx).GetRunning(ctx)
		return getErr
	})
	require.NoError(t, err)
	assert.Equal(t, s.ID, persisted.ID)
}

func TestMachine_Start_RejectedWhileSlotOccupied(t *testing.T) {
	machine, _, _, projectID := machineTestSetup(t)
	ctx := context.Background()

	_, err := machine.Start(ctx, projectID, "")
	require.NoError(t, err)

	_, err = machine.Start(ctx, projectID, "")
	assert.ErrorIs(t, err, domain.ErrSessionActive)
}

func TestMachine_Start_RequiresProject(t *testing.T) {
	machine, _, _, _ := machineTestSetup(t)

	_, err := machine.Start(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMachine_PauseResumeStop(t *testing.T) {
	machine, clock, _, projectID := machineTestSetup(t)
	ctx := context.Background()

	_, err := machine.Start(ctx, projectID, "")
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	_, err = machine.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePaused, machine.State())
	assert.Equal(t, 10*time.Second, machine.Elapsed())

	clock.Advance(4 * time.Second)
	_, err = machine.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, machine.State())

	clock.Advance(6 * time.Second)
	done, err := machine.Stop(ctx)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, machine.State())
	assert.Equal(t, int64(16000), done.DurationMS)
	assert.Equal(t, int64(4000), done.PausedMS)
	require.NotNil(t, done.Stop)
}

func TestMachine_RestoreAfterCrash(t *testing.T) {
	machine, clock, uow, projectID := machineTestSetup(t)
	ctx := context.Background()

	started, err := machine.Start(ctx, projectID, "before crash")
	require.NoError(t, err)
	clock.Advance(90 * time.Second)

	// A fresh machine over the same database stands in for a restarted
	// process: the slot and the derived elapsed value must both survive.
	revived := NewMachine(uow, clock.Now)
	require.NoError(t, revived.Restore(ctx))

	assert.Equal(t, StateRunning, revived.State())
	require.NotNil(t, revived.Current())
	assert.Equal(t, started.ID, revived.Current().ID)
	assert.Equal(t, 90*time.Second, revived.Elapsed())
}

func TestMachine_Restore_Idle(t *testing.T) {
	machine, _, _, _ := machineTestSetup(t)
	require.NoError(t, machine.Restore(context.Background()))
	assert.Equal(t, StateIdle, machine.State())
}

func TestMachine_Restore_PausedSession(t *testing.T) {
	machine, clock, uow, projectID := machineTestSetup(t)
	ctx := context.Background()

	_, err := machine.Start(ctx, projectID, "")
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	_, err = machine.Pause(ctx)
	require.NoError(t, err)
	clock.Advance(time.Hour)

	revived := NewMachine(uow, clock.Now)
	require.NoError(t, revived.Restore(ctx))

	assert.Equal(t, StatePaused, revived.State())
	assert.Equal(t, 30*time.Second, revived.Elapsed())
}

func TestMachine_Discard_LeavesNoTrace(t *testing.T) {
	machine, _, uow, projectID := machineTestSetup(t)
	ctx := context.Background()

	s, err := machine.Start(ctx, projectID, "")
	require.NoError(t, err)
	require.NoError(t, machine.Discard(ctx))

	assert.Equal(t, StateIdle, machine.State())

	err = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, getErr := repository.NewSQLiteSessionRepo(tx).GetByID(ctx, s.ID)
		return getErr
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMachine_StopWithoutSession(t *testing.T) {
	machine, _, _, _ := machineTestSetup(t)

	_, err := machine.Stop(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)

	err = machine.Discard(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}
