package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/remote"
	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/testutil"
)

const waitFor = 2 * time.Second

func engineTestSetup(t *testing.T) (*Engine[*domain.PredefinedNote], *testutil.FakeStore, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := testutil.NewFakeStore()
	engine := NewEngine[*domain.PredefinedNote](
		NoteAdapter{}, store, remote.StaticAuth("user-1"), testutil.NewTestUoW(database), nil)
	t.Cleanup(engine.StopSync)
	return engine, store, database
}

// listNotes reads the local table directly. Errors surface as an empty
// slice, which the assertions on contents catch.
func listNotes(t *testing.T, database *sql.DB) []*domain.PredefinedNote {
	t.Helper()
	notes, _ := repository.NewSQLiteNoteRepo(database).List(context.Background())
	return notes
}

func TestEngine_Create_RemoteFirst(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	n := testutil.NewTestNote("Daily standup")
	require.NoError(t, engine.Create(ctx, n))

	// The remote store assigned the canonical identifier before the local
	// insert happened.
	assert.NotEmpty(t, n.FirestoreID)
	assert.Len(t, store.Docs(remote.KindNotes), 1)

	notes := listNotes(t, database)
	require.Len(t, notes, 1)
	assert.Equal(t, n.FirestoreID, notes[0].FirestoreID)
}

func TestEngine_Create_SignedOut(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := testutil.NewFakeStore()
	engine := NewEngine[*domain.PredefinedNote](
		NoteAdapter{}, store, remote.StaticAuth(""), testutil.NewTestUoW(database), nil)

	err := engine.Create(context.Background(), testutil.NewTestNote("nope"))
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Empty(t, listNotes(t, database))
}

func TestEngine_Create_NoStoreConfigured(t *testing.T) {
	database := testutil.NewTestDB(t)
	engine := NewEngine[*domain.PredefinedNote](
		NoteAdapter{}, nil, remote.StaticAuth("user-1"), testutil.NewTestUoW(database), nil)

	err := engine.Create(context.Background(), testutil.NewTestNote("nope"))
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestEngine_Create_OfflineDegradesToLocal(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	store.SetOffline(true)

	n := testutil.NewTestNote("Lunch")
	require.NoError(t, engine.Create(context.Background(), n))

	assert.Empty(t, n.FirestoreID)
	assert.Empty(t, store.Docs(remote.KindNotes))

	notes := listNotes(t, database)
	require.Len(t, notes, 1)
	assert.Empty(t, notes[0].FirestoreID)
}

func TestEngine_StartSync_AppliesAddedBatch(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	require.NoError(t, engine.StartSync(context.Background()))
	assert.True(t, engine.Syncing())

	store.Emit(remote.KindNotes, remote.Change{
		Kind:     remote.Added,
		RemoteID: "fs-1",
		Data:     map[string]any{"note": "From another device", "createdAt": testutil.TestNow},
	})

	require.Eventually(t, func() bool {
		return len(listNotes(t, database)) == 1
	}, waitFor, 10*time.Millisecond)

	notes := listNotes(t, database)
	assert.Equal(t, "From another device", notes[0].Note)
	assert.Equal(t, "fs-1", notes[0].FirestoreID)
	assert.True(t, testutil.TestNow.Equal(notes[0].CreatedAt))
}

func TestEngine_AddedSkip_OwnWriteEcho(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	n := testutil.NewTestNote("Lunch")
	require.NoError(t, engine.Create(ctx, n))
	require.NoError(t, engine.StartSync(ctx))

	// The listener echoes the client's own write; the record must not be
	// duplicated. A second, genuinely remote note acts as the sync marker.
	store.Emit(remote.KindNotes,
		remote.Change{Kind: remote.Added, RemoteID: n.FirestoreID, Data: map[string]any{"note": "Lunch"}},
		remote.Change{Kind: remote.Added, RemoteID: "fs-other", Data: map[string]any{"note": "Other"}},
	)

	require.Eventually(t, func() bool {
		return len(listNotes(t, database)) == 2
	}, waitFor, 10*time.Millisecond)

	notes := listNotes(t, database)
	ids := map[string]int{}
	for _, note := range notes {
		ids[note.FirestoreID]++
	}
	assert.Equal(t, 1, ids[n.FirestoreID])
	assert.Equal(t, 1, ids["fs-other"])
}

func TestEngine_ModifiedAndRemoved(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	n := testutil.NewTestNote("Draft")
	require.NoError(t, engine.Create(ctx, n))
	require.NoError(t, engine.StartSync(ctx))

	store.Emit(remote.KindNotes, remote.Change{
		Kind:     remote.Modified,
		RemoteID: n.FirestoreID,
		Data:     map[string]any{"note": "Final"},
	})
	require.Eventually(t, func() bool {
		notes := listNotes(t, database)
		return len(notes) == 1 && notes[0].Note == "Final"
	}, waitFor, 10*time.Millisecond)

	store.Emit(remote.KindNotes, remote.Change{
		Kind:     remote.Removed,
		RemoteID: n.FirestoreID,
	})
	require.Eventually(t, func() bool {
		return len(listNotes(t, database)) == 0
	}, waitFor, 10*time.Millisecond)
}

func TestEngine_ModifiedForUnknownRemoteID_Ignored(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	require.NoError(t, engine.StartSync(ctx))

	store.Emit(remote.KindNotes,
		remote.Change{Kind: remote.Modified, RemoteID: "fs-ghost", Data: map[string]any{"note": "?"}},
		remote.Change{Kind: remote.Added, RemoteID: "fs-real", Data: map[string]any{"note": "Real"}},
	)

	require.Eventually(t, func() bool {
		return len(listNotes(t, database)) == 1
	}, waitFor, 10*time.Millisecond)
	assert.NoError(t, engine.Err())
}

func TestEngine_ListenerError_EndsSession(t *testing.T) {
	engine, store, _ := engineTestSetup(t)
	ctx := context.Background()

	require.NoError(t, engine.StartSync(ctx))
	store.EmitErr(remote.KindNotes, errors.New("stream broken"))

	require.Eventually(t, func() bool {
		return engine.Err() != nil && !engine.Syncing()
	}, waitFor, 10*time.Millisecond)
	assert.ErrorIs(t, engine.Err(), domain.ErrSyncListener)

	// Reconnection is an explicit fresh StartSync, which clears the error.
	require.NoError(t, engine.StartSync(ctx))
	assert.True(t, engine.Syncing())
	assert.NoError(t, engine.Err())
}

func TestEngine_StopSync_HaltsApplication(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	require.NoError(t, engine.StartSync(ctx))
	engine.StopSync()
	assert.False(t, engine.Syncing())

	store.Emit(remote.KindNotes, remote.Change{
		Kind: remote.Added, RemoteID: "fs-late", Data: map[string]any{"note": "too late"},
	})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, listNotes(t, database))
}

func TestEngine_StopSync_IsNotAnError(t *testing.T) {
	engine, store, _ := engineTestSetup(t)
	ctx := context.Background()

	require.NoError(t, engine.StartSync(ctx))

	// Cancel while batches are still being delivered. However far the run
	// loop got, a deliberate stop must never surface context.Canceled as a
	// sync failure.
	for i := 0; i < 8; i++ {
		store.Emit(remote.KindNotes, remote.Change{
			Kind:     remote.Added,
			RemoteID: fmt.Sprintf("fs-burst-%d", i),
			Data:     map[string]any{"note": "burst"},
		})
	}
	engine.StopSync()

	assert.False(t, engine.Syncing())
	assert.NoError(t, engine.Err())
}

func TestEngine_StartSync_Idempotent(t *testing.T) {
	engine, _, _ := engineTestSetup(t)
	ctx := context.Background()

	require.NoError(t, engine.StartSync(ctx))
	require.NoError(t, engine.StartSync(ctx))
	assert.True(t, engine.Syncing())
}

func TestEngine_StartSync_FlushesUnsyncedRecords(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	store.SetOffline(true)
	require.NoError(t, engine.Create(ctx, testutil.NewTestNote("Lunch")))
	require.NoError(t, engine.Create(ctx, testutil.NewTestNote("Lunch")))
	require.Len(t, listNotes(t, database), 2)

	// Back online: the echo of each flushed write is absorbed by the
	// added-skip rule, so the two identical notes converge to exactly two
	// remote documents and two local rows.
	store.SetOffline(false)
	store.EchoWrites = true
	require.NoError(t, engine.StartSync(ctx))

	require.Eventually(t, func() bool {
		notes := listNotes(t, database)
		if len(notes) != 2 {
			return false
		}
		for _, n := range notes {
			if n.FirestoreID == "" {
				return false
			}
		}
		return true
	}, waitFor, 10*time.Millisecond)

	assert.Len(t, store.Docs(remote.KindNotes), 2)
	notes := listNotes(t, database)
	assert.NotEqual(t, notes[0].FirestoreID, notes[1].FirestoreID)
}

func TestEngine_UpdateAndDelete_LocalOnlyWhenNeverSynced(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	store.SetOffline(true)
	n := testutil.NewTestNote("Scratch")
	require.NoError(t, engine.Create(ctx, n))

	// Still offline: a never-synced record updates and deletes locally
	// without touching the remote store.
	n.Note = "Scratch v2"
	require.NoError(t, engine.Update(ctx, n))
	notes := listNotes(t, database)
	require.Len(t, notes, 1)
	assert.Equal(t, "Scratch v2", notes[0].Note)

	require.NoError(t, engine.Delete(ctx, n.ID))
	assert.Empty(t, listNotes(t, database))
}

func TestEngine_Export_AssignsRemoteID(t *testing.T) {
	engine, store, database := engineTestSetup(t)
	ctx := context.Background()

	// Simulate a record persisted outside the engine, like a stopped timer
	// session: insert directly, then export.
	n := testutil.NewTestNote("Typed offline")
	uow := testutil.NewTestUoW(database)
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteNoteRepo(tx).Create(ctx, n)
	}))

	require.NoError(t, engine.Export(ctx, n))

	assert.NotEmpty(t, n.FirestoreID)
	assert.Len(t, store.Docs(remote.KindNotes), 1)
	notes := listNotes(t, database)
	require.Len(t, notes, 1)
	assert.Equal(t, n.FirestoreID, notes[0].FirestoreID)
}

func TestEngine_OnSnapshot_PublishesAfterCommit(t *testing.T) {
	engine, _, _ := engineTestSetup(t)
	ctx := context.Background()

	var seen [][]*domain.PredefinedNote
	engine.OnSnapshot(func(notes []*domain.PredefinedNote) {
		seen = append(seen, notes)
	})

	require.NoError(t, engine.Create(ctx, testutil.NewTestNote("one")))
	require.Len(t, seen, 1)
	assert.Len(t, seen[0], 1)
	assert.Len(t, engine.Snapshot(), 1)
}
