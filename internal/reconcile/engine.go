// Package reconcile keeps one remote collection and its local mirror table
// eventually consistent: remote change streams are applied into the local
// store inside a single transaction, and local mutations go remote-first to
// obtain canonical identifiers before being mirrored locally.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/tempus/internal/db"
	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/remote"
	"github.com/alexanderramin/tempus/internal/repository"
)

// Entity is the minimal shape the engine needs from a synced record: a
// stable local key plus the optional remote key assigned on first sync.
type Entity interface {
	LocalID() string
	RemoteID() string
	SetRemoteID(id string)
}

// Adapter binds one collection kind to its local table and remote document
// shape. Local operations compose into the engine's transactions via DBTX.
type Adapter[E Entity] interface {
	Kind() remote.Kind

	// Encode produces the remote document payload for an entity.
	Encode(e E) map[string]any
	// Decode builds a fresh local record (new local id) from a remote
	// document.
	Decode(remoteID string, data map[string]any) (E, error)
	// Merge overwrites the payload fields of an existing local record from
	// a modified event, keeping its local identity.
	Merge(e E, data map[string]any)

	Get(ctx context.Context, tx db.DBTX, localID string) (E, error)
	GetByRemoteID(ctx context.Context, tx db.DBTX, remoteID string) (E, error)
	Insert(ctx context.Context, tx db.DBTX, e E) error
	Update(ctx context.Context, tx db.DBTX, e E) error
	Delete(ctx context.Context, tx db.DBTX, localID string) error
	List(ctx context.Context, tx db.DBTX) ([]E, error)
}

// flushFilter is an optional adapter refinement: collections where not
// every unsynced record is ready to leave the device (the running-session
// slot) report which ones the reconnect flush may push.
type flushFilter[E Entity] interface {
	Flushable(e E) bool
}

// syncSession owns the cancellation handle of one active subscription.
// Its presence on the engine is what "sync already active" means; there is
// no module-level state.
type syncSession struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Engine reconciles a single collection. One instance per synced kind.
type Engine[E Entity] struct {
	adapter Adapter[E]
	store   remote.Store
	auth    remote.Auth
	uow     db.UnitOfWork
	logger  *slog.Logger

	mu        sync.Mutex
	session   *syncSession
	lastErr   error
	snapshot  []E
	observers []func([]E)
}

// NewEngine wires an engine. store may be nil when the remote client failed
// to initialize; the engine then operates local-only and Create fails with
// ErrRemoteUnavailable.
func NewEngine[E Entity](adapter Adapter[E], store remote.Store, auth remote.Auth, uow db.UnitOfWork, logger *slog.Logger) *Engine[E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine[E]{
		adapter: adapter,
		store:   store,
		auth:    auth,
		uow:     uow,
		logger:  logger.With("collection", string(adapter.Kind())),
	}
}

// OnSnapshot registers an observer called with the full local table after
// every published change. Observers always see a consistent snapshot, never
// a partially applied batch.
func (e *Engine[E]) OnSnapshot(fn func([]E)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Snapshot returns the last published state.
func (e *Engine[E]) Snapshot() []E {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Err returns the captured sync-error state, if any. Listener failures land
// here instead of being thrown: a long-lived subscription has no single
// caller to receive them.
func (e *Engine[E]) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Syncing reports whether a subscription is currently active.
func (e *Engine[E]) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// StartSync begins the remote change subscription for the current user.
// No-op if a subscription is already active. Without a signed-in user it
// performs a one-shot local load and returns.
func (e *Engine[E]) StartSync(ctx context.Context) error {
	e.mu.Lock()
	if e.session != nil {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	uid, ok := e.auth.CurrentUser()
	if !ok || e.store == nil {
		return e.publishLocal(ctx)
	}

	// The subscription outlives the caller's context; StopSync owns its
	// cancellation.
	wctx, cancel := context.WithCancel(context.Background())
	ch, err := e.store.Watch(wctx, uid, e.adapter.Kind())
	if err != nil {
		cancel()
		e.setErr(err)
		return fmt.Errorf("starting %s sync: %w", e.adapter.Kind(), err)
	}

	s := &syncSession{cancel: cancel, done: make(chan struct{})}
	e.mu.Lock()
	if e.session != nil {
		// Lost the race with a concurrent StartSync.
		e.mu.Unlock()
		cancel()
		return nil
	}
	e.session = s
	e.lastErr = nil
	e.mu.Unlock()

	go e.run(wctx, ch, s)

	if err := e.flushUnsynced(ctx, uid); err != nil {
		e.logger.Warn("flushing unsynced records", "err", err)
	}
	return e.publishLocal(ctx)
}

// flushUnsynced pushes local records created while offline (no remote id
// yet) to the remote store. The change-stream echo of these writes is
// absorbed by the added-skip rule, so each record converges to exactly one
// local row matched to one remote document.
func (e *Engine[E]) flushUnsynced(ctx context.Context, uid string) error {
	filter, filtered := e.adapter.(flushFilter[E])

	var pending []E
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		all, err := e.adapter.List(ctx, tx)
		if err != nil {
			return err
		}
		for _, ent := range all {
			if ent.RemoteID() != "" {
				continue
			}
			if filtered && !filter.Flushable(ent) {
				continue
			}
			pending = append(pending, ent)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ent := range pending {
		remoteID, err := e.store.Create(ctx, uid, e.adapter.Kind(), e.adapter.Encode(ent))
		if err != nil {
			return fmt.Errorf("pushing unsynced %s %s: %w", e.adapter.Kind(), ent.LocalID(), err)
		}
		ent.SetRemoteID(remoteID)
		err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return e.adapter.Update(ctx, tx, ent)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// StopSync cancels the active subscription. Idempotent when none is active.
// After it returns no further remote-originated mutation reaches the local
// store; there is no buffering of events missed while stopped.
func (e *Engine[E]) StopSync() {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.mu.Unlock()
	if s == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (e *Engine[E]) run(ctx context.Context, ch <-chan remote.Batch, s *syncSession) {
	defer close(s.done)
	defer func() {
		// A terminal listener error or channel close ends the session; the
		// engine never retries on its own, reconnection is a fresh StartSync.
		e.mu.Lock()
		if e.session == s {
			e.session = nil
		}
		e.mu.Unlock()
	}()

	for batch := range ch {
		// StopSync cancelling mid-delivery is a clean shutdown, not a sync
		// failure; nothing after the cancellation is error state.
		if ctx.Err() != nil {
			return
		}
		if batch.Err != nil {
			e.setErr(fmt.Errorf("%w: %v", domain.ErrSyncListener, batch.Err))
			e.logger.Error("change stream failed", "err", batch.Err)
			return
		}
		if err := e.applyBatch(ctx, batch.Changes); err != nil {
			if ctx.Err() != nil {
				return
			}
			e.setErr(err)
			e.logger.Error("applying change batch", "err", err)
		}
	}
}

// applyBatch applies one batch of change events atomically and publishes the
// reloaded table. An added event whose remote id is already present locally
// is skipped: this client originated the write and inserted it optimistically.
func (e *Engine[E]) applyBatch(ctx context.Context, changes []remote.Change) error {
	var snapshot []E
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for _, c := range changes {
			existing, err := e.adapter.GetByRemoteID(ctx, tx, c.RemoteID)
			missing := errors.Is(err, repository.ErrNotFound)
			if err != nil && !missing {
				return fmt.Errorf("looking up %s %s: %w", e.adapter.Kind(), c.RemoteID, err)
			}

			switch c.Kind {
			case remote.Added:
				if !missing {
					continue
				}
				ent, err := e.adapter.Decode(c.RemoteID, c.Data)
				if err != nil {
					return fmt.Errorf("decoding %s %s: %w", e.adapter.Kind(), c.RemoteID, err)
				}
				if err := e.adapter.Insert(ctx, tx, ent); err != nil {
					return err
				}
			case remote.Modified:
				// A purely local record has no match yet; it will be matched
				// once its own create completes.
				if missing {
					continue
				}
				e.adapter.Merge(existing, c.Data)
				if err := e.adapter.Update(ctx, tx, existing); err != nil {
					return err
				}
			case remote.Removed:
				if missing {
					continue
				}
				if err := e.adapter.Delete(ctx, tx, existing.LocalID()); err != nil {
					return err
				}
			}
		}

		var listErr error
		snapshot, listErr = e.adapter.List(ctx, tx)
		return listErr
	})
	if err != nil {
		return err
	}
	e.publish(snapshot)
	return nil
}

// Create writes to the remote store first to obtain the canonical
// identifier, then mirrors the entity locally and publishes the result.
// A transient connectivity failure degrades to a local-only insert; the
// record stays unsynced until the next StartSync flushes it.
func (e *Engine[E]) Create(ctx context.Context, ent E) error {
	uid, ok := e.auth.CurrentUser()
	if !ok {
		return fmt.Errorf("creating %s: %w", e.adapter.Kind(), domain.ErrAuthRequired)
	}
	if e.store == nil {
		return fmt.Errorf("creating %s: %w", e.adapter.Kind(), domain.ErrRemoteUnavailable)
	}

	remoteID, err := e.store.Create(ctx, uid, e.adapter.Kind(), e.adapter.Encode(ent))
	switch {
	case err == nil:
		ent.SetRemoteID(remoteID)
	case errors.Is(err, domain.ErrRemoteUnavailable):
		e.logger.Info("remote unreachable, keeping record local-only", "local_id", ent.LocalID())
	default:
		return fmt.Errorf("creating %s remotely: %w", e.adapter.Kind(), err)
	}

	var snapshot []E
	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := e.adapter.Insert(ctx, tx, ent); err != nil {
			return err
		}
		var listErr error
		snapshot, listErr = e.adapter.List(ctx, tx)
		return listErr
	})
	if err != nil {
		return err
	}
	e.publish(snapshot)
	return nil
}

// Update applies the mutation remotely when the record has been synced,
// then locally. A never-synced record is updated locally only.
func (e *Engine[E]) Update(ctx context.Context, ent E) error {
	if rid := ent.RemoteID(); rid != "" {
		uid, ok := e.auth.CurrentUser()
		if !ok {
			return fmt.Errorf("updating %s: %w", e.adapter.Kind(), domain.ErrAuthRequired)
		}
		if e.store == nil {
			return fmt.Errorf("updating %s: %w", e.adapter.Kind(), domain.ErrRemoteUnavailable)
		}
		if err := e.store.Update(ctx, uid, e.adapter.Kind(), rid, e.adapter.Encode(ent)); err != nil {
			return fmt.Errorf("updating %s remotely: %w", e.adapter.Kind(), err)
		}
	}

	var snapshot []E
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := e.adapter.Update(ctx, tx, ent); err != nil {
			return err
		}
		var listErr error
		snapshot, listErr = e.adapter.List(ctx, tx)
		return listErr
	})
	if err != nil {
		return err
	}
	e.publish(snapshot)
	return nil
}

// Delete removes the record remotely when it has been synced, then locally.
func (e *Engine[E]) Delete(ctx context.Context, localID string) error {
	var ent E
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var getErr error
		ent, getErr = e.adapter.Get(ctx, tx, localID)
		return getErr
	})
	if err != nil {
		return err
	}

	if rid := ent.RemoteID(); rid != "" {
		uid, ok := e.auth.CurrentUser()
		if !ok {
			return fmt.Errorf("deleting %s: %w", e.adapter.Kind(), domain.ErrAuthRequired)
		}
		if e.store == nil {
			return fmt.Errorf("deleting %s: %w", e.adapter.Kind(), domain.ErrRemoteUnavailable)
		}
		if err := e.store.Delete(ctx, uid, e.adapter.Kind(), rid); err != nil {
			return fmt.Errorf("deleting %s remotely: %w", e.adapter.Kind(), err)
		}
	}

	var snapshot []E
	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := e.adapter.Delete(ctx, tx, localID); err != nil {
			return err
		}
		var listErr error
		snapshot, listErr = e.adapter.List(ctx, tx)
		return listErr
	})
	if err != nil {
		return err
	}
	e.publish(snapshot)
	return nil
}

// Export pushes an already-persisted local record to the remote store and
// writes the assigned identifier back onto the local row. Used by the
// session path, where the record was created locally by the timer.
func (e *Engine[E]) Export(ctx context.Context, ent E) error {
	uid, ok := e.auth.CurrentUser()
	if !ok {
		return fmt.Errorf("exporting %s: %w", e.adapter.Kind(), domain.ErrAuthRequired)
	}
	if e.store == nil {
		return fmt.Errorf("exporting %s: %w", e.adapter.Kind(), domain.ErrRemoteUnavailable)
	}

	remoteID, err := e.store.Create(ctx, uid, e.adapter.Kind(), e.adapter.Encode(ent))
	if err != nil {
		return fmt.Errorf("exporting %s remotely: %w", e.adapter.Kind(), err)
	}
	ent.SetRemoteID(remoteID)

	var snapshot []E
	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := e.adapter.Update(ctx, tx, ent); err != nil {
			return err
		}
		var listErr error
		snapshot, listErr = e.adapter.List(ctx, tx)
		return listErr
	})
	if err != nil {
		return err
	}
	e.publish(snapshot)
	return nil
}

// publishLocal loads the local table and publishes it without touching the
// remote store.
func (e *Engine[E]) publishLocal(ctx context.Context) error {
	var snapshot []E
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var listErr error
		snapshot, listErr = e.adapter.List(ctx, tx)
		return listErr
	})
	if err != nil {
		return fmt.Errorf("loading local %s: %w", e.adapter.Kind(), err)
	}
	e.publish(snapshot)
	return nil
}

func (e *Engine[E]) publish(snapshot []E) {
	e.mu.Lock()
	e.snapshot = snapshot
	observers := make([]func([]E), len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()
	for _, fn := range observers {
		fn(snapshot)
	}
}

func (e *Engine[E]) setErr(err error) {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
}
