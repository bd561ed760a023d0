package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/remote"
)

// FakeStore is an in-memory remote.Store. Tests drive the change stream
// explicitly through Emit, or let writes echo back as Added events the way
// the real backend does by setting EchoWrites.
type FakeStore struct {
	// EchoWrites makes Create emit an Added change to active watchers,
	// mimicking the listener echo of the client's own writes.
	EchoWrites bool

	mu       sync.Mutex
	offline  bool
	nextID   int
	docs     map[remote.Kind]map[string]map[string]any
	watchers map[remote.Kind][]chan remote.Batch
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		docs:     map[remote.Kind]map[string]map[string]any{},
		watchers: map[remote.Kind][]chan remote.Batch{},
	}
}

// SetOffline toggles connectivity-failure mode: all writes fail with
// domain.ErrRemoteUnavailable until switched back.
func (f *FakeStore) SetOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

// Docs returns a copy of the stored documents for a kind.
func (f *FakeStore) Docs(kind remote.Kind) map[string]map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]map[string]any, len(f.docs[kind]))
	for id, data := range f.docs[kind] {
		out[id] = data
	}
	return out
}

func (f *FakeStore) Create(ctx context.Context, uid string, kind remote.Kind, data map[string]any) (string, error) {
	f.mu.Lock()
	if f.offline {
		f.mu.Unlock()
		return "", fmt.Errorf("fake store: %w", domain.ErrRemoteUnavailable)
	}
	f.nextID++
	id := fmt.Sprintf("remote-%d", f.nextID)
	if f.docs[kind] == nil {
		f.docs[kind] = map[string]map[string]any{}
	}
	f.docs[kind][id] = data
	echo := f.EchoWrites
	f.mu.Unlock()

	if echo {
		f.Emit(kind, remote.Change{Kind: remote.Added, RemoteID: id, Data: data})
	}
	return id, nil
}

func (f *FakeStore) Update(ctx context.Context, uid string, kind remote.Kind, id string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return fmt.Errorf("fake store: %w", domain.ErrRemoteUnavailable)
	}
	if f.docs[kind] == nil {
		f.docs[kind] = map[string]map[string]any{}
	}
	f.docs[kind][id] = data
	return nil
}

func (f *FakeStore) Delete(ctx context.Context, uid string, kind remote.Kind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return fmt.Errorf("fake store: %w", domain.ErrRemoteUnavailable)
	}
	delete(f.docs[kind], id)
	return nil
}

func (f *FakeStore) Watch(ctx context.Context, uid string, kind remote.Kind) (<-chan remote.Batch, error) {
	ch := make(chan remote.Batch, 16)
	f.mu.Lock()
	f.watchers[kind] = append(f.watchers[kind], ch)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		ws := f.watchers[kind]
		for i, w := range ws {
			if w == ch {
				f.watchers[kind] = append(ws[:i], ws[i+1:]...)
				break
			}
		}
		f.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// Emit delivers a batch of changes to every active watcher of the kind.
func (f *FakeStore) Emit(kind remote.Kind, changes ...remote.Change) {
	f.mu.Lock()
	ws := make([]chan remote.Batch, len(f.watchers[kind]))
	copy(ws, f.watchers[kind])
	f.mu.Unlock()
	for _, w := range ws {
		w <- remote.Batch{Changes: changes}
	}
}

// EmitErr delivers a terminal listener error to every active watcher.
func (f *FakeStore) EmitErr(kind remote.Kind, err error) {
	f.mu.Lock()
	ws := make([]chan remote.Batch, len(f.watchers[kind]))
	copy(ws, f.watchers[kind])
	f.mu.Unlock()
	for _, w := range ws {
		w <- remote.Batch{Err: err}
	}
}
