// Package remote adapts the cloud document database. The remote store is the
// source of truth for identifier assignment; it is reachable only when the
// client is online and a non-guest user is signed in.
package remote

import "context"

// Kind names a synced collection.
type Kind string

const (
	KindProjects      Kind = "projects"
	KindSessions      Kind = "sessions"
	KindNotes         Kind = "predefinedNotes"
	KindOrganizations Kind = "organizations"
)

// ChangeKind classifies a single change-stream event.
type ChangeKind int

const (
	Added ChangeKind = iota
	Modified
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is one remote-delivered document change.
type Change struct {
	Kind     ChangeKind
	RemoteID string
	Data     map[string]any
}

// Batch is the unit of change-stream delivery. Err is set instead of
// Changes when the listener itself failed; the batch channel is closed
// afterwards.
type Batch struct {
	Changes []Change
	Err     error
}

// Store is the minimal remote-document contract the reconciliation engine
// needs. Create returns the canonical identifier assigned by the remote
// store.
type Store interface {
	Create(ctx context.Context, uid string, kind Kind, data map[string]any) (string, error)
	Update(ctx context.Context, uid string, kind Kind, id string, data map[string]any) error
	Delete(ctx context.Context, uid string, kind Kind, id string) error
	// Watch subscribes to the collection's change stream. The returned
	// channel is closed when ctx is cancelled or after a terminal error.
	Watch(ctx context.Context, uid string, kind Kind) (<-chan Batch, error)
}

// Auth reports the currently signed-in user. ok is false for guests and
// signed-out states.
type Auth interface {
	CurrentUser() (uid string, ok bool)
}

// StaticAuth is an Auth with a fixed uid, used by the CLI (which receives
// the uid from configuration) and by tests. An empty uid means signed out.
type StaticAuth string

func (a StaticAuth) CurrentUser() (string, bool) {
	return string(a), a != ""
}
