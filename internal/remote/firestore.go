package remote

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alexanderramin/tempus/internal/domain"
)

// FirestoreStore implements Store over a Firestore project.
//
// Collection layout: per-user subcollections users/{uid}/projects,
// users/{uid}/sessions and users/{uid}/predefinedNotes, plus a top-level
// organizations collection whose documents are matched by createdBy.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the given Firestore project. An empty
// credentials path falls back to application-default credentials.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore: %w: %v", domain.ErrRemoteUnavailable, err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying gRPC connection.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) collection(uid string, kind Kind) *firestore.CollectionRef {
	if kind == KindOrganizations {
		return s.client.Collection("organizations")
	}
	return s.client.Collection("users").Doc(uid).Collection(string(kind))
}

func (s *FirestoreStore) Create(ctx context.Context, uid string, kind Kind, data map[string]any) (string, error) {
	ref, _, err := s.collection(uid, kind).Add(ctx, data)
	if err != nil {
		return "", mapRPCError("creating document", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, uid string, kind Kind, id string, data map[string]any) error {
	_, err := s.collection(uid, kind).Doc(id).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return mapRPCError("updating document", err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, uid string, kind Kind, id string) error {
	_, err := s.collection(uid, kind).Doc(id).Delete(ctx)
	if err != nil {
		return mapRPCError("deleting document", err)
	}
	return nil
}

func (s *FirestoreStore) Watch(ctx context.Context, uid string, kind Kind) (<-chan Batch, error) {
	query := s.collection(uid, kind).Query
	if kind == KindOrganizations {
		// The client model holds at most one organization; watch only the
		// documents this user created.
		query = query.Where("createdBy", "==", uid)
	}
	iter := query.Snapshots(ctx)

	ch := make(chan Batch, 1)
	go func() {
		defer close(ch)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				ch <- Batch{Err: mapRPCError("snapshot listener", err)}
				return
			}
			changes := make([]Change, 0, len(snap.Changes))
			for _, dc := range snap.Changes {
				changes = append(changes, Change{
					Kind:     changeKind(dc.Kind),
					RemoteID: dc.Doc.Ref.ID,
					Data:     dc.Doc.Data(),
				})
			}
			if len(changes) == 0 {
				continue
			}
			select {
			case ch <- Batch{Changes: changes}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func changeKind(k firestore.DocumentChangeKind) ChangeKind {
	switch k {
	case firestore.DocumentAdded:
		return Added
	case firestore.DocumentModified:
		return Modified
	case firestore.DocumentRemoved:
		return Removed
	default:
		return Modified
	}
}

// mapRPCError folds transport-level failures into the domain error taxonomy
// so callers can degrade to local-only operation on connectivity loss.
func mapRPCError(op string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrRemoteUnavailable, err)
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrAuthRequired, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
