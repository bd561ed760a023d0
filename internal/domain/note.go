package domain

import "time"

// PredefinedNote is a reusable session note. A note with an empty
// FirestoreID has not been synced yet; once the remote store assigns an
// identifier the local record and remote document are matched 1:1 on it.
type PredefinedNote struct {
	ID          string
	FirestoreID string
	Note        string
	CreatedAt   time.Time
}

func (n *PredefinedNote) LocalID() string       { return n.ID }
func (n *PredefinedNote) RemoteID() string      { return n.FirestoreID }
func (n *PredefinedNote) SetRemoteID(id string) { n.FirestoreID = id }
