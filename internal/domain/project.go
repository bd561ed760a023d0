package domain

import "time"

// Project groups sessions. Color and the archived flag follow the remote
// document shape; OrganizationID is the optional tenant reference.
type Project struct {
	ID             string
	FirestoreID    string
	Name           string
	Color          string
	OrganizationID string
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Project) LocalID() string       { return p.ID }
func (p *Project) RemoteID() string      { return p.FirestoreID }
func (p *Project) SetRemoteID(id string) { p.FirestoreID = id }
