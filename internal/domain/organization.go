package domain

import "time"

// CorporateInfo is the value object embedded in an Organization.
type CorporateInfo struct {
	CompanyName  string
	AddressLine1 string
	AddressLine2 string
	ZipCode      string
	City         string
	Country      string
	TaxID        string
	Email        string
	Phone        string
	LogoRef      string
}

// Organization is the tenant document. The client model holds at most one
// organization locally at a time.
type Organization struct {
	ID          string
	FirestoreID string
	Corporate   CorporateInfo
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o *Organization) LocalID() string       { return o.ID }
func (o *Organization) RemoteID() string      { return o.FirestoreID }
func (o *Organization) SetRemoteID(id string) { o.FirestoreID = id }
