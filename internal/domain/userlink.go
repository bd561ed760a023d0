package domain

import "time"

// UserLink maps an authenticated user to its organization membership.
type UserLink struct {
	ID             string
	UserID         string
	OrganizationID string
	Role           string
	UpdatedAt      time.Time
}
