package model

import "time"

// Invitation statuses. Delivery is stubbed: the worker moves pending
// invitations to logged without sending anything.
const (
	InvitationPending = "pending"
	InvitationLogged  = "logged"
)

type Invitation struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	InvitedBy      string    `json:"invited_by"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
