package mq

import "time"

// Routing keys published on the events exchange.
const (
	RoutingKeyInviteRequested = "invite.requested"
)

// InviteRequestedPayload is emitted when a member invites a teammate, either
// during onboarding or from the team page. Delivery is a stub: the worker
// records the invitation as logged, no mail is sent.
type InviteRequestedPayload struct {
	InvitationID   string    `json:"invitation_id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	InvitedBy      string    `json:"invited_by"`
	RequestedAt    time.Time `json:"requested_at"`
}
