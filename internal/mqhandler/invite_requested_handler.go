package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"clinicboard/internal/repository"
	"clinicboard/pkg/mq"
)

// InviteRequestedHandler is the stub delivery path for team invitations.
// Instead of sending mail it logs the invite and marks the row as logged.
type InviteRequestedHandler struct {
	invitations *repository.InvitationRepository
	logger      *zap.Logger
}

func NewInviteRequestedHandler(invitations *repository.InvitationRepository, logger *zap.Logger) *InviteRequestedHandler {
	return &InviteRequestedHandler{invitations: invitations, logger: logger}
}

func (h *InviteRequestedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mq.InviteRequestedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal InviteRequestedPayload", zap.Error(err))
		return err
	}

	h.logger.Info("Invitation would be delivered here",
		zap.String("invitation_id", p.InvitationID),
		zap.String("organization_id", p.OrganizationID),
		zap.String("email", p.Email),
		zap.String("invited_by", p.InvitedBy),
	)

	if err := h.invitations.MarkLogged(ctx, p.InvitationID); err != nil {
		h.logger.Error("Failed to mark invitation logged",
			zap.Error(err),
			zap.String("invitation_id", p.InvitationID),
		)
		return err
	}

	return nil
}
