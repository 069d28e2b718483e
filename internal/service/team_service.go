package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinicboard/internal/model"
	"clinicboard/pkg/circuitbreaker"
	"clinicboard/pkg/metrics"
	"clinicboard/pkg/mq"
)

// Invitations are client-capped: members plus pending invites never exceed
// this. The store itself carries no such constraint.
const memberLimit = 3

type MemberStore interface {
	ListByOrganization(ctx context.Context, orgID string) ([]model.User, error)
	CountByOrganization(ctx context.Context, orgID string) (int, error)
}

type InvitationStore interface {
	Insert(ctx context.Context, inv *model.Invitation) error
	CountPending(ctx context.Context, orgID string) (int, error)
}

// EventPublisher publishes domain events to the broker.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type TeamService struct {
	members     MemberStore
	invitations InvitationStore
	publisher   EventPublisher
	breaker     *circuitbreaker.CircuitBreaker
	logger      *zap.Logger
}

func NewTeamService(
	members MemberStore,
	invitations InvitationStore,
	publisher EventPublisher,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		members:     members,
		invitations: invitations,
		publisher:   publisher,
		breaker:     circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:      logger,
	}
}

// Members lists the organization's users.
func (s *TeamService) Members(ctx context.Context, orgID string) ([]model.User, error) {
	return s.members.ListByOrganization(ctx, orgID)
}

// Invite records an invitation and queues the (stubbed) delivery. Members
// plus pending invitations are capped at the member limit.
func (s *TeamService) Invite(ctx context.Context, orgID, email, invitedBy string) (*model.Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInviteEmailRequired
	}

	count, err := s.members.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	pending, err := s.invitations.CountPending(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if count+pending >= memberLimit {
		return nil, ErrMemberLimit
	}

	return s.QueueInvite(ctx, orgID, email, invitedBy)
}

// QueueInvite inserts the invitation row and publishes invite.requested.
// A broker outage never fails the caller: the breaker degrades to leaving
// the invitation pending for the worker's next pass.
func (s *TeamService) QueueInvite(ctx context.Context, orgID, email, invitedBy string) (*model.Invitation, error) {
	inv := &model.Invitation{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Email:          email,
		InvitedBy:      invitedBy,
		Status:         model.InvitationPending,
	}
	if err := s.invitations.Insert(ctx, inv); err != nil {
		return nil, err
	}

	payload := mq.InviteRequestedPayload{
		InvitationID:   inv.ID,
		OrganizationID: orgID,
		Email:          email,
		InvitedBy:      invitedBy,
		RequestedAt:    time.Now(),
	}

	err := s.breaker.Execute(func() error {
		return s.publisher.Publish(mq.RoutingKeyInviteRequested, payload)
	})
	if err != nil {
		metrics.IncrementInvitePublish("failed")
		s.logger.Warn("Invite event not published, left pending",
			zap.Error(err),
			zap.String("invitation_id", inv.ID),
		)
		return inv, nil
	}

	metrics.IncrementInvitePublish("published")
	s.logger.Info("Invite event published",
		zap.String("invitation_id", inv.ID),
		zap.String("organization_id", orgID),
	)
	return inv, nil
}
