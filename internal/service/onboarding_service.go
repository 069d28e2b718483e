package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clinicboard/internal/model"
)

type OrganizationStore interface {
	Create(ctx context.Context, o *model.Organization) error
}

type OnboardingUserStore interface {
	GetWithOrganization(ctx context.Context, userID string) (*model.User, error)
	SetOrganization(ctx context.Context, userID, orgID string) error
}

// OnboardingForm is the wizard's collected input. Clinic name and launch
// date are required; location and invites are optional.
type OnboardingForm struct {
	ClinicName       string     `json:"clinic_name"`
	TargetLaunchDate *time.Time `json:"target_launch_date"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	InviteEmails     []string   `json:"invite_emails"`
}

// Validate runs the wizard's client-side checks before any write.
func (f *OnboardingForm) Validate() error {
	if strings.TrimSpace(f.ClinicName) == "" {
		return ErrClinicNameRequired
	}
	if f.TargetLaunchDate == nil {
		return ErrLaunchDateRequired
	}
	if len(f.State) > 2 {
		return ErrStateTooLong
	}
	return nil
}

type OnboardingService struct {
	orgs   OrganizationStore
	users  OnboardingUserStore
	team   *TeamService
	rdb    *redis.Client
	logger *zap.Logger
}

func NewOnboardingService(
	orgs OrganizationStore,
	users OnboardingUserStore,
	team *TeamService,
	rdb *redis.Client,
	logger *zap.Logger,
) *OnboardingService {
	return &OnboardingService{
		orgs:   orgs,
		users:  users,
		team:   team,
		rdb:    rdb,
		logger: logger,
	}
}

// Complete creates the organization, attaches the user to it and queues
// invitations for any non-empty invite emails. One organization per user;
// a second completion is rejected.
func (s *OnboardingService) Complete(ctx context.Context, userID string, form OnboardingForm) (*model.Organization, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetWithOrganization(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.NeedsOnboarding() {
		return nil, ErrAlreadyOnboarded
	}

	org := &model.Organization{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(form.ClinicName),
		TargetLaunchDate: form.TargetLaunchDate,
		City:             optional(form.City),
		State:            optional(form.State),
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	if err := s.users.SetOrganization(ctx, userID, org.ID); err != nil {
		return nil, err
	}
	invalidateUserCache(ctx, s.rdb, userID)

	invited := 0
	for _, email := range form.InviteEmails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		// the wizard offers two invite slots; the user is the third member
		if invited >= memberLimit-1 {
			break
		}
		if _, err := s.team.QueueInvite(ctx, org.ID, email, userID); err != nil {
			s.logger.Warn("Failed to queue onboarding invite",
				zap.Error(err),
				zap.String("organization_id", org.ID),
			)
			continue
		}
		invited++
	}

	s.logger.Info("Onboarding completed",
		zap.String("user_id", userID),
		zap.String("organization_id", org.ID),
		zap.Int("invites_queued", invited),
	)
	return org, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
