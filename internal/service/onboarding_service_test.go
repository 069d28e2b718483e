package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clinicboard/internal/model"
)

type fakeOrgStore struct {
	created []*model.Organization
}

func (f *fakeOrgStore) Create(ctx context.Context, o *model.Organization) error {
	f.created = append(f.created, o)
	return nil
}

type fakeOnboardingUserStore struct {
	user       *model.User
	orgSet     string
	orgSetUser string
}

func (f *fakeOnboardingUserStore) GetWithOrganization(ctx context.Context, userID string) (*model.User, error) {
	return f.user, nil
}

func (f *fakeOnboardingUserStore) SetOrganization(ctx context.Context, userID, orgID string) error {
	f.orgSetUser = userID
	f.orgSet = orgID
	return nil
}

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func newOnboardingFixture(user *model.User) (*OnboardingService, *fakeOrgStore, *fakeOnboardingUserStore, *fakeInvitationStore) {
	orgs := &fakeOrgStore{}
	users := &fakeOnboardingUserStore{user: user}
	invitations := &fakeInvitationStore{}
	team := NewTeamService(&fakeMemberStore{}, invitations, &fakePublisher{}, zap.NewNop())
	svc := NewOnboardingService(orgs, users, team, unreachableRedis(), zap.NewNop())
	return svc, orgs, users, invitations
}

func launchDate() *time.Time {
	d := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestOnboardingForm_Validate(t *testing.T) {
	cases := []struct {
		name string
		form OnboardingForm
		want error
	}{
		{"blank clinic name", OnboardingForm{ClinicName: "  ", TargetLaunchDate: launchDate()}, ErrClinicNameRequired},
		{"missing launch date", OnboardingForm{ClinicName: "Maple Clinic"}, ErrLaunchDateRequired},
		{"state too long", OnboardingForm{ClinicName: "Maple Clinic", TargetLaunchDate: launchDate(), State: "Texas"}, ErrStateTooLong},
		{"valid", OnboardingForm{ClinicName: "Maple Clinic", TargetLaunchDate: launchDate(), State: "TX"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.form.Validate(); got != tc.want {
				t.Errorf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

// Completing onboarding creates the organization and attaches the user.
func TestOnboardingService_Complete(t *testing.T) {
	svc, orgs, users, _ := newOnboardingFixture(&model.User{ID: "user-1"})

	org, err := svc.Complete(context.Background(), "user-1", OnboardingForm{
		ClinicName:       "  Maple Clinic  ",
		TargetLaunchDate: launchDate(),
		City:             "Austin",
		State:            "TX",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if org.Name != "Maple Clinic" {
		t.Errorf("Complete() org name = %q, want trimmed %q", org.Name, "Maple Clinic")
	}
	if len(orgs.created) != 1 {
		t.Fatalf("Complete() created %d organizations, want 1", len(orgs.created))
	}
	if users.orgSet != org.ID || users.orgSetUser != "user-1" {
		t.Errorf("Complete() attached user %q to org %q, want user-1 to %q", users.orgSetUser, users.orgSet, org.ID)
	}
}

// A user already attached to an organization cannot onboard again.
func TestOnboardingService_CompleteRejectsSecondRun(t *testing.T) {
	orgID := "org-1"
	svc, orgs, _, _ := newOnboardingFixture(&model.User{ID: "user-1", OrganizationID: &orgID})

	_, err := svc.Complete(context.Background(), "user-1", OnboardingForm{
		ClinicName:       "Maple Clinic",
		TargetLaunchDate: launchDate(),
	})
	if err != ErrAlreadyOnboarded {
		t.Errorf("Complete(second run) error = %v, want ErrAlreadyOnboarded", err)
	}
	if len(orgs.created) != 0 {
		t.Errorf("Complete(second run) created %d organizations, want 0", len(orgs.created))
	}
}

// The wizard offers two invite slots; extra entries and blanks are dropped.
func TestOnboardingService_CompleteQueuesAtMostTwoInvites(t *testing.T) {
	svc, _, _, invitations := newOnboardingFixture(&model.User{ID: "user-1"})

	_, err := svc.Complete(context.Background(), "user-1", OnboardingForm{
		ClinicName:       "Maple Clinic",
		TargetLaunchDate: launchDate(),
		InviteEmails:     []string{"a@clinic.test", "", "b@clinic.test", "c@clinic.test"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(invitations.inserted) != 2 {
		t.Errorf("Complete() queued %d invites, want 2", len(invitations.inserted))
	}
}
