package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clinicboard/internal/model"
)

type SettingsOrgStore interface {
	Get(ctx context.Context, orgID string) (*model.Organization, error)
	Update(ctx context.Context, o *model.Organization) error
}

type SettingsService struct {
	orgs   SettingsOrgStore
	rdb    *redis.Client
	logger *zap.Logger
}

func NewSettingsService(orgs SettingsOrgStore, rdb *redis.Client, logger *zap.Logger) *SettingsService {
	return &SettingsService{orgs: orgs, rdb: rdb, logger: logger}
}

// SettingsForm mirrors the organization settings page.
type SettingsForm struct {
	Name             string     `json:"name"`
	TargetLaunchDate *time.Time `json:"target_launch_date"`
	City             string     `json:"city"`
	State            string     `json:"state"`
}

// Update validates and saves the organization settings, then drops the
// caller's cached organization join.
func (s *SettingsService) Update(ctx context.Context, orgID, userID string, form SettingsForm) (*model.Organization, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, ErrNameRequired
	}
	if len(form.State) > 2 {
		return nil, ErrStateTooLong
	}

	org, err := s.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	org.Name = strings.TrimSpace(form.Name)
	org.TargetLaunchDate = form.TargetLaunchDate
	org.City = optional(form.City)
	org.State = optional(form.State)

	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	invalidateUserCache(ctx, s.rdb, userID)

	s.logger.Info("Organization settings updated", zap.String("organization_id", orgID))
	return org, nil
}
