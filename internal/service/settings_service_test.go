package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"clinicboard/internal/model"
)

type fakeSettingsOrgStore struct {
	org     *model.Organization
	updated []*model.Organization
}

func (f *fakeSettingsOrgStore) Get(ctx context.Context, orgID string) (*model.Organization, error) {
	cp := *f.org
	return &cp, nil
}

func (f *fakeSettingsOrgStore) Update(ctx context.Context, o *model.Organization) error {
	f.updated = append(f.updated, o)
	return nil
}

func TestSettingsService_UpdateValidation(t *testing.T) {
	store := &fakeSettingsOrgStore{org: &model.Organization{ID: "org-1", Name: "Maple Clinic"}}
	svc := NewSettingsService(store, unreachableRedis(), zap.NewNop())

	if _, err := svc.Update(context.Background(), "org-1", "user-1", SettingsForm{Name: "  "}); err != ErrNameRequired {
		t.Errorf("Update(blank name) error = %v, want ErrNameRequired", err)
	}
	if _, err := svc.Update(context.Background(), "org-1", "user-1", SettingsForm{Name: "Maple", State: "Texas"}); err != ErrStateTooLong {
		t.Errorf("Update(long state) error = %v, want ErrStateTooLong", err)
	}
	if len(store.updated) != 0 {
		t.Errorf("Update(invalid) wrote %d times, want 0", len(store.updated))
	}
}

func TestSettingsService_UpdateSaves(t *testing.T) {
	store := &fakeSettingsOrgStore{org: &model.Organization{ID: "org-1", Name: "Maple Clinic"}}
	svc := NewSettingsService(store, unreachableRedis(), zap.NewNop())

	org, err := svc.Update(context.Background(), "org-1", "user-1", SettingsForm{
		Name:  "  Maple Family Clinic ",
		City:  "Austin",
		State: "TX",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if org.Name != "Maple Family Clinic" {
		t.Errorf("Update() name = %q, want trimmed", org.Name)
	}
	if len(store.updated) != 1 {
		t.Errorf("Update() wrote %d times, want 1", len(store.updated))
	}
}
