package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicboard/internal/model"
)

type OrganizationRepository struct {
	db *pgxpool.Pool
}

func NewOrganizationRepository(db *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, o *model.Organization) error {
	sql := `
        INSERT INTO organizations (id, name, target_launch_date, city, state, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	return r.db.QueryRow(ctx, sql,
		o.ID, o.Name, o.TargetLaunchDate, o.City, o.State,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (r *OrganizationRepository) Get(ctx context.Context, orgID string) (*model.Organization, error) {
	sql := `
        SELECT id, name, target_launch_date, city, state, created_at, updated_at
        FROM organizations
        WHERE id = $1
    `
	var o model.Organization
	err := r.db.QueryRow(ctx, sql, orgID).Scan(
		&o.ID, &o.Name, &o.TargetLaunchDate, &o.City, &o.State, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Update applies the settings form: name, launch date, location.
func (r *OrganizationRepository) Update(ctx context.Context, o *model.Organization) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE organizations
        SET name = $2, target_launch_date = $3, city = $4, state = $5, updated_at = NOW()
        WHERE id = $1
    `, o.ID, o.Name, o.TargetLaunchDate, o.City, o.State)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
