package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicboard/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. The organization reference stays null until
// onboarding completes.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	sql := `
        INSERT INTO users (id, organization_id, email, full_name, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	return r.db.QueryRow(ctx, sql,
		u.ID, u.OrganizationID, u.Email, u.FullName, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

// FindByEmail returns the user with the given email, or nil when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `
        SELECT id, organization_id, email, full_name, password_hash, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&u.ID, &u.OrganizationID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetWithOrganization returns the user joined with its organization, the
// single lookup the rest of the app derives "needs onboarding" from.
func (r *UserRepository) GetWithOrganization(ctx context.Context, userID string) (*model.User, error) {
	sql := `
        SELECT u.id, u.organization_id, u.email, u.full_name, u.password_hash,
               u.created_at, u.updated_at,
               o.id, o.name, o.target_launch_date, o.city, o.state, o.created_at, o.updated_at
        FROM users u
        LEFT JOIN organizations o ON o.id = u.organization_id
        WHERE u.id = $1
    `
	var u model.User
	var orgID, orgName *string
	var orgCreated, orgUpdated *time.Time
	var org model.Organization
	err := r.db.QueryRow(ctx, sql, userID).Scan(
		&u.ID, &u.OrganizationID, &u.Email, &u.FullName, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
		&orgID, &orgName, &org.TargetLaunchDate, &org.City, &org.State, &orgCreated, &orgUpdated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if orgID != nil {
		org.ID = *orgID
		org.Name = *orgName
		org.CreatedAt = *orgCreated
		org.UpdatedAt = *orgUpdated
		u.Organization = &org
	}
	return &u, nil
}

// SetOrganization attaches the user to an organization at onboarding
// completion.
func (r *UserRepository) SetOrganization(ctx context.Context, userID, orgID string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE users SET organization_id = $2, updated_at = NOW() WHERE id = $1
    `, userID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOrganization returns the organization's members ordered by name.
func (r *UserRepository) ListByOrganization(ctx context.Context, orgID string) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, organization_id, email, full_name, created_at, updated_at
        FROM users
        WHERE organization_id = $1
        ORDER BY full_name ASC
    `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.FullName, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByOrganization returns the number of members in an organization.
func (r *UserRepository) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM users WHERE organization_id = $1
    `, orgID).Scan(&n)
	return n, err
}
