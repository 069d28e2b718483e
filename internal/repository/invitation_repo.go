package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"clinicboard/internal/model"
)

type InvitationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInvitationRepository(db *pgxpool.Pool, logger *zap.Logger) *InvitationRepository {
	return &InvitationRepository{db: db, logger: logger}
}

func (r *InvitationRepository) Insert(ctx context.Context, inv *model.Invitation) error {
	sql := `
        INSERT INTO invitations (id, organization_id, email, invited_by, status, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, sql,
		inv.ID, inv.OrganizationID, inv.Email, inv.InvitedBy, inv.Status,
	).Scan(&inv.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert invitation",
			zap.Error(err),
			zap.String("organization_id", inv.OrganizationID),
		)
	}
	return err
}

// CountPending returns the organization's invitations not yet logged.
func (r *InvitationRepository) CountPending(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM invitations WHERE organization_id = $1 AND status = $2
    `, orgID, model.InvitationPending).Scan(&n)
	return n, err
}

// MarkLogged records that the stub delivery ran for an invitation.
func (r *InvitationRepository) MarkLogged(ctx context.Context, invitationID string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE invitations SET status = $2 WHERE id = $1
    `, invitationID, model.InvitationLogged)
	if err != nil {
		r.logger.Error("Failed to mark invitation logged",
			zap.Error(err),
			zap.String("invitation_id", invitationID),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
