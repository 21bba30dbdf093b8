package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

type MembershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Add(ctx context.Context, membership domain.Membership) (domain.Membership, error) {
	logger.Info("membership repository add", logger.Fields{
		"organizationId": membership.OrganizationID,
		"userId":         membership.UserID,
		"role":           membership.Role,
	})

	const query = `
INSERT INTO memberships (organization_id, user_id, role)
VALUES ($1, $2, $3)
ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		membership.OrganizationID,
		membership.UserID,
		membership.Role,
	).Scan(&membership.ID, &membership.CreatedAt); err != nil {
		logger.Error("membership repository add failed", err, logger.Fields{
			"organizationId": membership.OrganizationID,
			"userId":         membership.UserID,
		})
		return domain.Membership{}, fmt.Errorf("add membership: %w", err)
	}

	return membership, nil
}

func (r *MembershipRepository) Remove(ctx context.Context, organizationID string, userID string) error {
	logger.Info("membership repository remove", logger.Fields{
		"organizationId": organizationID,
		"userId":         userID,
	})

	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM memberships WHERE organization_id = $1 AND user_id = $2`,
		organizationID,
		userID,
	)
	if err != nil {
		logger.Error("membership repository remove failed", err, logger.Fields{
			"organizationId": organizationID,
			"userId":         userID,
		})
		return fmt.Errorf("remove membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove membership rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *MembershipRepository) GetRole(ctx context.Context, organizationID string, userID string) (domain.MembershipRole, error) {
	const query = `
SELECT role
FROM memberships
WHERE organization_id = $1
  AND user_id = $2`

	var role domain.MembershipRole
	if err := r.db.QueryRowContext(ctx, query, organizationID, userID).Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrRecordNotFound
		}
		logger.Error("membership repository get role failed", err, logger.Fields{
			"organizationId": organizationID,
			"userId":         userID,
		})
		return "", fmt.Errorf("get membership role: %w", err)
	}

	return role, nil
}

func (r *MembershipRepository) ListByOrganizationID(ctx context.Context, organizationID string) ([]domain.Membership, error) {
	const query = `
SELECT id, organization_id, user_id, role, created_at
FROM memberships
WHERE organization_id = $1
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		logger.Error("membership repository list failed", err, logger.Fields{
			"organizationId": organizationID,
		})
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]domain.Membership, 0)
	for rows.Next() {
		var membership domain.Membership
		if err := rows.Scan(
			&membership.ID,
			&membership.OrganizationID,
			&membership.UserID,
			&membership.Role,
			&membership.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan membership row: %w", err)
		}
		memberships = append(memberships, membership)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate membership rows: %w", err)
	}

	return memberships, nil
}
