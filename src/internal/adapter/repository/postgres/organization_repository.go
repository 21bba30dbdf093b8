package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, organization domain.Organization) (domain.Organization, error) {
	logger.Info("organization repository create", logger.Fields{
		"name": organization.Name,
	})

	const query = `
INSERT INTO organizations (name, description)
VALUES ($1, $2)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		organization.Name,
		organization.Description,
	).Scan(&organization.ID, &organization.CreatedAt, &organization.UpdatedAt); err != nil {
		logger.Error("organization repository create failed", err, logger.Fields{
			"name": organization.Name,
		})
		return domain.Organization{}, fmt.Errorf("create organization: %w", err)
	}

	logger.Info("organization repository create success", logger.Fields{
		"organizationId": organization.ID,
	})

	return organization, nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (domain.Organization, error) {
	const query = `
SELECT id, name, description, created_at, updated_at
FROM organizations
WHERE id = $1`

	var organization domain.Organization
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&organization.ID,
		&organization.Name,
		&organization.Description,
		&organization.CreatedAt,
		&organization.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Organization{}, domain.ErrRecordNotFound
		}
		logger.Error("organization repository get failed", err, logger.Fields{
			"organizationId": id,
		})
		return domain.Organization{}, fmt.Errorf("get organization: %w", err)
	}

	return organization, nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	const query = `
SELECT id, name, description, created_at, updated_at
FROM organizations
ORDER BY created_at DESC`

	return r.scanMany(ctx, query)
}

func (r *OrganizationRepository) ListByUserMembership(ctx context.Context, userID string) ([]domain.Organization, error) {
	const query = `
SELECT o.id, o.name, o.description, o.created_at, o.updated_at
FROM organizations o
JOIN memberships m ON m.organization_id = o.id
WHERE m.user_id = $1
ORDER BY o.created_at DESC`

	return r.scanMany(ctx, query, userID)
}

func (r *OrganizationRepository) Update(ctx context.Context, organization domain.Organization) (domain.Organization, error) {
	logger.Info("organization repository update", logger.Fields{
		"organizationId": organization.ID,
	})

	const query = `
UPDATE organizations
SET name = $2,
    description = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at`

	var createdAt time.Time
	var updatedAt time.Time
	if err := r.db.QueryRowContext(
		ctx,
		query,
		organization.ID,
		organization.Name,
		organization.Description,
	).Scan(&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Organization{}, domain.ErrRecordNotFound
		}
		logger.Error("organization repository update failed", err, logger.Fields{
			"organizationId": organization.ID,
		})
		return domain.Organization{}, fmt.Errorf("update organization: %w", err)
	}

	organization.CreatedAt = createdAt
	organization.UpdatedAt = updatedAt
	return organization, nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	logger.Info("organization repository delete", logger.Fields{
		"organizationId": id,
	})

	result, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		logger.Error("organization repository delete failed", err, logger.Fields{
			"organizationId": id,
		})
		return fmt.Errorf("delete organization: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete organization rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *OrganizationRepository) scanMany(ctx context.Context, query string, args ...any) ([]domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("organization repository list failed", err, nil)
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	organizations := make([]domain.Organization, 0)
	for rows.Next() {
		var organization domain.Organization
		if err := rows.Scan(
			&organization.ID,
			&organization.Name,
			&organization.Description,
			&organization.CreatedAt,
			&organization.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan organization row: %w", err)
		}
		organizations = append(organizations, organization)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organization rows: %w", err)
	}

	return organizations, nil
}
