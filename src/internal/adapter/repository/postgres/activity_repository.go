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

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, organization_id, name, description, status, start_date, end_date, created_at, updated_at`

func (r *ActivityRepository) Create(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	logger.Info("activity repository create", logger.Fields{
		"organizationId": activity.OrganizationID,
		"name":           activity.Name,
	})

	const query = `
INSERT INTO activities (organization_id, name, description, status, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		activity.OrganizationID,
		activity.Name,
		activity.Description,
		activity.Status,
		activity.StartDate,
		activity.EndDate,
	).Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt); err != nil {
		logger.Error("activity repository create failed", err, logger.Fields{
			"organizationId": activity.OrganizationID,
		})
		return domain.Activity{}, fmt.Errorf("create activity: %w", err)
	}

	return activity, nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (domain.Activity, error) {
	const query = `
SELECT ` + activityColumns + `
FROM activities
WHERE id = $1`

	var activity domain.Activity
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&activity.ID,
		&activity.OrganizationID,
		&activity.Name,
		&activity.Description,
		&activity.Status,
		&activity.StartDate,
		&activity.EndDate,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Activity{}, domain.ErrRecordNotFound
		}
		logger.Error("activity repository get failed", err, logger.Fields{
			"activityId": id,
		})
		return domain.Activity{}, fmt.Errorf("get activity: %w", err)
	}

	return activity, nil
}

func (r *ActivityRepository) ListByOrganizationID(ctx context.Context, organizationID string) ([]domain.Activity, error) {
	const query = `
SELECT ` + activityColumns + `
FROM activities
WHERE organization_id = $1
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		logger.Error("activity repository list failed", err, logger.Fields{
			"organizationId": organizationID,
		})
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.OrganizationID,
			&activity.Name,
			&activity.Description,
			&activity.Status,
			&activity.StartDate,
			&activity.EndDate,
			&activity.CreatedAt,
			&activity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}

	return activities, nil
}

func (r *ActivityRepository) Update(ctx context.Context, activity domain.Activity) (domain.Activity, error) {
	logger.Info("activity repository update", logger.Fields{
		"activityId": activity.ID,
	})

	const query = `
UPDATE activities
SET name = $2,
    description = $3,
    status = $4,
    start_date = $5,
    end_date = $6,
    updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at`

	var createdAt time.Time
	var updatedAt time.Time
	if err := r.db.QueryRowContext(
		ctx,
		query,
		activity.ID,
		activity.Name,
		activity.Description,
		activity.Status,
		activity.StartDate,
		activity.EndDate,
	).Scan(&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Activity{}, domain.ErrRecordNotFound
		}
		logger.Error("activity repository update failed", err, logger.Fields{
			"activityId": activity.ID,
		})
		return domain.Activity{}, fmt.Errorf("update activity: %w", err)
	}

	activity.CreatedAt = createdAt
	activity.UpdatedAt = updatedAt
	return activity, nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	logger.Info("activity repository delete", logger.Fields{
		"activityId": id,
	})

	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		logger.Error("activity repository delete failed", err, logger.Fields{
			"activityId": id,
		})
		return fmt.Errorf("delete activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete activity rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
