package repo_interfaces

import (
	"context"

	"github.com/orgbook/orgbook-api/src/internal/domain"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	GetByID(ctx context.Context, id string) (domain.Activity, error)
	ListByOrganizationID(ctx context.Context, organizationID string) ([]domain.Activity, error)
	Update(ctx context.Context, activity domain.Activity) (domain.Activity, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	ListByActivityID(ctx context.Context, activityID string) ([]domain.Task, error)
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}
