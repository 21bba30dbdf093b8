package domain

import "time"

type ActivityStatus string

const (
	ActivityStatusPlanned   ActivityStatus = "PLANNED"
	ActivityStatusActive    ActivityStatus = "ACTIVE"
	ActivityStatusCompleted ActivityStatus = "COMPLETED"
	ActivityStatusCancelled ActivityStatus = "CANCELLED"
)

func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityStatusPlanned, ActivityStatusActive, ActivityStatusCompleted, ActivityStatusCancelled:
		return true
	default:
		return false
	}
}

type Activity struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string
	Status         ActivityStatus
	StartDate      *time.Time
	EndDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
