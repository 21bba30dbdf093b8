package domain

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Requester is the authenticated identity acting on a request, resolved by
// the auth middleware and consumed by the access gate.
type Requester struct {
	UserID string
	Role   UserRole
}
