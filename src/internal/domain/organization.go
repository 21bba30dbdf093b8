package domain

import "time"

type Organization struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MembershipRole string

const (
	MembershipRoleAdmin   MembershipRole = "ADMIN"
	MembershipRoleManager MembershipRole = "MANAGER"
	MembershipRoleMember  MembershipRole = "MEMBER"
)

func (r MembershipRole) Valid() bool {
	switch r {
	case MembershipRoleAdmin, MembershipRoleManager, MembershipRoleMember:
		return true
	default:
		return false
	}
}

type Membership struct {
	ID             string
	OrganizationID string
	UserID         string
	Role           MembershipRole
	CreatedAt      time.Time
}
