package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyMember is returned when a membership row already exists for the
// (team, user) pair.
var ErrAlreadyMember = errors.New("already a team member")

// Access roles.
const (
	AccessRoleOwner  = "OWNER"
	AccessRoleMember = "MEMBER"
)

// Team roles.
const (
	TeamRolePlayer = "PLAYER"
	TeamRoleStaff  = "STAFF"
)

// Membership statuses.
const (
	MemberStatusActive  = "ACTIVE"
	MemberStatusRemoved = "REMOVED"
)

// ValidTeamRole reports whether role is PLAYER or STAFF.
func ValidTeamRole(role string) bool {
	return role == TeamRolePlayer || role == TeamRoleStaff
}

// Membership represents a user's membership in a team. At most one row
// exists per (team, user); the owner row is written in the team-creation
// transaction and every other row in an invite-acceptance transaction.
// swagger:model Membership
type Membership struct {
	TeamID     string    `json:"team_id" dynamodbav:"teamId"`
	UserID     string    `json:"user_id" dynamodbav:"userId"`
	AccessRole string    `json:"access_role" dynamodbav:"accessRole"`
	TeamRole   string    `json:"team_role" dynamodbav:"teamRole"`
	Status     string    `json:"status" dynamodbav:"status"`
	JoinedAt   time.Time `json:"joined_at" dynamodbav:"joinedAt"`
}

// IsOwner reports whether the membership grants owner access.
func (m *Membership) IsOwner() bool {
	return m.AccessRole == AccessRoleOwner
}

// IsActive reports whether the membership is current.
func (m *Membership) IsActive() bool {
	return m.Status == MemberStatusActive
}

// MembershipRepository defines the interface for membership storage.
type MembershipRepository interface {
	// Get returns the membership row or ErrNotFound.
	Get(ctx context.Context, teamID, userID string) (*Membership, error)
	// Create inserts with condition "row absent"; ErrAlreadyMember otherwise.
	// Re-joining after removal is intentionally not supported here.
	Create(ctx context.Context, m *Membership) error
	ListByTeam(ctx context.Context, teamID string) ([]*Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)
}
