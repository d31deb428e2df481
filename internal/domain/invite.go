package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for invite operations.
var (
	// ErrAlreadyInvited is returned when the single invite slot for the
	// (team, user) pair is occupied, pending or resolved.
	ErrAlreadyInvited = errors.New("invite slot already occupied")

	// ErrInviteNotPending is returned when an invite exists but is in a
	// terminal state.
	ErrInviteNotPending = errors.New("invite is not pending")
)

// Invite statuses. PENDING transitions to ACCEPTED or REJECTED, both
// terminal; no other transition exists.
const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusRejected = "REJECTED"
)

// Invite represents the single outstanding invite slot for a (team, user)
// pair. Rejected invites are retained for audit.
// swagger:model Invite
type Invite struct {
	TeamID          string     `json:"team_id" dynamodbav:"teamId"`
	ToUserID        string     `json:"to_user_id" dynamodbav:"toUserId"`
	InviteRole      string     `json:"invite_role" dynamodbav:"inviteRole"`
	Status          string     `json:"status" dynamodbav:"status"`
	CreatedByUserID string     `json:"created_by_user_id" dynamodbav:"createdByUserId"`
	CreatedAt       time.Time  `json:"created_at" dynamodbav:"createdAt"`
	ResolvedAt      *time.Time `json:"resolved_at" dynamodbav:"resolvedAt"`
}

// InviteRepository defines the interface for invite storage.
type InviteRepository interface {
	Get(ctx context.Context, teamID, toUserID string) (*Invite, error)
	// Create inserts with condition "slot absent"; ErrAlreadyInvited
	// otherwise.
	Create(ctx context.Context, inv *Invite) error
	// AcceptWithMembership atomically inserts the membership (condition
	// "absent") and resolves the invite to ACCEPTED (condition "status =
	// PENDING"). A canceled transaction surfaces as ErrConflict; the caller
	// re-reads to name the loser's reason.
	AcceptWithMembership(ctx context.Context, teamID, toUserID string, resolvedAt time.Time, m *Membership) error
	// Reject updates the invite to REJECTED with condition "status =
	// PENDING"; a failed condition surfaces as ErrConflict.
	Reject(ctx context.Context, teamID, toUserID string, resolvedAt time.Time) error
	// ListByUser returns the user's invites newest-first.
	ListByUser(ctx context.Context, toUserID string) ([]*Invite, error)
}

// SendInviteInput is the strongly-typed invite request. The target is
// addressed by player code, not user id.
type SendInviteInput struct {
	TeamID     string
	PlayerCode string
	InviteRole string
}

// InviteService defines the invite lifecycle.
type InviteService interface {
	SendInvite(ctx context.Context, fromUserID string, in *SendInviteInput) (*Invite, error)
	// AcceptInvite consumes the caller's pending invite for the team and
	// returns the membership it produced.
	AcceptInvite(ctx context.Context, teamID, userID string) (*Membership, error)
	RejectInvite(ctx context.Context, teamID, userID string) error
	// ListMyInvites returns the caller's invites newest-first, filtered by
	// status ("ALL" disables the filter), with the total before paging.
	ListMyInvites(ctx context.Context, userID, status string, p PaginationParams) ([]*Invite, int, error)
}
