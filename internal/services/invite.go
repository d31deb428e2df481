package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"axleague/internal/domain"
)

type inviteService struct {
	inviteRepo domain.InviteRepository
	memberRepo domain.MembershipRepository
	teamRepo   domain.TeamRepository
	userRepo   domain.UserRepository
	email      domain.EmailService
}

// NewInviteService creates an InviteService with the given repositories and
// email service.
func NewInviteService(
	inviteRepo domain.InviteRepository,
	memberRepo domain.MembershipRepository,
	teamRepo domain.TeamRepository,
	userRepo domain.UserRepository,
	email domain.EmailService,
) domain.InviteService {
	return &inviteService{
		inviteRepo: inviteRepo,
		memberRepo: memberRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		email:      email,
	}
}

func (s *inviteService) SendInvite(ctx context.Context, fromUserID string, in *domain.SendInviteInput) (*domain.Invite, error) {
	role := in.InviteRole
	if role == "" {
		role = domain.TeamRolePlayer
	}
	if !domain.ValidTeamRole(role) {
		return nil, fmt.Errorf("%w: invalid invite role %q", domain.ErrInvalidInput, in.InviteRole)
	}

	team, err := s.teamRepo.GetByID(ctx, in.TeamID)
	if err != nil {
		return nil, err
	}

	caller, err := s.memberRepo.Get(ctx, in.TeamID, fromUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !caller.IsOwner() || !caller.IsActive() {
		return nil, domain.ErrForbidden
	}

	target, err := s.userRepo.GetByPlayerCode(ctx, in.PlayerCode)
	if err != nil {
		return nil, err
	}
	if target.ID == fromUserID {
		return nil, fmt.Errorf("%w: cannot invite yourself", domain.ErrInvalidInput)
	}

	// Advisory check only; the membership insert condition in the accept
	// transaction is what actually excludes double joins.
	if existing, err := s.memberRepo.Get(ctx, in.TeamID, target.ID); err == nil && existing.IsActive() {
		return nil, domain.ErrAlreadyMember
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	invite := &domain.Invite{
		TeamID:          in.TeamID,
		ToUserID:        target.ID,
		InviteRole:      role,
		Status:          domain.InviteStatusPending,
		CreatedByUserID: fromUserID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}

	// Best effort; the invite stands whether or not the notification lands.
	if err := s.email.SendTeamInvite(ctx, &domain.TeamInviteEmailData{
		Email:      target.Email,
		Username:   target.Username,
		TeamName:   team.Name,
		InviteRole: role,
	}); err != nil {
		log.Printf("[INVITE] notification to %s failed: %v", target.Email, err)
	}
	return invite, nil
}

func (s *inviteService) AcceptInvite(ctx context.Context, teamID, userID string) (*domain.Membership, error) {
	invite, err := s.inviteRepo.Get(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if invite.Status != domain.InviteStatusPending {
		return nil, domain.ErrInviteNotPending
	}

	now := time.Now().UTC()
	membership := &domain.Membership{
		TeamID:     teamID,
		UserID:     userID,
		AccessRole: domain.AccessRoleMember,
		TeamRole:   invite.InviteRole,
		Status:     domain.MemberStatusActive,
		JoinedAt:   now,
	}
	if err := s.inviteRepo.AcceptWithMembership(ctx, teamID, userID, now, membership); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, s.resolveConflict(ctx, teamID, userID)
		}
		return nil, err
	}
	return membership, nil
}

func (s *inviteService) RejectInvite(ctx context.Context, teamID, userID string) error {
	if err := s.inviteRepo.Reject(ctx, teamID, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.resolveConflict(ctx, teamID, userID)
		}
		return err
	}
	return nil
}

// resolveConflict re-reads the invite after a failed conditional write to
// name the reason the caller lost.
func (s *inviteService) resolveConflict(ctx context.Context, teamID, userID string) error {
	invite, err := s.inviteRepo.Get(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if invite.Status != domain.InviteStatusPending {
		return domain.ErrInviteNotPending
	}
	// Invite still pending means the membership row blocked the transaction.
	return domain.ErrAlreadyMember
}

func (s *inviteService) ListMyInvites(ctx context.Context, userID, status string, p domain.PaginationParams) ([]*domain.Invite, int, error) {
	if status == "" {
		status = domain.InviteStatusPending
	}
	if status != "ALL" && status != domain.InviteStatusPending &&
		status != domain.InviteStatusAccepted && status != domain.InviteStatusRejected {
		return nil, 0, fmt.Errorf("%w: invalid status filter %q", domain.ErrInvalidInput, status)
	}

	all, err := s.inviteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	filtered := make([]*domain.Invite, 0, len(all))
	for _, inv := range all {
		if status == "ALL" || inv.Status == status {
			filtered = append(filtered, inv)
		}
	}

	total := len(filtered)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}
