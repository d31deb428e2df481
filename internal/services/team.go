package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"axleague/internal/domain"
)

type teamService struct {
	teamRepo   domain.TeamRepository
	memberRepo domain.MembershipRepository
	userRepo   domain.UserRepository
	signer     domain.ObjectSigner
}

// NewTeamService creates a TeamService with the given repositories and
// object signer.
func NewTeamService(
	teamRepo domain.TeamRepository,
	memberRepo domain.MembershipRepository,
	userRepo domain.UserRepository,
	signer domain.ObjectSigner,
) domain.TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		signer:     signer,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, ownerUserID string, in *domain.NewTeamInput) (*domain.Team, error) {
	normalized := domain.NormalizeTeamName(in.Name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: team name is required", domain.ErrInvalidInput)
	}
	ownerRole := in.OwnerTeamRole
	if ownerRole == "" {
		ownerRole = domain.TeamRolePlayer
	}
	if !domain.ValidTeamRole(ownerRole) {
		return nil, fmt.Errorf("%w: invalid team role %q", domain.ErrInvalidInput, in.OwnerTeamRole)
	}

	now := time.Now().UTC()
	team := &domain.Team{
		ID:             uuid.NewString(),
		Name:           in.Name,
		NameNormalized: normalized,
		OwnerUserID:    ownerUserID,
		Country:        in.Country,
		Province:       in.Province,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	owner := &domain.Membership{
		TeamID:     team.ID,
		UserID:     ownerUserID,
		AccessRole: domain.AccessRoleOwner,
		TeamRole:   ownerRole,
		Status:     domain.MemberStatusActive,
		JoinedAt:   now,
	}
	if err := s.teamRepo.CreateWithOwner(ctx, team, owner); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetTeamDetails(ctx context.Context, teamID string) (*domain.TeamDetails, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	active := make([]*domain.Membership, 0, len(members))
	userIDs := make([]string, 0, len(members))
	for _, m := range members {
		if m.IsActive() {
			active = append(active, m)
			userIDs = append(userIDs, m.UserID)
		}
	}
	users, err := s.userRepo.BatchGetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load member profiles: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	details := &domain.TeamDetails{
		Team:    team,
		Players: []*domain.TeamMemberView{},
		Staff:   []*domain.TeamMemberView{},
	}
	if team.LogoKey != "" {
		url, err := s.signer.SignDownload(ctx, team.LogoKey)
		if err != nil {
			return nil, fmt.Errorf("sign logo url: %w", err)
		}
		details.LogoURL = &url
	}
	for _, m := range active {
		user, ok := byID[m.UserID]
		if !ok {
			continue
		}
		view := &domain.TeamMemberView{
			UserID:     m.UserID,
			AccessRole: m.AccessRole,
			TeamRole:   m.TeamRole,
			Username:   user.Username,
			Firstname:  user.Firstname,
			Surname:    user.Surname,
			JoinedAt:   m.JoinedAt,
		}
		if user.AvatarKey != "" {
			url, err := s.signer.SignDownload(ctx, user.AvatarKey)
			if err != nil {
				return nil, fmt.Errorf("sign avatar url: %w", err)
			}
			view.AvatarURL = &url
		}
		if m.TeamRole == domain.TeamRoleStaff {
			details.Staff = append(details.Staff, view)
		} else {
			details.Players = append(details.Players, view)
		}
	}
	return details, nil
}

func (s *teamService) ListMyTeams(ctx context.Context, userID string) (*domain.MyTeams, error) {
	memberships, err := s.memberRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	active := make([]*domain.Membership, 0, len(memberships))
	teamIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		if m.IsActive() {
			active = append(active, m)
			teamIDs = append(teamIDs, m.TeamID)
		}
	}
	teams, err := s.teamRepo.BatchGetByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	byID := make(map[string]*domain.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	result := &domain.MyTeams{Owned: []*domain.MyTeam{}, Member: []*domain.MyTeam{}}
	for _, m := range active {
		team, ok := byID[m.TeamID]
		if !ok {
			continue
		}
		entry := &domain.MyTeam{
			Team:       team,
			AccessRole: m.AccessRole,
			TeamRole:   m.TeamRole,
			JoinedAt:   m.JoinedAt,
		}
		if m.IsOwner() {
			result.Owned = append(result.Owned, entry)
		} else {
			result.Member = append(result.Member, entry)
		}
	}
	return result, nil
}

func (s *teamService) RequestLogoUpload(ctx context.Context, teamID, userID, contentType string) (*domain.UploadTicket, error) {
	membership, err := s.memberRepo.Get(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !membership.IsOwner() || !membership.IsActive() {
		return nil, domain.ErrForbidden
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("teams/%s/logo.%s", teamID, ext)
	url, expiresIn, err := s.signer.SignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("sign logo upload: %w", err)
	}
	if err := s.teamRepo.SetLogoKey(ctx, teamID, key); err != nil {
		return nil, err
	}
	return &domain.UploadTicket{Key: key, UploadURL: url, ExpiresIn: expiresIn}, nil
}
