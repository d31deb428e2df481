package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrTeamNameTaken is returned when another team already holds the
// normalized name.
var ErrTeamNameTaken = errors.New("team name already taken")

// Team represents a club team. The normalized name is globally unique,
// enforced by a name-lock row created in the same transaction as the team.
// swagger:model Team
type Team struct {
	ID             string    `json:"team_id" dynamodbav:"teamId"`
	Name           string    `json:"team_name" dynamodbav:"teamName"`
	NameNormalized string    `json:"-" dynamodbav:"teamNameNormalized"`
	OwnerUserID    string    `json:"owner_user_id" dynamodbav:"ownerUserId"`
	Country        *string   `json:"country" dynamodbav:"country"`
	Province       *string   `json:"province" dynamodbav:"province"`
	LogoKey        string    `json:"-" dynamodbav:"logoKey"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" dynamodbav:"updatedAt"`
}

// NormalizeTeamName trims, lowercases, and collapses internal whitespace.
// An empty result means the name is invalid.
func NormalizeTeamName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// TeamRepository defines the interface for team storage.
type TeamRepository interface {
	// CreateWithOwner atomically inserts the name lock, the team, and the
	// owner membership; every item carries an "absent" condition. A canceled
	// transaction surfaces as ErrTeamNameTaken, the only practically
	// reachable race.
	CreateWithOwner(ctx context.Context, team *Team, owner *Membership) error
	GetByID(ctx context.Context, teamID string) (*Team, error)
	BatchGetByIDs(ctx context.Context, teamIDs []string) ([]*Team, error)
	// SetLogoKey stores the object key of the team logo with condition
	// "teamId exists".
	SetLogoKey(ctx context.Context, teamID, key string) error
}

// NewTeamInput is the strongly-typed team creation request.
type NewTeamInput struct {
	Name     string
	Country  *string
	Province *string
	// OwnerTeamRole is the team role the creator takes (PLAYER or STAFF).
	OwnerTeamRole string
}

// TeamMemberView is a membership hydrated with the member's public profile.
type TeamMemberView struct {
	UserID     string    `json:"user_id"`
	AccessRole string    `json:"access_role"`
	TeamRole   string    `json:"team_role"`
	Username   string    `json:"username"`
	Firstname  *string   `json:"firstname"`
	Surname    *string   `json:"surname"`
	AvatarURL  *string   `json:"avatar_url"`
	JoinedAt   time.Time `json:"joined_at"`
}

// TeamDetails bundles a team with its active members, partitioned by team
// role for display.
type TeamDetails struct {
	Team    *Team             `json:"team"`
	LogoURL *string           `json:"logo_url"`
	Players []*TeamMemberView `json:"players"`
	Staff   []*TeamMemberView `json:"staff"`
}

// MyTeam is a team seen through one of the caller's memberships.
type MyTeam struct {
	Team       *Team     `json:"team"`
	AccessRole string    `json:"access_role"`
	TeamRole   string    `json:"team_role"`
	JoinedAt   time.Time `json:"joined_at"`
}

// MyTeams partitions the caller's teams by access role.
type MyTeams struct {
	Owned  []*MyTeam `json:"owned_teams"`
	Member []*MyTeam `json:"member_teams"`
}

// UploadTicket is a time-boxed presigned upload grant for a fixed object key.
type UploadTicket struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	ExpiresIn int    `json:"expires_in"`
}

// ObjectSigner issues presigned URLs for the object store. The backend never
// proxies object bytes; only keys are persisted.
type ObjectSigner interface {
	SignUpload(ctx context.Context, key, contentType string) (url string, expiresIn int, err error)
	SignDownload(ctx context.Context, key string) (string, error)
}

// TeamService defines team registry operations.
type TeamService interface {
	CreateTeam(ctx context.Context, ownerUserID string, in *NewTeamInput) (*Team, error)
	GetTeamDetails(ctx context.Context, teamID string) (*TeamDetails, error)
	ListMyTeams(ctx context.Context, userID string) (*MyTeams, error)
	// RequestLogoUpload is owner-only; it issues a presigned PUT URL for the
	// team logo and records the object key on the team.
	RequestLogoUpload(ctx context.Context, teamID, userID, contentType string) (*UploadTicket, error)
}
