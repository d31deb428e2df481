package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for event registration.
var (
	// ErrAlreadyRegistered is returned when the (event, team) pair already
	// has a registration row, regardless of category.
	ErrAlreadyRegistered = errors.New("team already registered for event")

	// ErrRegistrationClosed is returned when the event is not accepting
	// registrations.
	ErrRegistrationClosed = errors.New("event registration is closed")
)

// Registration statuses. A registration is created once; only its status may
// change afterwards.
const (
	RegistrationStatusRegistered = "REGISTERED"
	RegistrationStatusWithdrawn  = "WITHDRAWN"
)

// OverflowCategory buckets registrations whose category is no longer in the
// event's declared set. Defensive display grouping, not an invariant.
const OverflowCategory = "OTHER"

// EventRegistration represents a team's registration for an event. The team
// name is a denormalized snapshot taken at registration time; later renames
// do not retroactively alter it.
// swagger:model EventRegistration
type EventRegistration struct {
	EventID            string    `json:"event_id" dynamodbav:"eventId"`
	TeamID             string    `json:"team_id" dynamodbav:"teamId"`
	TeamNameSnapshot   string    `json:"team_name_snapshot" dynamodbav:"teamNameSnapshot"`
	Category           string    `json:"category" dynamodbav:"category"`
	Status             string    `json:"status" dynamodbav:"status"`
	RegisteredByUserID string    `json:"registered_by_user_id" dynamodbav:"registeredByUserId"`
	RegisteredAt       time.Time `json:"registered_at" dynamodbav:"registeredAt"`
	UpdatedAt          time.Time `json:"updated_at" dynamodbav:"updatedAt"`
}

// EventRegistrationRepository defines the interface for registration storage.
type EventRegistrationRepository interface {
	// Create inserts with condition "(eventId, teamId) absent";
	// ErrAlreadyRegistered otherwise.
	Create(ctx context.Context, reg *EventRegistration) error
	ListByEvent(ctx context.Context, eventID string) ([]*EventRegistration, error)
}

// RegisterTeamInput is the strongly-typed registration request.
type RegisterTeamInput struct {
	EventID  string
	TeamID   string
	Category string
}

// RegistrationsByCategory groups an event's registrations by the event's
// declared categories, with OverflowCategory collecting anything else.
type RegistrationsByCategory struct {
	EventID    string                          `json:"event_id"`
	Counts     map[string]int                  `json:"counts"`
	ByCategory map[string][]*EventRegistration `json:"registrations_by_category"`
}

// RegistrationService defines the event registration ledger operations.
type RegistrationService interface {
	RegisterTeam(ctx context.Context, actingUserID string, in *RegisterTeamInput) (*EventRegistration, error)
	ListRegistrations(ctx context.Context, eventID string) (*RegistrationsByCategory, error)
	// GetOpenEvent returns the event currently open for registration, or
	// ErrNotFound.
	GetOpenEvent(ctx context.Context) (*Event, error)
}
