package domain

import (
	"context"
	"time"
)

// Event statuses.
const (
	EventStatusDraft              = "DRAFT"
	EventStatusRegistrationOpen   = "REGISTRATION_OPEN"
	EventStatusRegistrationClosed = "REGISTRATION_CLOSED"
	EventStatusFixturePublished   = "FIXTURE_PUBLISHED"
	EventStatusInProgress         = "IN_PROGRESS"
	EventStatusFinished           = "FINISHED"
)

// ValidEventStatus reports whether s is one of the declared statuses.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusDraft, EventStatusRegistrationOpen, EventStatusRegistrationClosed,
		EventStatusFixturePublished, EventStatusInProgress, EventStatusFinished:
		return true
	}
	return false
}

// Event represents a league event teams register to.
// swagger:model Event
type Event struct {
	ID                   string    `json:"event_id" dynamodbav:"eventId"`
	Season               int       `json:"season" dynamodbav:"season"`
	Name                 string    `json:"name" dynamodbav:"name"`
	Location             *string   `json:"location" dynamodbav:"location"`
	Status               string    `json:"status" dynamodbav:"status"`
	Categories           []string  `json:"categories" dynamodbav:"categories"`
	RegistrationOpensAt  time.Time `json:"registration_opens_at" dynamodbav:"registrationOpensAt"`
	RegistrationClosesAt time.Time `json:"registration_closes_at" dynamodbav:"registrationClosesAt"`
	MaxTeams             *int      `json:"max_teams" dynamodbav:"maxTeams"`
	FixtureVersion       int       `json:"fixture_version" dynamodbav:"fixtureVersion"`
	CreatedAt            time.Time `json:"created_at" dynamodbav:"createdAt"`
	UpdatedAt            time.Time `json:"updated_at" dynamodbav:"updatedAt"`
}

// HasCategory reports whether c is among the event's declared categories.
func (e *Event) HasCategory(c string) bool {
	for _, have := range e.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create inserts with condition "eventId absent"; ErrConflict otherwise.
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, eventID string) (*Event, error)
	// GetOpen returns the newest event in REGISTRATION_OPEN, or ErrNotFound.
	GetOpen(ctx context.Context) (*Event, error)
}
