package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"axleague/internal/domain"
)

type registrationService struct {
	regRepo    domain.EventRegistrationRepository
	eventRepo  domain.EventRepository
	teamRepo   domain.TeamRepository
	memberRepo domain.MembershipRepository
}

// NewRegistrationService creates a RegistrationService with the given
// repositories.
func NewRegistrationService(
	regRepo domain.EventRegistrationRepository,
	eventRepo domain.EventRepository,
	teamRepo domain.TeamRepository,
	memberRepo domain.MembershipRepository,
) domain.RegistrationService {
	return &registrationService{
		regRepo:    regRepo,
		eventRepo:  eventRepo,
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
	}
}

func (s *registrationService) RegisterTeam(ctx context.Context, actingUserID string, in *domain.RegisterTeamInput) (*domain.EventRegistration, error) {
	event, err := s.eventRepo.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusRegistrationOpen {
		return nil, domain.ErrRegistrationClosed
	}
	if !event.HasCategory(in.Category) {
		return nil, fmt.Errorf("%w: category %q not offered by event", domain.ErrInvalidInput, in.Category)
	}

	team, err := s.teamRepo.GetByID(ctx, in.TeamID)
	if err != nil {
		return nil, err
	}
	membership, err := s.memberRepo.Get(ctx, in.TeamID, actingUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !membership.IsOwner() || !membership.IsActive() {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	reg := &domain.EventRegistration{
		EventID:            in.EventID,
		TeamID:             in.TeamID,
		TeamNameSnapshot:   team.Name,
		Category:           in.Category,
		Status:             domain.RegistrationStatusRegistered,
		RegisteredByUserID: actingUserID,
		RegisteredAt:       now,
		UpdatedAt:          now,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) ListRegistrations(ctx context.Context, eventID string) (*domain.RegistrationsByCategory, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	regs, err := s.regRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := &domain.RegistrationsByCategory{
		EventID:    eventID,
		Counts:     make(map[string]int, len(event.Categories)+1),
		ByCategory: make(map[string][]*domain.EventRegistration, len(event.Categories)+1),
	}
	for _, c := range event.Categories {
		result.Counts[c] = 0
		result.ByCategory[c] = []*domain.EventRegistration{}
	}
	for _, reg := range regs {
		category := reg.Category
		if !event.HasCategory(category) {
			category = domain.OverflowCategory
		}
		result.Counts[category]++
		result.ByCategory[category] = append(result.ByCategory[category], reg)
	}
	return result, nil
}

func (s *registrationService) GetOpenEvent(ctx context.Context) (*domain.Event, error) {
	return s.eventRepo.GetOpen(ctx)
}
