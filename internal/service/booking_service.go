package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/events"
	"github.com/ringside/roster-service/internal/lifecycle"
	"github.com/ringside/roster-service/internal/repository"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// BookingService manages venues, events and match cards. Booking a match
// verifies that every participant is in a bookable state at booking time.
type BookingService struct {
	venues     repository.VenueRepository
	events     repository.EventRepository
	members    repository.RosterRepository
	titles     repository.TitleRepository
	dispatcher events.Dispatcher
	tx         TransactionManager
	clock      lifecycle.Clock
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	VenueRepo  repository.VenueRepository
	EventRepo  repository.EventRepository
	MemberRepo repository.RosterRepository
	TitleRepo  repository.TitleRepository
	Dispatcher events.Dispatcher
	Tx         TransactionManager
	Clock      lifecycle.Clock
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	if deps.Clock == nil {
		deps.Clock = lifecycle.SystemClock()
	}
	if deps.Tx == nil {
		deps.Tx = NoopTransactionManager{}
	}
	return &BookingService{
		venues:     deps.VenueRepo,
		events:     deps.EventRepo,
		members:    deps.MemberRepo,
		titles:     deps.TitleRepo,
		dispatcher: deps.Dispatcher,
		tx:         deps.Tx,
		clock:      deps.Clock,
	}
}

// CreateVenue persists a new venue.
func (s *BookingService) CreateVenue(ctx context.Context, venue *domain.Venue) error {
	if venue.Name == "" {
		return apperrors.NewValidationError("venue name is required", nil)
	}
	return apperrors.MapError(s.venues.Create(ctx, venue))
}

// UpdateVenue rewrites a venue's details.
func (s *BookingService) UpdateVenue(ctx context.Context, venue *domain.Venue) error {
	if venue.Name == "" {
		return apperrors.NewValidationError("venue name is required", nil)
	}
	return apperrors.MapError(s.venues.Update(ctx, venue))
}

// GetVenue returns a venue by id.
func (s *BookingService) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	venue, err := s.venues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("venue", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return venue, nil
}

// ListVenues lists venues matching the optional search term.
func (s *BookingService) ListVenues(ctx context.Context, search *string, limit, offset int) ([]domain.Venue, error) {
	venues, err := s.venues.List(ctx, search, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return venues, nil
}

// DeleteVenue soft deletes a venue.
func (s *BookingService) DeleteVenue(ctx context.Context, id string) error {
	return apperrors.MapError(s.venues.SoftDelete(ctx, id))
}

// RestoreVenue reverses a soft delete.
func (s *BookingService) RestoreVenue(ctx context.Context, id string) error {
	return apperrors.MapError(s.venues.Restore(ctx, id))
}

// CreateEvent persists a new event. Date and venue may be left unset and
// scheduled later.
func (s *BookingService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if event.Name == "" {
		return apperrors.NewValidationError("event name is required", nil)
	}
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		if event.VenueID != nil {
			if _, err := s.venues.GetByID(ctx, *event.VenueID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewNotFound("venue", map[string]any{"id": *event.VenueID})
				}
				return err
			}
		}
		return s.events.Create(ctx, event)
	})
	return apperrors.MapError(err)
}

// UpdateEvent rewrites an event's details.
func (s *BookingService) UpdateEvent(ctx context.Context, event *domain.Event) error {
	if event.Name == "" {
		return apperrors.NewValidationError("event name is required", nil)
	}
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		if event.VenueID != nil {
			if _, err := s.venues.GetByID(ctx, *event.VenueID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewNotFound("venue", map[string]any{"id": *event.VenueID})
				}
				return err
			}
		}
		return s.events.Update(ctx, event)
	})
	return apperrors.MapError(err)
}

// GetEvent returns an event with its full match card.
func (s *BookingService) GetEvent(ctx context.Context, id string) (*domain.Event, []domain.Match, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("event", map[string]any{"id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	matches, err := s.events.ListMatches(ctx, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return event, matches, nil
}

// ListEvents lists events matching the optional search term.
func (s *BookingService) ListEvents(ctx context.Context, search *string, limit, offset int) ([]domain.Event, error) {
	result, err := s.events.List(ctx, search, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// DeleteEvent soft deletes an event.
func (s *BookingService) DeleteEvent(ctx context.Context, id string) error {
	return apperrors.MapError(s.events.SoftDelete(ctx, id))
}

// RestoreEvent reverses a soft delete.
func (s *BookingService) RestoreEvent(ctx context.Context, id string) error {
	return apperrors.MapError(s.events.Restore(ctx, id))
}

// BookMatch adds a match to an event's card. Every competitor and referee
// must be bookable and every contested title active at booking time.
func (s *BookingService) BookMatch(ctx context.Context, match *domain.Match) error {
	if len(match.Competitors) < 2 {
		return apperrors.NewValidationError("a match needs at least two competitors", nil)
	}
	sides := map[domain.MatchSide]bool{}
	for _, c := range match.Competitors {
		sides[c.Side] = true
	}
	if len(sides) < 2 {
		return apperrors.NewValidationError("a match needs at least two opposing sides", nil)
	}

	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		event, err := s.events.GetByID(ctx, match.EventID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("event", map[string]any{"id": match.EventID})
			}
			return err
		}
		if event.DeletedAt != nil {
			return apperrors.NewConflict("cannot book a match on a deleted event", nil)
		}
		if event.Date == nil || event.VenueID == nil {
			return apperrors.NewConflict("event needs a date and venue before matches can be booked", map[string]any{
				"event_id":  event.ID,
				"has_date":  event.Date != nil,
				"has_venue": event.VenueID != nil,
			})
		}

		for _, c := range match.Competitors {
			if err := s.checkCompetitor(ctx, c); err != nil {
				return err
			}
		}
		for _, refID := range match.RefereeIDs {
			referee, err := s.members.GetByID(ctx, domain.KindReferee, refID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewNotFound("referee", map[string]any{"id": refID})
				}
				return err
			}
			if referee.Status != domain.StatusBookable {
				return apperrors.NewConflict("referee is not bookable", map[string]any{
					"referee_id":     refID,
					"current_status": referee.Status,
				})
			}
		}
		for _, titleID := range match.TitleIDs {
			title, err := s.titles.GetByID(ctx, titleID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewNotFound("title", map[string]any{"id": titleID})
				}
				return err
			}
			if title.Status != domain.ActivationActive {
				return apperrors.NewConflict("title is not active", map[string]any{
					"title_id":       titleID,
					"current_status": title.Status,
				})
			}
		}
		return s.events.AddMatch(ctx, match)
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventMatchBooked,
			EntityType: domain.EntityType("EVENT"),
			EntityID:   match.EventID,
			Timestamp:  s.clock.Now(),
			Payload: events.MatchBookedPayload{
				EventID:     match.EventID,
				MatchID:     match.ID,
				MatchType:   match.MatchType,
				Competitors: len(match.Competitors),
			},
		})
	}
	return nil
}

// RecordMatchResult stores the outcome of a match.
func (s *BookingService) RecordMatchResult(ctx context.Context, matchID, result string) error {
	if result == "" {
		return apperrors.NewValidationError("result is required", nil)
	}
	return apperrors.MapError(s.events.UpdateMatchResult(ctx, matchID, result))
}

func (s *BookingService) checkCompetitor(ctx context.Context, c domain.MatchCompetitor) error {
	var kind domain.RosterMemberKind
	switch c.CompetitorType {
	case domain.EntityWrestler:
		kind = domain.KindWrestler
	case domain.EntityTagTeam:
		kind = domain.KindTagTeam
	default:
		return apperrors.NewValidationError("competitors must be wrestlers or tag teams", map[string]any{
			"competitor_type": c.CompetitorType,
		})
	}
	member, err := s.members.GetByID(ctx, kind, c.CompetitorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(string(kind), map[string]any{"id": c.CompetitorID})
		}
		return err
	}
	if member.Status != domain.StatusBookable {
		return apperrors.NewConflict("competitor is not bookable", map[string]any{
			"competitor_id":  c.CompetitorID,
			"current_status": member.Status,
		})
	}
	return nil
}
