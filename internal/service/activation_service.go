package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/events"
	"github.com/ringside/roster-service/internal/lifecycle"
	"github.com/ringside/roster-service/internal/repository"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// ActivationService owns the activation lifecycle of titles and stables.
type ActivationService struct {
	titles      repository.TitleRepository
	stables     repository.StableRepository
	spans       repository.SpanRepository
	memberships repository.MembershipRepository
	audit       repository.AuditRepository
	dispatcher  events.Dispatcher
	tx          TransactionManager
	clock       lifecycle.Clock
}

// ActivationDependencies bundles collaborators for the activation service.
type ActivationDependencies struct {
	TitleRepo      repository.TitleRepository
	StableRepo     repository.StableRepository
	SpanRepo       repository.SpanRepository
	MembershipRepo repository.MembershipRepository
	AuditRepo      repository.AuditRepository
	Dispatcher     events.Dispatcher
	Tx             TransactionManager
	Clock          lifecycle.Clock
}

// NewActivationService constructs the service.
func NewActivationService(deps ActivationDependencies) *ActivationService {
	if deps.Clock == nil {
		deps.Clock = lifecycle.SystemClock()
	}
	if deps.Tx == nil {
		deps.Tx = NoopTransactionManager{}
	}
	return &ActivationService{
		titles:      deps.TitleRepo,
		stables:     deps.StableRepo,
		spans:       deps.SpanRepo,
		memberships: deps.MembershipRepo,
		audit:       deps.AuditRepo,
		dispatcher:  deps.Dispatcher,
		tx:          deps.Tx,
		clock:       deps.Clock,
	}
}

// activatable is the slice of title/stable state the lifecycle needs.
type activatable struct {
	entityType domain.EntityType
	id         string
	status     domain.ActivationStatus
}

func (s *ActivationService) load(ctx context.Context, entityType domain.EntityType, id string) (*activatable, error) {
	switch entityType {
	case domain.EntityTitle:
		title, err := s.titles.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &activatable{entityType: entityType, id: title.ID, status: title.Status}, nil
	case domain.EntityStable:
		stable, err := s.stables.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &activatable{entityType: entityType, id: stable.ID, status: stable.Status}, nil
	default:
		return nil, apperrors.NewValidationError("entity is not activatable", map[string]any{"entity_type": entityType})
	}
}

func (s *ActivationService) persistStatus(ctx context.Context, entityType domain.EntityType, id string, status domain.ActivationStatus) error {
	if entityType == domain.EntityTitle {
		return s.titles.UpdateStatus(ctx, id, status)
	}
	return s.stables.UpdateStatus(ctx, id, status)
}

// CreateTitle creates a title in the Undebuted default state.
func (s *ActivationService) CreateTitle(ctx context.Context, name string) (*domain.Title, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	title := &domain.Title{Name: name, Status: domain.ActivationUndebuted}
	if err := s.titles.Create(ctx, title); err != nil {
		return nil, apperrors.MapError(err)
	}
	return title, nil
}

// CreateStable creates a stable in the Undebuted default state.
func (s *ActivationService) CreateStable(ctx context.Context, name string) (*domain.Stable, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	stable := &domain.Stable{Name: name, Status: domain.ActivationUndebuted}
	if err := s.stables.Create(ctx, stable); err != nil {
		return nil, apperrors.MapError(err)
	}
	return stable, nil
}

// GetTitle fetches one title with its span history.
func (s *ActivationService) GetTitle(ctx context.Context, id string) (*domain.Title, []domain.Span, error) {
	title, err := s.titles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("title", map[string]any{"id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	spans, err := s.spans.ListByEntity(ctx, domain.EntityTitle, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return title, spans, nil
}

// GetStable fetches one stable with its current members and span history.
func (s *ActivationService) GetStable(ctx context.Context, id string) (*domain.Stable, []domain.Membership, []domain.Span, error) {
	stable, err := s.stables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, apperrors.NewNotFound("stable", map[string]any{"id": id})
		}
		return nil, nil, nil, apperrors.MapError(err)
	}
	members, err := s.memberships.ListOpenByGroup(ctx, domain.EntityStable, id)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	spans, err := s.spans.ListByEntity(ctx, domain.EntityStable, id)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return stable, members, spans, nil
}

// ListTitles returns titles matching the filter.
func (s *ActivationService) ListTitles(ctx context.Context, filter repository.ActivatableFilter) ([]domain.Title, error) {
	return s.titles.ListWithFilter(ctx, filter)
}

// ListStables returns stables matching the filter.
func (s *ActivationService) ListStables(ctx context.Context, filter repository.ActivatableFilter) ([]domain.Stable, error) {
	return s.stables.ListWithFilter(ctx, filter)
}

// Activate opens an activation span. A stable must have enough member head
// count before it can go active.
func (s *ActivationService) Activate(ctx context.Context, entityType domain.EntityType, id string, input TransitionInput) error {
	return s.transition(ctx, entityType, id, input, lifecycle.TransitionActivate, func(ctx context.Context, a *activatable, when time.Time) error {
		if !lifecycle.CanBeActivated(a.status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionActivate, a.status)
		}
		if entityType == domain.EntityStable {
			count, err := s.stableHeadCount(ctx, id)
			if err != nil {
				return err
			}
			if count < domain.MinStableMembers {
				return apperrors.NewConflict("stable does not have enough members to activate", map[string]any{
					"members":  count,
					"required": domain.MinStableMembers,
				})
			}
		}
		if a.status == domain.ActivationFuture {
			_, err := s.spans.RescheduleOpen(ctx, entityType, id, domain.SpanActivation, when)
			return err
		}
		return s.spans.Open(ctx, &domain.Span{
			EntityType: entityType,
			EntityID:   id,
			Kind:       domain.SpanActivation,
			StartedAt:  when,
		})
	})
}

// Deactivate closes the activation span. A deactivated stable loses its
// current members.
func (s *ActivationService) Deactivate(ctx context.Context, entityType domain.EntityType, id string, input TransitionInput) error {
	return s.transition(ctx, entityType, id, input, lifecycle.TransitionDeactivate, func(ctx context.Context, a *activatable, when time.Time) error {
		if !lifecycle.CanBeDeactivated(a.status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionDeactivate, a.status)
		}
		if _, err := s.spans.CloseOpen(ctx, entityType, id, domain.SpanActivation, when); err != nil {
			return err
		}
		return s.disband(ctx, entityType, id, when)
	})
}

// Retire closes the activation span and opens a retirement span.
func (s *ActivationService) Retire(ctx context.Context, entityType domain.EntityType, id string, input TransitionInput) error {
	return s.transition(ctx, entityType, id, input, lifecycle.TransitionRetire, func(ctx context.Context, a *activatable, when time.Time) error {
		if !lifecycle.CanBeRetiredActivation(a.status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionRetire, a.status)
		}
		if _, err := s.spans.CloseOpen(ctx, entityType, id, domain.SpanActivation, when); err != nil {
			return err
		}
		if err := s.spans.Open(ctx, &domain.Span{
			EntityType: entityType,
			EntityID:   id,
			Kind:       domain.SpanRetirement,
			StartedAt:  when,
		}); err != nil {
			return err
		}
		return s.disband(ctx, entityType, id, when)
	})
}

// Unretire closes the retirement span and reopens activation.
func (s *ActivationService) Unretire(ctx context.Context, entityType domain.EntityType, id string, input TransitionInput) error {
	return s.transition(ctx, entityType, id, input, lifecycle.TransitionUnretire, func(ctx context.Context, a *activatable, when time.Time) error {
		if !lifecycle.CanBeUnretiredActivation(a.status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionUnretire, a.status)
		}
		if _, err := s.spans.CloseOpen(ctx, entityType, id, domain.SpanRetirement, when); err != nil {
			return err
		}
		return s.spans.Open(ctx, &domain.Span{
			EntityType: entityType,
			EntityID:   id,
			Kind:       domain.SpanActivation,
			StartedAt:  when,
		})
	})
}

func (s *ActivationService) transition(ctx context.Context, entityType domain.EntityType, id string, input TransitionInput, name lifecycle.Transition, mutate func(context.Context, *activatable, time.Time) error) error {
	when := input.EffectiveDate
	if when.IsZero() {
		when = s.clock.Now()
	}

	var oldStatus, newStatus domain.ActivationStatus
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		a, err := s.load(ctx, entityType, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(string(entityType), map[string]any{"id": id})
			}
			return err
		}
		oldStatus = a.status

		if err := mutate(ctx, a, when); err != nil {
			return err
		}

		spans, err := s.spans.ListByEntity(ctx, entityType, id)
		if err != nil {
			return err
		}
		newStatus = lifecycle.DeriveActivation(lifecycle.HistoryFromSpans(spans), s.clock.Now())
		if err := s.persistStatus(ctx, entityType, id, newStatus); err != nil {
			return err
		}

		if s.audit != nil {
			entry := &repository.AuditEntry{
				EntityType: entityType,
				EntityID:   id,
				Transition: string(name),
				OldStatus:  string(oldStatus),
				NewStatus:  string(newStatus),
				OccurredAt: when,
			}
			if input.ActorID != "" {
				actor := input.ActorID
				entry.ActorID = &actor
			}
			if err := s.audit.Create(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventActivationChanged,
			EntityType: entityType,
			EntityID:   id,
			ActorID:    input.ActorID,
			Timestamp:  s.clock.Now(),
			Payload: events.ActivationChangedPayload{
				Transition:    string(name),
				OldStatus:     oldStatus,
				NewStatus:     newStatus,
				EffectiveDate: when,
			},
		})
	}
	return nil
}

// disband closes a stable's open member rows; titles have no members.
func (s *ActivationService) disband(ctx context.Context, entityType domain.EntityType, id string, when time.Time) error {
	if entityType != domain.EntityStable {
		return nil
	}
	_, err := s.memberships.CloseAllForGroup(ctx, domain.EntityStable, id, when)
	return err
}

// stableHeadCount counts a stable's members, tag teams counting as their
// current partner count.
func (s *ActivationService) stableHeadCount(ctx context.Context, stableID string) (int, error) {
	members, err := s.memberships.ListOpenByGroup(ctx, domain.EntityStable, stableID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range members {
		switch m.MemberType {
		case domain.EntityWrestler:
			count++
		case domain.EntityTagTeam:
			partners, err := s.memberships.ListOpenByGroup(ctx, domain.EntityTagTeam, m.MemberID)
			if err != nil {
				return 0, err
			}
			for _, p := range partners {
				if p.MemberType == domain.EntityWrestler {
					count++
				}
			}
		}
	}
	return count, nil
}
