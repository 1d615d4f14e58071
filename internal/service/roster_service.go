package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/events"
	"github.com/ringside/roster-service/internal/lifecycle"
	"github.com/ringside/roster-service/internal/repository"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// RosterService owns the employment lifecycle of wrestlers, managers,
// referees and tag teams: guarded transitions, span bookkeeping, status
// derivation and cross-entity propagation. Every mutator runs as one
// read-write transaction.
type RosterService struct {
	members     repository.RosterRepository
	spans       repository.SpanRepository
	memberships repository.MembershipRepository
	audit       repository.AuditRepository
	dispatcher  events.Dispatcher
	tx          TransactionManager
	clock       lifecycle.Clock
	logger      *zap.Logger
}

// RosterDependencies bundles collaborators for the roster service.
type RosterDependencies struct {
	MemberRepo     repository.RosterRepository
	SpanRepo       repository.SpanRepository
	MembershipRepo repository.MembershipRepository
	AuditRepo      repository.AuditRepository
	Dispatcher     events.Dispatcher
	Tx             TransactionManager
	Clock          lifecycle.Clock
	Logger         *zap.Logger
}

// NewRosterService constructs the service.
func NewRosterService(deps RosterDependencies) *RosterService {
	if deps.Clock == nil {
		deps.Clock = lifecycle.SystemClock()
	}
	if deps.Tx == nil {
		deps.Tx = NoopTransactionManager{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &RosterService{
		members:     deps.MemberRepo,
		spans:       deps.SpanRepo,
		memberships: deps.MembershipRepo,
		audit:       deps.AuditRepo,
		dispatcher:  deps.Dispatcher,
		tx:          deps.Tx,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
}

// TransitionInput carries the optional effective date and the acting
// operator for a lifecycle transition.
type TransitionInput struct {
	EffectiveDate time.Time
	ActorID       string
}

// MemberCreateInput describes roster member creation payload.
type MemberCreateInput struct {
	Name          string
	Hometown      string
	HeightCm      int
	WeightLbs     int
	SignatureMove string
}

// MemberUpdateInput describes roster member update payload.
type MemberUpdateInput struct {
	Name          *string
	Hometown      *string
	HeightCm      *int
	WeightLbs     *int
	SignatureMove *string
}

// CreateMember creates a roster member in the Unemployed default state.
func (s *RosterService) CreateMember(ctx context.Context, kind domain.RosterMemberKind, input MemberCreateInput) (*domain.RosterMember, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	member := &domain.RosterMember{
		Kind:          kind,
		Name:          input.Name,
		Hometown:      input.Hometown,
		HeightCm:      input.HeightCm,
		WeightLbs:     input.WeightLbs,
		SignatureMove: input.SignatureMove,
		Status:        domain.StatusUnemployed,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// GetMember fetches one roster member with its full span history.
func (s *RosterService) GetMember(ctx context.Context, kind domain.RosterMemberKind, id string) (*domain.RosterMember, []domain.Span, error) {
	member, err := s.members.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound(string(kind), map[string]any{"id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	spans, err := s.spans.ListByEntity(ctx, kind.EntityType(), id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return member, spans, nil
}

// ListMembers returns roster members matching the filter.
func (s *RosterService) ListMembers(ctx context.Context, filter repository.RosterFilter) ([]domain.RosterMember, error) {
	return s.members.ListWithFilter(ctx, filter)
}

// UpdateMember updates mutable attributes, leaving the lifecycle untouched.
func (s *RosterService) UpdateMember(ctx context.Context, kind domain.RosterMemberKind, id string, input MemberUpdateInput) (*domain.RosterMember, error) {
	member, err := s.members.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(string(kind), map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Hometown != nil {
		member.Hometown = *input.Hometown
	}
	if input.HeightCm != nil {
		member.HeightCm = *input.HeightCm
	}
	if input.WeightLbs != nil {
		member.WeightLbs = *input.WeightLbs
	}
	if input.SignatureMove != nil {
		member.SignatureMove = *input.SignatureMove
	}
	if err := s.members.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// DeleteMember soft-deletes a member. Deletion is independent of the status
// machine; open memberships are closed so groups do not keep ghosts.
func (s *RosterService) DeleteMember(ctx context.Context, kind domain.RosterMemberKind, id string) error {
	return s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		if err := s.members.SoftDelete(ctx, kind, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(string(kind), map[string]any{"id": id})
			}
			return apperrors.MapError(err)
		}
		_, err := s.vacate(ctx, kind, id, s.clock.Now())
		return err
	})
}

// RestoreMember reverses a soft delete.
func (s *RosterService) RestoreMember(ctx context.Context, kind domain.RosterMemberKind, id string) error {
	if err := s.members.Restore(ctx, kind, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(string(kind), map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// StatusAt reports the member's status at an arbitrary instant, derived from
// span history only.
func (s *RosterService) StatusAt(ctx context.Context, kind domain.RosterMemberKind, id string, at time.Time) (domain.Status, error) {
	spans, err := s.spans.ListByEntity(ctx, kind.EntityType(), id)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return lifecycle.StatusAt(lifecycle.HistoryFromSpans(spans), at), nil
}

// Employ opens an employment span. A pending future employment has its start
// date rewritten instead of gaining a second span.
func (s *RosterService) Employ(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	return s.transition(ctx, kind, id, input, lifecycle.TransitionEmploy, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanBeEmployed(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionEmploy, member.Status)
		}
		if member.Status == domain.StatusFutureEmployment {
			_, err := s.spans.RescheduleOpen(ctx, kind.EntityType(), id, domain.SpanEmployment, when)
			return err
		}
		if err := s.openSpan(ctx, kind.EntityType(), id, domain.SpanEmployment, when); err != nil {
			return err
		}
		if kind == domain.KindTagTeam {
			return s.employPartners(ctx, id, when)
		}
		return nil
	})
}

// Release closes the employment span, first clearing any suspension or
// injury, in that order.
func (s *RosterService) Release(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	return s.transition(ctx, kind, id, input, lifecycle.TransitionRelease, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanBeReleased(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionRelease, member.Status)
		}
		if err := s.closeRestrictions(ctx, kind, id, when); err != nil {
			return err
		}
		if _, err := s.spans.CloseOpen(ctx, kind.EntityType(), id, domain.SpanEmployment, when); err != nil {
			return err
		}
		return s.vacateAndRecompute(ctx, kind, id, when)
	})
}

// Suspend opens a suspension span.
func (s *RosterService) Suspend(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	return s.transition(ctx, kind, id, input, lifecycle.TransitionSuspend, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanBeSuspended(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionSuspend, member.Status)
		}
		return s.openSpan(ctx, kind.EntityType(), id, domain.SpanSuspension, when)
	})
}

// Reinstate closes the suspension span.
func (s *RosterService) Reinstate(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	return s.transition(ctx, kind, id, input, lifecycle.TransitionReinstate, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanBeReinstated(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionReinstate, member.Status)
		}
		_, err := s.spans.CloseOpen(ctx, kind.EntityType(), id, domain.SpanSuspension, when)
		return err
	})
}

// Injure opens an injury span. Only wrestlers and referees carry injuries.
func (s *RosterService) Injure(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	if !kind.Injurable() {
		return nil, apperrors.NewValidationError("this roster member kind cannot be injured", map[string]any{"kind": kind})
	}
	return s.transition(ctx, kind, id, input, lifecycle.TransitionInjure, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanBeInjured(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionInjure, member.Status)
		}
		return s.openSpan(ctx, kind.EntityType(), id, domain.SpanInjury, when)
	})
}

// ClearInjury closes the injury span.
func (s *RosterService) ClearInjury(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	return s.transition(ctx, kind, id, input, lifecycle.TransitionClearInjury, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanHaveInjuryCleared(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionClearInjury, member.Status)
		}
		_, err := s.spans.CloseOpen(ctx, kind.EntityType(), id, domain.SpanInjury, when)
		return err
	})
}

// Retire ends the member's employment and opens a retirement span. Compound
// reversal runs in fixed order: suspension, injury, employment, retirement.
func (s *RosterService) Retire(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	return s.transition(ctx, kind, id, input, lifecycle.TransitionRetire, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanBeRetired(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionRetire, member.Status)
		}
		if err := s.closeRestrictions(ctx, kind, id, when); err != nil {
			return err
		}
		if _, err := s.spans.CloseOpen(ctx, kind.EntityType(), id, domain.SpanEmployment, when); err != nil {
			return err
		}
		if err := s.openSpan(ctx, kind.EntityType(), id, domain.SpanRetirement, when); err != nil {
			return err
		}
		return s.vacateAndRecompute(ctx, kind, id, when)
	})
}

// Unretire closes the retirement span and reopens employment.
func (s *RosterService) Unretire(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput) (*domain.RosterMember, error) {
	return s.transition(ctx, kind, id, input, lifecycle.TransitionUnretire, func(ctx context.Context, member *domain.RosterMember, when time.Time) error {
		if !lifecycle.CanBeUnretired(member.Status) {
			return lifecycle.NewTransitionError(lifecycle.TransitionUnretire, member.Status)
		}
		if _, err := s.spans.CloseOpen(ctx, kind.EntityType(), id, domain.SpanRetirement, when); err != nil {
			return err
		}
		return s.openSpan(ctx, kind.EntityType(), id, domain.SpanEmployment, when)
	})
}

// RecomputeTagTeamStatus re-derives a tag team's status, downgrading
// Bookable to Unbookable when fewer than two current partners are bookable.
// Exposed for the membership service, which changes partner composition.
func (s *RosterService) RecomputeTagTeamStatus(ctx context.Context, tagTeamID string) error {
	team, err := s.members.GetByID(ctx, domain.KindTagTeam, tagTeamID)
	if err != nil {
		return err
	}
	status, err := s.deriveCurrent(ctx, team)
	if err != nil {
		return err
	}
	if status == team.Status {
		return nil
	}
	return s.members.UpdateStatus(ctx, team.ID, status)
}

// transition wraps a guarded mutation in a transaction, recomputes and
// persists the status, writes the audit row and publishes the event after
// commit.
func (s *RosterService) transition(ctx context.Context, kind domain.RosterMemberKind, id string, input TransitionInput, name lifecycle.Transition, mutate func(context.Context, *domain.RosterMember, time.Time) error) (*domain.RosterMember, error) {
	when := s.effective(input.EffectiveDate)

	var member *domain.RosterMember
	var oldStatus domain.Status
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		var err error
		member, err = s.members.GetByID(ctx, kind, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(string(kind), map[string]any{"id": id})
			}
			return err
		}
		oldStatus = member.Status

		if err := mutate(ctx, member, when); err != nil {
			return err
		}

		status, err := s.deriveCurrent(ctx, member)
		if err != nil {
			return err
		}
		member.Status = status
		if err := s.members.UpdateStatus(ctx, member.ID, status); err != nil {
			return err
		}
		if kind == domain.KindWrestler {
			if err := s.recomputeTeamsOf(ctx, id); err != nil {
				return err
			}
		}
		return s.recordAudit(ctx, kind.EntityType(), id, name, string(oldStatus), string(member.Status), input.ActorID, when)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishStatusChanged(ctx, kind.EntityType(), id, input.ActorID, events.StatusChangedPayload{
		Transition:    string(name),
		OldStatus:     oldStatus,
		NewStatus:     member.Status,
		EffectiveDate: when,
	})
	return member, nil
}

// closeRestrictions clears suspension then injury, the fixed reversal order
// for compound transitions.
func (s *RosterService) closeRestrictions(ctx context.Context, kind domain.RosterMemberKind, id string, when time.Time) error {
	if _, err := s.spans.CloseOpen(ctx, kind.EntityType(), id, domain.SpanSuspension, when); err != nil {
		return err
	}
	_, err := s.spans.CloseOpen(ctx, kind.EntityType(), id, domain.SpanInjury, when)
	return err
}

// vacateAndRecompute closes the departing member's group ties and re-derives
// the status of every tag team it left.
func (s *RosterService) vacateAndRecompute(ctx context.Context, kind domain.RosterMemberKind, id string, when time.Time) error {
	closed, err := s.vacate(ctx, kind, id, when)
	if err != nil {
		return err
	}
	for _, m := range closed {
		if m.GroupType == domain.EntityTagTeam {
			if err := s.RecomputeTagTeamStatus(ctx, m.GroupID); err != nil {
				return err
			}
		}
	}
	return nil
}

// vacate closes every open membership the member holds; a departing manager
// or tag team additionally releases the memberships it leads as a group.
func (s *RosterService) vacate(ctx context.Context, kind domain.RosterMemberKind, id string, when time.Time) ([]domain.Membership, error) {
	closed, err := s.memberships.CloseAllForMember(ctx, kind.EntityType(), id, when)
	if err != nil {
		return nil, err
	}
	if kind == domain.KindManager || kind == domain.KindTagTeam {
		if _, err := s.memberships.CloseAllForGroup(ctx, kind.EntityType(), id, when); err != nil {
			return nil, err
		}
	}
	return closed, nil
}

// employPartners opens employment spans for a newly employed tag team's
// current partners that are not employed yet.
func (s *RosterService) employPartners(ctx context.Context, tagTeamID string, when time.Time) error {
	partners, err := s.memberships.ListOpenByGroup(ctx, domain.EntityTagTeam, tagTeamID)
	if err != nil {
		return err
	}
	for _, p := range partners {
		if p.MemberType != domain.EntityWrestler {
			continue
		}
		wrestler, err := s.members.GetByID(ctx, domain.KindWrestler, p.MemberID)
		if err != nil {
			return err
		}
		if !lifecycle.CanBeEmployed(wrestler.Status) {
			continue
		}
		if wrestler.Status == domain.StatusFutureEmployment {
			if _, err := s.spans.RescheduleOpen(ctx, domain.EntityWrestler, wrestler.ID, domain.SpanEmployment, when); err != nil {
				return err
			}
		} else if err := s.openSpan(ctx, domain.EntityWrestler, wrestler.ID, domain.SpanEmployment, when); err != nil {
			return err
		}
		status, err := s.deriveCurrent(ctx, wrestler)
		if err != nil {
			return err
		}
		if err := s.members.UpdateStatus(ctx, wrestler.ID, status); err != nil {
			return err
		}
	}
	return nil
}

// recomputeTeamsOf refreshes bookability of tag teams the wrestler is
// currently a partner in.
func (s *RosterService) recomputeTeamsOf(ctx context.Context, wrestlerID string) error {
	open, err := s.memberships.ListOpenByMember(ctx, domain.EntityWrestler, wrestlerID)
	if err != nil {
		return err
	}
	for _, m := range open {
		if m.GroupType != domain.EntityTagTeam {
			continue
		}
		if err := s.RecomputeTagTeamStatus(ctx, m.GroupID); err != nil {
			return err
		}
	}
	return nil
}

// deriveCurrent computes the member's status from its span history, applying
// the tag team partner rule on top of the base derivation.
func (s *RosterService) deriveCurrent(ctx context.Context, member *domain.RosterMember) (domain.Status, error) {
	spans, err := s.spans.ListByEntity(ctx, member.Kind.EntityType(), member.ID)
	if err != nil {
		return "", err
	}
	status := lifecycle.DeriveStatus(lifecycle.HistoryFromSpans(spans), s.clock.Now())
	if member.Kind == domain.KindTagTeam && status == domain.StatusBookable {
		enough, err := s.hasBookablePartners(ctx, member.ID)
		if err != nil {
			return "", err
		}
		if !enough {
			status = domain.StatusUnbookable
		}
	}
	return status, nil
}

func (s *RosterService) hasBookablePartners(ctx context.Context, tagTeamID string) (bool, error) {
	partners, err := s.memberships.ListOpenByGroup(ctx, domain.EntityTagTeam, tagTeamID)
	if err != nil {
		return false, err
	}
	bookable := 0
	for _, p := range partners {
		if p.MemberType != domain.EntityWrestler {
			continue
		}
		wrestler, err := s.members.GetByID(ctx, domain.KindWrestler, p.MemberID)
		if err != nil {
			return false, err
		}
		if wrestler.Status == domain.StatusBookable {
			bookable++
		}
	}
	return bookable >= 2, nil
}

func (s *RosterService) openSpan(ctx context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind, startedAt time.Time) error {
	return s.spans.Open(ctx, &domain.Span{
		EntityType: entityType,
		EntityID:   entityID,
		Kind:       kind,
		StartedAt:  startedAt,
	})
}

func (s *RosterService) recordAudit(ctx context.Context, entityType domain.EntityType, entityID string, name lifecycle.Transition, oldStatus, newStatus, actorID string, when time.Time) error {
	if s.audit == nil {
		return nil
	}
	entry := &repository.AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Transition: string(name),
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		OccurredAt: when,
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	return s.audit.Create(ctx, entry)
}

func (s *RosterService) publishStatusChanged(ctx context.Context, entityType domain.EntityType, entityID, actorID string, payload events.StatusChangedPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventStatusChanged,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Timestamp:  s.clock.Now(),
		Payload:    payload,
	})
}

func (s *RosterService) effective(date time.Time) time.Time {
	if date.IsZero() {
		return s.clock.Now()
	}
	return date
}
