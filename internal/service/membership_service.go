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

// MembershipService manages group composition: stable members, tag team
// partners and management assignments. Guards consult the members' current
// status before any membership is opened.
type MembershipService struct {
	members     repository.RosterRepository
	stables     repository.StableRepository
	memberships repository.MembershipRepository
	roster      *RosterService
	dispatcher  events.Dispatcher
	tx          TransactionManager
	clock       lifecycle.Clock
}

// MembershipDependencies bundles collaborators for the membership service.
type MembershipDependencies struct {
	MemberRepo     repository.RosterRepository
	StableRepo     repository.StableRepository
	MembershipRepo repository.MembershipRepository
	Roster         *RosterService
	Dispatcher     events.Dispatcher
	Tx             TransactionManager
	Clock          lifecycle.Clock
}

// NewMembershipService constructs the service.
func NewMembershipService(deps MembershipDependencies) *MembershipService {
	if deps.Clock == nil {
		deps.Clock = lifecycle.SystemClock()
	}
	if deps.Tx == nil {
		deps.Tx = NoopTransactionManager{}
	}
	return &MembershipService{
		members:     deps.MemberRepo,
		stables:     deps.StableRepo,
		memberships: deps.MembershipRepo,
		roster:      deps.Roster,
		dispatcher:  deps.Dispatcher,
		tx:          deps.Tx,
		clock:       deps.Clock,
	}
}

// JoinStable adds a wrestler or tag team to a stable. Suspended, injured or
// retired members cannot join.
func (s *MembershipService) JoinStable(ctx context.Context, stableID string, memberKind domain.RosterMemberKind, memberID string, at time.Time) error {
	if memberKind != domain.KindWrestler && memberKind != domain.KindTagTeam {
		return apperrors.NewValidationError("only wrestlers and tag teams can join stables", map[string]any{"kind": memberKind})
	}
	when := s.effective(at)
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		if _, err := s.stables.GetByID(ctx, stableID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("stable", map[string]any{"id": stableID})
			}
			return err
		}
		member, err := s.members.GetByID(ctx, memberKind, memberID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(string(memberKind), map[string]any{"id": memberID})
			}
			return err
		}
		if member.Status != domain.StatusBookable && member.Status != domain.StatusUnbookable {
			return apperrors.NewConflict("member cannot join a stable in its current status", map[string]any{
				"current_status": member.Status,
			})
		}
		existing, err := s.memberships.GetOpenPair(ctx, domain.EntityStable, stableID, memberKind.EntityType(), memberID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflict("already a member of this stable", nil)
		}
		// One stable at a time.
		open, err := s.memberships.ListOpenByMember(ctx, memberKind.EntityType(), memberID)
		if err != nil {
			return err
		}
		for _, m := range open {
			if m.GroupType == domain.EntityStable {
				return apperrors.NewConflict("member already belongs to a stable", map[string]any{"stable_id": m.GroupID})
			}
		}
		return s.memberships.Add(ctx, &domain.Membership{
			GroupType:  domain.EntityStable,
			GroupID:    stableID,
			MemberType: memberKind.EntityType(),
			MemberID:   memberID,
			JoinedAt:   when,
		})
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.publishMembership(ctx, events.EventMembershipOpened, domain.EntityStable, stableID, memberKind.EntityType(), memberID, when)
	return nil
}

// LeaveStable closes a stable membership.
func (s *MembershipService) LeaveStable(ctx context.Context, stableID string, memberKind domain.RosterMemberKind, memberID string, at time.Time) error {
	when := s.effective(at)
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		closed, err := s.memberships.CloseOpenPair(ctx, domain.EntityStable, stableID, memberKind.EntityType(), memberID, when)
		if err != nil {
			return err
		}
		if !closed {
			return apperrors.NewNotFound("stable membership", map[string]any{"stable_id": stableID, "member_id": memberID})
		}
		return nil
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.publishMembership(ctx, events.EventMembershipClosed, domain.EntityStable, stableID, memberKind.EntityType(), memberID, when)
	return nil
}

// AddPartner adds a wrestler to a tag team and refreshes the team's
// bookability.
func (s *MembershipService) AddPartner(ctx context.Context, tagTeamID, wrestlerID string, at time.Time) error {
	when := s.effective(at)
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		if _, err := s.members.GetByID(ctx, domain.KindTagTeam, tagTeamID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("tag team", map[string]any{"id": tagTeamID})
			}
			return err
		}
		wrestler, err := s.members.GetByID(ctx, domain.KindWrestler, wrestlerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("wrestler", map[string]any{"id": wrestlerID})
			}
			return err
		}
		if wrestler.Status == domain.StatusRetired {
			return apperrors.NewConflict("retired wrestlers cannot join a tag team", map[string]any{
				"current_status": wrestler.Status,
			})
		}
		existing, err := s.memberships.GetOpenPair(ctx, domain.EntityTagTeam, tagTeamID, domain.EntityWrestler, wrestlerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflict("already a partner in this tag team", nil)
		}
		if err := s.memberships.Add(ctx, &domain.Membership{
			GroupType:  domain.EntityTagTeam,
			GroupID:    tagTeamID,
			MemberType: domain.EntityWrestler,
			MemberID:   wrestlerID,
			JoinedAt:   when,
		}); err != nil {
			return err
		}
		return s.roster.RecomputeTagTeamStatus(ctx, tagTeamID)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.publishMembership(ctx, events.EventMembershipOpened, domain.EntityTagTeam, tagTeamID, domain.EntityWrestler, wrestlerID, when)
	return nil
}

// RemovePartner closes a tag team partnership and refreshes the team's
// bookability.
func (s *MembershipService) RemovePartner(ctx context.Context, tagTeamID, wrestlerID string, at time.Time) error {
	when := s.effective(at)
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		closed, err := s.memberships.CloseOpenPair(ctx, domain.EntityTagTeam, tagTeamID, domain.EntityWrestler, wrestlerID, when)
		if err != nil {
			return err
		}
		if !closed {
			return apperrors.NewNotFound("tag team partnership", map[string]any{"tag_team_id": tagTeamID, "wrestler_id": wrestlerID})
		}
		return s.roster.RecomputeTagTeamStatus(ctx, tagTeamID)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.publishMembership(ctx, events.EventMembershipClosed, domain.EntityTagTeam, tagTeamID, domain.EntityWrestler, wrestlerID, when)
	return nil
}

// HireManager assigns a manager to a wrestler or tag team. The manager must
// be bookable and the client must not be retired.
func (s *MembershipService) HireManager(ctx context.Context, managerID string, clientKind domain.RosterMemberKind, clientID string, at time.Time) error {
	if clientKind != domain.KindWrestler && clientKind != domain.KindTagTeam {
		return apperrors.NewValidationError("managers can only manage wrestlers and tag teams", map[string]any{"kind": clientKind})
	}
	when := s.effective(at)
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		manager, err := s.members.GetByID(ctx, domain.KindManager, managerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("manager", map[string]any{"id": managerID})
			}
			return err
		}
		if manager.Status != domain.StatusBookable {
			return apperrors.NewConflict("manager cannot take clients in its current status", map[string]any{
				"current_status": manager.Status,
			})
		}
		client, err := s.members.GetByID(ctx, clientKind, clientID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound(string(clientKind), map[string]any{"id": clientID})
			}
			return err
		}
		if client.Status == domain.StatusRetired {
			return apperrors.NewConflict("retired members cannot be managed", map[string]any{
				"current_status": client.Status,
			})
		}
		existing, err := s.memberships.GetOpenPair(ctx, domain.EntityManager, managerID, clientKind.EntityType(), clientID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflict("manager already manages this member", nil)
		}
		return s.memberships.Add(ctx, &domain.Membership{
			GroupType:  domain.EntityManager,
			GroupID:    managerID,
			MemberType: clientKind.EntityType(),
			MemberID:   clientID,
			JoinedAt:   when,
		})
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.publishMembership(ctx, events.EventMembershipOpened, domain.EntityManager, managerID, clientKind.EntityType(), clientID, when)
	return nil
}

// FireManager closes a management assignment.
func (s *MembershipService) FireManager(ctx context.Context, managerID string, clientKind domain.RosterMemberKind, clientID string, at time.Time) error {
	when := s.effective(at)
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		closed, err := s.memberships.CloseOpenPair(ctx, domain.EntityManager, managerID, clientKind.EntityType(), clientID, when)
		if err != nil {
			return err
		}
		if !closed {
			return apperrors.NewNotFound("management assignment", map[string]any{"manager_id": managerID, "client_id": clientID})
		}
		return nil
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.publishMembership(ctx, events.EventMembershipClosed, domain.EntityManager, managerID, clientKind.EntityType(), clientID, when)
	return nil
}

// ListClients returns the members a manager currently manages.
func (s *MembershipService) ListClients(ctx context.Context, managerID string) ([]domain.Membership, error) {
	return s.memberships.ListOpenByGroup(ctx, domain.EntityManager, managerID)
}

// ListPartners returns a tag team's current partners.
func (s *MembershipService) ListPartners(ctx context.Context, tagTeamID string) ([]domain.Membership, error) {
	return s.memberships.ListOpenByGroup(ctx, domain.EntityTagTeam, tagTeamID)
}

func (s *MembershipService) publishMembership(ctx context.Context, eventType events.EventType, groupType domain.EntityType, groupID string, memberType domain.EntityType, memberID string, at time.Time) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityType: groupType,
		EntityID:   groupID,
		Timestamp:  s.clock.Now(),
		Payload: events.MembershipPayload{
			GroupType:  groupType,
			GroupID:    groupID,
			MemberType: memberType,
			MemberID:   memberID,
			At:         at,
		},
	})
}

func (s *MembershipService) effective(at time.Time) time.Time {
	if at.IsZero() {
		return s.clock.Now()
	}
	return at
}
