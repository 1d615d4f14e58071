package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/events"
	"github.com/ringside/roster-service/internal/repository"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// AuditService exposes the transition audit trail and logs committed
// transitions. Audit rows themselves are written inside the transition
// transaction; the subscribers here only observe after commit.
type AuditService struct {
	audit  repository.AuditRepository
	logger *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(audit repository.AuditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{audit: audit, logger: logger}
}

// History returns the recorded transitions for one entity, newest first.
func (s *AuditService) History(ctx context.Context, entityType domain.EntityType, entityID string, limit, offset int) ([]repository.AuditEntry, error) {
	entries, err := s.audit.ListByEntity(ctx, entityType, entityID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// RegisterHandlers subscribes structured logging for committed transitions.
func (s *AuditService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventStatusChanged, s.logStatusChanged)
	dispatcher.Subscribe(events.EventActivationChanged, s.logActivationChanged)
	dispatcher.Subscribe(events.EventMembershipOpened, s.logMembership)
	dispatcher.Subscribe(events.EventMembershipClosed, s.logMembership)
	dispatcher.Subscribe(events.EventMatchBooked, s.logMatchBooked)
}

func (s *AuditService) logStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("status changed",
		zap.String("entity_type", string(event.EntityType)),
		zap.String("entity_id", event.EntityID),
		zap.String("transition", payload.Transition),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
		zap.Time("effective_date", payload.EffectiveDate),
	)
	return nil
}

func (s *AuditService) logActivationChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ActivationChangedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("activation changed",
		zap.String("entity_type", string(event.EntityType)),
		zap.String("entity_id", event.EntityID),
		zap.String("transition", payload.Transition),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
		zap.Time("effective_date", payload.EffectiveDate),
	)
	return nil
}

func (s *AuditService) logMembership(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MembershipPayload)
	if !ok {
		return nil
	}
	s.logger.Info(string(event.Type),
		zap.String("group_type", string(payload.GroupType)),
		zap.String("group_id", payload.GroupID),
		zap.String("member_type", string(payload.MemberType)),
		zap.String("member_id", payload.MemberID),
		zap.Time("at", payload.At),
	)
	return nil
}

func (s *AuditService) logMatchBooked(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MatchBookedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("match booked",
		zap.String("event_id", payload.EventID),
		zap.String("match_id", payload.MatchID),
		zap.String("match_type", payload.MatchType),
		zap.Int("competitors", payload.Competitors),
	)
	return nil
}
