package events

import (
	"time"

	"github.com/ringside/roster-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStatusChanged     EventType = "status_changed"
	EventActivationChanged EventType = "activation_changed"
	EventMembershipOpened  EventType = "membership_opened"
	EventMembershipClosed  EventType = "membership_closed"
	EventMatchBooked       EventType = "match_booked"
)

// Event represents a domain event emitted by services after a transition
// commits.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	EntityType domain.EntityType `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	ActorID    string            `json:"actor_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	Transition    string        `json:"transition"`
	OldStatus     domain.Status `json:"old_status"`
	NewStatus     domain.Status `json:"new_status"`
	EffectiveDate time.Time     `json:"effective_date"`
}

// ActivationChangedPayload payload.
type ActivationChangedPayload struct {
	Transition    string                  `json:"transition"`
	OldStatus     domain.ActivationStatus `json:"old_status"`
	NewStatus     domain.ActivationStatus `json:"new_status"`
	EffectiveDate time.Time               `json:"effective_date"`
}

// MembershipPayload payload for open/close of memberships.
type MembershipPayload struct {
	GroupType  domain.EntityType `json:"group_type"`
	GroupID    string            `json:"group_id"`
	MemberType domain.EntityType `json:"member_type"`
	MemberID   string            `json:"member_id"`
	At         time.Time         `json:"at"`
}

// MatchBookedPayload payload.
type MatchBookedPayload struct {
	EventID     string `json:"event_id"`
	MatchID     string `json:"match_id"`
	MatchType   string `json:"match_type"`
	Competitors int    `json:"competitors"`
}
