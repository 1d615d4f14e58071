package dto

import (
	"time"

	"github.com/ringside/roster-service/internal/domain"
)

// CreateMemberRequest payload.
type CreateMemberRequest struct {
	Name          string `json:"name"`
	Hometown      string `json:"hometown"`
	HeightCm      int    `json:"height_cm"`
	WeightLbs     int    `json:"weight_lbs"`
	SignatureMove string `json:"signature_move"`
}

// UpdateMemberRequest payload. Absent fields are left unchanged.
type UpdateMemberRequest struct {
	Name          *string `json:"name"`
	Hometown      *string `json:"hometown"`
	HeightCm      *int    `json:"height_cm"`
	WeightLbs     *int    `json:"weight_lbs"`
	SignatureMove *string `json:"signature_move"`
}

// TransitionRequest payload for lifecycle transition endpoints. An absent
// effective date means now.
type TransitionRequest struct {
	EffectiveDate *time.Time `json:"effective_date"`
}

// MemberSummary response.
type MemberSummary struct {
	ID            string                  `json:"id"`
	Kind          domain.RosterMemberKind `json:"kind"`
	Name          string                  `json:"name"`
	Hometown      string                  `json:"hometown,omitempty"`
	HeightCm      int                     `json:"height_cm,omitempty"`
	WeightLbs     int                     `json:"weight_lbs,omitempty"`
	SignatureMove string                  `json:"signature_move,omitempty"`
	Status        domain.Status           `json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// SpanResponse is one lifecycle span in a member's history.
type SpanResponse struct {
	ID        string          `json:"id"`
	Kind      domain.SpanKind `json:"kind"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at"`
}

// MemberDetailResponse is a member with its span history.
type MemberDetailResponse struct {
	MemberSummary
	Spans []SpanResponse `json:"spans"`
}

// StatusAtResponse reports the derived status at a point in time.
type StatusAtResponse struct {
	ID     string        `json:"id"`
	At     time.Time     `json:"at"`
	Status domain.Status `json:"status"`
}

// AuditEntryResponse is one recorded transition.
type AuditEntryResponse struct {
	ID         string    `json:"id"`
	Transition string    `json:"transition"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	ActorID    *string   `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MembershipResponse is one open or closed group membership.
type MembershipResponse struct {
	ID         string            `json:"id"`
	GroupType  domain.EntityType `json:"group_type"`
	GroupID    string            `json:"group_id"`
	MemberType domain.EntityType `json:"member_type"`
	MemberID   string            `json:"member_id"`
	JoinedAt   time.Time         `json:"joined_at"`
	LeftAt     *time.Time        `json:"left_at"`
}

// MembershipRequest payload for join/leave style endpoints.
type MembershipRequest struct {
	MemberKind domain.RosterMemberKind `json:"member_kind"`
	MemberID   string                  `json:"member_id"`
	At         *time.Time              `json:"at"`
}
