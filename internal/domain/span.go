package domain

import "time"

// EntityType discriminates which aggregate a span or membership row belongs to.
type EntityType string

const (
	EntityWrestler EntityType = "WRESTLER"
	EntityManager  EntityType = "MANAGER"
	EntityReferee  EntityType = "REFEREE"
	EntityTagTeam  EntityType = "TAG_TEAM"
	EntityTitle    EntityType = "TITLE"
	EntityStable   EntityType = "STABLE"
)

// SpanKind enumerates the relationship types tracked as time spans.
type SpanKind string

const (
	SpanEmployment SpanKind = "EMPLOYMENT"
	SpanInjury     SpanKind = "INJURY"
	SpanSuspension SpanKind = "SUSPENSION"
	SpanRetirement SpanKind = "RETIREMENT"
	SpanActivation SpanKind = "ACTIVATION"
)

// Span is one contiguous period an entity held a particular state.
// EndedAt nil means the span is still open. Spans are append-only: the only
// permitted mutation after insert is setting EndedAt.
type Span struct {
	ID         string
	EntityType EntityType
	EntityID   string
	Kind       SpanKind
	StartedAt  time.Time
	EndedAt    *time.Time
	CreatedAt  time.Time
}

// Open reports whether the span has not been closed.
func (s Span) Open() bool {
	return s.EndedAt == nil
}

// Started reports whether the span has taken effect at the given instant.
func (s Span) Started(now time.Time) bool {
	return !s.StartedAt.After(now)
}

// Covers reports whether the span is in effect at the given instant.
func (s Span) Covers(now time.Time) bool {
	return s.Started(now) && s.Open()
}

// Membership is one contiguous period a member belonged to a group
// (stable member, tag team partner, or a management assignment).
type Membership struct {
	ID         string
	GroupType  EntityType
	GroupID    string
	MemberType EntityType
	MemberID   string
	JoinedAt   time.Time
	LeftAt     *time.Time
	CreatedAt  time.Time
}

// Open reports whether the membership is still current.
func (m Membership) Open() bool {
	return m.LeftAt == nil
}
