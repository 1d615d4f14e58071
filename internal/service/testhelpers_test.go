package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/repository"
)

// stubClock pins time for deterministic derivation.
type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

func (c *stubClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeRosterRepo is an in-memory RosterRepository.
type fakeRosterRepo struct {
	seq     int
	members map[string]*domain.RosterMember
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{members: map[string]*domain.RosterMember{}}
}

func (r *fakeRosterRepo) Create(_ context.Context, member *domain.RosterMember) error {
	r.seq++
	member.ID = fmt.Sprintf("member-%d", r.seq)
	member.CreatedAt = testNow
	member.UpdatedAt = testNow
	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *fakeRosterRepo) Update(_ context.Context, member *domain.RosterMember) error {
	stored, ok := r.members[member.ID]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *fakeRosterRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	stored, ok := r.members[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	return nil
}

func (r *fakeRosterRepo) GetByID(_ context.Context, kind domain.RosterMemberKind, id string) (*domain.RosterMember, error) {
	stored, ok := r.members[id]
	if !ok || stored.Kind != kind {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeRosterRepo) ListWithFilter(_ context.Context, filter repository.RosterFilter) ([]domain.RosterMember, error) {
	var result []domain.RosterMember
	for _, m := range r.members {
		if m.DeletedAt != nil && !filter.IncludeDeleted {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if m.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

func (r *fakeRosterRepo) SoftDelete(_ context.Context, kind domain.RosterMemberKind, id string) error {
	stored, ok := r.members[id]
	if !ok || stored.Kind != kind || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	deleted := testNow
	stored.DeletedAt = &deleted
	return nil
}

func (r *fakeRosterRepo) Restore(_ context.Context, kind domain.RosterMemberKind, id string) error {
	stored, ok := r.members[id]
	if !ok || stored.Kind != kind || stored.DeletedAt == nil {
		return pgx.ErrNoRows
	}
	stored.DeletedAt = nil
	return nil
}

// fakeSpanRepo is an in-memory SpanRepository.
type fakeSpanRepo struct {
	seq   int
	spans []*domain.Span
}

func newFakeSpanRepo() *fakeSpanRepo {
	return &fakeSpanRepo{}
}

func (r *fakeSpanRepo) Open(_ context.Context, span *domain.Span) error {
	r.seq++
	span.ID = fmt.Sprintf("span-%d", r.seq)
	span.CreatedAt = testNow
	clone := *span
	r.spans = append(r.spans, &clone)
	return nil
}

func (r *fakeSpanRepo) CloseOpen(_ context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind, endedAt time.Time) (bool, error) {
	for _, span := range r.spans {
		if span.EntityType == entityType && span.EntityID == entityID && span.Kind == kind && span.EndedAt == nil {
			end := endedAt
			span.EndedAt = &end
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSpanRepo) RescheduleOpen(_ context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind, startedAt time.Time) (bool, error) {
	for _, span := range r.spans {
		if span.EntityType == entityType && span.EntityID == entityID && span.Kind == kind && span.EndedAt == nil {
			span.StartedAt = startedAt
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSpanRepo) GetOpen(_ context.Context, entityType domain.EntityType, entityID string, kind domain.SpanKind) (*domain.Span, error) {
	for _, span := range r.spans {
		if span.EntityType == entityType && span.EntityID == entityID && span.Kind == kind && span.EndedAt == nil {
			clone := *span
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeSpanRepo) ListByEntity(_ context.Context, entityType domain.EntityType, entityID string) ([]domain.Span, error) {
	var result []domain.Span
	for _, span := range r.spans {
		if span.EntityType == entityType && span.EntityID == entityID {
			result = append(result, *span)
		}
	}
	return result, nil
}

func (r *fakeSpanRepo) byKind(entityType domain.EntityType, entityID string, kind domain.SpanKind) []*domain.Span {
	var result []*domain.Span
	for _, span := range r.spans {
		if span.EntityType == entityType && span.EntityID == entityID && span.Kind == kind {
			result = append(result, span)
		}
	}
	return result
}

// fakeMembershipRepo is an in-memory MembershipRepository.
type fakeMembershipRepo struct {
	seq         int
	memberships []*domain.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{}
}

func (r *fakeMembershipRepo) Add(_ context.Context, m *domain.Membership) error {
	r.seq++
	m.ID = fmt.Sprintf("membership-%d", r.seq)
	m.CreatedAt = testNow
	clone := *m
	r.memberships = append(r.memberships, &clone)
	return nil
}

func (r *fakeMembershipRepo) CloseOpenPair(_ context.Context, groupType domain.EntityType, groupID string, memberType domain.EntityType, memberID string, leftAt time.Time) (bool, error) {
	closed := false
	for _, m := range r.memberships {
		if m.GroupType == groupType && m.GroupID == groupID && m.MemberType == memberType && m.MemberID == memberID && m.LeftAt == nil {
			left := leftAt
			m.LeftAt = &left
			closed = true
		}
	}
	return closed, nil
}

func (r *fakeMembershipRepo) CloseAllForGroup(_ context.Context, groupType domain.EntityType, groupID string, leftAt time.Time) (int64, error) {
	var count int64
	for _, m := range r.memberships {
		if m.GroupType == groupType && m.GroupID == groupID && m.LeftAt == nil {
			left := leftAt
			m.LeftAt = &left
			count++
		}
	}
	return count, nil
}

func (r *fakeMembershipRepo) CloseAllForMember(_ context.Context, memberType domain.EntityType, memberID string, leftAt time.Time) ([]domain.Membership, error) {
	var closed []domain.Membership
	for _, m := range r.memberships {
		if m.MemberType == memberType && m.MemberID == memberID && m.LeftAt == nil {
			left := leftAt
			m.LeftAt = &left
			closed = append(closed, *m)
		}
	}
	return closed, nil
}

func (r *fakeMembershipRepo) ListOpenByGroup(_ context.Context, groupType domain.EntityType, groupID string) ([]domain.Membership, error) {
	var result []domain.Membership
	for _, m := range r.memberships {
		if m.GroupType == groupType && m.GroupID == groupID && m.LeftAt == nil {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *fakeMembershipRepo) ListOpenByMember(_ context.Context, memberType domain.EntityType, memberID string) ([]domain.Membership, error) {
	var result []domain.Membership
	for _, m := range r.memberships {
		if m.MemberType == memberType && m.MemberID == memberID && m.LeftAt == nil {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *fakeMembershipRepo) GetOpenPair(_ context.Context, groupType domain.EntityType, groupID string, memberType domain.EntityType, memberID string) (*domain.Membership, error) {
	for _, m := range r.memberships {
		if m.GroupType == groupType && m.GroupID == groupID && m.MemberType == memberType && m.MemberID == memberID && m.LeftAt == nil {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

// fakeTitleRepo is an in-memory TitleRepository.
type fakeTitleRepo struct {
	seq    int
	titles map[string]*domain.Title
}

func newFakeTitleRepo() *fakeTitleRepo {
	return &fakeTitleRepo{titles: map[string]*domain.Title{}}
}

func (r *fakeTitleRepo) Create(_ context.Context, title *domain.Title) error {
	r.seq++
	title.ID = fmt.Sprintf("title-%d", r.seq)
	title.CreatedAt = testNow
	title.UpdatedAt = testNow
	clone := *title
	r.titles[title.ID] = &clone
	return nil
}

func (r *fakeTitleRepo) Update(_ context.Context, title *domain.Title) error {
	stored, ok := r.titles[title.ID]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	clone := *title
	r.titles[title.ID] = &clone
	return nil
}

func (r *fakeTitleRepo) UpdateStatus(_ context.Context, id string, status domain.ActivationStatus) error {
	stored, ok := r.titles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	return nil
}

func (r *fakeTitleRepo) GetByID(_ context.Context, id string) (*domain.Title, error) {
	stored, ok := r.titles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeTitleRepo) ListWithFilter(_ context.Context, filter repository.ActivatableFilter) ([]domain.Title, error) {
	var result []domain.Title
	for _, t := range r.titles {
		if t.DeletedAt != nil && !filter.IncludeDeleted {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if t.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTitleRepo) SoftDelete(_ context.Context, id string) error {
	stored, ok := r.titles[id]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	deleted := testNow
	stored.DeletedAt = &deleted
	return nil
}

func (r *fakeTitleRepo) Restore(_ context.Context, id string) error {
	stored, ok := r.titles[id]
	if !ok || stored.DeletedAt == nil {
		return pgx.ErrNoRows
	}
	stored.DeletedAt = nil
	return nil
}

// fakeStableRepo is an in-memory StableRepository.
type fakeStableRepo struct {
	seq     int
	stables map[string]*domain.Stable
}

func newFakeStableRepo() *fakeStableRepo {
	return &fakeStableRepo{stables: map[string]*domain.Stable{}}
}

func (r *fakeStableRepo) Create(_ context.Context, stable *domain.Stable) error {
	r.seq++
	stable.ID = fmt.Sprintf("stable-%d", r.seq)
	stable.CreatedAt = testNow
	stable.UpdatedAt = testNow
	clone := *stable
	r.stables[stable.ID] = &clone
	return nil
}

func (r *fakeStableRepo) Update(_ context.Context, stable *domain.Stable) error {
	stored, ok := r.stables[stable.ID]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	clone := *stable
	r.stables[stable.ID] = &clone
	return nil
}

func (r *fakeStableRepo) UpdateStatus(_ context.Context, id string, status domain.ActivationStatus) error {
	stored, ok := r.stables[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	return nil
}

func (r *fakeStableRepo) GetByID(_ context.Context, id string) (*domain.Stable, error) {
	stored, ok := r.stables[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeStableRepo) ListWithFilter(_ context.Context, filter repository.ActivatableFilter) ([]domain.Stable, error) {
	var result []domain.Stable
	for _, st := range r.stables {
		if st.DeletedAt != nil && !filter.IncludeDeleted {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if st.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *st)
	}
	return result, nil
}

func (r *fakeStableRepo) SoftDelete(_ context.Context, id string) error {
	stored, ok := r.stables[id]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	deleted := testNow
	stored.DeletedAt = &deleted
	return nil
}

func (r *fakeStableRepo) Restore(_ context.Context, id string) error {
	stored, ok := r.stables[id]
	if !ok || stored.DeletedAt == nil {
		return pgx.ErrNoRows
	}
	stored.DeletedAt = nil
	return nil
}

// fakeVenueRepo is an in-memory VenueRepository.
type fakeVenueRepo struct {
	seq    int
	venues map[string]*domain.Venue
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{venues: map[string]*domain.Venue{}}
}

func (r *fakeVenueRepo) Create(_ context.Context, venue *domain.Venue) error {
	r.seq++
	venue.ID = fmt.Sprintf("venue-%d", r.seq)
	venue.CreatedAt = testNow
	venue.UpdatedAt = testNow
	clone := *venue
	r.venues[venue.ID] = &clone
	return nil
}

func (r *fakeVenueRepo) Update(_ context.Context, venue *domain.Venue) error {
	stored, ok := r.venues[venue.ID]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	clone := *venue
	r.venues[venue.ID] = &clone
	return nil
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id string) (*domain.Venue, error) {
	stored, ok := r.venues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeVenueRepo) List(_ context.Context, search *string, _, _ int) ([]domain.Venue, error) {
	var result []domain.Venue
	for _, v := range r.venues {
		if v.DeletedAt != nil {
			continue
		}
		if search != nil && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(*search)) {
			continue
		}
		result = append(result, *v)
	}
	return result, nil
}

func (r *fakeVenueRepo) SoftDelete(_ context.Context, id string) error {
	stored, ok := r.venues[id]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	deleted := testNow
	stored.DeletedAt = &deleted
	return nil
}

func (r *fakeVenueRepo) Restore(_ context.Context, id string) error {
	stored, ok := r.venues[id]
	if !ok || stored.DeletedAt == nil {
		return pgx.ErrNoRows
	}
	stored.DeletedAt = nil
	return nil
}

// fakeEventRepo is an in-memory EventRepository.
type fakeEventRepo struct {
	seq     int
	events  map[string]*domain.Event
	matches []*domain.Match
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]*domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.seq++
	event.ID = fmt.Sprintf("event-%d", r.seq)
	event.CreatedAt = testNow
	event.UpdatedAt = testNow
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	stored, ok := r.events[event.ID]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	stored, ok := r.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeEventRepo) List(_ context.Context, search *string, _, _ int) ([]domain.Event, error) {
	var result []domain.Event
	for _, e := range r.events {
		if e.DeletedAt != nil {
			continue
		}
		if search != nil && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(*search)) {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (r *fakeEventRepo) SoftDelete(_ context.Context, id string) error {
	stored, ok := r.events[id]
	if !ok || stored.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	deleted := testNow
	stored.DeletedAt = &deleted
	return nil
}

func (r *fakeEventRepo) Restore(_ context.Context, id string) error {
	stored, ok := r.events[id]
	if !ok || stored.DeletedAt == nil {
		return pgx.ErrNoRows
	}
	stored.DeletedAt = nil
	return nil
}

func (r *fakeEventRepo) AddMatch(_ context.Context, match *domain.Match) error {
	r.seq++
	match.ID = fmt.Sprintf("match-%d", r.seq)
	match.CreatedAt = testNow
	clone := *match
	r.matches = append(r.matches, &clone)
	return nil
}

func (r *fakeEventRepo) UpdateMatchResult(_ context.Context, matchID, result string) error {
	for _, m := range r.matches {
		if m.ID == matchID {
			m.Result = result
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeEventRepo) ListMatches(_ context.Context, eventID string) ([]domain.Match, error) {
	var result []domain.Match
	for _, m := range r.matches {
		if m.EventID == eventID {
			result = append(result, *m)
		}
	}
	return result, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = testNow
	user.UpdatedAt = testNow
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	var result []domain.User
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

// fakeAuditRepo records audit entries in memory.
type fakeAuditRepo struct {
	seq     int
	entries []repository.AuditEntry
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *repository.AuditEntry) error {
	r.seq++
	entry.ID = fmt.Sprintf("audit-%d", r.seq)
	entry.CreatedAt = testNow
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, entityType domain.EntityType, entityID string, _, _ int) ([]repository.AuditEntry, error) {
	var result []repository.AuditEntry
	for _, entry := range r.entries {
		if entry.EntityType == entityType && entry.EntityID == entityID {
			result = append(result, entry)
		}
	}
	return result, nil
}
