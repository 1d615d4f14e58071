package service

import (
	"context"
	"testing"
	"time"

	"github.com/ringside/roster-service/internal/domain"
)

type bookingFixture struct {
	service *BookingService
	venues  *fakeVenueRepo
	events  *fakeEventRepo
	members *fakeRosterRepo
	titles  *fakeTitleRepo
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		venues:  newFakeVenueRepo(),
		events:  newFakeEventRepo(),
		members: newFakeRosterRepo(),
		titles:  newFakeTitleRepo(),
	}
	f.service = NewBookingService(BookingDependencies{
		VenueRepo:  f.venues,
		EventRepo:  f.events,
		MemberRepo: f.members,
		TitleRepo:  f.titles,
		Clock:      &stubClock{now: testNow},
	})
	return f
}

// seedMember stores a roster member directly with the given status.
func (f *bookingFixture) seedMember(t *testing.T, kind domain.RosterMemberKind, name string, status domain.Status) *domain.RosterMember {
	t.Helper()
	ctx := context.Background()
	member := &domain.RosterMember{Kind: kind, Name: name, Status: domain.StatusUnemployed}
	if err := f.members.Create(ctx, member); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	if err := f.members.UpdateStatus(ctx, member.ID, status); err != nil {
		t.Fatalf("seed status: %v", err)
	}
	member.Status = status
	return member
}

// seedEvent creates an event scheduled at a venue, ready for match booking.
func (f *bookingFixture) seedEvent(t *testing.T, name string) *domain.Event {
	t.Helper()
	ctx := context.Background()
	venue := &domain.Venue{Name: name + " Arena"}
	if err := f.service.CreateVenue(ctx, venue); err != nil {
		t.Fatalf("seed venue: %v", err)
	}
	date := testNow.Add(30 * 24 * time.Hour)
	event := &domain.Event{Name: name, Date: &date, VenueID: &venue.ID}
	if err := f.service.CreateEvent(ctx, event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func (f *bookingFixture) singlesMatch(eventID string, a, b *domain.RosterMember) *domain.Match {
	return &domain.Match{
		EventID:   eventID,
		MatchType: "SINGLES",
		Competitors: []domain.MatchCompetitor{
			{Side: 0, CompetitorType: domain.EntityWrestler, CompetitorID: a.ID},
			{Side: 1, CompetitorType: domain.EntityWrestler, CompetitorID: b.ID},
		},
	}
}

func TestCreateEventValidatesVenue(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	venue := &domain.Venue{Name: "Grand Arena", City: "Chicago"}
	if err := f.service.CreateVenue(ctx, venue); err != nil {
		t.Fatalf("CreateVenue: %v", err)
	}

	date := testNow.Add(30 * 24 * time.Hour)
	event := &domain.Event{Name: "Summer Showdown", Date: &date, VenueID: &venue.ID}
	if err := f.service.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	missing := "missing-venue"
	bad := &domain.Event{Name: "Ghost Show", VenueID: &missing}
	conflictCode(t, f.service.CreateEvent(ctx, bad), "NOT_FOUND")

	if err := f.service.CreateEvent(ctx, &domain.Event{}); err == nil {
		t.Fatal("expected nameless event to be rejected")
	}
}

func TestBookMatch(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	event := f.seedEvent(t, "Summer Showdown")
	a := f.seedMember(t, domain.KindWrestler, "Ricky Steam", domain.StatusBookable)
	b := f.seedMember(t, domain.KindWrestler, "Max Granite", domain.StatusBookable)
	referee := f.seedMember(t, domain.KindReferee, "Earl Fair", domain.StatusBookable)

	belt := &domain.Title{Name: "World Championship", Status: domain.ActivationActive}
	if err := f.titles.Create(ctx, belt); err != nil {
		t.Fatalf("seed title: %v", err)
	}

	match := f.singlesMatch(event.ID, a, b)
	match.RefereeIDs = []string{referee.ID}
	match.TitleIDs = []string{belt.ID}
	if err := f.service.BookMatch(ctx, match); err != nil {
		t.Fatalf("BookMatch: %v", err)
	}

	_, matches, err := f.service.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one booked match, got %d", len(matches))
	}

	if err := f.service.RecordMatchResult(ctx, match.ID, "Ricky Steam by pinfall"); err != nil {
		t.Fatalf("RecordMatchResult: %v", err)
	}
	_, matches, _ = f.service.GetEvent(ctx, event.ID)
	if matches[0].Result != "Ricky Steam by pinfall" {
		t.Fatalf("result = %q", matches[0].Result)
	}
}

func TestBookMatchValidatesCard(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	event := f.seedEvent(t, "Summer Showdown")
	a := f.seedMember(t, domain.KindWrestler, "Ricky Steam", domain.StatusBookable)
	b := f.seedMember(t, domain.KindWrestler, "Max Granite", domain.StatusBookable)

	// Fewer than two competitors.
	solo := &domain.Match{
		EventID:     event.ID,
		Competitors: []domain.MatchCompetitor{{Side: 0, CompetitorType: domain.EntityWrestler, CompetitorID: a.ID}},
	}
	conflictCode(t, f.service.BookMatch(ctx, solo), "VALIDATION_FAILED")

	// Everyone on the same side.
	oneSided := f.singlesMatch(event.ID, a, b)
	oneSided.Competitors[1].Side = 0
	conflictCode(t, f.service.BookMatch(ctx, oneSided), "VALIDATION_FAILED")

	// Managers are not competitors.
	manager := f.seedMember(t, domain.KindManager, "Paul Ledger", domain.StatusBookable)
	invalid := f.singlesMatch(event.ID, a, b)
	invalid.Competitors[1] = domain.MatchCompetitor{Side: 1, CompetitorType: domain.EntityManager, CompetitorID: manager.ID}
	conflictCode(t, f.service.BookMatch(ctx, invalid), "VALIDATION_FAILED")
}

func TestBookMatchRequiresBookableParticipants(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	event := f.seedEvent(t, "Summer Showdown")
	a := f.seedMember(t, domain.KindWrestler, "Ricky Steam", domain.StatusBookable)

	// Injured competitor.
	hurt := f.seedMember(t, domain.KindWrestler, "Max Granite", domain.StatusInjured)
	conflictCode(t, f.service.BookMatch(ctx, f.singlesMatch(event.ID, a, hurt)), "CONFLICT")

	// Suspended referee.
	b := f.seedMember(t, domain.KindWrestler, "Vic Torres", domain.StatusBookable)
	benched := f.seedMember(t, domain.KindReferee, "Earl Fair", domain.StatusSuspended)
	withRef := f.singlesMatch(event.ID, a, b)
	withRef.RefereeIDs = []string{benched.ID}
	conflictCode(t, f.service.BookMatch(ctx, withRef), "CONFLICT")

	// Inactive title.
	shelved := &domain.Title{Name: "Retired Belt", Status: domain.ActivationInactive}
	if err := f.titles.Create(ctx, shelved); err != nil {
		t.Fatalf("seed title: %v", err)
	}
	forTitle := f.singlesMatch(event.ID, a, b)
	forTitle.TitleIDs = []string{shelved.ID}
	conflictCode(t, f.service.BookMatch(ctx, forTitle), "CONFLICT")
}

func TestBookMatchRequiresScheduledEvent(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	a := f.seedMember(t, domain.KindWrestler, "Ricky Steam", domain.StatusBookable)
	b := f.seedMember(t, domain.KindWrestler, "Max Granite", domain.StatusBookable)

	// An event without a date and venue cannot carry a card yet.
	unscheduled := &domain.Event{Name: "Card Subject To Change"}
	if err := f.service.CreateEvent(ctx, unscheduled); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	conflictCode(t, f.service.BookMatch(ctx, f.singlesMatch(unscheduled.ID, a, b)), "CONFLICT")

	// Scheduling it unblocks booking.
	venue := &domain.Venue{Name: "Grand Arena"}
	if err := f.service.CreateVenue(ctx, venue); err != nil {
		t.Fatalf("CreateVenue: %v", err)
	}
	date := testNow.Add(14 * 24 * time.Hour)
	unscheduled.Date = &date
	unscheduled.VenueID = &venue.ID
	if err := f.service.UpdateEvent(ctx, unscheduled); err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if err := f.service.BookMatch(ctx, f.singlesMatch(unscheduled.ID, a, b)); err != nil {
		t.Fatalf("BookMatch after scheduling: %v", err)
	}
}

func TestBookMatchOnDeletedEvent(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	event := f.seedEvent(t, "Summer Showdown")
	a := f.seedMember(t, domain.KindWrestler, "Ricky Steam", domain.StatusBookable)
	b := f.seedMember(t, domain.KindWrestler, "Max Granite", domain.StatusBookable)

	if err := f.service.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	conflictCode(t, f.service.BookMatch(ctx, f.singlesMatch(event.ID, a, b)), "CONFLICT")
}
