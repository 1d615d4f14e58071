package domain

import "time"

// Venue is a location where events take place.
type Venue struct {
	ID            string
	Name          string
	StreetAddress string
	City          string
	State         string
	Zipcode       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Event is a scheduled show with a match card.
type Event struct {
	ID        string
	Name      string
	Date      *time.Time
	VenueID   *string
	Preview   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// MatchSide identifies which corner a competitor is booked into.
type MatchSide int

// Match is one bout on an event's card. Competitors are wrestlers or tag
// teams; a match may be contested for zero or more titles.
type Match struct {
	ID          string
	EventID     string
	MatchNumber int
	MatchType   string
	Competitors []MatchCompetitor
	RefereeIDs  []string
	TitleIDs    []string
	Result      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MatchCompetitor books one roster member into one side of a match.
type MatchCompetitor struct {
	Side           MatchSide
	CompetitorType EntityType
	CompetitorID   string
}

// User is an operator of the admin API.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRole enumerates operator roles.
type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleBooker UserRole = "BOOKER"
)
