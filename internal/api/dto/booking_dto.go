package dto

import (
	"time"

	"github.com/ringside/roster-service/internal/domain"
)

// VenueRequest payload.
type VenueRequest struct {
	Name          string `json:"name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zipcode       string `json:"zipcode"`
}

// VenueResponse response.
type VenueResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Zipcode       string    `json:"zipcode"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventRequest payload. Date and venue may be omitted and set later.
type EventRequest struct {
	Name    string     `json:"name"`
	Date    *time.Time `json:"date"`
	VenueID *string    `json:"venue_id"`
	Preview string     `json:"preview"`
}

// EventResponse response.
type EventResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      *time.Time `json:"date"`
	VenueID   *string    `json:"venue_id"`
	Preview   string     `json:"preview,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EventDetailResponse is an event with its match card.
type EventDetailResponse struct {
	EventResponse
	Matches []MatchResponse `json:"matches"`
}

// MatchCompetitorRequest books one competitor into one side.
type MatchCompetitorRequest struct {
	Side           int               `json:"side"`
	CompetitorType domain.EntityType `json:"competitor_type"`
	CompetitorID   string            `json:"competitor_id"`
}

// BookMatchRequest payload.
type BookMatchRequest struct {
	MatchNumber int                      `json:"match_number"`
	MatchType   string                   `json:"match_type"`
	Competitors []MatchCompetitorRequest `json:"competitors"`
	RefereeIDs  []string                 `json:"referee_ids"`
	TitleIDs    []string                 `json:"title_ids"`
}

// MatchResultRequest payload.
type MatchResultRequest struct {
	Result string `json:"result"`
}

// MatchResponse response.
type MatchResponse struct {
	ID          string                   `json:"id"`
	EventID     string                   `json:"event_id"`
	MatchNumber int                      `json:"match_number"`
	MatchType   string                   `json:"match_type"`
	Competitors []MatchCompetitorRequest `json:"competitors"`
	RefereeIDs  []string                 `json:"referee_ids"`
	TitleIDs    []string                 `json:"title_ids"`
	Result      string                   `json:"result,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}
