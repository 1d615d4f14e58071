package dto

import (
	"time"

	"github.com/ringside/roster-service/internal/domain"
)

// CreateActivatableRequest payload for titles and stables.
type CreateActivatableRequest struct {
	Name string `json:"name"`
}

// TitleResponse response.
type TitleResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Status    domain.ActivationStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// TitleDetailResponse is a title with its span history.
type TitleDetailResponse struct {
	TitleResponse
	Spans []SpanResponse `json:"spans"`
}

// StableResponse response.
type StableResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Status    domain.ActivationStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// StableDetailResponse is a stable with its current members and history.
type StableDetailResponse struct {
	StableResponse
	Members []MembershipResponse `json:"members"`
	Spans   []SpanResponse       `json:"spans"`
}
