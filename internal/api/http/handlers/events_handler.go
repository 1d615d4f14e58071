package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/api/dto"
	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/service"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// EventsHandler serves event and match card endpoints.
type EventsHandler struct {
	booking *service.BookingService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(booking *service.BookingService) *EventsHandler {
	return &EventsHandler{booking: booking}
}

// Create POST /events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	event := &domain.Event{Name: req.Name, Date: req.Date, VenueID: req.VenueID, Preview: req.Preview}
	if err := h.booking.CreateEvent(c.UserContext(), event); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": eventResponse(event)})
}

// Update PUT /events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	event := &domain.Event{ID: c.Params("id"), Name: req.Name, Date: req.Date, VenueID: req.VenueID, Preview: req.Preview}
	if err := h.booking.UpdateEvent(c.UserContext(), event); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// Get GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, matches, err := h.booking.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	detail := dto.EventDetailResponse{EventResponse: eventResponse(event)}
	detail.Matches = make([]dto.MatchResponse, 0, len(matches))
	for i := range matches {
		detail.Matches = append(detail.Matches, matchResponse(&matches[i]))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// List GET /events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	var search *string
	if s := c.Query("search"); s != "" {
		search = &s
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	result, err := h.booking.ListEvents(c.UserContext(), search, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.EventResponse, 0, len(result))
	for i := range result {
		items = append(items, eventResponse(&result[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.booking.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore PUT /events/:id/restore.
func (h *EventsHandler) Restore(c *fiber.Ctx) error {
	if err := h.booking.RestoreEvent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BookMatch POST /events/:id/matches.
func (h *EventsHandler) BookMatch(c *fiber.Ctx) error {
	var req dto.BookMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	match := &domain.Match{
		EventID:     c.Params("id"),
		MatchNumber: req.MatchNumber,
		MatchType:   req.MatchType,
		RefereeIDs:  req.RefereeIDs,
		TitleIDs:    req.TitleIDs,
	}
	for _, comp := range req.Competitors {
		match.Competitors = append(match.Competitors, domain.MatchCompetitor{
			Side:           domain.MatchSide(comp.Side),
			CompetitorType: comp.CompetitorType,
			CompetitorID:   comp.CompetitorID,
		})
	}
	if err := h.booking.BookMatch(c.UserContext(), match); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": matchResponse(match)})
}

// RecordResult PUT /events/:id/matches/:match_id/result.
func (h *EventsHandler) RecordResult(c *fiber.Ctx) error {
	var req dto.MatchResultRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.booking.RecordMatchResult(c.UserContext(), c.Params("match_id"), req.Result); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func eventResponse(event *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:        event.ID,
		Name:      event.Name,
		Date:      event.Date,
		VenueID:   event.VenueID,
		Preview:   event.Preview,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	}
}

func matchResponse(match *domain.Match) dto.MatchResponse {
	resp := dto.MatchResponse{
		ID:          match.ID,
		EventID:     match.EventID,
		MatchNumber: match.MatchNumber,
		MatchType:   match.MatchType,
		RefereeIDs:  match.RefereeIDs,
		TitleIDs:    match.TitleIDs,
		Result:      match.Result,
		CreatedAt:   match.CreatedAt,
	}
	for _, comp := range match.Competitors {
		resp.Competitors = append(resp.Competitors, dto.MatchCompetitorRequest{
			Side:           int(comp.Side),
			CompetitorType: comp.CompetitorType,
			CompetitorID:   comp.CompetitorID,
		})
	}
	return resp
}
