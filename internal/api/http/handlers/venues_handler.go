package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/api/dto"
	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/service"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// VenuesHandler serves venue endpoints.
type VenuesHandler struct {
	booking *service.BookingService
}

// NewVenuesHandler constructs handler.
func NewVenuesHandler(booking *service.BookingService) *VenuesHandler {
	return &VenuesHandler{booking: booking}
}

// Create POST /venues.
func (h *VenuesHandler) Create(c *fiber.Ctx) error {
	var req dto.VenueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	venue := venueFromRequest(req)
	if err := h.booking.CreateVenue(c.UserContext(), venue); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": venueResponse(venue)})
}

// Update PUT /venues/:id.
func (h *VenuesHandler) Update(c *fiber.Ctx) error {
	var req dto.VenueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	venue := venueFromRequest(req)
	venue.ID = c.Params("id")
	if err := h.booking.UpdateVenue(c.UserContext(), venue); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": venueResponse(venue)})
}

// Get GET /venues/:id.
func (h *VenuesHandler) Get(c *fiber.Ctx) error {
	venue, err := h.booking.GetVenue(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": venueResponse(venue)})
}

// List GET /venues.
func (h *VenuesHandler) List(c *fiber.Ctx) error {
	var search *string
	if s := c.Query("search"); s != "" {
		search = &s
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	venues, err := h.booking.ListVenues(c.UserContext(), search, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.VenueResponse, 0, len(venues))
	for i := range venues {
		items = append(items, venueResponse(&venues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete DELETE /venues/:id.
func (h *VenuesHandler) Delete(c *fiber.Ctx) error {
	if err := h.booking.DeleteVenue(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore PUT /venues/:id/restore.
func (h *VenuesHandler) Restore(c *fiber.Ctx) error {
	if err := h.booking.RestoreVenue(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func venueFromRequest(req dto.VenueRequest) *domain.Venue {
	return &domain.Venue{
		Name:          req.Name,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		Zipcode:       req.Zipcode,
	}
}

func venueResponse(venue *domain.Venue) dto.VenueResponse {
	return dto.VenueResponse{
		ID:            venue.ID,
		Name:          venue.Name,
		StreetAddress: venue.StreetAddress,
		City:          venue.City,
		State:         venue.State,
		Zipcode:       venue.Zipcode,
		CreatedAt:     venue.CreatedAt,
		UpdatedAt:     venue.UpdatedAt,
	}
}
