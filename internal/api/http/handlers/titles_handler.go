package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/api/dto"
	"github.com/ringside/roster-service/internal/auth"
	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/repository"
	"github.com/ringside/roster-service/internal/service"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// TitlesHandler serves championship title endpoints.
type TitlesHandler struct {
	activation *service.ActivationService
	audit      *service.AuditService
}

// NewTitlesHandler constructs handler.
func NewTitlesHandler(activation *service.ActivationService, audit *service.AuditService) *TitlesHandler {
	return &TitlesHandler{activation: activation, audit: audit}
}

// Create POST /titles.
func (h *TitlesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateActivatableRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	title, err := h.activation.CreateTitle(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": titleResponse(title)})
}

// List GET /titles.
func (h *TitlesHandler) List(c *fiber.Ctx) error {
	titles, err := h.activation.ListTitles(c.UserContext(), parseActivatableQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		items = append(items, titleResponse(&titles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /titles/:id.
func (h *TitlesHandler) Get(c *fiber.Ctx) error {
	title, spans, err := h.activation.GetTitle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TitleDetailResponse{
		TitleResponse: titleResponse(title),
		Spans:         spanResponses(spans),
	}})
}

// History GET /titles/:id/history.
func (h *TitlesHandler) History(c *fiber.Ctx) error {
	entries, err := h.audit.History(c.UserContext(), domain.EntityTitle, c.Params("id"), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:         entry.ID,
			Transition: entry.Transition,
			OldStatus:  entry.OldStatus,
			NewStatus:  entry.NewStatus,
			ActorID:    entry.ActorID,
			OccurredAt: entry.OccurredAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Activate PUT /titles/:id/activate.
func (h *TitlesHandler) Activate(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityTitle, h.activation.Activate)
}

// Deactivate PUT /titles/:id/deactivate.
func (h *TitlesHandler) Deactivate(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityTitle, h.activation.Deactivate)
}

// Retire PUT /titles/:id/retire.
func (h *TitlesHandler) Retire(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityTitle, h.activation.Retire)
}

// Unretire PUT /titles/:id/unretire.
func (h *TitlesHandler) Unretire(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityTitle, h.activation.Unretire)
}

type activationTransitionFn func(ctx context.Context, entityType domain.EntityType, id string, input service.TransitionInput) error

func activationTransition(c *fiber.Ctx, entityType domain.EntityType, fn activationTransitionFn) error {
	var req dto.TransitionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	input := service.TransitionInput{}
	if req.EffectiveDate != nil {
		input.EffectiveDate = *req.EffectiveDate
	}
	if principal, ok := auth.PrincipalFromCtx(c); ok {
		input.ActorID = principal.UserID
	}
	if err := fn(c.UserContext(), entityType, c.Params("id"), input); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseActivatableQuery(c *fiber.Ctx) repository.ActivatableFilter {
	filter := repository.ActivatableFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ActivationStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.IncludeDeleted = c.QueryBool("include_deleted")
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func titleResponse(title *domain.Title) dto.TitleResponse {
	return dto.TitleResponse{
		ID:        title.ID,
		Name:      title.Name,
		Status:    title.Status,
		CreatedAt: title.CreatedAt,
		UpdatedAt: title.UpdatedAt,
	}
}
