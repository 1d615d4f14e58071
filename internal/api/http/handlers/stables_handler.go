package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/api/dto"
	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/service"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// StablesHandler serves stable endpoints.
type StablesHandler struct {
	activation  *service.ActivationService
	memberships *service.MembershipService
	audit       *service.AuditService
}

// NewStablesHandler constructs handler.
func NewStablesHandler(activation *service.ActivationService, memberships *service.MembershipService, audit *service.AuditService) *StablesHandler {
	return &StablesHandler{activation: activation, memberships: memberships, audit: audit}
}

// Create POST /stables.
func (h *StablesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateActivatableRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	stable, err := h.activation.CreateStable(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": stableResponse(stable)})
}

// List GET /stables.
func (h *StablesHandler) List(c *fiber.Ctx) error {
	stables, err := h.activation.ListStables(c.UserContext(), parseActivatableQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.StableResponse, 0, len(stables))
	for i := range stables {
		items = append(items, stableResponse(&stables[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /stables/:id.
func (h *StablesHandler) Get(c *fiber.Ctx) error {
	stable, members, spans, err := h.activation.GetStable(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StableDetailResponse{
		StableResponse: stableResponse(stable),
		Members:        membershipResponses(members),
		Spans:          spanResponses(spans),
	}})
}

// History GET /stables/:id/history.
func (h *StablesHandler) History(c *fiber.Ctx) error {
	entries, err := h.audit.History(c.UserContext(), domain.EntityStable, c.Params("id"), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
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

// AddMember POST /stables/:id/members.
func (h *StablesHandler) AddMember(c *fiber.Ctx) error {
	var req dto.MembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MemberKind == "" || req.MemberID == "" {
		return apperrors.NewValidationError("member_kind and member_id required", nil)
	}
	if err := h.memberships.JoinStable(c.UserContext(), c.Params("id"), req.MemberKind, req.MemberID, timeOrZero(req.At)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// RemoveMember DELETE /stables/:id/members/:member_id.
func (h *StablesHandler) RemoveMember(c *fiber.Ctx) error {
	kind := domain.RosterMemberKind(c.Query("kind", string(domain.KindWrestler)))
	if err := h.memberships.LeaveStable(c.UserContext(), c.Params("id"), kind, c.Params("member_id"), time.Time{}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate PUT /stables/:id/activate.
func (h *StablesHandler) Activate(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityStable, h.activation.Activate)
}

// Deactivate PUT /stables/:id/deactivate.
func (h *StablesHandler) Deactivate(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityStable, h.activation.Deactivate)
}

// Retire PUT /stables/:id/retire.
func (h *StablesHandler) Retire(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityStable, h.activation.Retire)
}

// Unretire PUT /stables/:id/unretire.
func (h *StablesHandler) Unretire(c *fiber.Ctx) error {
	return activationTransition(c, domain.EntityStable, h.activation.Unretire)
}

func stableResponse(stable *domain.Stable) dto.StableResponse {
	return dto.StableResponse{
		ID:        stable.ID,
		Name:      stable.Name,
		Status:    stable.Status,
		CreatedAt: stable.CreatedAt,
		UpdatedAt: stable.UpdatedAt,
	}
}
