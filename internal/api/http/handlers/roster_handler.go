package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/api/dto"
	"github.com/ringside/roster-service/internal/auth"
	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/repository"
	"github.com/ringside/roster-service/internal/service"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// RosterHandler serves one roster member kind. The same handler backs the
// wrestler, manager, referee and tag team route groups.
type RosterHandler struct {
	kind    domain.RosterMemberKind
	roster  *service.RosterService
	audit   *service.AuditService
	members *service.MembershipService
}

// NewRosterHandler constructs a handler bound to one member kind.
func NewRosterHandler(kind domain.RosterMemberKind, roster *service.RosterService, audit *service.AuditService, members *service.MembershipService) *RosterHandler {
	return &RosterHandler{kind: kind, roster: roster, audit: audit, members: members}
}

// Create POST /{kind}.
func (h *RosterHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.roster.CreateMember(c.UserContext(), h.kind, service.MemberCreateInput{
		Name:          req.Name,
		Hometown:      req.Hometown,
		HeightCm:      req.HeightCm,
		WeightLbs:     req.WeightLbs,
		SignatureMove: req.SignatureMove,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": memberSummary(member)})
}

// List GET /{kind}.
func (h *RosterHandler) List(c *fiber.Ctx) error {
	filter := h.parseListQuery(c)
	members, err := h.roster.ListMembers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.MemberSummary, 0, len(members))
	for i := range members {
		items = append(items, memberSummary(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /{kind}/:id.
func (h *RosterHandler) Get(c *fiber.Ctx) error {
	member, spans, err := h.roster.GetMember(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberDetail(member, spans)})
}

// Update PUT /{kind}/:id.
func (h *RosterHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.roster.UpdateMember(c.UserContext(), h.kind, c.Params("id"), service.MemberUpdateInput{
		Name:          req.Name,
		Hometown:      req.Hometown,
		HeightCm:      req.HeightCm,
		WeightLbs:     req.WeightLbs,
		SignatureMove: req.SignatureMove,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberSummary(member)})
}

// Delete DELETE /{kind}/:id.
func (h *RosterHandler) Delete(c *fiber.Ctx) error {
	if err := h.roster.DeleteMember(c.UserContext(), h.kind, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore PUT /{kind}/:id/restore.
func (h *RosterHandler) Restore(c *fiber.Ctx) error {
	if err := h.roster.RestoreMember(c.UserContext(), h.kind, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StatusAt GET /{kind}/:id/status.
func (h *RosterHandler) StatusAt(c *fiber.Ctx) error {
	at := time.Now().UTC()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return apperrors.NewValidationError("at must be RFC3339", nil)
		}
		at = parsed
	}
	status, err := h.roster.StatusAt(c.UserContext(), h.kind, c.Params("id"), at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatusAtResponse{ID: c.Params("id"), At: at, Status: status}})
}

// History GET /{kind}/:id/history.
func (h *RosterHandler) History(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	entries, err := h.audit.History(c.UserContext(), h.kind.EntityType(), c.Params("id"), limit, offset)
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

// Transition endpoints. Each parses the shared transition payload and calls
// the matching service operation.

// Employ PUT /{kind}/:id/employ.
func (h *RosterHandler) Employ(c *fiber.Ctx) error {
	return h.transition(c, h.roster.Employ)
}

// Release PUT /{kind}/:id/release.
func (h *RosterHandler) Release(c *fiber.Ctx) error {
	return h.transition(c, h.roster.Release)
}

// Suspend PUT /{kind}/:id/suspend.
func (h *RosterHandler) Suspend(c *fiber.Ctx) error {
	return h.transition(c, h.roster.Suspend)
}

// Reinstate PUT /{kind}/:id/reinstate.
func (h *RosterHandler) Reinstate(c *fiber.Ctx) error {
	return h.transition(c, h.roster.Reinstate)
}

// Injure PUT /{kind}/:id/injure.
func (h *RosterHandler) Injure(c *fiber.Ctx) error {
	return h.transition(c, h.roster.Injure)
}

// ClearInjury PUT /{kind}/:id/clear-injury.
func (h *RosterHandler) ClearInjury(c *fiber.Ctx) error {
	return h.transition(c, h.roster.ClearInjury)
}

// Retire PUT /{kind}/:id/retire.
func (h *RosterHandler) Retire(c *fiber.Ctx) error {
	return h.transition(c, h.roster.Retire)
}

// Unretire PUT /{kind}/:id/unretire.
func (h *RosterHandler) Unretire(c *fiber.Ctx) error {
	return h.transition(c, h.roster.Unretire)
}

type transitionFn func(ctx context.Context, kind domain.RosterMemberKind, id string, input service.TransitionInput) (*domain.RosterMember, error)

func (h *RosterHandler) transition(c *fiber.Ctx, fn transitionFn) error {
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
	member, err := fn(c.UserContext(), h.kind, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberSummary(member)})
}

// Partners GET /tag-teams/:id/partners.
func (h *RosterHandler) Partners(c *fiber.Ctx) error {
	memberships, err := h.members.ListPartners(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": membershipResponses(memberships)})
}

// AddPartner POST /tag-teams/:id/partners.
func (h *RosterHandler) AddPartner(c *fiber.Ctx) error {
	var req dto.MembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MemberID == "" {
		return apperrors.NewValidationError("member_id required", nil)
	}
	if err := h.members.AddPartner(c.UserContext(), c.Params("id"), req.MemberID, timeOrZero(req.At)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// RemovePartner DELETE /tag-teams/:id/partners/:wrestler_id.
func (h *RosterHandler) RemovePartner(c *fiber.Ctx) error {
	if err := h.members.RemovePartner(c.UserContext(), c.Params("id"), c.Params("wrestler_id"), time.Time{}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clients GET /managers/:id/clients.
func (h *RosterHandler) Clients(c *fiber.Ctx) error {
	memberships, err := h.members.ListClients(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": membershipResponses(memberships)})
}

// HireClient POST /managers/:id/clients.
func (h *RosterHandler) HireClient(c *fiber.Ctx) error {
	var req dto.MembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MemberID == "" || req.MemberKind == "" {
		return apperrors.NewValidationError("member_kind and member_id required", nil)
	}
	if err := h.members.HireManager(c.UserContext(), c.Params("id"), req.MemberKind, req.MemberID, timeOrZero(req.At)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// FireClient DELETE /managers/:id/clients/:client_id.
func (h *RosterHandler) FireClient(c *fiber.Ctx) error {
	kind := domain.RosterMemberKind(strings.ToUpper(c.Query("kind", string(domain.KindWrestler))))
	if err := h.members.FireManager(c.UserContext(), c.Params("id"), kind, c.Params("client_id"), time.Time{}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RosterHandler) parseListQuery(c *fiber.Ctx) repository.RosterFilter {
	kind := h.kind
	filter := repository.RosterFilter{Kind: &kind}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.Status(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("employed_from")); from != nil {
		filter.EmployedFrom = from
	}
	if to := parseTime(c.Query("employed_to")); to != nil {
		filter.EmployedTo = to
	}
	filter.IncludeDeleted = c.QueryBool("include_deleted")
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func memberSummary(member *domain.RosterMember) dto.MemberSummary {
	return dto.MemberSummary{
		ID:            member.ID,
		Kind:          member.Kind,
		Name:          member.Name,
		Hometown:      member.Hometown,
		HeightCm:      member.HeightCm,
		WeightLbs:     member.WeightLbs,
		SignatureMove: member.SignatureMove,
		Status:        member.Status,
		CreatedAt:     member.CreatedAt,
		UpdatedAt:     member.UpdatedAt,
	}
}

func memberDetail(member *domain.RosterMember, spans []domain.Span) dto.MemberDetailResponse {
	return dto.MemberDetailResponse{
		MemberSummary: memberSummary(member),
		Spans:         spanResponses(spans),
	}
}

func spanResponses(spans []domain.Span) []dto.SpanResponse {
	result := make([]dto.SpanResponse, 0, len(spans))
	for _, span := range spans {
		result = append(result, dto.SpanResponse{
			ID:        span.ID,
			Kind:      span.Kind,
			StartedAt: span.StartedAt,
			EndedAt:   span.EndedAt,
		})
	}
	return result
}

func membershipResponses(memberships []domain.Membership) []dto.MembershipResponse {
	result := make([]dto.MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		result = append(result, dto.MembershipResponse{
			ID:         m.ID,
			GroupType:  m.GroupType,
			GroupID:    m.GroupID,
			MemberType: m.MemberType,
			MemberID:   m.MemberID,
			JoinedAt:   m.JoinedAt,
			LeftAt:     m.LeftAt,
		})
	}
	return result
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	val := c.Query(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
