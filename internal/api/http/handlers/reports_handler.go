package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/api/dto"
	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/service"
)

// ReportsHandler serves the cached booking-availability lists.
type ReportsHandler struct {
	cache *service.StatusCache
}

// NewReportsHandler constructs handler.
func NewReportsHandler(cache *service.StatusCache) *ReportsHandler {
	return &ReportsHandler{cache: cache}
}

// BookableWrestlers GET /reports/bookable-wrestlers.
func (h *ReportsHandler) BookableWrestlers(c *fiber.Ctx) error {
	return h.bookable(c, domain.KindWrestler)
}

// BookableTagTeams GET /reports/bookable-tag-teams.
func (h *ReportsHandler) BookableTagTeams(c *fiber.Ctx) error {
	return h.bookable(c, domain.KindTagTeam)
}

// BookableReferees GET /reports/bookable-referees.
func (h *ReportsHandler) BookableReferees(c *fiber.Ctx) error {
	return h.bookable(c, domain.KindReferee)
}

// ActiveTitles GET /reports/active-titles.
func (h *ReportsHandler) ActiveTitles(c *fiber.Ctx) error {
	titles, err := h.cache.ActiveTitles(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		items = append(items, titleResponse(&titles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ReportsHandler) bookable(c *fiber.Ctx, kind domain.RosterMemberKind) error {
	members, err := h.cache.BookableMembers(c.UserContext(), kind)
	if err != nil {
		return err
	}
	items := make([]dto.MemberSummary, 0, len(members))
	for i := range members {
		items = append(items, memberSummary(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
