package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/api/http/handlers"
	"github.com/ringside/roster-service/internal/auth"
	"github.com/ringside/roster-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Wrestlers *handlers.RosterHandler
	Managers  *handlers.RosterHandler
	Referees  *handlers.RosterHandler
	TagTeams  *handlers.RosterHandler
	Titles    *handlers.TitlesHandler
	Stables   *handlers.StablesHandler
	Venues    *handlers.VenuesHandler
	Events    *handlers.EventsHandler
	Reports   *handlers.ReportsHandler
	Tokens    *auth.TokenManager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api/v1")
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", auth.Middleware(cfg.Tokens))

	users := protected.Group("/users", auth.RequireRole(domain.RoleAdmin))
	users.Post("/", cfg.Auth.CreateUser)
	users.Get("/", cfg.Auth.ListUsers)

	booker := auth.RequireRole(domain.RoleBooker)

	registerRosterRoutes(protected.Group("/wrestlers", booker), cfg.Wrestlers)
	registerRosterRoutes(protected.Group("/referees", booker), cfg.Referees)

	managers := protected.Group("/managers", booker)
	registerRosterRoutes(managers, cfg.Managers)
	managers.Get("/:id/clients", cfg.Managers.Clients)
	managers.Post("/:id/clients", cfg.Managers.HireClient)
	managers.Delete("/:id/clients/:client_id", cfg.Managers.FireClient)

	tagTeams := protected.Group("/tag-teams", booker)
	registerRosterRoutes(tagTeams, cfg.TagTeams)
	tagTeams.Get("/:id/partners", cfg.TagTeams.Partners)
	tagTeams.Post("/:id/partners", cfg.TagTeams.AddPartner)
	tagTeams.Delete("/:id/partners/:wrestler_id", cfg.TagTeams.RemovePartner)

	titles := protected.Group("/titles", booker)
	titles.Post("/", cfg.Titles.Create)
	titles.Get("/", cfg.Titles.List)
	titles.Get("/:id", cfg.Titles.Get)
	titles.Get("/:id/history", cfg.Titles.History)
	titles.Put("/:id/activate", cfg.Titles.Activate)
	titles.Put("/:id/deactivate", cfg.Titles.Deactivate)
	titles.Put("/:id/retire", cfg.Titles.Retire)
	titles.Put("/:id/unretire", cfg.Titles.Unretire)

	stables := protected.Group("/stables", booker)
	stables.Post("/", cfg.Stables.Create)
	stables.Get("/", cfg.Stables.List)
	stables.Get("/:id", cfg.Stables.Get)
	stables.Get("/:id/history", cfg.Stables.History)
	stables.Post("/:id/members", cfg.Stables.AddMember)
	stables.Delete("/:id/members/:member_id", cfg.Stables.RemoveMember)
	stables.Put("/:id/activate", cfg.Stables.Activate)
	stables.Put("/:id/deactivate", cfg.Stables.Deactivate)
	stables.Put("/:id/retire", cfg.Stables.Retire)
	stables.Put("/:id/unretire", cfg.Stables.Unretire)

	venues := protected.Group("/venues", booker)
	venues.Post("/", cfg.Venues.Create)
	venues.Get("/", cfg.Venues.List)
	venues.Get("/:id", cfg.Venues.Get)
	venues.Put("/:id", cfg.Venues.Update)
	venues.Delete("/:id", cfg.Venues.Delete)
	venues.Put("/:id/restore", cfg.Venues.Restore)

	eventsGroup := protected.Group("/events", booker)
	eventsGroup.Post("/", cfg.Events.Create)
	eventsGroup.Get("/", cfg.Events.List)
	eventsGroup.Get("/:id", cfg.Events.Get)
	eventsGroup.Put("/:id", cfg.Events.Update)
	eventsGroup.Delete("/:id", cfg.Events.Delete)
	eventsGroup.Put("/:id/restore", cfg.Events.Restore)
	eventsGroup.Post("/:id/matches", cfg.Events.BookMatch)
	eventsGroup.Put("/:id/matches/:match_id/result", cfg.Events.RecordResult)

	reports := protected.Group("/reports", booker)
	reports.Get("/bookable-wrestlers", cfg.Reports.BookableWrestlers)
	reports.Get("/bookable-tag-teams", cfg.Reports.BookableTagTeams)
	reports.Get("/bookable-referees", cfg.Reports.BookableReferees)
	reports.Get("/active-titles", cfg.Reports.ActiveTitles)
}

func registerRosterRoutes(group fiber.Router, handler *handlers.RosterHandler) {
	group.Post("/", handler.Create)
	group.Get("/", handler.List)
	group.Get("/:id", handler.Get)
	group.Put("/:id", handler.Update)
	group.Delete("/:id", handler.Delete)
	group.Put("/:id/restore", handler.Restore)
	group.Get("/:id/status", handler.StatusAt)
	group.Get("/:id/history", handler.History)
	group.Put("/:id/employ", handler.Employ)
	group.Put("/:id/release", handler.Release)
	group.Put("/:id/suspend", handler.Suspend)
	group.Put("/:id/reinstate", handler.Reinstate)
	group.Put("/:id/injure", handler.Injure)
	group.Put("/:id/clear-injury", handler.ClearInjury)
	group.Put("/:id/retire", handler.Retire)
	group.Put("/:id/unretire", handler.Unretire)
}
