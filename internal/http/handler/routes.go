package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"azimute/docs"
	"azimute/internal/http/middleware"
	"azimute/internal/model"
	"azimute/internal/service"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Accounts      service.AccountService
	Objectives    service.ObjectiveService
	Roster        service.RosterService
	Catalog       service.CatalogService
	Imports       service.ImportService
	Notifications service.NotificationService
	Bulletin      service.BulletinService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group(APIPrefix)
	v1.Post("/auth/login", Login(svc.Accounts))

	api := v1.Group("", middleware.Auth(svc.Accounts, APIPrefix+"/me", APIPrefix+"/me/password/force"))

	api.Get("/me", Me())
	api.Post("/me/password", ChangePassword(svc.Accounts))
	api.Post("/me/password/force", ForceChangePassword(svc.Accounts))
	api.Post("/users/:id/password/reset", ResetPassword(svc.Accounts))

	api.Get("/objectives/board", GetBoard(svc.Objectives))
	api.Post("/objectives/submissions", SubmitObjectives(svc.Objectives))
	api.Get("/objectives/pending/guide", GuidePending(svc.Objectives))
	api.Get("/objectives/pending/leader", LeaderPending(svc.Objectives))
	api.Delete("/objectives/:objectiveId", CancelObjective(svc.Objectives))
	api.Post("/members/:ownerId/objectives/:objectiveId/decision", DecideObjective(svc.Objectives))

	api.Get("/catalog", ListCatalog(svc.Catalog))
	api.Put("/catalog/:objectiveId/holders", SetCompletedHolders(svc.Objectives))

	api.Get("/stats/section", SectionStats(svc.Objectives))
	api.Get("/stats/group", GroupStats(svc.Objectives))

	api.Get("/subunits", ListSubunits(svc.Roster))
	api.Post("/subunits", CreateSubunit(svc.Roster))
	api.Patch("/subunits/:id", SetSubunitActive(svc.Roster))
	api.Put("/subunits/:id/leaders/:slot", SetSubunitLeader(svc.Roster))

	api.Get("/members", ListMembers(svc.Roster))
	api.Patch("/members/:id", UpdateMember(svc.Roster))
	api.Get("/leaders", ListLeaders(svc.Roster))
	api.Patch("/leaders/:id", UpdateLeader(svc.Roster))

	api.Get("/notifications", ListNotifications(svc.Notifications))
	api.Post("/notifications/:id/resolve", ResolveNotification(svc.Notifications))

	api.Get("/posts", PostFeed(svc.Bulletin))
	api.Post("/posts", PublishPost(svc.Bulletin))
	api.Get("/posts/destinations", PostDestinations(svc.Bulletin))
	api.Post("/posts/:id/archive", ArchivePost(svc.Bulletin))

	imports := api.Group("/imports", middleware.RequireRole(model.RoleChefeAgrupamento))
	imports.Post("/users", ImportUsers(svc.Imports))
	imports.Post("/catalog", ImportCatalog(svc.Imports))
	imports.Get("/archive", ImportArchiveURL(svc.Imports))
}

// RegisterMetrics exposes the registry in the Prometheus text format on /metrics.
func RegisterMetrics(app *fiber.App, g prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

// RegisterDocs serves the Swagger UI with the request's host and scheme.
func RegisterDocs(app *fiber.App) {
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})
}
