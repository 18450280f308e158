package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/spec-kit/school-directory/internal/api/http/handlers"
	"github.com/spec-kit/school-directory/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Teachers  *handlers.TeachersHandler
	Positions *handlers.PositionsHandler
	Users     *handlers.UsersHandler
	Metrics   http.Handler
}

// NewApp builds a fiber app with middlewares and routes registered.
func NewApp(logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, logger, metrics, timeout)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	app.Get("/teachers", cfg.Teachers.List)
	app.Post("/teachers", cfg.Teachers.Create)

	app.Get("/teacher-positions", cfg.Positions.List)
	app.Post("/teacher-positions", cfg.Positions.Create)

	app.Get("/users", cfg.Users.List)
}
