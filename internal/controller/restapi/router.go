package restapi

import (
	"github.com/andreyxaxa/Image-Set-Mapper/config"
	_ "github.com/andreyxaxa/Image-Set-Mapper/docs" // Swagger docs.
	v1 "github.com/andreyxaxa/Image-Set-Mapper/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/usecase"
	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Image set mapper
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, is usecase.ImageSetUseCase, checks []Check, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Health, metrics
	h := &health{checks: checks, timeout: cfg.HTTP.HealthTimeout, logger: l}
	app.Get("/__gtg", h.goodToGo)
	app.Get("/__health", h.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewImageSetRoutes(apiV1Group, is, l)
	}
}
