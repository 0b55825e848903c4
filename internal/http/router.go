package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/eventsapi/internal/cache"
	"github.com/geocoder89/eventsapi/internal/config"
	"github.com/geocoder89/eventsapi/internal/http/handlers"
	"github.com/geocoder89/eventsapi/internal/http/middlewares"
	"github.com/geocoder89/eventsapi/internal/observability"
	"github.com/gin-gonic/gin"
)

const docsPath = "/docs"

type Deps struct {
	Log   *slog.Logger
	Store handlers.EventsStore
	// Cache and Prom are optional.
	Cache cache.Cache
	Prom  *observability.Prom
}

func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(commonMiddleware(cfg, deps)...)

	// health
	h := handlers.NewHealthHandler(readinessDeps(deps))
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Prom != nil {
		r.GET("/metrics", deps.Prom.Handler())
	}

	r.GET(docsPath, handlers.SwaggerUI)
	r.GET(docsPath+"/openapi.yaml", handlers.OpenAPISpec)

	// Routes
	eventsHandler := handlers.NewEventsHandler(deps.Store, deps.Cache, deps.Prom, handlers.EventsHandlerConfig{
		RejectUnknownFields: cfg.RejectUnknownFields,
	})

	limiter := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)

	api := r.Group("/api")

	writes := []gin.HandlerFunc{
		limiter.RateLimiterMiddleware(middlewares.KeyByIP),
		middlewares.RequireJSON(),
		middlewares.MaxBodyBytes(cfg.MaxBodyBytes),
		eventsHandler.CreateEvent,
	}

	// both spellings answer directly instead of redirecting
	api.POST("/events", writes...)
	api.POST("/events/", writes...)
	api.GET("/events/:id", eventsHandler.GetEventByID)

	return r
}

// readinessDeps splits dependencies into those readiness hinges on and those
// that only degrade the service. The cache falls back to the store, so it is optional.
func readinessDeps(deps Deps) (required, optional map[string]handlers.Pinger) {
	required = map[string]handlers.Pinger{}
	optional = map[string]handlers.Pinger{}

	if p, ok := deps.Store.(handlers.Pinger); ok {
		required["store"] = p
	}
	if deps.Cache != nil {
		optional["cache"] = deps.Cache
	}

	return required, optional
}
