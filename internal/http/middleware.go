package http

import (
	"github.com/geocoder89/eventsapi/internal/config"
	"github.com/geocoder89/eventsapi/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// commonMiddleware is applied to every route, outermost first.
func commonMiddleware(cfg config.Config, deps Deps) []gin.HandlerFunc {
	mw := []gin.HandlerFunc{
		gin.Recovery(),
		middlewares.RequestID(),
		otelgin.Middleware(cfg.ServiceName),
		middlewares.RequestLogger(deps.Log),
		middlewares.SecurityHeaders(docsPath),
		middlewares.CORSMiddleware(cfg.CORSAllowedOrigins),
	}

	if deps.Prom != nil {
		mw = append(mw, deps.Prom.GinHandleMiddleware())
	}

	return mw
}
