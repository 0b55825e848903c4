package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything readiness depends on: the event store, the cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	required map[string]Pinger
	// optional deps (the cache) only degrade the service when down.
	optional map[string]Pinger
}

// create a new instance of the health handler
func NewHealthHandler(required, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{required: required, optional: optional}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz is 503 only when a required dependency is down. A failing optional one
// is reported as "degraded" with a 200.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 1*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.required)+len(h.optional))

	ready := ping(pingCtx, h.required, checks, "down")
	healthy := ping(pingCtx, h.optional, checks, "degraded")

	switch {
	case !ready:
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": checks})
	case !healthy:
		ctx.JSON(http.StatusOK, gin.H{"status": "degraded", "checks": checks})
	default:
		ctx.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
	}
}

// ping records each dependency under its name and reports whether all were up.
func ping(ctx context.Context, deps map[string]Pinger, checks map[string]string, downState string) bool {
	ok := true

	for name, dep := range deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = downState
			ok = false
			continue
		}
		checks[name] = "up"
	}

	return ok
}
