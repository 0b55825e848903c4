package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods  = "GET,POST,OPTIONS"
	corsAllowHeaders  = "Accept,Content-Type,If-None-Match,X-Request-Id"
	corsExposeHeaders = "Location,ETag,X-Request-Id"
	corsMaxAge        = "600"
)

// CORSMiddleware answers for the listed origins only. "*" allows any origin
// but then credentials are not allowed.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	anyOrigin := false

	for _, origin := range allowedOrigins {
		if origin == "*" {
			anyOrigin = true
			continue
		}
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		if origin == "" {
			ctx.Next()
			return
		}

		// responses differ per origin, so shared caches must key on it
		ctx.Writer.Header().Add("Vary", "Origin")

		_, listed := allowed[origin]
		if !listed && !anyOrigin {
			ctx.Next()
			return
		}

		if listed {
			ctx.Header("Access-Control-Allow-Origin", origin)
			ctx.Header("Access-Control-Allow-Credentials", "true")
		} else {
			ctx.Header("Access-Control-Allow-Origin", "*")
		}
		ctx.Header("Access-Control-Expose-Headers", corsExposeHeaders)

		preflight := ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != ""
		if !preflight {
			ctx.Next()
			return
		}

		ctx.Header("Access-Control-Allow-Methods", corsAllowMethods)
		ctx.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		ctx.Header("Access-Control-Max-Age", corsMaxAge)
		ctx.AbortWithStatus(http.StatusNoContent)
	}
}
