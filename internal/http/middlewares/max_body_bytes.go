package middlewares

import (
	"fmt"
	"net/http"

	"github.com/geocoder89/eventsapi/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes refuses bodies over max bytes. A declared Content-Length over the
// cap is rejected before reading; chunked bodies are cut off by the reader and
// reported by the decoder.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	message := fmt.Sprintf("Request body must not exceed %d bytes", max)

	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > max {
			handlers.AbortWithError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", message)
			return
		}

		if ctx.Request.Body != nil {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)
		}

		ctx.Next()
	}
}
