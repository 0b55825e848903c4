package handlers

import (
	"net/http"

	"github.com/geocoder89/eventsapi/internal/domain/event"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

// RespondValidation writes the bare error array clients of the events API expect on 400.
func RespondValidation(ctx *gin.Context, errs []event.FieldError) {
	ctx.JSON(http.StatusBadRequest, errs)
}

func RespondBadRequest(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusBadRequest, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondNotAcceptable(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotAcceptable, "not_acceptable", message, nil)
}

func RespondTooLarge(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// AbortWithError writes the error envelope and stops the handler chain.
// Middlewares use it so every rejection carries the request id.
func AbortWithError(ctx *gin.Context, status int, code, message string) {
	RespondError(ctx, status, code, message, nil)
	ctx.Abort()
}
