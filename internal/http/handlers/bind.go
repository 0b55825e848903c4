package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/geocoder89/eventsapi/internal/domain/event"
	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into out. On failure it writes a 400 error
// array (or 413 for oversized bodies) and returns false.
func BindJSON(ctx *gin.Context, out interface{}, disallowUnknown bool) bool {
	err := decodeJSON(ctx.Request.Body, out, disallowUnknown)

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondTooLarge(ctx, fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit))
			return false
		}

		RespondValidation(ctx, []event.FieldError{parseBindError(err)})

		return false
	}

	return true
}

func decodeJSON(body io.Reader, out interface{}, disallowUnknown bool) error {
	if body == nil {
		return io.EOF
	}

	dec := json.NewDecoder(body)
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(out); err != nil {
		return err
	}

	// one JSON value per request; anything but whitespace after it is rejected
	_, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}

	return errTrailingData
}

var errTrailingData = errors.New("request body must contain a single JSON object")

const unknownFieldPrefix = "json: unknown field "

func parseBindError(err error) event.FieldError {
	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := strings.TrimSpace(unmatchedTypeError.Field)

		return event.NewFieldError(field, event.CodeTypeMismatch, typeMessage(unmatchedTypeError), nil)
	}

	// properties the client does not own, such as id or eventStatus

	if name, ok := strings.CutPrefix(err.Error(), unknownFieldPrefix); ok {
		name = strings.Trim(name, `"`)

		return event.NewFieldError(name, event.CodeUnknownProperty, "is not an accepted property", nil)
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return event.NewFieldError("", event.CodeInvalidJSON, fmt.Sprintf("malformed JSON at offset %d", syntaxError.Offset), nil)
	}

	if errors.Is(err, io.EOF) {
		return event.NewFieldError("", event.CodeInvalidJSON, "request body must not be empty", nil)
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return event.NewFieldError("", event.CodeInvalidJSON, "request body is truncated", nil)
	}

	// final fallback if the error could not be deciphered
	return event.NewFieldError("", event.CodeInvalidJSON, err.Error(), nil)
}

func typeMessage(err *json.UnmarshalTypeError) string {
	if err.Type == nil {
		return "has the wrong type"
	}

	switch err.Type.Name() {
	case "DateTime":
		return "must be a date-time such as " + event.LocalDateTimeLayout
	case "int", "int64":
		return "must be an integer"
	case "string":
		return "must be a string"
	default:
		return "must be of type " + err.Type.String()
	}
}
