package handlers

import (
	"strconv"

	"github.com/geocoder89/eventsapi/internal/domain/event"
	"github.com/gin-gonic/gin"
)

const (
	MediaTypeHAL  = "application/hal+json"
	MediaTypeJSON = "application/json"

	eventsPath = "/api/events"
)

type Link struct {
	Href string `json:"href"`
}

// EventResource is an Event with its hypermedia links.
type EventResource struct {
	event.Event
	Links map[string]Link `json:"_links"`
}

func eventPath(id int64) string {
	return eventsPath + "/" + strconv.FormatInt(id, 10)
}

// absoluteURL resolves path against the host the client used to reach us.
func absoluteURL(ctx *gin.Context, path string) string {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	host := ctx.Request.Host
	if host == "" {
		host = "localhost"
	}

	return scheme + "://" + host + path
}

func newEventResource(ctx *gin.Context, e event.Event) EventResource {
	self := absoluteURL(ctx, eventPath(e.ID))

	return EventResource{
		Event: e,
		Links: map[string]Link{
			"self":         {Href: self},
			"query-events": {Href: absoluteURL(ctx, eventsPath)},
			"update-event": {Href: self},
		},
	}
}

// negotiate picks the response media type from the Accept header; "" means none fits.
func negotiate(ctx *gin.Context) string {
	return ctx.NegotiateFormat(MediaTypeHAL, MediaTypeJSON)
}
