package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/geocoder89/eventsapi/internal/cache"
	"github.com/geocoder89/eventsapi/internal/domain/event"
	"github.com/geocoder89/eventsapi/internal/observability"
	"github.com/gin-gonic/gin"
)

// Saver persists a new event and returns it with the id the store assigned.
type Saver interface {
	Save(ctx context.Context, e event.Event) (event.Event, error)
}

type EventsStore interface {
	Saver
	GetByID(ctx context.Context, id int64) (event.Event, error)
}

type EventsHandlerConfig struct {
	// RejectUnknownFields turns properties outside CreateEventRequest into a 400
	// instead of dropping them.
	RejectUnknownFields bool
}

type EventsHandler struct {
	store EventsStore
	cache cache.Cache
	prom  *observability.Prom
	cfg   EventsHandlerConfig
}

// NewEventsHandler wires the events endpoints. cache and prom may be nil.
func NewEventsHandler(store EventsStore, c cache.Cache, prom *observability.Prom, cfg EventsHandlerConfig) *EventsHandler {
	return &EventsHandler{store: store, cache: c, prom: prom, cfg: cfg}
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	mediaType := negotiate(ctx)
	if mediaType == "" {
		RespondNotAcceptable(ctx, "Supported media types: "+MediaTypeHAL+", "+MediaTypeJSON)
		return
	}

	var req event.CreateEventRequest

	if !BindJSON(ctx, &req, h.cfg.RejectUnknownFields) {
		return
	}

	if errs := event.Validate(req); len(errs) > 0 {
		h.prom.ObserveValidation(errorCodes(errs))
		RespondValidation(ctx, errs)
		return
	}

	e, err := h.store.Save(ctx.Request.Context(), event.NewFromCreateRequest(req))

	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "event_create_failed", "err", err)
		RespondInternal(ctx, "Could not create event")
		return
	}

	h.prom.ObserveCreated()
	h.remember(ctx.Request.Context(), e)

	body, err := json.Marshal(newEventResource(ctx, e))
	if err != nil {
		RespondInternal(ctx, "Could not encode event")
		return
	}

	ctx.Header("Location", absoluteURL(ctx, eventPath(e.ID)))
	ctx.Data(http.StatusCreated, mediaType+"; charset=utf-8", body)
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	mediaType := negotiate(ctx)
	if mediaType == "" {
		RespondNotAcceptable(ctx, "Supported media types: "+MediaTypeHAL+", "+MediaTypeJSON)
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "invalid_id", "event id must be a positive integer")
		return
	}

	e, err := h.lookup(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "event_get_failed", "id", id, "err", err)
		RespondInternal(ctx, "Could not fetch event")
		return
	}

	body, err := json.Marshal(newEventResource(ctx, e))
	if err != nil {
		RespondInternal(ctx, "Could not encode event")
		return
	}

	RespondWithETag(ctx, http.StatusOK, mediaType+"; charset=utf-8", body)
}

// lookup reads through the cache. Cached entries hold the bare event so links
// can still be built for whichever host the client used.
func (h *EventsHandler) lookup(ctx context.Context, id int64) (event.Event, error) {
	if h.cache != nil {
		if b, ok := h.cache.Get(ctx, cache.EventKey(id)); ok {
			var e event.Event
			if err := json.Unmarshal(b, &e); err == nil {
				h.prom.ObserveCache(true)
				return e, nil
			}
			h.cache.Delete(ctx, cache.EventKey(id))
		}
		h.prom.ObserveCache(false)
	}

	e, err := h.store.GetByID(ctx, id)
	if err != nil {
		return event.Event{}, err
	}

	h.remember(ctx, e)

	return e, nil
}

func (h *EventsHandler) remember(ctx context.Context, e event.Event) {
	if h.cache == nil {
		return
	}

	b, err := json.Marshal(e)
	if err != nil {
		return
	}

	h.cache.Set(ctx, cache.EventKey(e.ID), b)
}

func errorCodes(errs []event.FieldError) []string {
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	return codes
}
