package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/eventsapi/internal/domain/event"
	"github.com/geocoder89/eventsapi/internal/observability"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Pool is the subset of *pgxpool.Pool the repository uses.
type Pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type EventsRepo struct {
	pool   Pool
	prom   *observability.Prom
	tracer trace.Tracer
}

// constructor function; prom may be nil

func NewEventsRepo(pool Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool:   pool,
		prom:   prom,
		tracer: otel.Tracer("github.com/geocoder89/eventsapi/internal/repo/postgres"),
	}
}

const eventColumns = `id, name, description,
	begin_enrollment_at, close_enrollment_at, begin_event_at, end_event_at,
	location, base_price, max_price, limit_of_enrollment,
	offline, free, event_status`

// Save inserts e and returns it with the id the database assigned.
// Any id already on e is ignored.
func (r *EventsRepo) Save(ctx context.Context, e event.Event) (event.Event, error) {
	ctx, span := r.tracer.Start(ctx, "EventsRepo.Save")
	defer span.End()

	var id int64

	err := r.prom.ObserveDB("events.save", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO events(
				name, description,
				begin_enrollment_at, close_enrollment_at, begin_event_at, end_event_at,
				location, base_price, max_price, limit_of_enrollment,
				offline, free, event_status)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			RETURNING id`,
			e.Name,
			e.Description,
			e.BeginEnrollmentDateTime.Time,
			e.CloseEnrollmentDateTime.Time,
			e.BeginEventDateTime.Time,
			e.EndEventDateTime.Time,
			e.Location,
			e.BasePrice,
			e.MaxPrice,
			e.LimitOfEnrollment,
			e.Offline,
			e.Free,
			string(e.EventStatus),
		).Scan(&id)
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert event")
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}

	e.ID = id
	span.SetAttributes(attribute.Int64("event.id", id))

	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id int64) (event.Event, error) {
	ctx, span := r.tracer.Start(ctx, "EventsRepo.GetByID", trace.WithAttributes(attribute.Int64("event.id", id)))
	defer span.End()

	var e event.Event
	var status string

	err := r.prom.ObserveDB("events.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1`, id,
		).Scan(
			&e.ID,
			&e.Name,
			&e.Description,
			&e.BeginEnrollmentDateTime.Time,
			&e.CloseEnrollmentDateTime.Time,
			&e.BeginEventDateTime.Time,
			&e.EndEventDateTime.Time,
			&e.Location,
			&e.BasePrice,
			&e.MaxPrice,
			&e.LimitOfEnrollment,
			&e.Offline,
			&e.Free,
			&status,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "select event")
		return event.Event{}, fmt.Errorf("select event %d: %w", id, err)
	}

	e.EventStatus = event.Status(status)

	return e, nil
}

func (r *EventsRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
