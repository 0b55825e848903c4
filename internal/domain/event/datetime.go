package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// LocalDateTimeLayout is the wire format for event timestamps (no zone).
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var acceptedLayouts = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

// DateTime is a wall-clock timestamp in UTC. Values without a zone are read as
// UTC; zoned values are converted so ordering survives the zone-less wire format.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func ParseDateTime(s string) (DateTime, error) {
	for _, layout := range acceptedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateTime{Time: t.UTC()}, nil
		}
	}

	return DateTime{}, fmt.Errorf("invalid date-time %q, expected %s", s, LocalDateTimeLayout)
}

func (d DateTime) String() string {
	return d.Time.Format(LocalDateTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	// a type error lets encoding/json attach the field path for us
	typeErr := &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(DateTime{})}

	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return typeErr
	}

	parsed, err := ParseDateTime(string(b[1 : len(b)-1]))
	if err != nil {
		return typeErr
	}

	*d = parsed
	return nil
}
