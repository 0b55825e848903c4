package event

import (
	"errors"
)

type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusPublished        Status = "PUBLISHED"
	StatusBeganEnrollment  Status = "BEGAN_ENROLLMENT"
	StatusClosedEnrollment Status = "CLOSED_ENROLLMENT"
	StatusStarted          Status = "STARTED"
	StatusEnded            Status = "ENDED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusBeganEnrollment, StatusClosedEnrollment, StatusStarted, StatusEnded:
		return true
	default:
		return false
	}
}

type Event struct {
	ID                      int64    `json:"id"`
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	BeginEnrollmentDateTime DateTime `json:"beginEnrollmentDateTime"`
	CloseEnrollmentDateTime DateTime `json:"closeEnrollmentDateTime"`
	BeginEventDateTime      DateTime `json:"beginEventDateTime"`
	EndEventDateTime        DateTime `json:"endEventDateTime"`
	Location                string   `json:"location,omitempty"`
	BasePrice               int      `json:"basePrice"`
	MaxPrice                int      `json:"maxPrice"`
	LimitOfEnrollment       int      `json:"limitOfEnrollment"`
	Offline                 bool     `json:"offline"`
	Free                    bool     `json:"free"`
	EventStatus             Status   `json:"eventStatus"`
}

var ErrNotFound = errors.New("event not found")

// CreateEventRequest is what a client may send when creating an event.
// Required fields are pointers so a missing value can be told apart from a zero one.
// There is no id, free, offline or eventStatus here: the server owns those.
type CreateEventRequest struct {
	Name                    *string   `json:"name"`
	Description             *string   `json:"description"`
	BeginEnrollmentDateTime *DateTime `json:"beginEnrollmentDateTime"`
	CloseEnrollmentDateTime *DateTime `json:"closeEnrollmentDateTime"`
	BeginEventDateTime      *DateTime `json:"beginEventDateTime"`
	EndEventDateTime        *DateTime `json:"endEventDateTime"`
	Location                *string   `json:"location"`
	BasePrice               *int      `json:"basePrice"`
	MaxPrice                *int      `json:"maxPrice"`
	LimitOfEnrollment       *int      `json:"limitOfEnrollment"`
}
