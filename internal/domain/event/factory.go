package event

import "strings"

// NewFromCreateRequest builds the Event for a request that passed Validate.
// The id is left at zero for the store to assign, and the server-owned fields
// are always derived here, never copied from the client.
func NewFromCreateRequest(req CreateEventRequest) Event {
	e := Event{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Location:    deref(req.Location),
		EventStatus: StatusDraft,
	}

	if req.BeginEnrollmentDateTime != nil {
		e.BeginEnrollmentDateTime = *req.BeginEnrollmentDateTime
	}
	if req.CloseEnrollmentDateTime != nil {
		e.CloseEnrollmentDateTime = *req.CloseEnrollmentDateTime
	}
	if req.BeginEventDateTime != nil {
		e.BeginEventDateTime = *req.BeginEventDateTime
	}
	if req.EndEventDateTime != nil {
		e.EndEventDateTime = *req.EndEventDateTime
	}
	if req.BasePrice != nil {
		e.BasePrice = *req.BasePrice
	}
	if req.MaxPrice != nil {
		e.MaxPrice = *req.MaxPrice
	}
	if req.LimitOfEnrollment != nil {
		e.LimitOfEnrollment = *req.LimitOfEnrollment
	}

	e.Free = e.BasePrice == 0 && e.MaxPrice == 0
	e.Offline = strings.TrimSpace(e.Location) != ""

	return e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
