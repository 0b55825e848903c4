package event

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewFromCreateRequest_Derivations(t *testing.T) {
	tests := []struct {
		name        string
		basePrice   int
		maxPrice    int
		location    *string
		wantFree    bool
		wantOffline bool
	}{
		{"paid with location", 100, 200, ptr("Gangnam"), false, true},
		{"free with location", 0, 0, ptr("Gangnam"), true, true},
		{"free online", 0, 0, nil, true, false},
		{"paid online", 0, 100, nil, false, false},
		{"blank location is online", 0, 0, ptr("  "), true, false},
		{"empty location is online", 50, 50, ptr(""), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.BasePrice = ptr(tt.basePrice)
			req.MaxPrice = ptr(tt.maxPrice)
			req.Location = tt.location

			e := NewFromCreateRequest(req)

			if e.Free != tt.wantFree {
				t.Fatalf("free: got %v want %v", e.Free, tt.wantFree)
			}
			if e.Offline != tt.wantOffline {
				t.Fatalf("offline: got %v want %v", e.Offline, tt.wantOffline)
			}
			if e.EventStatus != StatusDraft {
				t.Fatalf("status: got %q want %q", e.EventStatus, StatusDraft)
			}
		})
	}
}

func TestNewFromCreateRequest_CopiesFieldsAndLeavesIDUnset(t *testing.T) {
	req := validRequest()

	e := NewFromCreateRequest(req)

	if e.ID != 0 {
		t.Fatalf("id must be assigned by the store, got %d", e.ID)
	}
	if e.Name != *req.Name || e.Description != *req.Description || e.Location != *req.Location {
		t.Fatalf("text fields not copied: %+v", e)
	}
	if !e.BeginEnrollmentDateTime.Equal(req.BeginEnrollmentDateTime.Time) ||
		!e.CloseEnrollmentDateTime.Equal(req.CloseEnrollmentDateTime.Time) ||
		!e.BeginEventDateTime.Equal(req.BeginEventDateTime.Time) ||
		!e.EndEventDateTime.Equal(req.EndEventDateTime.Time) {
		t.Fatalf("timestamps not copied: %+v", e)
	}
	if e.BasePrice != 100 || e.MaxPrice != 200 || e.LimitOfEnrollment != 100 {
		t.Fatalf("numbers not copied: %+v", e)
	}
}

func TestNewFromCreateRequest_IgnoresClientOwnedFields(t *testing.T) {
	body := `{
		"id": 100,
		"name": "Spring",
		"description": "REST API development with Spring",
		"beginEnrollmentDateTime": "2020-03-22T14:38:00",
		"closeEnrollmentDateTime": "2020-03-23T14:38:00",
		"beginEventDateTime": "2020-03-24T14:38:00",
		"endEventDateTime": "2020-03-25T14:38:00",
		"basePrice": 100,
		"maxPrice": 200,
		"limitOfEnrollment": 100,
		"location": "Gangnam",
		"free": true,
		"offline": false,
		"eventStatus": "PUBLISHED"
	}`

	var req CreateEventRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	e := NewFromCreateRequest(req)

	if e.ID != 0 || e.Free || !e.Offline || e.EventStatus != StatusDraft {
		t.Fatalf("client supplied server-owned fields leaked through: %+v", e)
	}
}

func TestNewFromCreateRequest_IsIdempotent(t *testing.T) {
	req := validRequest()

	first := NewFromCreateRequest(req)
	second := NewFromCreateRequest(req)

	if first != second {
		t.Fatalf("expected identical events, got %+v and %+v", first, second)
	}
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusPublished, StatusBeganEnrollment, StatusClosedEnrollment, StatusStarted, StatusEnded} {
		if !s.IsValid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Status("ARCHIVED").IsValid() {
		t.Fatalf("unknown status accepted")
	}
}

func TestDateTime_JSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"local", `"2020-03-22T14:38:00"`, time.Date(2020, 3, 22, 14, 38, 0, 0, time.UTC), false},
		{"no seconds", `"2020-03-22T14:38"`, time.Date(2020, 3, 22, 14, 38, 0, 0, time.UTC), false},
		{"rfc3339", `"2020-03-22T14:38:00Z"`, time.Date(2020, 3, 22, 14, 38, 0, 0, time.UTC), false},
		{"garbage", `"tomorrow"`, time.Time{}, true},
		{"number", `12`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DateTime
			err := json.Unmarshal([]byte(tt.in), &d)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !d.Equal(tt.want) {
				t.Fatalf("got %v want %v", d.Time, tt.want)
			}
		})
	}

	out, err := json.Marshal(NewDateTime(time.Date(2020, 3, 22, 14, 38, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2020-03-22T14:38:00"` {
		t.Fatalf("unexpected encoding %s", out)
	}
}
