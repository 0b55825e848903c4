package event

import (
	"math"
	"strconv"
	"strings"
)

// MaxAmount bounds prices and enrollment limits to what the store keeps (int4).
const MaxAmount = math.MaxInt32

// Validate checks a creation request and returns every rule it breaks.
// An empty result means the request can be turned into an Event.
//
// Cross-field rules only run once every required field is present; all of
// them are evaluated so the caller sees the full list at once.
func Validate(req CreateEventRequest) []FieldError {
	errs := make([]FieldError, 0)

	missing := false
	requireText := func(field string, v *string) {
		if v == nil {
			errs = append(errs, fieldError(field, CodeNotBlank, "must not be blank", nil))
			missing = true
			return
		}
		if strings.TrimSpace(*v) == "" {
			errs = append(errs, fieldError(field, CodeNotBlank, "must not be blank", *v))
			missing = true
		}
	}
	requireDateTime := func(field string, v *DateTime) {
		if v == nil {
			errs = append(errs, fieldError(field, CodeNotNull, "must not be null", nil))
			missing = true
		}
	}
	requireInt := func(field string, v *int) {
		if v == nil {
			errs = append(errs, fieldError(field, CodeNotNull, "must not be null", nil))
			missing = true
		}
	}

	requireText("name", req.Name)
	requireText("description", req.Description)
	requireDateTime("beginEnrollmentDateTime", req.BeginEnrollmentDateTime)
	requireDateTime("closeEnrollmentDateTime", req.CloseEnrollmentDateTime)
	requireDateTime("beginEventDateTime", req.BeginEventDateTime)
	requireDateTime("endEventDateTime", req.EndEventDateTime)
	requireInt("basePrice", req.BasePrice)
	requireInt("maxPrice", req.MaxPrice)
	requireInt("limitOfEnrollment", req.LimitOfEnrollment)

	if req.BasePrice != nil && *req.BasePrice < 0 {
		errs = append(errs, fieldError("basePrice", CodePositiveOrZero, "must be greater than or equal to 0", *req.BasePrice))
	}
	if req.MaxPrice != nil && *req.MaxPrice < 0 {
		errs = append(errs, fieldError("maxPrice", CodePositiveOrZero, "must be greater than or equal to 0", *req.MaxPrice))
	}
	if req.LimitOfEnrollment != nil && *req.LimitOfEnrollment < 1 {
		errs = append(errs, fieldError("limitOfEnrollment", CodePositive, "must be greater than 0", *req.LimitOfEnrollment))
	}

	for _, f := range []struct {
		name string
		v    *int
	}{
		{"basePrice", req.BasePrice},
		{"maxPrice", req.MaxPrice},
		{"limitOfEnrollment", req.LimitOfEnrollment},
	} {
		if f.v != nil && *f.v > MaxAmount {
			errs = append(errs, fieldError(f.name, CodeMax, "must be less than or equal to "+strconv.Itoa(MaxAmount), *f.v))
		}
	}

	if missing {
		return errs
	}

	errs = append(errs, validateDateTimes(req)...)
	errs = append(errs, validatePrices(*req.BasePrice, *req.MaxPrice)...)

	return errs
}

func validateDateTimes(req CreateEventRequest) []FieldError {
	var errs []FieldError

	beginEnrollment := req.BeginEnrollmentDateTime.Time
	closeEnrollment := req.CloseEnrollmentDateTime.Time
	beginEvent := req.BeginEventDateTime.Time
	endEvent := req.EndEventDateTime.Time

	if closeEnrollment.Before(beginEnrollment) {
		errs = append(errs, objectError(CodeWrongDateTime, "closeEnrollmentDateTime must not be before beginEnrollmentDateTime"))
	}
	if beginEvent.Before(closeEnrollment) {
		errs = append(errs, objectError(CodeWrongDateTime, "beginEventDateTime must not be before closeEnrollmentDateTime"))
	}
	if endEvent.Before(beginEvent) {
		errs = append(errs, objectError(CodeWrongDateTime, "endEventDateTime must not be before beginEventDateTime"))
	}

	return errs
}

// equal prices, zero or not, are fine
func validatePrices(basePrice, maxPrice int) []FieldError {
	if basePrice == 0 && maxPrice == 0 {
		return nil
	}

	if basePrice > maxPrice {
		return []FieldError{objectError(CodeWrongPrice, "basePrice must not be greater than maxPrice")}
	}

	return nil
}
