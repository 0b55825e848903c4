package event

import (
	"encoding/json"
)

// ObjectName identifies the creation request in every FieldError.
const ObjectName = "eventCreationRequest"

const (
	CodeNotBlank        = "NotBlank"
	CodeNotNull         = "NotNull"
	CodePositive        = "Positive"
	CodePositiveOrZero  = "PositiveOrZero"
	CodeMax             = "Max"
	CodeWrongDateTime   = "WrongDateTime"
	CodeWrongPrice      = "WrongPrice"
	CodeInvalidJSON     = "InvalidJson"
	CodeTypeMismatch    = "TypeMismatch"
	CodeUnknownProperty = "UnknownProperty"
)

// FieldError is a single validation failure. An empty Field means the error
// concerns the request as a whole rather than one of its properties.
type FieldError struct {
	ObjectName     string `json:"objectName"`
	Field          string `json:"field,omitempty"`
	Code           string `json:"code"`
	DefaultMessage string `json:"defaultMessage"`
	RejectedValue  any    `json:"rejectedValue,omitempty"`
}

func (e FieldError) IsObjectError() bool {
	return e.Field == ""
}

// MarshalJSON always writes rejectedValue for field errors, even when it is null,
// and never for object errors.
func (e FieldError) MarshalJSON() ([]byte, error) {
	if e.IsObjectError() {
		return json.Marshal(struct {
			ObjectName     string `json:"objectName"`
			Code           string `json:"code"`
			DefaultMessage string `json:"defaultMessage"`
		}{e.ObjectName, e.Code, e.DefaultMessage})
	}

	return json.Marshal(struct {
		ObjectName     string `json:"objectName"`
		Field          string `json:"field"`
		Code           string `json:"code"`
		DefaultMessage string `json:"defaultMessage"`
		RejectedValue  any    `json:"rejectedValue"`
	}{e.ObjectName, e.Field, e.Code, e.DefaultMessage, e.RejectedValue})
}

func fieldError(field, code, message string, rejected any) FieldError {
	return FieldError{
		ObjectName:     ObjectName,
		Field:          field,
		Code:           code,
		DefaultMessage: message,
		RejectedValue:  rejected,
	}
}

func objectError(code, message string) FieldError {
	return FieldError{
		ObjectName:     ObjectName,
		Code:           code,
		DefaultMessage: message,
	}
}

// NewFieldError builds a request-level error for failures found outside Validate,
// such as undecodable JSON.
func NewFieldError(field, code, message string, rejected any) FieldError {
	if field == "" {
		return objectError(code, message)
	}
	return fieldError(field, code, message, rejected)
}
