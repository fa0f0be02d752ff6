package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a structural precondition failure in an inbound
// payload. Field names the offending field in the provider's wire format so
// operators can see exactly what was missing.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// PayloadValidator checks the structural preconditions an InboundPayload must
// satisfy before normalization is attempted: message identifier and date
// present, sender email non-empty, at least one recipient, and header and
// attachment lists present (possibly empty).
type PayloadValidator struct {
	validate *validator.Validate
}

// NewPayloadValidator creates a payload validator.
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate returns nil when the payload is structurally valid, or a
// *ValidationError naming the first failing field. It never panics.
func (pv *PayloadValidator) Validate(payload *InboundPayload) error {
	if payload == nil {
		return &ValidationError{Field: "payload"}
	}

	if err := pv.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{Field: structField(verrs[0])}
		}
		return err
	}

	// Checks the tag-based validator cannot express.
	if payload.FromFull.Email == "" {
		return &ValidationError{Field: "FromFull.Email"}
	}
	// A nil list means the field was absent from the JSON entirely; an empty
	// list is acceptable for headers and attachments.
	if payload.Headers == nil {
		return &ValidationError{Field: "Headers"}
	}
	if payload.Attachments == nil {
		return &ValidationError{Field: "Attachments"}
	}

	return nil
}

// structField strips the wire-struct prefix from a validator namespace so the
// reported name matches the provider's field naming.
func structField(fe validator.FieldError) string {
	return strings.TrimPrefix(fe.StructNamespace(), "InboundPayload.")
}
