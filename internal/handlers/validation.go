package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// bindingFieldErrors converts the error returned by gin's JSON binding into
// a per-field message map. Binding failures that are not validator errors
// (malformed JSON, wrong types) yield a single generic body entry.
func bindingFieldErrors(err error) apperrors.FieldErrors {
	fieldErrs := apperrors.FieldErrors{}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fieldErrs.Add("body", "The request body is malformed.")
		return fieldErrs
	}

	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		fieldErrs.Add(field, fieldErrorMessage(field, fe))
	}
	return fieldErrs
}

// fieldErrorMessage renders a single validation failure as a human-readable
// message.
func fieldErrorMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("The %s does not match the format Y-m-d.", field)
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}
