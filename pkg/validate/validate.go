// Package validate wraps struct validation and turns tag failures into the
// application's validation error shape.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
)

var validate = validator.New()

// Struct validates tagged fields and reports failures as a single
// validation error with per-field details.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fieldName(fe)] = failureMessage(fe)
	}
	return apperrors.NewValidationError("Validation failed", details)
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
}

func failureMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
