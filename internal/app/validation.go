package app

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists request fields that failed validation, keyed by their
// JSON name.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Details[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and converts failures into a
// *ValidationError.
func validateRequest(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	details := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		details[e.Field()] = formatValidationError(e)
	}
	return &ValidationError{Details: details}
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return "must contain at least " + e.Param() + " entries"
		}
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	case "nefield":
		return "must differ from " + e.Param()
	default:
		return "invalid value"
	}
}
