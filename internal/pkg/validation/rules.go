package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

// Column limits of the schema
const (
	NameMaxLength        = 50
	DescriptionMaxLength = 200
)

// GroupNamePattern matches generated group names such as "AB-12"
var GroupNamePattern = regexp.MustCompile(`^[A-Z]{2}-[1-9][0-9]$`)

// StringValidation checks one named string field
type StringValidation struct {
	Field    string
	Value    string
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a validation for a required field
func NewStringValidation(field, value string) *StringValidation {
	return &StringValidation{
		Field:    field,
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets the maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns nil or an error wrapping apperrors.ErrValidationFailed
// that names the offending field.
func (v *StringValidation) Validate() error {
	trimmed := strings.TrimSpace(v.Value)
	if trimmed == "" {
		if v.Required {
			return fmt.Errorf("%w: %s cannot be empty", apperrors.ErrValidationFailed, v.Field)
		}
		return nil
	}

	if v.MaxLen > 0 && utf8.RuneCountInString(v.Value) > v.MaxLen {
		return fmt.Errorf("%w: %s must be at most %d characters", apperrors.ErrValidationFailed, v.Field, v.MaxLen)
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return fmt.Errorf("%w: %s has an invalid format", apperrors.ErrValidationFailed, v.Field)
	}

	return nil
}

// Name validates a required name-like field against the schema limit
func Name(field, value string) error {
	return NewStringValidation(field, value).WithMaxLength(NameMaxLength).Validate()
}

// ID validates an entity identifier taken from a path or body
func ID(field string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid %s", apperrors.ErrValidationFailed, field)
	}
	return nil
}

// All returns the first non-nil error
func All(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
