package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/enrollment/internal/app/models/dto"
)

// RegisterValidatorTagNames makes validation errors report json/form field
// names instead of Go struct field names.
func RegisterValidatorTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// RespondBindingError renders a failed ShouldBind* call as a 400. Rule
// violations are listed per field; anything else is a malformed request.
func RespondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]dto.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, dto.FieldError{
				Field:   fe.Field(),
				Message: formatValidationError(fe),
			})
		}
		RespondBadRequest(c, dto.ErrorCodeValidationFailed, "Validation failed", fields)
		return
	}

	RespondBadRequest(c, dto.ErrorCodeBadRequest, "Invalid request format", err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
