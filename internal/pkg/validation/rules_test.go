package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name    string
		v       *StringValidation
		wantErr string
	}{
		{"valid name", NewStringValidation("name", "Biology").WithMaxLength(50), ""},
		{"blank required", NewStringValidation("firstName", "   "), "firstName cannot be empty"},
		{"blank optional", NewStringValidation("description", "").WithRequired(false).WithMaxLength(5), ""},
		{"too long", NewStringValidation("name", strings.Repeat("a", 51)).WithMaxLength(50), "at most 50"},
		{"multibyte within limit", NewStringValidation("name", strings.Repeat("ö", 50)).WithMaxLength(50), ""},
		{"pattern mismatch", NewStringValidation("name", "ab-12").WithPattern(GroupNamePattern), "invalid format"},
		{"pattern match", NewStringValidation("name", "AB-12").WithPattern(GroupNamePattern), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIDAndAll(t *testing.T) {
	assert.NoError(t, ID("student ID", 1))
	assert.ErrorIs(t, ID("student ID", 0), apperrors.ErrValidationFailed)

	err := All(nil, Name("lastName", ""), ID("student ID", -1))
	assert.Contains(t, err.Error(), "lastName")
	assert.NoError(t, All(nil, nil))
}

func TestGroupNamePattern(t *testing.T) {
	assert.True(t, GroupNamePattern.MatchString("XY-99"))
	assert.False(t, GroupNamePattern.MatchString("XY-09"))
	assert.False(t, GroupNamePattern.MatchString("XYZ-10"))
}
