package helpers

import (
	"database/sql"
	"strings"
)

// GetContentNullString converts a string value to sql.NullString.
// Blank strings become NULL so optional text columns never store "".
func GetContentNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
