package util

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// OptionalText wraps a trimmed string into pgtype.Text. Blank strings are invalid, i.e. NULL.
func OptionalText(s string) pgtype.Text {
	trim := strings.TrimSpace(s)
	if trim == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: trim, Valid: true}
}
