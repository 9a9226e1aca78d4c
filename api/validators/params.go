package validators

import (
	"strings"

	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
)

const maxIDLength = 128

// RequireID checks an identifier taken from a path or query parameter.
func RequireID(value, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "identifier is required").
			WithDetails(map[string]any{"field": field})
	}
	if len(trimmed) > maxIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "identifier is too long").
			WithDetails(map[string]any{"field": field, "max": maxIDLength})
	}
	return trimmed, nil
}
