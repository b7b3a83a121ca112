package core

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RequirePositiveID rejects identifiers the API would never issue. scope
// prefixes the message, e.g. "cartography".
func RequirePositiveID(scope, field string, id int) error {
	if id > 0 {
		return nil
	}
	return NewBadInputError(
		fmt.Sprintf("%s: %s must be a positive identifier", scope, field),
		goerrors.FieldError{Field: field, Message: "must be greater than zero"},
	)
}

func RequireText(scope, field, value string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return NewBadInputError(
		fmt.Sprintf("%s: %s is required", scope, field),
		goerrors.FieldError{Field: field, Message: "required"},
	)
}

func RequireUUID(scope, field, value string) error {
	if _, err := uuid.Parse(strings.TrimSpace(value)); err == nil {
		return nil
	}
	return NewBadInputError(
		fmt.Sprintf("%s: %s must be a uuid", scope, field),
		goerrors.FieldError{Field: field, Message: "must be a uuid"},
	)
}
