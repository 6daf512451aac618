package types

import (
	"errors"
	"strings"
)

var (
	ErrIssueNotFound    = errors.New("issue not found")
	ErrUnsupportedMedia = errors.New("invalid file type")
)

// ValidationError describes a submission the caller has to fix. Missing is
// populated when required fields were absent or empty.
type ValidationError struct {
	Message string
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return e.Message
	}

	return e.Message + ": " + strings.Join(e.Missing, ", ")
}

func NewMissingFieldsError(missing []string) *ValidationError {
	return &ValidationError{
		Message: "Missing required fields",
		Missing: missing,
	}
}

func NewInvalidCoordinatesError() *ValidationError {
	return &ValidationError{Message: "Invalid coordinate values"}
}

func NewInvalidPaginationError() *ValidationError {
	return &ValidationError{Message: "Invalid pagination parameters"}
}
