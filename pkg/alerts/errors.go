package alerts

import "errors"

var (
	// ErrUserNotFound is returned when a user id is not registered.
	ErrUserNotFound = errors.New("user not found")

	// ErrSubjectNotFound is returned when a subject id is not registered.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrAlertNotFound is returned when no published alert has the given id.
	ErrAlertNotFound = errors.New("alert not found")

	// ErrInvalidType is returned when an alert type label is not recognized.
	ErrInvalidType = errors.New("invalid alert type")
)
