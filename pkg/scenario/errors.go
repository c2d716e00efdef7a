package scenario

import "errors"

var (
	ErrInvalidScenario = errors.New("invalid scenario document")
	ErrDuplicateUser   = errors.New("duplicate user name")
	ErrUnknownUser     = errors.New("unknown user")
	ErrInvalidTime     = errors.New("invalid expiration time")
)
