package entities

import "errors"

// Error kinds surfaced by domain operations. Callers match them with errors.Is;
// the wrapped message is meant to be shown to the user.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
)
