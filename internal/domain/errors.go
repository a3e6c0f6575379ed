package domain

import "errors"

// Outcomes of a single operation. They are reported to the initiating
// connection only and never change shared state.
var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrNotInRoom            = errors.New("not in room")
	ErrNotFound             = errors.New("not found")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrInvalidState         = errors.New("invalid state")
	ErrRecipientUnreachable = errors.New("recipient unreachable")
	ErrBadPayload           = errors.New("bad payload")
)
