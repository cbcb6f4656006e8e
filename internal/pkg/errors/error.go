// Package xerrors holds the sentinel errors shared by services and handlers.
// Services wrap them with fmt.Errorf("%w: ...") and handlers map them to
// HTTP statuses.
package xerrors

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrRateLimited    = errors.New("too many requests")
	ErrSessionExpired = errors.New("session expired or invalid")
	ErrInternal       = errors.New("internal server error")
)
