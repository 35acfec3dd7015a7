package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrConflict           = errors.New("stored status is not a valid predecessor")
	ErrInsufficientFunds  = errors.New("insufficient wallet funds")
	ErrAuthExpired        = errors.New("bearer credential is expired or invalid")
	ErrNoCredential       = errors.New("identity provider returned no credential")
	ErrOutOfRange         = errors.New("delivery address is out of delivery range")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCancelWindowClosed = errors.New("cancellation window has closed")
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInternalError      = errors.New("internal error")
)

// TooManyRequestsError is returned when a remote service rate-limits us.
// RetryAfter carries the delay the service asked for.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

// NewTooManyRequestsError creates TooManyRequestsError with retry delay
func NewTooManyRequestsError(retryAfter time.Duration) TooManyRequestsError {
	return TooManyRequestsError{RetryAfter: retryAfter}
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}
