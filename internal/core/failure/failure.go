// Package failure defines the stable, caller-facing result codes the
// commit coordinator returns. No exception ever escapes the core;
// every exit is one of these typed results (spec.md §7).
package failure

import "errors"

// Reason is one of the stable strings from spec.md §6.
type Reason string

const (
	InvalidRequest    Reason = "INVALID_REQUEST"
	InvalidLocks      Reason = "INVALID_LOCKS"
	EventNotFound     Reason = "EVENT_NOT_FOUND"
	SalesClosed       Reason = "SALES_CLOSED"
	SeatsNotFound     Reason = "SEATS_NOT_FOUND"
	SeatsNotAvailable Reason = "SEATS_NOT_AVAILABLE"
	BookingNotFound   Reason = "BOOKING_NOT_FOUND"
	InvalidStatus     Reason = "INVALID_STATUS"
	AlreadyCancelled  Reason = "ALREADY_CANCELLED"
	SystemError       Reason = "SYSTEM_ERROR"
)

// Error is the typed error the coordinator returns.
// It carries a stable Reason plus the underlying cause for logging, so
// callers can switch on Reason without string matching.
type Error struct {
	Reason Reason
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Reason)
	}
	return string(e.Reason) + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(reason Reason, cause error) *Error {
	return &Error{Reason: reason, Cause: cause}
}

// ReasonOf extracts the stable reason from err, defaulting to
// SYSTEM_ERROR for anything not already typed — this is the fail-closed
// boundary between internal errors and the operation surface in §6.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return SystemError
}
