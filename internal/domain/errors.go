package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// ErrKindValidation covers malformed input; the caller can correct and retry.
	ErrKindValidation ErrorKind = "VALIDATION"
	// ErrKindConflict covers availability overlaps and duration violations.
	ErrKindConflict ErrorKind = "CONFLICT"
	// ErrKindInvalidTransition covers guard failures and lost optimistic races.
	ErrKindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	// ErrKindUpstream covers payment/storage faults; state is never partially
	// committed when one occurs.
	ErrKindUpstream ErrorKind = "UPSTREAM_FAILURE"
	// ErrKindPolicy covers domain rule violations such as a second claim or a
	// cancellation after pickup was documented.
	ErrKindPolicy ErrorKind = "POLICY_VIOLATION"
)

// Error is the structured error every operation returns on failure: a kind
// for programmatic handling, a human message, and the ids involved.
type Error struct {
	Kind      ErrorKind
	Message   string
	BookingID int64
	Status    BookingStatus    // current status, set for transition failures
	Reason    string           // machine-readable reason code for policy violations
	Conflicts []ConflictReason // set for availability conflicts
	cause     error
}

func (e *Error) Error() string {
	if e.BookingID != 0 {
		return fmt.Sprintf("%s: %s (booking %d)", e.Kind, e.Message, e.BookingID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrKindValidation, Message: msg}
}

func NewConflictError(msg string, bookingID int64) *Error {
	return &Error{Kind: ErrKindConflict, Message: msg, BookingID: bookingID}
}

// NewInvalidTransition reports a transition attempt the current state does
// not allow, identifying the state and the attempted action.
func NewInvalidTransition(bookingID int64, current BookingStatus, action string) *Error {
	return &Error{
		Kind:      ErrKindInvalidTransition,
		Message:   fmt.Sprintf("cannot %s while booking is %s", action, current),
		BookingID: bookingID,
		Status:    current,
	}
}

func NewPolicyViolation(bookingID int64, reason, msg string) *Error {
	return &Error{Kind: ErrKindPolicy, Message: msg, BookingID: bookingID, Reason: reason}
}

func NewUpstreamFailure(msg string, cause error) *Error {
	return &Error{Kind: ErrKindUpstream, Message: msg, cause: cause}
}

// KindOf extracts the kind from err, or "" if err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
