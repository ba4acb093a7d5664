package badge

import "github.com/cockroachdb/errors"

// Invocation-terminal errors. Every one of these aborts the enclosing
// record transaction with zero partial effect; retry policy is the
// caller's concern.
var (
	// ErrEventInactive rejects mints against a closed event.
	ErrEventInactive = errors.New("event is not active")
	// ErrEventFull rejects mints once current_attendees reached capacity.
	ErrEventFull = errors.New("event is at capacity")
	// ErrUnauthorized rejects callers failing an ownership or authority
	// check.
	ErrUnauthorized = errors.New("caller is not authorized")
	// ErrIssuanceFailed wraps credential issuer failures.
	ErrIssuanceFailed = errors.New("credential issuance failed")
	// ErrAlreadyAttended rejects a second mint for the same
	// (event, attendee) pair.
	ErrAlreadyAttended = errors.New("attendee already holds a badge for this event")
	// ErrAttendanceHistoryFull rejects a mint that would push the
	// attendee's event history past its cap.
	ErrAttendanceHistoryFull = errors.New("attendance history is full")
)
