package appointment

import "errors"

var (
	// ErrNoEvent is returned when a reschedule or status change targets
	// an event the caller never loaded.
	ErrNoEvent = errors.New("appointment event is required")
)
