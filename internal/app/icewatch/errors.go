package icewatch

import "errors"

var (
	// ErrInvalidDuration reports a watch request with a non-positive
	// duration. Zero-hour trips are rejected outright rather than
	// treated as instantly overdue.
	ErrInvalidDuration = errors.New("trip duration must be a positive number of hours")

	// ErrAlreadyMonitored reports that a watch already exists for the
	// trip; the existing watch is authoritative.
	ErrAlreadyMonitored = errors.New("trip is already being monitored")
)
