package scan

import "errors"

var (
	// ErrNotCompleted is returned when results are requested for a scan
	// that has not reached the COMPLETED state.
	ErrNotCompleted = errors.New("scan has not completed")
	// ErrAlreadyTerminal is returned when cancelling a scan that already
	// reached a terminal state.
	ErrAlreadyTerminal = errors.New("scan already reached a terminal state")
)
