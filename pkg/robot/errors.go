package robot

import "errors"

var (
	// ErrUnrecognizedMode indicates a mode byte without a known name.
	ErrUnrecognizedMode = errors.New("unrecognized mode")
	// ErrToggleUnavailable indicates the robot is neither idle nor running.
	ErrToggleUnavailable = errors.New("robot can't be started or stopped in current state")
	// ErrValueOutOfRange indicates a value which doesn't fit in a byte.
	ErrValueOutOfRange = errors.New("value out of range")
)
