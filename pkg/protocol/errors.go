package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCommandValue indicates a command payload which is not a single byte.
	ErrInvalidCommandValue = errors.New("command value must be a single byte")
	// ErrMalformedFrame indicates a binary frame shorter than FrameSize.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnknownKey indicates an unknown parameter key name.
	ErrUnknownKey = errors.New("unknown key")
	// ErrUnknownCommand indicates an unknown command name.
	ErrUnknownCommand = errors.New("unknown command")
)

// TagConflictError reports two tags which can't be told apart by prefix.
type TagConflictError struct {
	Tag    string
	Prefix string
}

// Error implements error.
func (e *TagConflictError) Error() string {
	return fmt.Sprintf("tag %q is shadowed by tag %q", e.Tag, e.Prefix)
}
