package bridge

import (
	"errors"
	"fmt"
	"strings"
)

// chainError is an error with its own message and an underlying cause. It
// matches its kind with errors.Is.
type chainError struct {
	cause   error
	kind    error
	message string
}

func newChainError(kind error, message string, cause error) *chainError {
	return &chainError{
		cause:   cause,
		kind:    kind,
		message: message,
	}
}

func (e *chainError) Error() string {
	return e.message
}

func (e *chainError) Is(target error) bool {
	return target == e.kind
}

func (e *chainError) Unwrap() error {
	return e.cause
}

// Flatten an error and its causes into a numbered, human readable message.
func FormatErrorChain(err error) string {
	var builder strings.Builder

	builder.WriteString(errorMessage(err))

	cause := errors.Unwrap(err)

	if cause == nil {
		return builder.String()
	}

	builder.WriteString("\n\nCaused by:")

	for i := 0; cause != nil; i++ {
		fmt.Fprintf(&builder, "\n%4d: %s", i, errorMessage(cause))

		cause = errors.Unwrap(cause)
	}

	return builder.String()
}

// Return the message an error adds on top of its cause.
func errorMessage(err error) string {
	message := err.Error()

	if cause := errors.Unwrap(err); cause != nil {
		message = strings.TrimSuffix(message, ": "+cause.Error())
	}

	return message
}
