package services

import "errors"

// Error pairs the text shown to the user with the underlying cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(msg string, err error) error {
	return &Error{Message: msg, Err: err}
}

// UserMessage returns the user-facing text carried by err, or fallback.
func UserMessage(err error, fallback string) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
