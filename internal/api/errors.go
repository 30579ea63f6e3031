package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected status")
)

// Error is a non-2xx response from the FinSafe API.
//
// Message holds the body's "message" field and is empty when the API did
// not send one.
type Error struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.kind
}

type errorBody struct {
	Message string `json:"message"`
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)

	return &Error{
		StatusCode: code,
		Message:    strings.TrimSpace(body.Message),
		kind:       kindOf(code),
	}
}

func kindOf(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnexpected
	}
}

// MessageOf returns the message the API attached to err, or fallback when
// err is not an API error or carries no message.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Describe returns a user-facing description of err: the API message, the
// generic status text for API errors without one, or a connectivity notice.
func Describe(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Unable to reach the FinSafe server. Please try again."
}
