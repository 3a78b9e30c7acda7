// ABOUTME: Structured errors returned by the API client
// ABOUTME: Callers switch on Kind instead of matching message text

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the single error value every API call fails with.
// Message is the backend's text when it sent one.
type Error struct {
	Kind    Kind
	Status  int // 0 for transport and decode failures
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsUnauthorized reports whether the backend rejected the credentials
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// kindForStatus maps an HTTP status to a Kind
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindUnknown
	}
}

// errorResponse is the JSON error body some endpoints send
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// newStatusError builds an Error from a non-2xx response body.
// JSON bodies contribute their message field, anything else is used verbatim.
func newStatusError(status int, body []byte) *Error {
	text := strings.TrimSpace(string(body))

	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil {
		switch {
		case errResp.Message != "":
			text = errResp.Message
		case errResp.Error != "":
			text = errResp.Error
		}
	}

	if text == "" {
		text = fmt.Sprintf("HTTP error, status %d", status)
	}

	return &Error{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: text,
	}
}
