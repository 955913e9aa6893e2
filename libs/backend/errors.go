package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	// KindTransport means no response reached us.
	KindTransport Kind = "transport"
	// KindHTTP means the backend answered with a non-2xx status.
	KindHTTP Kind = "http"
	// KindDecode means the body could not be decoded into the expected shape.
	KindDecode Kind = "decode"
)

const (
	msgUnexpected   = "An unexpected error occurred"
	msgCannotReach  = "Cannot connect to backend. Please ensure the backend services are running."
	msgNotFound     = "API endpoint not found. The backend service may not be available."
	msgAuthFailed   = "Authentication failed. Please login again."
	msgServerError  = "Server error. Please try again later."
	msgNetworkError = "Network error occurred"
	msgRequestFail  = "Request failed"
)

type Error struct {
	Kind    Kind
	Status  int
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("backend %s: %d: %s", e.Path, e.Status, e.Message)
	default:
		return fmt.Sprintf("backend %s: %s: %s", e.Path, e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsStatus reports whether err is a backend HTTP error with one of statuses.
func IsStatus(err error, statuses ...int) bool {
	var be *Error
	if !errors.As(err, &be) || be.Kind != KindHTTP {
		return false
	}
	for _, s := range statuses {
		if be.Status == s {
			return true
		}
	}
	return false
}

func IsTransport(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == KindTransport
}

// UserMessage turns a client error into text that can be shown next to the
// data it affected.
func UserMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}
	var be *Error
	if !errors.As(err, &be) {
		return messageFromText(err.Error())
	}
	switch be.Kind {
	case KindTransport:
		return msgCannotReach
	case KindDecode:
		return msgUnexpected
	}
	switch be.Status {
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return msgAuthFailed
	case http.StatusInternalServerError:
		return msgServerError
	}
	if strings.TrimSpace(be.Message) == "" {
		return msgUnexpected
	}
	return be.Message
}

// messageFromText classifies errors that did not come from this client,
// by looking for the same markers the typed path switches on.
func messageFromText(text string) string {
	switch {
	case strings.TrimSpace(text) == "":
		return msgUnexpected
	case strings.Contains(text, "Failed to fetch"), strings.Contains(text, "Network error"), strings.Contains(text, "connection refused"):
		return msgCannotReach
	case strings.Contains(text, "404"):
		return msgNotFound
	case strings.Contains(text, "401"), strings.Contains(text, "403"):
		return msgAuthFailed
	case strings.Contains(text, "500"):
		return msgServerError
	}
	return text
}
