package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind identifies one of the terminal failure modes of a chef call.
type ErrorKind string

const (
	KindMissingCredential   ErrorKind = "missing_credential"
	KindInvalidImage        ErrorKind = "invalid_image"
	KindNetwork             ErrorKind = "network_error"
	KindAPI                 ErrorKind = "api_error"
	KindEmptyResponse       ErrorKind = "empty_response"
	KindMalformedEnvelope   ErrorKind = "malformed_envelope"
	KindNoStructuredPayload ErrorKind = "no_structured_payload"
	KindSchemaMismatch      ErrorKind = "schema_mismatch"
	KindCanceled            ErrorKind = "canceled"
)

// Sentinels for errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrMissingCredential   = &Error{Kind: KindMissingCredential, Message: "API key is missing"}
	ErrInvalidImage        = &Error{Kind: KindInvalidImage, Message: "invalid image data"}
	ErrNetwork             = &Error{Kind: KindNetwork, Message: "network error"}
	ErrAPI                 = &Error{Kind: KindAPI, Message: "API request failed"}
	ErrEmptyResponse       = &Error{Kind: KindEmptyResponse, Message: "no data received"}
	ErrMalformedEnvelope   = &Error{Kind: KindMalformedEnvelope, Message: "invalid response from API"}
	ErrNoStructuredPayload = &Error{Kind: KindNoStructuredPayload, Message: "no JSON array in model reply"}
	ErrSchemaMismatch      = &Error{Kind: KindSchemaMismatch, Message: "error parsing response"}
	ErrCanceled            = &Error{Kind: KindCanceled, Message: "request canceled"}
)

// Error is the error type returned by the request pipeline.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status and Snippet are set for KindAPI.
	Status  int
	Snippet string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Kind == KindAPI && e.Status != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.Status)
		if e.Snippet != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Snippet)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps err onto the status the API layer should answer with.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrFavoriteNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidFavorite) {
		return http.StatusBadRequest
	}
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindInvalidImage:
		return http.StatusBadRequest
	case KindMissingCredential:
		return http.StatusServiceUnavailable
	case KindNetwork:
		return http.StatusGatewayTimeout
	case KindAPI:
		if e.Status == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	case KindEmptyResponse, KindMalformedEnvelope, KindNoStructuredPayload, KindSchemaMismatch:
		return http.StatusBadGateway
	case KindCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
