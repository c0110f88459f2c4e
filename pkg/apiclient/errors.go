package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingCredential is returned before any I/O when the credential provider
	// has nothing stored for the client's credential type.
	ErrMissingCredential = errors.New("no credentials got returned")
	// ErrPageLimitExceeded is returned when a drain hits its MaxPages cap.
	ErrPageLimitExceeded = errors.New("pagination page limit exceeded")
	// ErrUnexpectedPayload is returned when a page cannot be read as a list of items.
	ErrUnexpectedPayload = errors.New("unexpected response payload")
)

// TransportFailure is returned by a Transport when the upstream answered with an
// error status. Body holds the decoded JSON document when RawBody was valid JSON.
type TransportFailure struct {
	StatusCode int
	Header     http.Header
	RawBody    []byte
	Body       any
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, string(e.RawBody))
}

func (e *TransportFailure) HTTPStatus() int {
	return e.StatusCode
}

// APIError is an upstream failure whose message could be extracted from the body.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error response [%d]: %s", e.Service, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// IsMissingCredential reports whether err was caused by an absent credential.
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	failure := &TransportFailure{}
	if errors.As(err, &failure) {
		return failure.StatusCode
	}

	return 0
}

// MessageExtractor pulls a human readable message out of an error response.
// It returns false when the body has no recognizable shape.
type MessageExtractor func(failure *TransportFailure) (string, bool)

// MessageField extracts a top-level "message" string.
func MessageField(failure *TransportFailure) (string, bool) {
	body, ok := failure.Body.(map[string]any)
	if !ok {
		return "", false
	}

	message, ok := body["message"].(string)
	if !ok || message == "" {
		return "", false
	}

	return message, true
}

// RawBody uses the whole response body as the message.
func RawBody(failure *TransportFailure) (string, bool) {
	if text, ok := failure.Body.(string); ok && text != "" {
		return text, true
	}

	if len(failure.RawBody) == 0 {
		return "", false
	}

	return string(failure.RawBody), true
}

// NestedErrorMessage extracts "error.message", the shape used by Google APIs.
func NestedErrorMessage(failure *TransportFailure) (string, bool) {
	body, ok := failure.Body.(map[string]any)
	if !ok {
		return "", false
	}

	nested, ok := body["error"].(map[string]any)
	if !ok {
		return "", false
	}

	message, ok := nested["message"].(string)
	if !ok || message == "" {
		return "", false
	}

	return message, true
}

// normalizeError rewraps transport failures with a recognizable body into an
// APIError. Anything else is returned as-is.
func normalizeError(service string, extract MessageExtractor, err error) error {
	failure := &TransportFailure{}
	if !errors.As(err, &failure) {
		return err
	}

	if extract == nil {
		extract = MessageField
	}

	message, ok := extract(failure)
	if !ok {
		return err
	}

	return &APIError{
		Service:    service,
		StatusCode: failure.StatusCode,
		Message:    message,
		Err:        err,
	}
}
