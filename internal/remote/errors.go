package remote

import (
	"fmt"
	"net/http"

	apperrors "github.com/allisson/tokenizer/internal/errors"
)

// StatusDecryptionFailed is the status the remote service answers with when it
// cannot open an encrypted request envelope.
const StatusDecryptionFailed = 419

var (
	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = apperrors.Wrap(apperrors.ErrUnavailable, "transport failure")

	// ErrMalformedResponse indicates a response body that could not be decoded.
	ErrMalformedResponse = apperrors.New("malformed response")

	// ErrUnknownOperation indicates an operation without an endpoint.
	ErrUnknownOperation = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown operation")
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps the status to the shared error vocabulary.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return apperrors.ErrConflict
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidInput
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode >= 500:
		return apperrors.ErrUnavailable
	default:
		return nil
	}
}

// StatusCode extracts the HTTP status of err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if apperrors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// MalformedResponse wraps a decode failure.
func MalformedResponse(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
}
