package bscmp

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for component operations.
var (
	ErrBadParam         = errors.New("bscmp: malformed state parameter")
	ErrUnknownSlot      = errors.New("bscmp: unknown state slot")
	ErrSlotType         = errors.New("bscmp: state slot value has wrong type")
	ErrNotConfigured    = errors.New("bscmp: component not configured")
	ErrInvalidToken     = errors.New("bscmp: invalid submission token")
	ErrMissingParam     = errors.New("bscmp: missing URL parameter")
	ErrUnknownEndpoint  = errors.New("bscmp: unknown endpoint")
	ErrSession          = errors.New("bscmp: session unavailable")
	ErrDecryptFailed    = errors.New("bscmp: parameter decryption failed")
	ErrSignatureInvalid = errors.New("bscmp: signature verification failed")
	ErrInvalidFormat    = errors.New("bscmp: invalid parameter format")
)

// HTTPError aborts the request with a specific status code.
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("bscmp: http %d", e.Status)
	}
	return fmt.Sprintf("bscmp: http %d: %v", e.Status, e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Abort returns an error that makes the registry answer with status.
func Abort(status int, err error) error {
	return &HTTPError{Status: status, Err: err}
}

// RedirectError aborts rendering and redirects the client to URL.
//
// Forms return it after successful processing so a page refresh cannot
// re-submit the same data.
type RedirectError struct {
	URL    string
	Status int
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("bscmp: redirect %d to %s", e.code(), e.URL)
}

func (e *RedirectError) code() int {
	if e.Status == 0 {
		return http.StatusSeeOther
	}
	return e.Status
}

// IsBadRequest checks if err was caused by client input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadParam) || errors.Is(err, ErrInvalidToken)
}

// IsNotConfigured checks if err is a programmer configuration error.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// AsRedirect extracts a redirect from err.
func AsRedirect(err error) (*RedirectError, bool) {
	var re *RedirectError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// StatusCode maps err to the HTTP status it should produce.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if re, ok := AsRedirect(err); ok {
		return re.code()
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	if IsBadRequest(err) || IsDecryptionError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
