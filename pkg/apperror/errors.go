// Package apperror classifies failures so the HTTP layer can pick a status
// code without inspecting provider or driver errors.
package apperror

import (
	"errors"
	"net/http"
)

// Error kinds. Wrapped errors match these with errors.Is.
var (
	// ErrAuth indicates a credential exchange or refresh failure.
	ErrAuth = errors.New("authentication failed")

	// ErrNoRefreshToken indicates the identity provider did not grant offline access.
	ErrNoRefreshToken = errors.New("no refresh token granted")

	// ErrFetch indicates a remote list call failed; fatal to the sync cycle.
	ErrFetch = errors.New("remote fetch failed")

	// ErrItemFetch indicates a single item detail fetch failed; recovered by the caller.
	ErrItemFetch = errors.New("remote item fetch failed")

	// ErrStore indicates a persistence failure.
	ErrStore = errors.New("store operation failed")

	// ErrNotFound indicates a missing record or linked credential.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated indicates a missing or invalid session.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error wraps an underlying error with a kind and the operation that failed.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap returns nil when err is nil.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// New builds an error of the given kind without an underlying cause.
func New(kind error, op string) error {
	return &Error{Kind: kind, Op: op}
}

// HTTPStatus maps an error to the status code returned to clients.
// A missing linked credential is a precondition failure (400), a missing
// session is 401, everything else is an internal failure.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoRefreshToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message shown to clients. Causes are never
// echoed; fallback describes the failed operation.
func PublicMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Unauthorized"
	case errors.Is(err, ErrNoRefreshToken), errors.Is(err, ErrNotFound):
		return "No refresh token"
	default:
		return fallback
	}
}
