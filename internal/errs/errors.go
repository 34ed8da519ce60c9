// Package errs holds the two error families the sync layer surfaces:
// AuthError for identity operations and DataError for document operations.
// Both keep the provider's message unchanged; the stores only ever show
// that message to the UI.
package errs

import (
	"context"
	"errors"
	"net"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalid          = errors.New("invalid input")
)

// AuthError wraps a failure reported by the identity provider.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

func NewAuthError(op string, err error) *AuthError {
	return &AuthError{Op: op, Message: messageOf(err), Err: err}
}

type DataKind string

const (
	KindNotFound         DataKind = "not_found"
	KindPermissionDenied DataKind = "permission_denied"
	KindUnavailable      DataKind = "unavailable"
	KindInvalid          DataKind = "invalid"
	KindUnknown          DataKind = "unknown"
)

// DataError wraps a failure reported by the document store.
type DataError struct {
	Op      string
	Kind    DataKind
	Message string
	Err     error
}

func (e *DataError) Error() string { return e.Message }

func (e *DataError) Unwrap() error { return e.Err }

// Is lets callers match on the kind even when the store returned a driver error.
func (e *DataError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrPermissionDenied:
		return e.Kind == KindPermissionDenied
	case ErrInvalid:
		return e.Kind == KindInvalid
	}
	return false
}

func NewDataError(op string, err error) *DataError {
	var existing *DataError
	if errors.As(err, &existing) {
		return existing
	}
	return &DataError{Op: op, Kind: classify(err), Message: messageOf(err), Err: err}
}

func classify(err error) DataKind {
	var netErr net.Error
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return KindUnavailable
	}
	return KindUnknown
}

// Message returns the human readable text the slices store, or fallback
// when the error carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
