package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDataErrorClassifies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind DataKind
	}{
		{name: "not found", err: fmt.Errorf("note 1: %w", ErrNotFound), kind: KindNotFound},
		{name: "permission", err: ErrPermissionDenied, kind: KindPermissionDenied},
		{name: "invalid", err: fmt.Errorf("title: %w", ErrInvalid), kind: KindInvalid},
		{name: "deadline", err: context.DeadlineExceeded, kind: KindUnavailable},
		{name: "other", err: errors.New("boom"), kind: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := NewDataError("delete", tt.err)
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.err.Error(), de.Message)
			assert.ErrorIs(t, de, tt.err)
		})
	}
}

func TestDataErrorMatchesKindSentinel(t *testing.T) {
	de := &DataError{Op: "delete", Kind: KindNotFound, Message: "no such document"}
	assert.ErrorIs(t, de, ErrNotFound)
	assert.NotErrorIs(t, de, ErrPermissionDenied)
}

func TestNewDataErrorKeepsExisting(t *testing.T) {
	inner := &DataError{Op: "update", Kind: KindNotFound, Message: "gone"}
	wrapped := fmt.Errorf("outer: %w", inner)
	assert.Same(t, inner, NewDataError("update", wrapped))
}

func TestAuthErrorMessageIsProviderMessage(t *testing.T) {
	err := NewAuthError("login", errors.New("invalid credentials"))
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Equal(t, "login", err.Op)
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "Failed to login", Message(nil, "Failed to login"))
	assert.Equal(t, "Failed to login", Message(errors.New("  "), "Failed to login"))
	assert.Equal(t, "weak password", Message(errors.New("weak password"), "Failed to login"))
}
