package app

import (
	"errors"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"op only", NewOperationError("export", "", nil), "export"},
		{"with target", NewOperationError("apply preset", "Sunset", base), "apply preset Sunset: boom"},
		{"with context", NewOperationError("save preset", "Mono", base).WithContext("prompt"), "save preset Mono (prompt): boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationError_NilReceiver(t *testing.T) {
	var e *OperationError
	if e.Error() != "" {
		t.Error("nil Error() should be empty")
	}
	if e.Unwrap() != nil {
		t.Error("nil Unwrap() should be nil")
	}
	if e.WithContext("x") != nil {
		t.Error("nil WithContext() should be nil")
	}
	if e.Is(ErrClosed) {
		t.Error("nil Is() should be false")
	}
}

func TestOperationError_Is(t *testing.T) {
	err := NewOperationError("export", "/tmp", ErrClosed)
	if !errors.Is(err, ErrClosed) {
		t.Error("expected errors.Is to match the wrapped error")
	}
	if errors.Is(err, ErrNoStore) {
		t.Error("unexpected match")
	}
	if !errors.Is(err, err) {
		t.Error("expected errors.Is to match itself")
	}
	var target *OperationError
	if !errors.As(err, &target) || target.Op != "export" {
		t.Errorf("errors.As = %v", target)
	}
}

func TestWrapOp(t *testing.T) {
	if wrapOp("save", "k", nil) != nil {
		t.Error("wrapOp(nil) should be nil")
	}
	err := wrapOp("save", "k", ErrClosed)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("wrapOp lost the cause: %v", err)
	}
}
