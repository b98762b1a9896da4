package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeFormat, "unexpected magic: %s", "value")

	if err.Code != ErrCodeFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFormat)
	}

	if err.Message != "unexpected magic: value" {
		t.Errorf("Message = %v, want %v", err.Message, "unexpected magic: value")
	}

	expected := "INVALID_FORMAT: unexpected magic: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFormat, cause, "read string")

	if err.Code != ErrCodeFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeConflict, "test"),
			code:     ErrCodeConflict,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeConflict, "test"),
			code:     ErrCodeNotFound,
			expected: false,
		},
		{
			name:     "wrapped error outer code",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeFormat, "inner"), "outer"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "wrapped error inner code",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeFormat, "inner"), "outer"),
			code:     ErrCodeFormat,
			expected: true,
		},
		{
			name:     "fmt context chain",
			err:      fmt.Errorf("read anims[2]: %w", fmt.Errorf("read id: %w", New(ErrCodeFormat, "eof"))),
			code:     ErrCodeFormat,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeFormat,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeFormat,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeDuplicateID, "test"),
			expected: ErrCodeDuplicateID,
		},
		{
			name:     "wrapped with context",
			err:      fmt.Errorf("anims[0]: %w", New(ErrCodeConflict, "test")),
			expected: ErrCodeConflict,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "nested Error",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeFormat, "inner"), "outer"),
			expected: "outer: inner",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
