package vlm

import (
	"errors"
	"testing"
)

func TestIsFatalAPIError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"credit balance", errors.New("Your credit balance is too low"), true},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"quota", errors.New("monthly quota exceeded"), true},
		{"invalid key", errors.New("Invalid API key provided"), true},
		{"unauthorized", errors.New("request unauthorized"), true},
		{"status 401", errors.New("API returned status 401"), true},
		{"status 403", errors.New("API returned status 403"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), false},
		{"timeout", errors.New("context deadline exceeded"), false},
		{"model not loaded", errors.New("model llava:7b not found, pulling"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFatalAPIError(tt.err); got != tt.fatal {
				t.Errorf("isFatalAPIError(%v) = %v, want %v", tt.err, got, tt.fatal)
			}
		})
	}
}

func TestWrapFatalError(t *testing.T) {
	t.Run("fatal wrapped", func(t *testing.T) {
		orig := errors.New("billing issue")
		wrapped := wrapFatalError(orig)
		if !errors.Is(wrapped, ErrFatalAPI) {
			t.Error("wrapped error should match ErrFatalAPI")
		}
		if !errors.Is(wrapped, orig) {
			t.Error("wrapped error should still match the original")
		}
	})

	t.Run("transient passthrough", func(t *testing.T) {
		orig := errors.New("connection reset")
		if got := wrapFatalError(orig); got != orig {
			t.Errorf("wrapFatalError = %v, want the original unchanged", got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if got := wrapFatalError(nil); got != nil {
			t.Errorf("wrapFatalError(nil) = %v, want nil", got)
		}
	})
}
