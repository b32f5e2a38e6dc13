package vlm

import (
	"errors"
	"strings"
)

// ErrFatalAPI marks API errors that retrying cannot fix (auth, billing,
// quota). The retry loop stops immediately on these.
var ErrFatalAPI = errors.New("fatal API error")

// fatalPatterns are substrings that identify non-retryable API failures.
var fatalPatterns = []string{
	"credit balance",
	"rate limit",
	"quota exceeded",
	"billing",
	"invalid api key",
	"authentication failed",
	"unauthorized",
	"401",
	"403",
}

// isFatalAPIError reports whether err is a permanent API failure that
// should not be retried. Transient failures (timeouts, connection resets,
// model not loaded) return false.
func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range fatalPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// wrapFatalError wraps fatal API errors with ErrFatalAPI so callers can
// match with errors.Is; non-fatal errors pass through unchanged.
func wrapFatalError(err error) error {
	if err == nil {
		return nil
	}
	if isFatalAPIError(err) {
		return errors.Join(ErrFatalAPI, err)
	}
	return err
}
