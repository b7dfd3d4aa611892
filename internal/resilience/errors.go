// Package resilience provides retry, backoff, and failure-classification
// primitives for external provider calls.
package resilience

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// TransientError wraps an error that is safe to retry (429, 5xx, network
// timeout). RetryAfter, when non-zero, is the provider-requested wait taken
// from a Retry-After header and overrides the computed backoff.
type TransientError struct {
	Err        error
	StatusCode int
	RetryAfter time.Duration
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps an error as transient with an optional HTTP status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// ConfigError marks a misconfiguration (missing or rejected credentials,
// invalid campaign parameters). Config errors fail fast and are never retried.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps an error as a configuration failure.
func NewConfigError(err error) *ConfigError {
	return &ConfigError{Err: err}
}

// IsConfig reports whether the error chain contains a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// PermanentError is a non-retryable provider rejection (4xx other than 429).
// The response body is preserved for logging.
type PermanentError struct {
	StatusCode int
	Body       string
}

func (e *PermanentError) Error() string {
	return "http " + strconv.Itoa(e.StatusCode) + ": " + e.Body
}

// IsPermanent reports whether the error chain contains a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// HTTPError classifies a non-2xx provider response into the error kinds the
// retry layer understands: 401 is a ConfigError, 429/408/5xx are transient
// (429 carrying any parsed Retry-After), all other 4xx are permanent with
// the body preserved.
func HTTPError(statusCode int, body string, header http.Header) error {
	trimmed := strings.TrimSpace(body)
	switch {
	case statusCode == http.StatusUnauthorized:
		return NewConfigError(&PermanentError{StatusCode: statusCode, Body: trimmed})
	case statusCode == http.StatusTooManyRequests:
		return &TransientError{
			Err:        &PermanentError{StatusCode: statusCode, Body: trimmed},
			StatusCode: statusCode,
			RetryAfter: parseRetryAfter(header),
		}
	case statusCode == http.StatusRequestTimeout || statusCode >= 500:
		return NewTransientError(&PermanentError{StatusCode: statusCode, Body: trimmed}, statusCode)
	default:
		return &PermanentError{StatusCode: statusCode, Body: trimmed}
	}
}

// parseRetryAfter reads a Retry-After header as delay seconds. HTTP-date
// forms are ignored; the providers this pipeline talks to use the seconds form.
func parseRetryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// RetryAfterOf extracts the provider-requested wait from the error chain,
// or zero if none.
func RetryAfterOf(err error) time.Duration {
	var te *TransientError
	if errors.As(err, &te) {
		return te.RetryAfter
	}
	return 0
}

// IsTransient returns true if the error (or any error in its chain) is a
// TransientError, or if it matches common transient network error patterns.
// Config errors are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsConfig(err) {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}
