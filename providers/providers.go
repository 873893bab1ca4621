// Package providers contains the inference gateway implementations and the
// shared error and registry machinery they use.
package providers

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/deepnoodle-ai/wonton/retry"
)

// ProviderError represents an error returned by a gateway provider API.
type ProviderError struct {
	statusCode int
	body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider api error (status %d): %s", e.statusCode, e.body)
}

func (e *ProviderError) StatusCode() int {
	return e.statusCode
}

// NewError creates a new ProviderError. Non-retryable status codes are
// wrapped with retry.MarkPermanent so the retry loop stops immediately.
func NewError(statusCode int, body string) error {
	err := &ProviderError{statusCode: statusCode, body: body}
	if !shouldRetry(statusCode) {
		return retry.MarkPermanent(err)
	}
	return err
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}

// IsUnavailable reports whether the error indicates the gateway could not
// be reached at all: connection failures, timeouts, and 5xx responses.
// Callers use this to degrade to default predictions instead of aborting
// a batch.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.StatusCode() >= 500 || provErr.StatusCode() == 0
	}
	// Transport-level failures surface as *url.Error wrapping syscall
	// errors; treat any remaining non-HTTP error from a provider as a
	// connectivity failure.
	return true
}
