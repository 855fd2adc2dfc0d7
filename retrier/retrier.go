package retrier

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/alloon/photi-go/client"
)

// RetryDecision is both the verdict of a Retrier and the tag of a
// RetryResult.
type RetryDecision int

const (
	DontRetry RetryDecision = iota

	// RetryRequest resends the same request.
	RetryRequest

	// DontRetryWithError replaces the original outcome with a new error.
	DontRetryWithError
)

func (d RetryDecision) String() string {
	switch d {
	case DontRetry:
		return "doNotRetry"
	case RetryRequest:
		return "retry"
	case DontRetryWithError:
		return "doNotRetryWithError"
	default:
		return "unknown"
	}
}

// Retrier judges a finished attempt for a plain resend, without touching
// the credential.
type Retrier interface {
	Retry(resp *http.Response, err error) RetryDecision
}

// messages of transport errors that say nothing about the request itself
var brokenConnectionMessages = []string{
	"use of closed network connection",
	"unexpected EOF reading trailer",
	"transport connection broken",
	"server closed idle connection",
}

type transientRetrier struct{}

// NewTransientRetrier resends after overload or gateway statuses and after
// network errors that usually clear up on their own. A request whose
// credential refresh failed is never resent: the session is already signed
// out and the caller must see ErrSessionExpired.
func NewTransientRetrier() Retrier {
	return transientRetrier{}
}

func (transientRetrier) Retry(resp *http.Response, err error) RetryDecision {
	switch {
	case errors.Is(err, ErrSessionExpired):
		return DontRetry
	case resp != nil && IsStatusCodeRetryable(resp.StatusCode):
		return RetryRequest
	case err != nil && isTransientError(err):
		return RetryRequest
	default:
		return DontRetry
	}
}

// IsStatusCodeRetryable reports whether a Photi response status is worth
// sending again: 429 and the 5xx family, except the ones that will not
// change on a resend.
func IsStatusCodeRetryable(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported:
		return false
	}
	return statusCode >= 500 && statusCode < 600
}

func isTransientError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsNotFound
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var errorInfo *client.ErrorInfo
	if errors.As(err, &errorInfo) {
		return IsStatusCodeRetryable(errorInfo.Code)
	}

	msg := err.Error()
	for _, broken := range brokenConnectionMessages {
		if strings.Contains(msg, broken) {
			return true
		}
	}
	return false
}
