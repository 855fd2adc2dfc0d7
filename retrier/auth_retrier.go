package retrier

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/alloon/photi-go/conf"
	"github.com/alloon/photi-go/credentials"
	"github.com/alloon/photi-go/internal/log"
	"github.com/sirupsen/logrus"
)

var (
	// ErrSessionExpired matches every error produced by a failed refresh.
	ErrSessionExpired = errors.New("session expired")

	ErrNoRefreshToken     = errors.New("no refresh token")
	ErrEmptyCredential    = errors.New("refresh returned an empty credential")
	errRefreshInterrupted = errors.New("refresh interrupted")
	errMissingDependency  = errors.New("auth retrier requires credentials and a refresher")
)

// RefreshError is the terminal failure of a refresh cycle. Every caller
// that waited on the same cycle receives the same *RefreshError.
type RefreshError struct {
	Cause error
}

func (e *RefreshError) Error() string {
	return "refresh credential: " + e.Cause.Error()
}

func (e *RefreshError) Unwrap() []error {
	return []error{ErrSessionExpired, e.Cause}
}

// RetryResult is the outcome of AuthRetrier.Retry.
type RetryResult struct {
	Decision RetryDecision
	Err      error
}

func Retry() RetryResult {
	return RetryResult{Decision: RetryRequest}
}

func DoNotRetry() RetryResult {
	return RetryResult{Decision: DontRetry}
}

func DoNotRetryWithError(err error) RetryResult {
	return RetryResult{Decision: DontRetryWithError, Err: err}
}

// SessionListener is told when a refresh cycle fails, so the owner can
// force a logout.
type SessionListener interface {
	SessionExpired(err error)
}

// CredentialHolder is the read/replace capability the retrier needs.
type CredentialHolder interface {
	credentials.Source
	Replace(context.Context, *credentials.Credential)
}

type AuthRetrierOptions struct {
	Credentials CredentialHolder
	Refresher   credentials.Refresher

	// Listener is optional.
	Listener SessionListener

	// ShouldRefresh reports whether a response is an authentication
	// failure. Defaults to status 401.
	ShouldRefresh func(resp *http.Response, body []byte) bool
}

// AuthRetrier decides whether a request that failed authentication is
// resent. Concurrent failures share a single refresh call.
type AuthRetrier struct {
	holder        CredentialHolder
	refresher     credentials.Refresher
	listener      SessionListener
	shouldRefresh func(resp *http.Response, body []byte) bool
	log           logrus.FieldLogger

	lock    sync.Mutex
	pending *pendingRefresh
}

// pendingRefresh is resolved exactly once, by the caller that created it.
type pendingRefresh struct {
	done    chan struct{}
	err     error
	waiters atomic.Int32
}

func newPendingRefresh() *pendingRefresh {
	return &pendingRefresh{done: make(chan struct{})}
}

func (p *pendingRefresh) resolve(err error) {
	p.err = err
	close(p.done)
}

func (p *pendingRefresh) wait(ctx context.Context) error {
	p.waiters.Add(1)
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func NewAuthRetrier(options AuthRetrierOptions) (*AuthRetrier, error) {
	if options.Credentials == nil || options.Refresher == nil {
		return nil, errMissingDependency
	}
	if options.ShouldRefresh == nil {
		options.ShouldRefresh = IsUnauthorized
	}
	return &AuthRetrier{
		holder:        options.Credentials,
		refresher:     options.Refresher,
		listener:      options.Listener,
		shouldRefresh: options.ShouldRefresh,
		log:           log.WithFields(log.Fields{"component": "auth_retrier"}),
	}, nil
}

func IsUnauthorized(resp *http.Response, _ []byte) bool {
	return resp != nil && resp.StatusCode == http.StatusUnauthorized
}

// Retry inspects a completed response. Non-authentication failures return
// DoNotRetry immediately. Otherwise the caller either joins the refresh in
// flight or starts one, and gets Retry once a fresh credential is current.
//
// The refresh call ignores cancellation of ctx. A cancelled ctx only stops
// this caller from waiting.
func (r *AuthRetrier) Retry(ctx context.Context, resp *http.Response, body []byte) RetryResult {
	if resp == nil || !r.shouldRefresh(resp, body) {
		return DoNotRetry()
	}
	sentToken := accessTokenOf(resp.Request)

	r.lock.Lock()
	if pending := r.pending; pending != nil {
		r.lock.Unlock()
		return r.await(ctx, pending)
	}
	current := r.holder.Current()
	switch {
	case current == nil:
		r.lock.Unlock()
		return DoNotRetry()
	case current.AccessToken != sentToken:
		r.lock.Unlock()
		r.log.Debug("credential changed since the request was sent, resending")
		return Retry()
	}
	pending := newPendingRefresh()
	r.pending = pending
	r.lock.Unlock()

	if err := r.refresh(context.WithoutCancel(ctx), pending, current.RefreshToken); err != nil {
		if r.listener != nil {
			r.listener.SessionExpired(err)
		}
		return DoNotRetryWithError(err)
	}
	return Retry()
}

func (r *AuthRetrier) await(ctx context.Context, pending *pendingRefresh) RetryResult {
	if err := pending.wait(ctx); err != nil {
		return DoNotRetryWithError(err)
	}
	return Retry()
}

func (r *AuthRetrier) refresh(ctx context.Context, pending *pendingRefresh, refreshToken string) (err error) {
	err = errRefreshInterrupted
	defer func() {
		r.lock.Lock()
		r.pending = nil
		r.lock.Unlock()
		pending.resolve(err)
		r.log.WithFields(logrus.Fields{
			"waiters": pending.waiters.Load(),
			"success": err == nil,
		}).Debug("refresh finished")
	}()

	if refreshToken == "" {
		err = &RefreshError{Cause: ErrNoRefreshToken}
		r.log.Warn("authentication failed and no refresh token is available")
		return
	}

	r.log.Info("access token rejected, refreshing credential")
	cred, refreshErr := r.refresher.Refresh(ctx, refreshToken)
	if refreshErr == nil && !cred.IsValid() {
		refreshErr = ErrEmptyCredential
	}
	if refreshErr != nil {
		err = &RefreshError{Cause: refreshErr}
		r.log.WithError(refreshErr).Warn("failed to refresh credential")
		return
	}
	r.holder.Replace(ctx, cred)
	err = nil
	return
}

func (r *AuthRetrier) pendingWaiters() (int32, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.pending == nil {
		return 0, false
	}
	return r.pending.waiters.Load(), true
}

func accessTokenOf(req *http.Request) string {
	if req == nil {
		return ""
	}
	return strings.TrimPrefix(req.Header.Get(conf.HeaderAuthorization), conf.BearerPrefix)
}
