//go:build unit
// +build unit

package retrier

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alloon/photi-go/credentials"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type mockRefresher struct {
	calls   atomic.Int32
	release chan struct{}
	refresh func(refreshToken string) (*credentials.Credential, error)
}

func (m *mockRefresher) Refresh(ctx context.Context, refreshToken string) (*credentials.Credential, error) {
	m.calls.Add(1)
	if m.release != nil {
		<-m.release
	}
	return m.refresh(refreshToken)
}

type mockListener struct {
	lock sync.Mutex
	errs []error
}

func (l *mockListener) SessionExpired(err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.errs = append(l.errs, err)
}

func (l *mockListener) count() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.errs)
}

func unauthorizedResponse(accessToken string) *http.Response {
	req, _ := http.NewRequest(http.MethodGet, "https://api.photi.co.kr/api/challenges/popular", nil)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return &http.Response{StatusCode: http.StatusUnauthorized, Request: req, Header: http.Header{}}
}

func newTestRetrier(t *testing.T, holder *credentials.Holder, refresher credentials.Refresher, listener SessionListener) *AuthRetrier {
	r, err := NewAuthRetrier(AuthRetrierOptions{
		Credentials: holder,
		Refresher:   refresher,
		Listener:    listener,
	})
	require.NoError(t, err)
	return r
}

func TestNewAuthRetrierRequiresDependencies(t *testing.T) {
	_, err := NewAuthRetrier(AuthRetrierOptions{})
	require.Error(t, err)
}

func TestNonAuthFailureIsNotRetried(t *testing.T) {
	refresher := &mockRefresher{}
	r := newTestRetrier(t, credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil), refresher, nil)

	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusForbidden, http.StatusInternalServerError} {
		result := r.Retry(context.Background(), &http.Response{StatusCode: status}, nil)
		require.Equal(t, DontRetry, result.Decision)
		require.NoError(t, result.Err)
	}
	require.Equal(t, DontRetry, r.Retry(context.Background(), nil, nil).Decision)
	require.Zero(t, refresher.calls.Load())
}

func TestUnauthenticatedSessionIsNotRefreshed(t *testing.T) {
	refresher := &mockRefresher{}
	r := newTestRetrier(t, credentials.NewHolder(nil, nil), refresher, nil)

	result := r.Retry(context.Background(), unauthorizedResponse(""), []byte(`{"code":"UNAUTHORIZED"}`))
	require.Equal(t, DontRetry, result.Decision)
	require.Zero(t, refresher.calls.Load())
}

func TestRefreshSucceeds(t *testing.T) {
	holder := credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil)
	refresher := &mockRefresher{refresh: func(refreshToken string) (*credentials.Credential, error) {
		require.Equal(t, "R1", refreshToken)
		return credentials.NewCredential("A2", "R2"), nil
	}}
	r := newTestRetrier(t, holder, refresher, nil)

	result := r.Retry(context.Background(), unauthorizedResponse("A1"), nil)
	require.Equal(t, RetryRequest, result.Decision)
	require.Equal(t, credentials.NewCredential("A2", "R2"), holder.Current())
	require.EqualValues(t, 1, refresher.calls.Load())

	_, inFlight := r.pendingWaiters()
	require.False(t, inFlight)
}

func TestStaleRequestIsResentWithoutRefresh(t *testing.T) {
	holder := credentials.NewHolder(credentials.NewCredential("A2", "R2"), nil)
	refresher := &mockRefresher{}
	r := newTestRetrier(t, holder, refresher, nil)

	result := r.Retry(context.Background(), unauthorizedResponse("A1"), nil)
	require.Equal(t, RetryRequest, result.Decision)
	require.Zero(t, refresher.calls.Load())
}

func TestIndependentExpiryTriggersNewRefresh(t *testing.T) {
	holder := credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil)
	var generation atomic.Int32
	refresher := &mockRefresher{refresh: func(string) (*credentials.Credential, error) {
		switch generation.Add(1) {
		case 1:
			return credentials.NewCredential("A2", "R2"), nil
		default:
			return credentials.NewCredential("A3", "R3"), nil
		}
	}}
	r := newTestRetrier(t, holder, refresher, nil)

	require.Equal(t, RetryRequest, r.Retry(context.Background(), unauthorizedResponse("A1"), nil).Decision)
	require.Equal(t, RetryRequest, r.Retry(context.Background(), unauthorizedResponse("A2"), nil).Decision)
	require.EqualValues(t, 2, refresher.calls.Load())
	require.Equal(t, "A3", holder.Current().AccessToken)
}

func waitForWaiters(t *testing.T, r *AuthRetrier, n int32) {
	require.Eventually(t, func() bool {
		waiters, inFlight := r.pendingWaiters()
		return inFlight && waiters == n
	}, 5*time.Second, time.Millisecond)
}

func TestConcurrentFailuresShareOneRefresh(t *testing.T) {
	const n = 16
	holder := credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil)
	refresher := &mockRefresher{
		release: make(chan struct{}),
		refresh: func(string) (*credentials.Credential, error) {
			return credentials.NewCredential("A2", "R2"), nil
		},
	}
	r := newTestRetrier(t, holder, refresher, nil)

	results := make([]RetryResult, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			results[i] = r.Retry(context.Background(), unauthorizedResponse("A1"), nil)
			return nil
		})
	}
	waitForWaiters(t, r, n-1)
	close(refresher.release)
	require.NoError(t, g.Wait())

	require.EqualValues(t, 1, refresher.calls.Load())
	for _, result := range results {
		require.Equal(t, RetryRequest, result.Decision)
	}
	require.Equal(t, "A2", holder.Current().AccessToken)
}

func TestConcurrentFailuresShareRefreshFailure(t *testing.T) {
	const n = 8
	holder := credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil)
	cause := errors.New("refresh token expired")
	refresher := &mockRefresher{
		release: make(chan struct{}),
		refresh: func(string) (*credentials.Credential, error) {
			return nil, cause
		},
	}
	listener := &mockListener{}
	r := newTestRetrier(t, holder, refresher, listener)

	results := make([]RetryResult, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			results[i] = r.Retry(context.Background(), unauthorizedResponse("A1"), nil)
			return nil
		})
	}
	waitForWaiters(t, r, n-1)
	close(refresher.release)
	require.NoError(t, g.Wait())

	require.EqualValues(t, 1, refresher.calls.Load())
	require.Equal(t, 1, listener.count())
	first := results[0].Err
	for _, result := range results {
		require.Equal(t, DontRetryWithError, result.Decision)
		require.Same(t, first, result.Err)
		require.ErrorIs(t, result.Err, ErrSessionExpired)
		require.ErrorIs(t, result.Err, cause)
	}
	require.Equal(t, "A1", holder.Current().AccessToken)

	_, inFlight := r.pendingWaiters()
	require.False(t, inFlight)
}

func TestMissingRefreshTokenFailsSession(t *testing.T) {
	listener := &mockListener{}
	refresher := &mockRefresher{}
	r := newTestRetrier(t, credentials.NewHolder(credentials.NewCredential("A1", ""), nil), refresher, listener)

	result := r.Retry(context.Background(), unauthorizedResponse("A1"), nil)
	require.Equal(t, DontRetryWithError, result.Decision)
	require.ErrorIs(t, result.Err, ErrNoRefreshToken)
	require.ErrorIs(t, result.Err, ErrSessionExpired)
	require.Zero(t, refresher.calls.Load())
	require.Equal(t, 1, listener.count())
}

func TestEmptyRefreshResultIsFailure(t *testing.T) {
	refresher := &mockRefresher{refresh: func(string) (*credentials.Credential, error) {
		return credentials.NewCredential("", ""), nil
	}}
	r := newTestRetrier(t, credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil), refresher, nil)

	result := r.Retry(context.Background(), unauthorizedResponse("A1"), nil)
	require.Equal(t, DontRetryWithError, result.Decision)
	require.ErrorIs(t, result.Err, ErrEmptyCredential)
}

func TestCancelledWaiterStopsWaitingButRefreshCompletes(t *testing.T) {
	holder := credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil)
	refresher := &mockRefresher{
		release: make(chan struct{}),
		refresh: func(string) (*credentials.Credential, error) {
			return credentials.NewCredential("A2", "R2"), nil
		},
	}
	r := newTestRetrier(t, holder, refresher, nil)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leader := make(chan RetryResult, 1)
	go func() {
		leader <- r.Retry(leaderCtx, unauthorizedResponse("A1"), nil)
	}()
	require.Eventually(t, func() bool {
		_, inFlight := r.pendingWaiters()
		return inFlight
	}, 5*time.Second, time.Millisecond)

	waiterCtx, cancelWaiter := context.WithCancel(context.Background())
	waiter := make(chan RetryResult, 1)
	go func() {
		waiter <- r.Retry(waiterCtx, unauthorizedResponse("A1"), nil)
	}()
	waitForWaiters(t, r, 1)
	cancelWaiter()
	result := <-waiter
	require.Equal(t, DontRetryWithError, result.Decision)
	require.ErrorIs(t, result.Err, context.Canceled)

	cancelLeader()
	close(refresher.release)
	require.Equal(t, RetryRequest, (<-leader).Decision)
	require.Equal(t, "A2", holder.Current().AccessToken)
}

func TestCustomShouldRefreshInspectsBody(t *testing.T) {
	refresher := &mockRefresher{refresh: func(string) (*credentials.Credential, error) {
		return credentials.NewCredential("A2", "R2"), nil
	}}
	r, err := NewAuthRetrier(AuthRetrierOptions{
		Credentials: credentials.NewHolder(credentials.NewCredential("A1", "R1"), nil),
		Refresher:   refresher,
		ShouldRefresh: func(resp *http.Response, body []byte) bool {
			return resp.StatusCode == http.StatusUnauthorized && string(body) == `{"code":"TOKEN_EXPIRED"}`
		},
	})
	require.NoError(t, err)

	require.Equal(t, DontRetry, r.Retry(context.Background(), unauthorizedResponse("A1"), []byte(`{"code":"WRONG_PASSWORD"}`)).Decision)
	require.Equal(t, RetryRequest, r.Retry(context.Background(), unauthorizedResponse("A1"), []byte(`{"code":"TOKEN_EXPIRED"}`)).Decision)
	require.EqualValues(t, 1, refresher.calls.Load())
}
