//go:build unit
// +build unit

package clientv2

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alloon/photi-go/backoff"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func countingInterceptor(doCount *int) Interceptor {
	return NewInterceptor(InterceptorPriorityNormal, func(req *http.Request, handler Handler) (*http.Response, error) {
		*doCount += 1
		return handler(req)
	})
}

func TestSimpleRetryInterceptor(t *testing.T) {
	clock := clockwork.NewFakeClock()
	retryMax := 2
	rInterceptor := NewSimpleRetryInterceptor(RetryConfig{
		RetryMax: retryMax,
		Backoff:  backoff.Constant(time.Second),
		Clock:    clock,
	})

	doCount := 0
	c := NewClient(&testClient{statusCode: http.StatusServiceUnavailable}, rInterceptor, countingInterceptor(&doCount))

	type result struct {
		resp *http.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := Do(c, RequestParams{Url: "https://api.photi.co.kr/api/challenges/popular"})
		done <- result{resp, err}
	}()

	for i := 0; i < retryMax; i++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
	}
	r := <-done
	require.Error(t, r.err)
	require.Equal(t, http.StatusServiceUnavailable, r.resp.StatusCode)
	require.Equal(t, retryMax+1, doCount)
}

func TestSimpleNotRetryInterceptor(t *testing.T) {
	rInterceptor := NewSimpleRetryInterceptor(RetryConfig{
		RetryMax: 1,
		Backoff:  backoff.Constant(time.Hour),
	})

	for _, statusCode := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusOK} {
		doCount := 0
		c := NewClient(&testClient{statusCode: statusCode}, rInterceptor, countingInterceptor(&doCount))
		resp, _ := Do(c, RequestParams{Url: "https://api.photi.co.kr/api/challenges/popular"})
		require.Equal(t, statusCode, resp.StatusCode)
		require.Equal(t, 1, doCount)
	}
}

func TestSimpleRetryInterceptorStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rInterceptor := NewSimpleRetryInterceptor(RetryConfig{
		RetryMax: 3,
		Backoff:  backoff.Constant(time.Minute),
		Clock:    clock,
	})
	doCount := 0
	c := NewClient(&testClient{statusCode: http.StatusBadGateway}, rInterceptor, countingInterceptor(&doCount))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := Do(c, RequestParams{Context: ctx, Url: "https://api.photi.co.kr/api/challenges/popular"})
		done <- err
	}()
	clock.BlockUntil(1)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, 1, doCount)
}
