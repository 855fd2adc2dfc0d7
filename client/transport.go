package client

import (
	"context"
	"net"
	"net/http"
	"time"
)

type (
	dialTimeoutContextKey       struct{}
	keepAliveIntervalContextKey struct{}
)

var DefaultTransport http.RoundTripper = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	DialContext:           defaultDialFunc,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

func defaultDialFunc(ctx context.Context, network string, address string) (net.Conn, error) {
	dialTimeout, ok := ctx.Value(dialTimeoutContextKey{}).(time.Duration)
	if !ok {
		dialTimeout = 30 * time.Second
	}
	keepAliveInterval, ok := ctx.Value(keepAliveIntervalContextKey{}).(time.Duration)
	if !ok {
		keepAliveInterval = 15 * time.Second
	}
	return (&net.Dialer{Timeout: dialTimeout, KeepAlive: keepAliveInterval}).DialContext(ctx, network, address)
}

func WithDialTimeout(ctx context.Context, timeout time.Duration) context.Context {
	return context.WithValue(ctx, dialTimeoutContextKey{}, timeout)
}

func WithKeepAliveInterval(ctx context.Context, interval time.Duration) context.Context {
	return context.WithValue(ctx, keepAliveIntervalContextKey{}, interval)
}
