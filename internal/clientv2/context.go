package clientv2

import (
	"context"
	"net/http"
	"slices"
)

type (
	interceptorsContextKey   struct{}
	requestPurposeContextKey struct{}
	bufferResponseContextKey struct{}
)

// RequestPurpose tells the interceptors what kind of call a request is.
type RequestPurpose int

const (
	RequestPurposeDefault RequestPurpose = iota

	// RequestPurposeRefreshToken marks the call that exchanges a refresh
	// token. It carries the Refresh-Token header instead of Authorization
	// and is never resent after an authentication failure.
	RequestPurposeRefreshToken
)

func WithRequestPurpose(ctx context.Context, purpose RequestPurpose) context.Context {
	return context.WithValue(ctx, requestPurposeContextKey{}, purpose)
}

func RequestPurposeFromContext(ctx context.Context) RequestPurpose {
	if ctx == nil {
		return RequestPurposeDefault
	}
	purpose, _ := ctx.Value(requestPurposeContextKey{}).(RequestPurpose)
	return purpose
}

// WithInterceptors attaches extra interceptors to a single request.
func WithInterceptors(req *http.Request, interceptors ...Interceptor) *http.Request {
	attached := append(slices.Clone(interceptorsFromRequest(req)), interceptors...)
	return req.WithContext(context.WithValue(req.Context(), interceptorsContextKey{}, attached))
}

func interceptorsFromRequest(req *http.Request) interceptorList {
	if req == nil {
		return nil
	}
	interceptors, _ := req.Context().Value(interceptorsContextKey{}).(interceptorList)
	return interceptors
}

func withoutInterceptors(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), interceptorsContextKey{}, interceptorList(nil)))
}
