package clientv2

import (
	"cmp"
	"net/http"
	"slices"
)

// InterceptorPriority places an interceptor in the chain. A smaller value
// wraps the larger ones: it sees the request first and the response last.
type InterceptorPriority int

const (
	InterceptorPriorityDefault        InterceptorPriority = 100
	InterceptorPriorityRetrySimple    InterceptorPriority = 300
	InterceptorPriorityRetryAuth      InterceptorPriority = 350
	InterceptorPrioritySetHeader      InterceptorPriority = 400
	InterceptorPriorityNormal         InterceptorPriority = 500
	InterceptorPriorityAuth           InterceptorPriority = 600
	InterceptorPriorityBufferResponse InterceptorPriority = 650
	InterceptorPriorityDebug          InterceptorPriority = 700
)

// Handler sends a request further down the chain.
type Handler func(req *http.Request) (*http.Response, error)

type Interceptor interface {
	Priority() InterceptorPriority
	Intercept(req *http.Request, next Handler) (*http.Response, error)
}

type interceptorList []Interceptor

// sorted returns a copy ordered by priority. Interceptors of equal priority
// keep the order they were added in.
func (is interceptorList) sorted() interceptorList {
	out := slices.Clone(is)
	slices.SortStableFunc(out, func(a, b Interceptor) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})
	return out
}

// wrap returns a Handler that passes every request through is, in order,
// before send.
func (is interceptorList) wrap(send Handler) Handler {
	for i := len(is) - 1; i >= 0; i-- {
		interceptor, next := is[i], send
		send = func(req *http.Request) (*http.Response, error) {
			return interceptor.Intercept(req, next)
		}
	}
	return send
}

type interceptorFunc struct {
	priority InterceptorPriority
	fn       func(req *http.Request, next Handler) (*http.Response, error)
}

func (f interceptorFunc) Priority() InterceptorPriority {
	return f.priority
}

func (f interceptorFunc) Intercept(req *http.Request, next Handler) (*http.Response, error) {
	return f.fn(req, next)
}

// NewInterceptor turns fn into an Interceptor. A priority below 1 becomes
// InterceptorPriorityNormal.
func NewInterceptor(priority InterceptorPriority, fn func(req *http.Request, next Handler) (*http.Response, error)) Interceptor {
	if priority <= 0 {
		priority = InterceptorPriorityNormal
	}
	if fn == nil {
		fn = func(req *http.Request, next Handler) (*http.Response, error) { return next(req) }
	}
	return interceptorFunc{priority: priority, fn: fn}
}
