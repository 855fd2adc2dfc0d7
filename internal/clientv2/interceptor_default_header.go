package clientv2

import (
	"net/http"

	clientV1 "github.com/alloon/photi-go/client"
)

type defaultHeaderInterceptor struct {
}

func newDefaultHeaderInterceptor() Interceptor {
	return &defaultHeaderInterceptor{}
}

func (interceptor *defaultHeaderInterceptor) Priority() InterceptorPriority {
	return InterceptorPrioritySetHeader
}

func (interceptor *defaultHeaderInterceptor) Intercept(req *http.Request, handler Handler) (resp *http.Response, err error) {
	if interceptor == nil || req == nil {
		return handler(req)
	}

	if req.Header == nil {
		req.Header = http.Header{}
	}

	if e := clientV1.AddDefaultHeader(req.Header); e != nil {
		return nil, e
	}

	return handler(req)
}
