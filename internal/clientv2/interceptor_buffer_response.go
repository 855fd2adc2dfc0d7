package clientv2

import "net/http"

type bufferResponseInterceptor struct {
}

// NewBufferResponseInterceptor reads the whole body of responses to
// requests built with RequestParams.BufferResponse.
func NewBufferResponseInterceptor() Interceptor {
	return bufferResponseInterceptor{}
}

func (interceptor bufferResponseInterceptor) Priority() InterceptorPriority {
	return InterceptorPriorityBufferResponse
}

func (interceptor bufferResponseInterceptor) Intercept(req *http.Request, handler Handler) (resp *http.Response, err error) {
	toBufferResponse := req.Context().Value(bufferResponseContextKey{}) != nil
	resp, err = handler(req)
	if err == nil && resp != nil && toBufferResponse {
		_, err = bufferResponseBody(resp)
	}
	return
}
