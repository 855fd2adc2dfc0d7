package clientv2

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"

	clientV1 "github.com/alloon/photi-go/client"
	internal_io "github.com/alloon/photi-go/internal/io"
)

// Client sends one HTTP request. *http.Client is a Client.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

type client struct {
	core         Client
	interceptors interceptorList
}

// NewClient puts interceptors in front of core, which defaults to
// client.DefaultClient. Every client also sets the default headers and
// logs debug dumps.
func NewClient(core Client, interceptors ...Interceptor) Client {
	if core == nil {
		core = clientV1.DefaultClient
	}
	chain := make(interceptorList, 0, len(interceptors)+2)
	for _, interceptor := range interceptors {
		if interceptor != nil {
			chain = append(chain, interceptor)
		}
	}
	chain = append(chain, newDefaultHeaderInterceptor(), newDebugInterceptor())
	return &client{core: core, interceptors: chain.sorted()}
}

// Do runs req through the chain. Interceptors attached with
// WithInterceptors join the chain for this call only; they are removed
// from the context that the interceptors and any nested call see.
func (c *client) Do(req *http.Request) (*http.Response, error) {
	chain := c.interceptors
	if extra := interceptorsFromRequest(req); len(extra) > 0 {
		chain = append(slices.Clone(chain), extra...).sorted()
		req = withoutInterceptors(req)
	}
	return checkResponse(chain.wrap(c.core.Do)(req))
}

// Do builds a request from options and sends it through c.
func Do(c Client, options RequestParams) (*http.Response, error) {
	req, err := NewRequest(options)
	if err != nil {
		return nil, err
	}
	return checkResponse(c.Do(req))
}

// checkResponse turns a missing or non-2xx response into *client.ErrorInfo.
func checkResponse(resp *http.Response, err error) (*http.Response, error) {
	switch {
	case err != nil:
		return resp, err
	case resp == nil:
		return nil, &clientV1.ErrorInfo{Code: -999, Err: "no response"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return resp, clientV1.ResponseError(resp)
	}
	return resp, nil
}

// DoAndDecodeJsonResponse sends the request, decodes a JSON body into ret
// and returns the response headers. An empty body leaves ret untouched.
// The body is always drained and closed.
func DoAndDecodeJsonResponse(c Client, options RequestParams, ret interface{}) (http.Header, error) {
	resp, err := Do(c, options)
	if resp != nil && resp.Body != nil {
		defer func() {
			_ = internal_io.SinkAll(resp.Body)
			resp.Body.Close()
		}()
	}
	if err != nil {
		return nil, err
	}
	if ret == nil || resp.Body == nil {
		return resp.Header, nil
	}

	data, err := internal_io.ReadAll(resp.Body)
	if err != nil {
		return resp.Header, err
	} else if len(data) == 0 {
		return resp.Header, nil
	}
	if err = clientV1.DecodeJsonFromReader(bytes.NewReader(data), ret); err != nil {
		return resp.Header, fmt.Errorf("decode response of %s: %w", options.Url, err)
	}
	return resp.Header, nil
}
