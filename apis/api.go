package apis

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alloon/photi-go/conf"
	"github.com/alloon/photi-go/internal/clientv2"
	"github.com/qiniu/dyn/text"
)

// Client calls the Photi REST API through an interceptor chain.
type Client struct {
	baseURL string
	client  clientv2.Client
}

// New returns a Client for baseURL. The interceptors of c decide how
// requests are authenticated and retried.
func New(baseURL string, c clientv2.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, MissingRequiredFieldError{Call: "apis.New", Field: "baseURL"}
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	return &Client{baseURL: baseURL, client: c}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the envelope every Photi endpoint answers with.
type Response[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// url expands $(name) placeholders in path with escaped values from params.
func (c *Client) url(path string, params map[string]interface{}, query url.Values) (string, error) {
	if len(params) > 0 {
		escaped := make(map[string]interface{}, len(params))
		for k, v := range params {
			escaped[k] = url.PathEscape(fmt.Sprint(v))
		}
		expanded, err := text.Subst(path, escaped, text.Fmttype_Text, true)
		if err != nil {
			return "", fmt.Errorf("expand path %q: %w", path, err)
		}
		path = expanded
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

type call struct {
	method  string
	path    string
	params  map[string]interface{}
	query   url.Values
	header  http.Header
	getBody clientv2.GetRequestBody
	purpose clientv2.RequestPurpose
}

// do sends the call and decodes the envelope into ret. The response
// headers are returned for endpoints that also carry data there.
func do[T any](ctx context.Context, c *Client, req call, ret *Response[T]) (http.Header, error) {
	u, err := c.url(req.path, req.params, req.query)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if req.purpose != clientv2.RequestPurposeDefault {
		ctx = clientv2.WithRequestPurpose(ctx, req.purpose)
	}
	header := req.header
	if header == nil {
		header = http.Header{}
	}
	header.Set("Accept", conf.CONTENT_TYPE_JSON)

	var out interface{}
	if ret != nil {
		out = ret
	}
	return clientv2.DoAndDecodeJsonResponse(c.client, clientv2.RequestParams{
		Context: ctx,
		Method:  req.method,
		Url:     u,
		Header:  header,
		GetBody: req.getBody,
	}, out)
}
