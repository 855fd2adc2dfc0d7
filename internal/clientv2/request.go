package clientv2

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alloon/photi-go/conf"
	internal_io "github.com/alloon/photi-go/internal/io"
)

const (
	RequestMethodGet    = http.MethodGet
	RequestMethodPut    = http.MethodPut
	RequestMethodPost   = http.MethodPost
	RequestMethodPatch  = http.MethodPatch
	RequestMethodHead   = http.MethodHead
	RequestMethodDelete = http.MethodDelete
)

var errRequestNotRewindable = errors.New("request body cannot be rewound")

type GetRequestBody func(options *RequestParams) (io.ReadCloser, error)

func GetJsonRequestBody(object interface{}) (GetRequestBody, error) {
	reqBody, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}
	return func(o *RequestParams) (io.ReadCloser, error) {
		o.Header.Set("Content-Type", conf.CONTENT_TYPE_JSON)
		o.Header.Set("Content-Length", strconv.Itoa(len(reqBody)))
		return internal_io.NewBytesNopCloser(reqBody), nil
	}, nil
}

func GetFormRequestBody(info map[string][]string) GetRequestBody {
	body := []byte(formStringInfo(info))
	return func(o *RequestParams) (io.ReadCloser, error) {
		o.Header.Set("Content-Type", conf.CONTENT_TYPE_FORM)
		o.Header.Set("Content-Length", strconv.Itoa(len(body)))
		return internal_io.NewBytesNopCloser(body), nil
	}
}

func formStringInfo(info map[string][]string) string {
	if len(info) == 0 {
		return ""
	}
	return url.Values(info).Encode()
}

type RequestParams struct {
	Context        context.Context
	Method         string
	Url            string
	Header         http.Header
	GetBody        GetRequestBody
	BufferResponse bool
}

func (o *RequestParams) init() {
	if o.Context == nil {
		o.Context = context.Background()
	}

	if len(o.Method) == 0 {
		o.Method = RequestMethodGet
	}

	if o.Header == nil {
		o.Header = http.Header{}
	}

	if o.GetBody == nil {
		o.GetBody = func(options *RequestParams) (io.ReadCloser, error) {
			return nil, nil
		}
	}
}

func NewRequest(options RequestParams) (req *http.Request, err error) {
	options.init()

	body, err := options.GetBody(&options)
	if err != nil {
		return nil, err
	}
	ctx := options.Context
	if options.BufferResponse {
		ctx = context.WithValue(ctx, bufferResponseContextKey{}, struct{}{})
	}
	req, err = http.NewRequestWithContext(ctx, options.Method, options.Url, body)
	if err != nil {
		return
	}
	req.Header = options.Header
	if sized, ok := body.(interface{ Size() int64 }); ok {
		req.ContentLength = sized.Size()
	}
	if body != nil && body != http.NoBody {
		req.GetBody = func() (io.ReadCloser, error) {
			return options.GetBody(&options)
		}
	}
	return
}

// rewindRequest prepares req to be sent again.
func rewindRequest(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		next := req.Clone(req.Context())
		next.Body = body
		return next, nil
	}
	if seeker, ok := req.Body.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return req, nil
	}
	return nil, errRequestNotRewindable
}
