package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/alloon/photi-go/conf"
)

var (
	userAgent     = defaultUserAgent(DefaultAppName)
	userAgentLock sync.RWMutex
)

const DefaultAppName = "photi-go"

// DefaultClient is used when no *http.Client is configured.
var DefaultClient = &http.Client{
	Transport: DefaultTransport,
	Timeout:   30 * time.Second,
}

func defaultUserAgent(appName string) string {
	return fmt.Sprintf("PhotiGo/%s (%s; %s; %s) %s", conf.Version, runtime.GOOS, runtime.GOARCH, appName, runtime.Version())
}

// SetAppName appends the application name to the User-Agent.
// Names follow [A-Za-z0-9_\ \-\.]*.
func SetAppName(appName string) error {
	for _, c := range appName {
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || strings.ContainsRune("_ -.", c)) {
			return fmt.Errorf("invalid app name %q", appName)
		}
	}
	if appName == "" {
		appName = DefaultAppName
	}
	userAgentLock.Lock()
	defer userAgentLock.Unlock()
	userAgent = defaultUserAgent(appName)
	return nil
}

func UserAgent() string {
	userAgentLock.RLock()
	defer userAgentLock.RUnlock()
	return userAgent
}

// ErrorInfo is returned for every non-2xx response.
type ErrorInfo struct {
	Code      int    `json:"-"`
	ErrorCode string `json:"code,omitempty"`
	Err       string `json:"message,omitempty"`
	Reqid     string `json:"-"`
}

func (r *ErrorInfo) Error() string {
	return r.Err
}

func (r *ErrorInfo) ErrorDetail() string {
	msg, _ := json.Marshal(r)
	return fmt.Sprintf("status %d, reqid %s: %s", r.Code, r.Reqid, msg)
}

func (r *ErrorInfo) HttpCode() int {
	return r.Code
}

// ResponseError decodes the Photi error envelope of resp. The body is
// consumed but not closed.
func ResponseError(resp *http.Response) error {
	e := &ErrorInfo{
		Code:  resp.StatusCode,
		Reqid: resp.Header.Get(conf.HeaderRequestID),
	}
	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		if err == nil && len(body) > 0 {
			resp.Body = io.NopCloser(bytes.NewReader(body))
			if strings.Contains(resp.Header.Get("Content-Type"), conf.CONTENT_TYPE_JSON) || json.Valid(body) {
				_ = json.Unmarshal(body, e)
			}
			if e.Err == "" {
				e.Err = strings.TrimSpace(string(body))
			}
		}
	}
	if e.Err == "" {
		e.Err = http.StatusText(resp.StatusCode)
	}
	return e
}

func DecodeJsonFromReader(reader io.Reader, ret interface{}) error {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, reader); err != nil {
		return err
	}
	return decodeJsonFromData(buf.Bytes(), ret)
}

func decodeJsonFromData(data []byte, ret interface{}) error {
	if err := json.Unmarshal(data, ret); err != nil {
		return fmt.Errorf("%w: %s", err, string(data))
	}
	return nil
}
