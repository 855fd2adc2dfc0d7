package clientv2

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"net/http"
	"net/http/httptrace"
	"net/http/httputil"
	"strings"
	"sync/atomic"

	"github.com/alloon/photi-go/conf"
	"github.com/alloon/photi-go/credentials"
	"github.com/alloon/photi-go/internal/log"
	"github.com/sirupsen/logrus"
)

var (
	printRequestTrace  atomic.Bool
	printRequestDetail atomic.Bool
)

// PrintRequestTrace logs connection level events of every request at debug level.
func PrintRequestTrace(isPrint bool) {
	printRequestTrace.Store(isPrint)
}

func IsPrintRequestTrace() bool {
	return printRequestTrace.Load()
}

// PrintRequestDetail includes request and response bodies in debug dumps.
func PrintRequestDetail(isPrint bool) {
	printRequestDetail.Store(isPrint)
}

func IsPrintRequestDetail() bool {
	return printRequestDetail.Load()
}

var sensitiveHeaders = []string{conf.HeaderAuthorization, conf.HeaderRefreshToken}

type debugInterceptor struct {
}

func newDebugInterceptor() Interceptor {
	return &debugInterceptor{}
}

func (r *debugInterceptor) Priority() InterceptorPriority {
	return InterceptorPriorityDebug
}

func (r *debugInterceptor) Intercept(req *http.Request, handler Handler) (*http.Response, error) {
	if req == nil || !log.IsDebugEnabled() {
		return handler(req)
	}

	logger := log.WithFields(log.Fields{
		"method":    req.Method,
		"url":       req.URL.String(),
		"requestId": req.Header.Get(conf.HeaderRequestID),
	})

	if e := r.printRequest(logger, req); e != nil {
		return nil, e
	}

	req = r.printRequestTrace(logger, req)

	resp, err := handler(req)
	if err != nil {
		logger.WithError(err).Debug("request failed")
		return resp, err
	}

	if e := r.printResponse(logger, resp); e != nil {
		return nil, e
	}

	return resp, err
}

func (r *debugInterceptor) printRequest(logger logrus.FieldLogger, req *http.Request) error {
	dump, err := httputil.DumpRequestOut(req, IsPrintRequestDetail())
	if err != nil {
		return err
	}
	logger.Debug("request:\n" + redactDump(dump))
	return nil
}

func (r *debugInterceptor) printRequestTrace(logger logrus.FieldLogger, req *http.Request) *http.Request {
	if !IsPrintRequestTrace() {
		return req
	}

	trace := &httptrace.ClientTrace{
		GetConn: func(hostPort string) {
			logger.WithField("hostPort", hostPort).Debug("GetConn")
		},
		GotConn: func(connInfo httptrace.GotConnInfo) {
			remoteAddr := connInfo.Conn.RemoteAddr()
			logger.WithFields(logrus.Fields{
				"network":    remoteAddr.Network(),
				"remoteAddr": remoteAddr.String(),
				"reused":     connInfo.Reused,
			}).Debug("GotConn")
		},
		GotFirstResponseByte: func() {
			logger.Debug("GotFirstResponseByte")
		},
		DNSStart: func(info httptrace.DNSStartInfo) {
			logger.WithField("host", info.Host).Debug("DNSStart")
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			logger.WithField("addrs", info.Addrs).WithError(info.Err).Debug("DNSDone")
		},
		ConnectStart: func(network, addr string) {
			logger.WithFields(logrus.Fields{"network": network, "addr": addr}).Debug("ConnectStart")
		},
		ConnectDone: func(network, addr string, err error) {
			logger.WithFields(logrus.Fields{"network": network, "addr": addr}).WithError(err).Debug("ConnectDone")
		},
		TLSHandshakeStart: func() {
			logger.Debug("TLSHandshakeStart")
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			logger.WithField("serverName", state.ServerName).WithError(err).Debug("TLSHandshakeDone")
		},
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			logger.WithError(info.Err).Debug("WroteRequest")
		},
	}
	return req.WithContext(httptrace.WithClientTrace(req.Context(), trace))
}

func (r *debugInterceptor) printResponse(logger logrus.FieldLogger, resp *http.Response) error {
	if resp == nil {
		return nil
	}

	dump, err := httputil.DumpResponse(resp, IsPrintRequestDetail())
	if err != nil {
		return err
	}
	logger.WithField("status", resp.StatusCode).Debug("response:\n" + redactDump(dump))
	return nil
}

// redactDump masks credential headers in a request or response dump.
func redactDump(dump []byte) string {
	var out strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(dump))
	scanner.Buffer(make([]byte, 0, 64*1024), len(dump)+1)
	for scanner.Scan() {
		line := scanner.Text()
		for _, name := range sensitiveHeaders {
			if len(line) > len(name) && strings.EqualFold(line[:len(name)+1], name+":") {
				value := strings.TrimSpace(line[len(name)+1:])
				value = strings.TrimPrefix(value, strings.TrimSpace(conf.BearerPrefix)+" ")
				line = name + ": " + credentials.Redact(value)
				break
			}
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}
