package clientv2

import (
	"errors"
	"net/http"

	"github.com/alloon/photi-go/backoff"
	"github.com/alloon/photi-go/internal/log"
	"github.com/alloon/photi-go/retrier"
)

type simpleRetryInterceptor struct {
	config RetryConfig
}

// NewSimpleRetryInterceptor resends requests that failed for transient
// network or server reasons. Authentication failures are not its concern.
func NewSimpleRetryInterceptor(config RetryConfig) Interceptor {
	config.init()
	return &simpleRetryInterceptor{
		config: config,
	}
}

func (interceptor *simpleRetryInterceptor) Priority() InterceptorPriority {
	return InterceptorPriorityRetrySimple
}

func (interceptor *simpleRetryInterceptor) Intercept(req *http.Request, handler Handler) (resp *http.Response, err error) {
	if interceptor == nil || req == nil || interceptor.config.RetryMax == 0 {
		return handler(req)
	}

	ctx := req.Context()
	for attempts := 0; ; attempts++ {
		resp, err = handler(req)

		if attempts >= interceptor.config.RetryMax || errors.Is(err, retrier.ErrSessionExpired) {
			return resp, err
		}
		if interceptor.config.Retrier.Retry(resp, err) != retrier.RetryRequest {
			return resp, err
		}

		next, rewindErr := rewindRequest(req)
		if rewindErr != nil {
			return resp, err
		}

		wait := interceptor.config.Backoff.Delay(attempts)
		fields := log.Fields{"url": req.URL.String(), "attempts": attempts + 1, "wait": wait}
		if resp != nil {
			fields["status"] = resp.StatusCode
		}
		log.WithFields(fields).WithError(err).Debug("retrying request")

		closeResponse(resp)
		if waitErr := backoff.Wait(ctx, interceptor.config.Clock, wait); waitErr != nil {
			return nil, waitErr
		}
		req = next
	}
}
