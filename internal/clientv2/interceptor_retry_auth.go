package clientv2

import (
	"net/http"

	internal_io "github.com/alloon/photi-go/internal/io"
	"github.com/alloon/photi-go/internal/log"
	"github.com/alloon/photi-go/retrier"
)

type authRetryInterceptor struct {
	retrier *retrier.AuthRetrier
}

// NewAuthRetryInterceptor resends a request at most once after the
// credential it was sent with has been refreshed. It must run outside the
// auth interceptor so the resend picks up the new credential.
func NewAuthRetryInterceptor(authRetrier *retrier.AuthRetrier) Interceptor {
	return &authRetryInterceptor{retrier: authRetrier}
}

func (interceptor *authRetryInterceptor) Priority() InterceptorPriority {
	return InterceptorPriorityRetryAuth
}

func (interceptor *authRetryInterceptor) Intercept(req *http.Request, handler Handler) (*http.Response, error) {
	if interceptor == nil || interceptor.retrier == nil || RequestPurposeFromContext(req.Context()) == RequestPurposeRefreshToken {
		return handler(req)
	}

	resp, err := handler(req)
	if err != nil || resp == nil || resp.StatusCode/100 == 2 {
		return resp, err
	}

	body, err := bufferResponseBody(resp)
	if err != nil {
		return resp, err
	}
	if resp.Request == nil {
		resp.Request = req
	}

	result := interceptor.retrier.Retry(req.Context(), resp, body)
	switch result.Decision {
	case retrier.RetryRequest:
		next, rewindErr := rewindRequest(req)
		if rewindErr != nil {
			log.WithFields(log.Fields{"url": req.URL.String()}).Warn("credential refreshed but request cannot be resent: ", rewindErr)
			return resp, nil
		}
		closeResponse(resp)
		return handler(next)
	case retrier.DontRetryWithError:
		closeResponse(resp)
		return nil, result.Err
	default:
		return resp, nil
	}
}

func bufferResponseBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	if buffered, ok := resp.Body.(*internal_io.BytesNopCloser); ok {
		return buffered.Bytes(), nil
	}
	body, err := internal_io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = internal_io.NewBytesNopCloser(body)
	return body, nil
}

func closeResponse(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = internal_io.SinkAll(resp.Body)
		resp.Body.Close()
	}
}
