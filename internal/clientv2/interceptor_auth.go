package clientv2

import (
	"net/http"

	"github.com/alloon/photi-go/conf"
	"github.com/alloon/photi-go/credentials"
)

type AuthConfig struct {
	// Credentials is read on every request. A nil source or an empty
	// credential sends requests unauthenticated.
	Credentials credentials.Source
	// BeforeSign runs before the credential is attached.
	BeforeSign func(*http.Request)
	// AfterSign runs on the request that is actually sent.
	AfterSign func(*http.Request)
}

// Adapter attaches the current credential to outgoing requests.
type Adapter struct {
	config AuthConfig
}

func NewAdapter(config AuthConfig) *Adapter {
	return &Adapter{config: config}
}

// Adapt returns a copy of req carrying the current access token. Requests
// whose purpose is RequestPurposeRefreshToken carry the refresh token in
// the Refresh-Token header instead. Without a credential req is returned
// unmodified.
func (a *Adapter) Adapt(req *http.Request) *http.Request {
	if a == nil || a.config.Credentials == nil {
		return req
	}
	cred := a.config.Credentials.Current()
	if cred == nil {
		return req
	}

	if RequestPurposeFromContext(req.Context()) == RequestPurposeRefreshToken {
		if req.Header.Get(conf.HeaderRefreshToken) != "" || cred.RefreshToken == "" {
			return req
		}
		adapted := req.Clone(req.Context())
		adapted.Header.Del(conf.HeaderAuthorization)
		adapted.Header.Set(conf.HeaderRefreshToken, cred.RefreshToken)
		return adapted
	}

	if cred.AccessToken == "" {
		return req
	}
	adapted := req.Clone(req.Context())
	adapted.Header.Set(conf.HeaderAuthorization, conf.BearerPrefix+cred.AccessToken)
	return adapted
}

type authInterceptor struct {
	adapter *Adapter
}

func NewAuthInterceptor(config AuthConfig) Interceptor {
	return &authInterceptor{
		adapter: NewAdapter(config),
	}
}

func (interceptor *authInterceptor) Priority() InterceptorPriority {
	return InterceptorPriorityAuth
}

func (interceptor *authInterceptor) Intercept(req *http.Request, handler Handler) (*http.Response, error) {
	if interceptor == nil || req == nil {
		return handler(req)
	}

	config := interceptor.adapter.config
	if config.BeforeSign != nil {
		config.BeforeSign(req)
	}

	req = interceptor.adapter.Adapt(req)

	if config.AfterSign != nil {
		config.AfterSign(req)
	}

	return handler(req)
}
