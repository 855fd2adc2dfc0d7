package apis

import (
	"context"
	"net/http"
	"strings"

	"github.com/alloon/photi-go/conf"
	"github.com/alloon/photi-go/credentials"
	"github.com/alloon/photi-go/internal/clientv2"
)

// AuthResult is the user and token pair returned by login and sign-up.
type AuthResult struct {
	User       User
	Credential *credentials.Credential
}

// Login exchanges a username and password for a token pair.
// POST /api/users/login
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/api/users/login", req)
}

// SignUp registers a new account and signs it in.
// POST /api/users/register
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/api/users/register", req)
}

func (c *Client) authenticate(ctx context.Context, path string, req interface{}) (*AuthResult, error) {
	getBody, err := clientv2.GetJsonRequestBody(req)
	if err != nil {
		return nil, err
	}
	var ret Response[tokenData]
	header, err := do(ctx, c, call{method: http.MethodPost, path: path, getBody: getBody}, &ret)
	if err != nil {
		return nil, err
	}
	cred, err := credentialFrom(ret.Data, header)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: ret.Data.User, Credential: cred}, nil
}

// RefreshToken exchanges refreshToken for a new token pair. The request
// is marked as a refresh call so it is never retried on authentication
// failure.
// POST /api/users/token
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*credentials.Credential, error) {
	header := http.Header{}
	if refreshToken != "" {
		header.Set(conf.HeaderRefreshToken, refreshToken)
	}
	var ret Response[tokenData]
	respHeader, err := do(ctx, c, call{
		method:  http.MethodPost,
		path:    conf.RefreshTokenPath,
		header:  header,
		getBody: clientv2.GetFormRequestBody(nil),
		purpose: clientv2.RequestPurposeRefreshToken,
	}, &ret)
	if err != nil {
		return nil, err
	}
	return credentialFrom(ret.Data, respHeader)
}

// Refresh implements credentials.Refresher.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*credentials.Credential, error) {
	return c.RefreshToken(ctx, refreshToken)
}

var _ credentials.Refresher = (*Client)(nil)

// Logout invalidates the refresh token on the server.
// POST /api/users/logout
func (c *Client) Logout(ctx context.Context) error {
	_, err := do[struct{}](ctx, c, call{method: http.MethodPost, path: "/api/users/logout"}, nil)
	return err
}

// credentialFrom reads the token pair from the body, falling back to the
// Authorization and Refresh-Token response headers.
func credentialFrom(data tokenData, header http.Header) (*credentials.Credential, error) {
	accessToken, refreshToken := data.AccessToken, data.RefreshToken
	if accessToken == "" {
		accessToken = strings.TrimPrefix(header.Get(conf.HeaderAuthorization), conf.BearerPrefix)
	}
	if refreshToken == "" {
		refreshToken = header.Get(conf.HeaderRefreshToken)
	}
	if accessToken == "" {
		return nil, ErrNoToken
	}
	return credentials.NewCredential(accessToken, refreshToken), nil
}
