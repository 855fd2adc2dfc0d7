package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alloon/photi-go/apis"
	clientV1 "github.com/alloon/photi-go/client"
	"github.com/alloon/photi-go/credentials"
	"github.com/alloon/photi-go/internal/clientv2"
	"github.com/alloon/photi-go/internal/log"
	"github.com/alloon/photi-go/retrier"
	"github.com/sirupsen/logrus"
)

var ErrNotSignedIn = errors.New("not signed in")

// Session is the authenticated state of one Photi user: the current
// credential and the API client whose requests carry it.
type Session struct {
	config     Config
	holder     *credentials.Holder
	api        *apis.Client
	refreshAPI *apis.Client
	log        logrus.FieldLogger
}

// New builds a session from config. A credential found by the configured
// provider signs the session in immediately.
func New(ctx context.Context, config *Config) (*Session, error) {
	if config == nil {
		config = &Config{}
	}
	cfg := *config
	if err := cfg.init(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.AppName != "" {
		if err := clientV1.SetAppName(cfg.AppName); err != nil {
			return nil, err
		}
	}

	s := &Session{
		config: cfg,
		holder: credentials.LoadHolder(ctx, cfg.CredentialsProvider, cfg.Store),
		log:    log.WithFields(log.Fields{"component": "session"}),
	}

	var core clientv2.Client = clientV1.DefaultClient
	if cfg.HTTPClient != nil {
		core = cfg.HTTPClient
	}
	auth := clientv2.NewAuthInterceptor(clientv2.AuthConfig{Credentials: s.holder})

	refreshAPI, err := apis.New(cfg.BaseURL, clientv2.NewClient(core, auth))
	if err != nil {
		return nil, err
	}
	authRetrier, err := retrier.NewAuthRetrier(retrier.AuthRetrierOptions{
		Credentials:   s.holder,
		Refresher:     refreshAPI,
		Listener:      s,
		ShouldRefresh: cfg.ShouldRefresh,
	})
	if err != nil {
		return nil, err
	}

	retryMax := cfg.RetryMax
	if retryMax < 0 {
		retryMax = 0
	}
	api, err := apis.New(cfg.BaseURL, clientv2.NewClient(core,
		clientv2.NewSimpleRetryInterceptor(clientv2.RetryConfig{
			RetryMax: retryMax,
			Backoff:  cfg.Backoff,
			Clock:    cfg.Clock,
		}),
		clientv2.NewAuthRetryInterceptor(authRetrier),
		auth,
		clientv2.NewBufferResponseInterceptor(),
	))
	if err != nil {
		return nil, err
	}
	s.api, s.refreshAPI = api, refreshAPI

	if cred := s.holder.Current(); cred != nil {
		s.log.WithField("credential", cred).Debug("session restored")
	}
	return s, nil
}

// API returns the client every Photi call should go through.
func (s *Session) API() *apis.Client {
	return s.api
}

func (s *Session) BaseURL() string {
	return s.config.BaseURL
}

// Credential returns the current credential or nil when signed out.
func (s *Session) Credential() *credentials.Credential {
	return s.holder.Current()
}

func (s *Session) IsSignedIn() bool {
	return s.holder.Current() != nil
}

// SignIn installs cred as the current credential and persists it.
func (s *Session) SignIn(ctx context.Context, cred *credentials.Credential) error {
	if !cred.IsValid() {
		return retrier.ErrEmptyCredential
	}
	s.holder.Replace(ctx, cred)
	s.log.WithField("credential", cred).Info("signed in")
	return nil
}

// Login signs in with a username and password.
func (s *Session) Login(ctx context.Context, username, password string) (*apis.AuthResult, error) {
	result, err := s.api.Login(ctx, apis.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	if err = s.SignIn(ctx, result.Credential); err != nil {
		return nil, err
	}
	return result, nil
}

// SignOut tells the server when possible, then forgets the credential.
// The local credential is cleared even if the server call fails.
func (s *Session) SignOut(ctx context.Context) error {
	if !s.IsSignedIn() {
		return nil
	}
	err := s.api.Logout(ctx)
	if err != nil {
		s.log.WithError(err).Warn("server logout failed")
	}
	s.holder.Clear(ctx)
	return err
}

// Refresh exchanges the current refresh token for a new pair right away.
func (s *Session) Refresh(ctx context.Context) error {
	current := s.holder.Current()
	if current == nil {
		return ErrNotSignedIn
	} else if current.RefreshToken == "" {
		return &retrier.RefreshError{Cause: retrier.ErrNoRefreshToken}
	}
	cred, err := s.refreshAPI.RefreshToken(ctx, current.RefreshToken)
	if err != nil {
		refreshErr := &retrier.RefreshError{Cause: err}
		var errorInfo *clientV1.ErrorInfo
		if errors.As(err, &errorInfo) && errorInfo.HttpCode() == http.StatusUnauthorized {
			s.SessionExpired(refreshErr)
		}
		return refreshErr
	}
	s.holder.Replace(ctx, cred)
	return nil
}

// ExpiresAt reads the expiry of the current access token.
func (s *Session) ExpiresAt() (time.Time, error) {
	cred := s.holder.Current()
	if cred == nil {
		return time.Time{}, ErrNotSignedIn
	}
	return cred.ExpiresAt()
}

// ExpiresWithin reports whether the current access token expires within d.
func (s *Session) ExpiresWithin(d time.Duration) bool {
	cred := s.holder.Current()
	return cred != nil && cred.ExpiresWithin(s.config.Clock, d)
}

// SessionExpired signs the session out after a failed refresh.
func (s *Session) SessionExpired(err error) {
	s.log.WithError(err).Warn("session expired, signing out")
	s.holder.Clear(context.Background())
	if s.config.OnSessionExpired != nil {
		s.config.OnSessionExpired(err)
	}
}

var _ retrier.SessionListener = (*Session)(nil)
