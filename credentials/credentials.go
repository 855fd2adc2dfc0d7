package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alloon/photi-go/internal/configfile"
	"github.com/alloon/photi-go/internal/env"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

var (
	ErrNoCredential = errors.New("no credential")
	ErrNotJWT       = errors.New("access token is not a JWT with an exp claim")
)

// Credential is the access/refresh token pair of an authenticated session.
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func NewCredential(accessToken, refreshToken string) *Credential {
	return &Credential{AccessToken: accessToken, RefreshToken: refreshToken}
}

func (c *Credential) IsValid() bool {
	return c != nil && c.AccessToken != ""
}

func (c *Credential) clone() *Credential {
	if c == nil {
		return nil
	}
	cloned := *c
	return &cloned
}

// ExpiresAt reads the exp claim of the access token. The signature is not
// verified; the server remains the authority on validity.
func (c *Credential) ExpiresAt() (time.Time, error) {
	if !c.IsValid() {
		return time.Time{}, ErrNoCredential
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNotJWT
	}
	return claims.ExpiresAt.Time, nil
}

// ExpiresWithin reports whether the access token expires in less than d.
// Opaque tokens are never considered expiring.
func (c *Credential) ExpiresWithin(clock clockwork.Clock, d time.Duration) bool {
	expiresAt, err := c.ExpiresAt()
	if err != nil {
		return false
	}
	return clock.Now().Add(d).After(expiresAt)
}

func (c *Credential) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Credential{access:%s refresh:%s}", Redact(c.AccessToken), Redact(c.RefreshToken))
}

// Redact keeps only the first and last four characters of a token.
func Redact(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "***" + token[len(token)-4:]
}

// Source is the read side of the current credential. Current returns nil
// when the session is not authenticated.
type Source interface {
	Current() *Credential
}

// Refresher exchanges a refresh token for a new credential.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*Credential, error)
}

// CredentialsProvider looks up an initial credential.
type CredentialsProvider interface {
	Get(context.Context) (*Credential, error)
}

// EnvironmentVariableCredentialProvider reads PHOTI_ACCESS_TOKEN and PHOTI_REFRESH_TOKEN.
type EnvironmentVariableCredentialProvider struct{}

func (provider *EnvironmentVariableCredentialProvider) Get(ctx context.Context) (*Credential, error) {
	accessToken, refreshToken := env.CredentialsFromEnvironment()
	if accessToken == "" {
		return nil, errors.New("PHOTI_ACCESS_TOKEN or PHOTI_REFRESH_TOKEN is not set")
	}
	return NewCredential(accessToken, refreshToken), nil
}

var _ CredentialsProvider = (*EnvironmentVariableCredentialProvider)(nil)

// ConfigFileCredentialProvider reads the tokens of the active profile.
type ConfigFileCredentialProvider struct{}

func (provider *ConfigFileCredentialProvider) Get(ctx context.Context) (*Credential, error) {
	accessToken, refreshToken, err := configfile.CredentialsFromConfigFile()
	if err != nil {
		return nil, err
	} else if accessToken == "" {
		return nil, ErrNoCredential
	}
	return NewCredential(accessToken, refreshToken), nil
}

var _ CredentialsProvider = (*ConfigFileCredentialProvider)(nil)

// StoreCredentialsProvider reads whatever was persisted by a previous session.
type StoreCredentialsProvider struct {
	Store Store
}

func (provider *StoreCredentialsProvider) Get(ctx context.Context) (*Credential, error) {
	if provider.Store == nil {
		return nil, ErrNoCredential
	}
	return provider.Store.Get(ctx)
}

var _ CredentialsProvider = (*StoreCredentialsProvider)(nil)

// ChainedCredentialsProvider tries each provider in turn and returns the first credential found.
type ChainedCredentialsProvider struct {
	providers []CredentialsProvider
}

func NewChainedCredentialsProvider(providers ...CredentialsProvider) *ChainedCredentialsProvider {
	return &ChainedCredentialsProvider{providers: providers}
}

func (provider *ChainedCredentialsProvider) Get(ctx context.Context) (credential *Credential, err error) {
	err = ErrNoCredential
	for _, provider := range provider.providers {
		if credential, err = provider.Get(ctx); err == nil && credential.IsValid() {
			return
		}
	}
	if err == nil {
		err = ErrNoCredential
	}
	return nil, err
}

var _ CredentialsProvider = (*ChainedCredentialsProvider)(nil)

// Default looks in a persisted store first, then the environment, then the config file.
func Default(store Store) CredentialsProvider {
	return NewChainedCredentialsProvider(
		&StoreCredentialsProvider{Store: store},
		&EnvironmentVariableCredentialProvider{},
		&ConfigFileCredentialProvider{},
	)
}
