package session

import (
	"net/http"
	"sync"

	"github.com/alloon/photi-go/backoff"
	"github.com/alloon/photi-go/credentials"
	"github.com/alloon/photi-go/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
)

type Config struct {
	// BaseURL defaults to defaults.BaseURL().
	BaseURL string `validate:"required,url"`

	// HTTPClient sends the requests. Defaults to client.DefaultClient.
	HTTPClient *http.Client `validate:"-"`

	// Store persists the credential across restarts. Defaults to a
	// MemoryStore.
	Store credentials.Store `validate:"-"`

	// CredentialsProvider seeds the session. Defaults to
	// credentials.Default(Store).
	CredentialsProvider credentials.CredentialsProvider `validate:"-"`

	// RetryMax bounds network retries. 0 uses defaults.RetryMax(), a
	// negative value disables them.
	RetryMax int             `validate:"gte=-1,lte=10"`
	Backoff  backoff.Backoff `validate:"-"`
	Clock    clockwork.Clock `validate:"-"`

	LogLevel string `validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	AppName  string

	// OnSessionExpired is called after a failed refresh has signed the
	// session out.
	OnSessionExpired func(err error)

	// ShouldRefresh overrides which responses count as an expired access
	// token. Defaults to status 401.
	ShouldRefresh func(resp *http.Response, body []byte) bool
}

var (
	configValidator     *validator.Validate
	configValidatorOnce sync.Once
)

func (c *Config) init() error {
	if c.BaseURL == "" {
		baseURL, err := defaults.BaseURL()
		if err != nil {
			return err
		}
		c.BaseURL = baseURL
	}
	if c.RetryMax == 0 {
		retryMax, err := defaults.RetryMax()
		if err != nil {
			return err
		}
		c.RetryMax = retryMax
	}
	if c.LogLevel == "" {
		level, err := defaults.LogLevel()
		if err != nil {
			return err
		}
		c.LogLevel = level
	}
	if c.Store == nil {
		c.Store = credentials.NewMemoryStore()
	}
	if c.CredentialsProvider == nil {
		c.CredentialsProvider = credentials.Default(c.Store)
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Backoff == nil {
		c.Backoff = backoff.Default()
	}
	return c.validate()
}

func (c *Config) validate() error {
	configValidatorOnce.Do(func() {
		configValidator = validator.New()
	})
	return configValidator.Struct(c)
}
