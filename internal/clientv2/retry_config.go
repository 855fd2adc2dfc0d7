package clientv2

import (
	"github.com/alloon/photi-go/backoff"
	"github.com/alloon/photi-go/retrier"
	"github.com/jonboulle/clockwork"
)

type RetryConfig struct {
	RetryMax int             // maximum number of resends, 0 disables retrying
	Backoff  backoff.Backoff // wait between attempts
	Retrier  retrier.Retrier // decides whether an attempt is resent
	Clock    clockwork.Clock
}

func (c *RetryConfig) init() {
	if c == nil {
		return
	}

	if c.RetryMax < 0 {
		c.RetryMax = 0
	}

	if c.Backoff == nil {
		c.Backoff = backoff.Default()
	}

	if c.Retrier == nil {
		c.Retrier = retrier.NewTransientRetrier()
	}

	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
}
