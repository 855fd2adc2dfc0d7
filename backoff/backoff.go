package backoff

import (
	"context"
	"math/rand"
	"time"

	"github.com/alex-ant/gomath/rational"
	"github.com/jonboulle/clockwork"
)

// Backoff tells how long to wait before a resend. attempt is 0 before the
// first resend.
type Backoff interface {
	Delay(attempt int) time.Duration
}

// Func is a Backoff computed by a plain function.
type Func func(attempt int) time.Duration

func (f Func) Delay(attempt int) time.Duration {
	return f(attempt)
}

// Constant waits d before every resend.
func Constant(d time.Duration) Backoff {
	return Func(func(int) time.Duration { return d })
}

// Exponential waits initial, then multiplies the wait by factor on every
// further attempt.
func Exponential(initial time.Duration, factor int64) Backoff {
	return Func(func(attempt int) time.Duration {
		d := initial
		for i := 0; i < attempt; i++ {
			d *= time.Duration(factor)
		}
		return d
	})
}

// Jitter scales the wait of b by a random ratio in [low, high).
func Jitter(b Backoff, low, high rational.Rational) Backoff {
	if low.LessThanNum(0) {
		panic("backoff: low jitter ratio must not be negative")
	}
	if !low.LessThan(high) {
		panic("backoff: high jitter ratio must exceed the low one")
	}
	return Func(func(attempt int) time.Duration {
		d := int64(b.Delay(attempt))
		min := low.MultiplyByNum(d)
		spread := int64(high.MultiplyByNum(d).Subtract(min).Float64())
		if spread <= 0 {
			return time.Duration(min.Float64())
		}
		return time.Duration(min.AddNum(rand.Int63n(spread)).Float64())
	})
}

// Clamp keeps the wait of b within [min, max].
func Clamp(b Backoff, min, max time.Duration) Backoff {
	return Func(func(attempt int) time.Duration {
		d := b.Delay(attempt)
		if d < min {
			return min
		} else if d > max {
			return max
		}
		return d
	})
}

// Default is the wait between network retries of Photi calls: 200ms
// doubling per attempt, jittered by half either way, within 50ms and 5s.
func Default() Backoff {
	return Clamp(
		Jitter(Exponential(200*time.Millisecond, 2), rational.New(1, 2), rational.New(3, 2)),
		50*time.Millisecond,
		5*time.Second,
	)
}

// Wait blocks on clock for d or until ctx is done.
func Wait(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	timer := clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
