package credentials

import (
	"context"
	"sync/atomic"

	"github.com/alloon/photi-go/internal/log"
	"github.com/sirupsen/logrus"
)

// Holder owns the current credential of one session. Reads are lock free
// and always observe a complete credential; Replace swaps the whole value.
type Holder struct {
	current atomic.Pointer[Credential]
	store   Store
	log     logrus.FieldLogger
}

// NewHolder starts with initial (may be nil). When store is set, every
// change is written through to it.
func NewHolder(initial *Credential, store Store) *Holder {
	h := &Holder{
		store: store,
		log:   log.WithFields(log.Fields{"component": "credentials"}),
	}
	if initial.IsValid() {
		h.current.Store(initial.clone())
	}
	return h
}

// LoadHolder seeds a holder from provider. Finding nothing is not an
// error: the session simply starts unauthenticated.
func LoadHolder(ctx context.Context, provider CredentialsProvider, store Store) *Holder {
	var initial *Credential
	if provider != nil {
		if cred, err := provider.Get(ctx); err == nil {
			initial = cred
		} else {
			log.Debug("no initial credential: ", err)
		}
	}
	return NewHolder(initial, store)
}

func (h *Holder) Current() *Credential {
	return h.current.Load()
}

func (h *Holder) Get(context.Context) (*Credential, error) {
	if cred := h.current.Load(); cred != nil {
		return cred, nil
	}
	return nil, ErrNoCredential
}

// Replace installs cred as the current credential. Persisting is best
// effort; a failing store never rolls back the in-memory value.
func (h *Holder) Replace(ctx context.Context, cred *Credential) {
	if !cred.IsValid() {
		h.Clear(ctx)
		return
	}
	cred = cred.clone()
	h.current.Store(cred)
	if h.store != nil {
		if err := h.store.Put(ctx, cred); err != nil {
			h.log.WithError(err).Warn("failed to persist credential")
		}
	}
}

func (h *Holder) Clear(ctx context.Context) {
	h.current.Store(nil)
	if h.store != nil {
		if err := h.store.Delete(ctx); err != nil {
			h.log.WithError(err).Warn("failed to delete persisted credential")
		}
	}
}

var (
	_ Source              = (*Holder)(nil)
	_ CredentialsProvider = (*Holder)(nil)
)
