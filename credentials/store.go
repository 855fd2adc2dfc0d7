package credentials

import (
	"context"
	"sync"
)

// Store persists the credential of a session between process runs.
type Store interface {
	Get(context.Context) (*Credential, error)
	Put(context.Context, *Credential) error
	Delete(context.Context) error
}

type MemoryStore struct {
	lock sync.Mutex
	cred *Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(context.Context) (*Credential, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.cred == nil {
		return nil, ErrNoCredential
	}
	return s.cred.clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, cred *Credential) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cred = cred.clone()
	return nil
}

func (s *MemoryStore) Delete(context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cred = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
