package credentials

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sync/singleflight"
)

// FileStore keeps the credential as JSON in a single file. Cross process
// access is serialized by a sibling ".lock" file.
type FileStore struct {
	path  string
	group singleflight.Group
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context) (*Credential, error) {
	v, err, _ := s.group.Do("get", func() (interface{}, error) {
		return s.load()
	})
	if err != nil {
		return nil, err
	}
	return v.(*Credential).clone(), nil
}

func (s *FileStore) load() (*Credential, error) {
	unlock, err := s.lock(false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoCredential
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	var cred Credential
	if err = json.NewDecoder(file).Decode(&cred); err == io.EOF {
		return nil, ErrNoCredential
	} else if err != nil {
		return nil, err
	}
	if !cred.IsValid() {
		return nil, ErrNoCredential
	}
	return &cred, nil
}

func (s *FileStore) Put(ctx context.Context, cred *Credential) error {
	unlock, err := s.lock(true)
	if err != nil {
		return err
	}
	defer unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if err = json.NewEncoder(file).Encode(cred); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (s *FileStore) Delete(ctx context.Context) error {
	unlock, err := s.lock(true)
	if err != nil {
		return err
	}
	defer unlock()

	if err = os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) lock(ex bool) (func(), error) {
	lockFile := flock.New(s.path + ".lock")
	var err error
	if ex {
		err = lockFile.Lock()
	} else {
		err = lockFile.RLock()
	}
	if err != nil {
		return nil, err
	}
	return func() {
		_ = lockFile.Unlock()
	}, nil
}

var _ Store = (*FileStore)(nil)
