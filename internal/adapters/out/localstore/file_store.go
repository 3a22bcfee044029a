// internal/adapters/out/localstore/file_store.go
package localstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileStore is the local device storage: one small file per key under a state
// directory. It backs the guest cart blob and the persisted session uid.
// Access is confined to the managers, so no file locking is needed.
type FileStore struct {
	dir string
}

// New creates the state directory if missing. dir defaults to ~/.techshop.
func New(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.New("localstore: cannot resolve home directory: " + err.Error())
		}
		dir = filepath.Join(home, ".techshop")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.New("localstore: mkdir failed: " + err.Error())
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if s == nil || s.dir == "" {
		return "", errors.New("localstore: store not initialized")
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", errors.New("localstore: invalid key")
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get returns (value, true, nil) when the key exists, ("", false, nil) when
// it does not.
func (s *FileStore) Get(key string) (string, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

// Set overwrites the key's value.
func (s *FileStore) Set(key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(value), 0o600)
}

// Remove deletes the key. Removing a missing key is a no-op.
func (s *FileStore) Remove(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
