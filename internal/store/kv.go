package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var (
	// ErrCASConflict is returned when a compare-and-swap write observed a
	// different stored value than the one it read.
	ErrCASConflict = errors.New("concurrent modification")

	ErrInvalidKey = errors.New("invalid storage key")
)

// KV is the on-device key-value storage the local issue store writes through.
// Get returns ("", false, nil) for an absent key. CompareAndSwap writes value
// only if the stored value still equals old ("" old means the key must be
// absent); otherwise it returns ErrCASConflict.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	CompareAndSwap(ctx context.Context, key, old, value string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileKV stores each key as one file under a root directory. Writes go
// through a temp file and rename, so a reader never observes a partial blob.
// Compare-and-swap is serialized per key with an in-process mutex; the stored
// content is re-read under the lock and compared against the expected value.
type FileKV struct {
	rootDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileKV(rootDir string) (*FileKV, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("storage root directory is required")
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root directory: %w", err)
	}
	return &FileKV{
		rootDir: rootDir,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

func (s *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *FileKV) CompareAndSwap(ctx context.Context, key, old, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	current, exists, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if exists && current != old {
		return ErrCASConflict
	}
	if !exists && old != "" {
		return ErrCASConflict
	}

	tmp, err := os.CreateTemp(s.rootDir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing %s: %w", key, err)
	}
	return nil
}

func (s *FileKV) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *FileKV) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.rootDir, key), nil
}
