package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileStore keeps the credential in a small JSON document ({"token": "..."})
// readable only by the current user. The last read is cached until the file
// changes through this store or, when Watch is running, through anyone else.
type FileStore struct {
	path string

	mu     sync.RWMutex
	cached map[string]string
}

// NewFileStore creates a store backed by path. The file is created on the first Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("token file path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token file: %w", err)
	}
	return &FileStore{path: abs}, nil
}

// Path returns the absolute path of the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Get retrieves the token
func (s *FileStore) Get(_ context.Context) (string, error) {
	values, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := values[Key]
	if !ok || v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores the token
func (s *FileStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[Key] = token
	return s.write(values)
}

// Delete removes the token
func (s *FileStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[Key]; !ok {
		s.cached = values
		return nil
	}
	delete(values, Key)
	return s.write(values)
}

// Watch drops the cache whenever the backing file is written, replaced or
// removed by another process. The watcher is registered before Watch returns
// and stops when ctx is done.
func (s *FileStore) Watch(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: writers usually replace the file via rename.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					s.invalidate()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}

func (s *FileStore) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *FileStore) load() (map[string]string, error) {
	s.mu.RLock()
	if s.cached != nil {
		values := s.cached
		s.mu.RUnlock()
		return values, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// read loads the file into the cache. Callers hold s.mu for writing.
func (s *FileStore) read() (map[string]string, error) {
	if s.cached != nil {
		return copyValues(s.cached), nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.cached = map[string]string{}
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read token file: %w", err)
	}

	values := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("invalid token file %s: %w", s.path, err)
		}
	}
	s.cached = values
	return copyValues(values), nil
}

// write replaces the file atomically. Callers hold s.mu for writing.
func (s *FileStore) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*")
	if err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.cached = copyValues(values)
	return nil
}

func copyValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
