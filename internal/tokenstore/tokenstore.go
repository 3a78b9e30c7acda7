// ABOUTME: Persisted key/value storage for the session token pair
// ABOUTME: File-backed store in the config directory plus an in-memory variant

package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed keys under which the token pair is persisted
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Store is string storage keyed by fixed names. Missing keys read as "".
type Store interface {
	Get(key string) string
	Set(key, value string) error
	Remove(keys ...string) error
}

// File keeps values in <dir>/tokens.json with owner-only permissions
type File struct {
	mu  sync.Mutex
	dir string
}

// NewFile creates a file store rooted at dir
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Path returns the path of the backing file
func (f *File) Path() string {
	return filepath.Join(f.dir, "tokens.json")
}

func (f *File) Get(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return ""
	}
	return values[key]
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		// Corrupt file, start fresh
		values = map[string]string{}
	}
	values[key] = value
	return f.save(values)
}

func (f *File) Remove(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		values = map[string]string{}
	}
	for _, k := range keys {
		delete(values, k)
	}
	if len(values) == 0 {
		if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", f.Path(), err)
		}
		return nil
	}
	return f.save(values)
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.Path())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	if err := os.WriteFile(f.Path(), data, 0600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

// Memory is a process-local store, used by tests and ephemeral sessions
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
