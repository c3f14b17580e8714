package vault

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileMedium persists values to a single JSON file on disk, one entry per
// key with base64-encoded payloads. Writes go through a temp file and rename
// so a crash mid-write leaves the previous file intact.
type FileMedium struct {
	mu   sync.Mutex
	path string
}

// NewFileMedium creates a file-backed medium rooted at path. The file is
// created lazily on the first Set.
func NewFileMedium(path string) (*FileMedium, error) {
	if path == "" {
		return nil, errors.New("file medium path required")
	}
	return &FileMedium{path: path}, nil
}

// Get returns the stored value or [ErrNoValue].
func (m *FileMedium) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.load()
	if err != nil {
		return nil, err
	}

	encoded, ok := entries[key]
	if !ok {
		return nil, ErrNoValue
	}

	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode entry %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (m *FileMedium) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.load()
	if err != nil {
		return err
	}

	entries[key] = base64.StdEncoding.EncodeToString(value)
	return m.save(entries)
}

// Delete removes key. Deleting an absent key is not an error.
func (m *FileMedium) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.load()
	if err != nil {
		return err
	}

	if _, ok := entries[key]; !ok {
		return nil
	}

	delete(entries, key)
	return m.save(entries)
}

func (m *FileMedium) load() (map[string]string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", m.path, err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", m.path, err)
	}
	return entries, nil
}

func (m *FileMedium) save(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".vault-*")
	if err != nil {
		return fmt.Errorf("temp file in %s: %w", dir, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", m.path, err)
	}
	return nil
}
