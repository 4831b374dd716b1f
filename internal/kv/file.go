package kv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileStore keeps every entry in one JSON object file with locking.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in the given directory.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the path to the data file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, "store.json")
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.dir, "store.lock")
}

// load reads all entries. Returns an empty map if the file doesn't exist.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	entries := make(map[string]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal store: %w", err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return entries, nil
}

// save writes all entries to disk.
func (s *FileStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if existing, err := os.ReadFile(s.Path()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read store file: %w", err)
	}

	// Write atomically via temp file
	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(s.Path())+".tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp store file: %w", err)
	}

	if err := os.Rename(name, s.Path()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename store file: %w", err)
	}

	return nil
}

// update reads, modifies, and writes the entries under an exclusive lock.
func (s *FileStore) update(fn func(entries map[string]string) error) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	entries, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(entries); err != nil {
		return err
	}
	return s.save(entries)
}

// Get returns the value stored under key.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	entries, err := s.load()
	if err != nil {
		return nil, false, err
	}
	value, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Set stores value under key.
func (s *FileStore) Set(key string, value []byte) error {
	return s.update(func(entries map[string]string) error {
		entries[key] = string(value)
		return nil
	})
}

// SetMany stores several entries in one locked write.
func (s *FileStore) SetMany(values map[string][]byte) error {
	return s.update(func(entries map[string]string) error {
		for key, value := range values {
			entries[key] = string(value)
		}
		return nil
	})
}

// Keys returns all stored keys.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedKeys(entries), nil
}

// Close is a no-op; the file store holds no open handles.
func (s *FileStore) Close() error {
	return nil
}
