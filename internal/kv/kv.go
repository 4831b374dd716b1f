// Package kv provides the durable key-value store that holds all shiftbook
// state.
//
// Values are opaque strings, mirroring the browser localStorage the data was
// first kept in. Every backend is synchronous and last-writer-wins: a Set that
// returns nil is visible to the next Get.
package kv

import (
	"errors"
	"sort"
	"strings"

	"github.com/amonks/shiftbook/internal/validation"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	// Set overwrites the value for key.
	Set(key string, value []byte) error
	// Keys returns all keys in sorted order.
	Keys() ([]string, error)
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ValidBackends returns all backend names.
func ValidBackends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open opens a store of the given backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return NewSQLiteStore(dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, validation.InvalidValueError(ErrUnknownBackend, backend, ValidBackends())
	}
}

// namespaced prefixes every key with "<ns>:".
type namespaced struct {
	inner  Store
	prefix string
}

// Namespace scopes store to keys beginning with ns followed by a colon.
func Namespace(store Store, ns string) Store {
	if ns == "" {
		return store
	}
	return &namespaced{inner: store, prefix: ns + ":"}
}

func (n *namespaced) Get(key string) ([]byte, bool, error) {
	return n.inner.Get(n.prefix + key)
}

func (n *namespaced) Set(key string, value []byte) error {
	return n.inner.Set(n.prefix+key, value)
}

func (n *namespaced) Keys() ([]string, error) {
	all, err := n.inner.Keys()
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, key := range all {
		if rest, ok := strings.CutPrefix(key, n.prefix); ok {
			keys = append(keys, rest)
		}
	}
	return keys, nil
}

func (n *namespaced) Close() error {
	return n.inner.Close()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
