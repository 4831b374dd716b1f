package kv

import (
	"encoding/json"
	"fmt"
	"io"
)

// batchSetter is implemented by backends that can write several entries at once.
type batchSetter interface {
	SetMany(values map[string][]byte) error
}

// Import loads a localStorage-style dump, a JSON object mapping keys to
// string values, into store. It returns the number of entries written.
func Import(store Store, r io.Reader) (int, error) {
	var dump map[string]string
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return 0, fmt.Errorf("decode dump: %w", err)
	}

	values := make(map[string][]byte, len(dump))
	for key, value := range dump {
		values[key] = []byte(value)
	}

	if batch, ok := store.(batchSetter); ok {
		if err := batch.SetMany(values); err != nil {
			return 0, err
		}
		return len(values), nil
	}

	for _, key := range sortedKeys(dump) {
		if err := store.Set(key, values[key]); err != nil {
			return 0, err
		}
	}
	return len(values), nil
}

// Export writes every entry of store as a localStorage-style dump.
func Export(store Store, w io.Writer) error {
	keys, err := store.Keys()
	if err != nil {
		return err
	}

	dump := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := store.Get(key)
		if err != nil {
			return err
		}
		if ok {
			dump[key] = string(value)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
