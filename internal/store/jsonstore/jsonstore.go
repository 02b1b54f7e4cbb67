package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; one client process owns its data dir.

// Load reads path into a T. A missing file yields def.
func Load[T any](path string, def T) (T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return def, errors.Wrap(err, "read file")
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return def, errors.Wrap(err, "json unmarshal")
	}
	return v, nil
}

// Save writes v as indented JSON, creating the parent directory (0700) if needed.
func Save(path string, v any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "mkdir")
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "json marshal")
	}
	if err := os.WriteFile(path, b, perm); err != nil {
		return errors.Wrap(err, "write file")
	}
	return nil
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove")
	}
	return nil
}
