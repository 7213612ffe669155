// Package artifact persists computed results so repeated inspection of the
// same input directory skips the expensive recomputation.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/annolab/annoview/internal/errs"
)

// Materialize returns the artifact stored at path, producing and persisting
// it first if no stored copy exists. Once a copy exists it is returned
// unchanged on every later call, regardless of whether the source inputs
// changed; there is no staleness detection. Producer errors propagate
// unwrapped. Load and store failures surface as CacheIOError rather than
// falling back to silent recomputation.
func Materialize[T any](path string, produce func() (T, error)) (T, error) {
	var zero T

	if _, err := os.Stat(path); err == nil {
		return load[T](path)
	} else if !os.IsNotExist(err) {
		return zero, &errs.CacheIOError{Op: "stat", Path: path, Err: err}
	}

	value, err := produce()
	if err != nil {
		return zero, err
	}

	if err := store(path, value); err != nil {
		return zero, err
	}

	return value, nil
}

// Exists reports whether a stored copy exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// load reads and decodes a persisted artifact.
func load[T any](path string) (T, error) {
	var value T

	f, err := os.Open(path)
	if err != nil {
		return value, &errs.CacheIOError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&value); err != nil {
		return value, &errs.CacheIOError{Op: "decode", Path: path, Err: err}
	}

	return value, nil
}

// store encodes and persists an artifact.
func store[T any](path string, value T) error {
	f, err := os.Create(path)
	if err != nil {
		return &errs.CacheIOError{Op: "store", Path: path, Err: err}
	}

	if err := json.NewEncoder(f).Encode(value); err != nil {
		f.Close()
		os.Remove(path)
		return &errs.CacheIOError{Op: "encode", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &errs.CacheIOError{Op: "store", Path: path, Err: fmt.Errorf("close: %w", err)}
	}

	return nil
}
