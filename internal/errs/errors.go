// Package errs defines the error taxonomy shared by the annoview core:
// empty inputs, missing resources, and artifact-cache I/O failures.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrEmptyInput is returned when there is nothing to summarize.
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingResource is returned when a required input file or
	// resource is absent.
	ErrMissingResource = errors.New("missing resource")

	// ErrCacheIO is returned when a persisted artifact cannot be read or
	// written.
	ErrCacheIO = errors.New("artifact cache i/o failure")
)

// EmptyInputError reports an input collection with no elements, where the
// requested statistics are undefined.
type EmptyInputError struct {
	What string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no %s to summarize", e.What)
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// MissingResourceError reports a required file that does not exist.
type MissingResourceError struct {
	Path string
	Err  error
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("required resource %s is missing: %v", e.Path, e.Err)
}

func (e *MissingResourceError) Unwrap() error {
	return e.Err
}

func (e *MissingResourceError) Is(target error) bool {
	return target == ErrMissingResource
}

// CacheIOError reports a failure while loading or persisting a cached
// artifact. The cache never recomputes over a corrupt artifact; it surfaces
// this error instead.
type CacheIOError struct {
	Op   string // "load", "store", "decode", "encode"
	Path string
	Err  error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("artifact cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CacheIOError) Unwrap() error {
	return e.Err
}

func (e *CacheIOError) Is(target error) bool {
	return target == ErrCacheIO
}

// IsEmptyInput reports whether err is an empty-input error.
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

// IsMissingResource reports whether err is a missing-resource error.
func IsMissingResource(err error) bool {
	return errors.Is(err, ErrMissingResource)
}

// IsCacheIO reports whether err is an artifact cache i/o error.
func IsCacheIO(err error) bool {
	return errors.Is(err, ErrCacheIO)
}
