package content

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedContent is returned when a content file is missing a
	// required front-matter field or carries a value that cannot be parsed.
	ErrMalformedContent = errors.New("malformed content")

	// ErrNotFound is returned when no content file matches an identifier.
	ErrNotFound = errors.New("not found")

	// ErrRenderFailure is returned when markdown conversion fails.
	ErrRenderFailure = errors.New("render failure")
)

// MalformedContentError names the file and front-matter field at fault.
type MalformedContentError struct {
	File  string
	Field string
	Err   error
}

func (e *MalformedContentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedContent, e.File, e.Err)
	}
	return fmt.Sprintf("%s: %s: field %q: %v", ErrMalformedContent, e.File, e.Field, e.Err)
}

func (e *MalformedContentError) Unwrap() []error {
	return []error{ErrMalformedContent, e.Err}
}

func malformed(file, field string, err error) error {
	return &MalformedContentError{File: file, Field: field, Err: err}
}
