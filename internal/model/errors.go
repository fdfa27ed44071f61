package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingInput is returned when a required input path was not provided.
var ErrMissingInput = errors.New("missing input")

// MissingFieldError reports required canonical fields absent from a source.
type MissingFieldError struct {
	Source string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing fields %s", e.Source, strings.Join(e.Fields, ", "))
}

// NoMatchError reports a join lookup that found zero rows for a client.
type NoMatchError struct {
	Source string
	Key    string // canonical key the lookup used
	Value  string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no %s rows with %s=%s", e.Source, e.Key, e.Value)
}

// AudioNotFoundError reports a call recording that could not be located,
// either because no index entry matched or because the resolved file is absent.
type AudioNotFoundError struct {
	DNI      string
	Telefono string
	Path     string // resolved path when the entry matched but the file is missing
}

func (e *AudioNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio not found at %s", e.Path)
	}
	return fmt.Sprintf("no audio entry for dni=%q telefono=%q", e.DNI, e.Telefono)
}

// WriteError reports an output file that could not be created.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
