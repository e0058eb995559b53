// Package errors provides the error taxonomy shared by the phrase indexer.
//
// Input problems (a corpus line with the wrong field count, a malformed juz
// boundary) are ParseErrors and unwrap to ErrInvalidInput. Data-integrity
// defects (juz ranges that overlap, leave gaps, or fail to locate an ayah)
// are IntegrityErrors and unwrap to ErrIntegrity. Both abort a build.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches lookups of an ayah, phrase or surah that has none.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput matches bad arguments and malformed input files.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIntegrity matches reference data or snapshots that contradict themselves.
	ErrIntegrity = errors.New("integrity violation")
	// ErrUnsupported matches snapshot versions this build cannot read.
	ErrUnsupported = errors.New("unsupported")
)

// NotFoundError names what a lookup was for.
type NotFoundError struct {
	Resource string // "ayah", "unique phrase", "phrases in juz"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError rejects an argument or option before any work is done.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// IOError wraps a filesystem failure with the operation and path.
type IOError struct {
	Operation string // "read", "create", "rename"
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError locates malformed input. Path and Line are optional; loaders
// fill in Path when the parser only knew the line.
type ParseError struct {
	Format  string // "corpus", "juz boundaries", "JSON"
	Path    string
	Line    int // 1-based, 0 if unknown
	Message string
	Err     error // defaults to ErrInvalidInput
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		if loc == "" {
			loc = fmt.Sprintf("line %d", e.Line)
		} else {
			loc = fmt.Sprintf("%s:%d", loc, e.Line)
		}
	}
	if loc != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, loc, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IntegrityError reports reference data that breaks a structural invariant,
// such as overlapping juz ranges or an artifact whose digest changed.
type IntegrityError struct {
	Subject string // "juz table", "manifest.json", an artifact name
	Message string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Message)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// UnsupportedError rejects input this build knows but cannot handle.
type UnsupportedError struct {
	Feature string
	Reason  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// NewParseLine creates a ParseError pinned to a line of the input.
func NewParseLine(format string, line int, message string) *ParseError {
	return &ParseError{Format: format, Line: line, Message: message}
}

// NewIntegrity formats the message like fmt.Sprintf.
func NewIntegrity(subject, format string, args ...any) *IntegrityError {
	return &IntegrityError{Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is and As let callers that import this package under the name errors
// keep using the standard matching functions.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
