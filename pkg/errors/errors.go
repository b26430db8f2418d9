// Package errors provides custom error types for spawnwiki.
// These errors enable programmatic error checking and keep the
// distinction between recoverable per-record conditions and fatal
// configuration failures visible throughout the pipeline.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the spawnwiki system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCanonicalize indicates a value that cannot be canonicalized.
	// Records hitting this are emitted un-merged, never dropped.
	ErrCanonicalize = errors.New("value cannot be canonicalized")

	// ErrCredentialsRequired indicates missing wiki credentials
	ErrCredentialsRequired = errors.New("credentials required")

	// ErrRemoteUnavailable indicates the wiki could not be reached at all
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "walk"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// PageError represents a per-page remote store failure. Page errors are
// isolated: one broken page never aborts the rest of the run.
type PageError struct {
	Operation string // "fetch", "put"
	Page      string
	Err       error
}

// Error implements the error interface
func (e *PageError) Error() string {
	return fmt.Sprintf("failed to %s page %s: %v", e.Operation, e.Page, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PageError) Unwrap() error {
	return e.Err
}

// NewPageError creates a new PageError
func NewPageError(operation, page string, err error) *PageError {
	return &PageError{Operation: operation, Page: page, Err: err}
}

// AuthenticationError represents an authentication failure against the wiki
type AuthenticationError struct {
	Endpoint string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("authentication error for %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrCredentialsRequired
}

// RemoteError represents an XML-RPC fault returned by the wiki
type RemoteError struct {
	Method string
	Code   int
	Fault  string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote fault from %s (code %d): %s", e.Method, e.Code, e.Fault)
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCanonicalize checks if an error came from canonicalization
func IsCanonicalize(err error) bool {
	return errors.Is(err, ErrCanonicalize)
}

// AsRemote extracts a RemoteError from an error chain
func AsRemote(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapPage wraps an error as a PageError
func WrapPage(operation, page string, err error) error {
	if err == nil {
		return nil
	}
	return NewPageError(operation, page, err)
}
