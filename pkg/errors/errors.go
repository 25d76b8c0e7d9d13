// Package errors provides custom error types for netorg.
// Errors are grouped by how a caller should react: configuration and input
// misuse, address pool exhaustion, remote synchronization failures and
// transport failures. Use errors.Is against the sentinels for checks and
// errors.As for the details.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library helpers, re-exported so callers need
// only this package.
var (
	Is = errors.Is
	As = errors.As
)

// Sentinel errors
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange indicates a CIDR outside private address space
	ErrInvalidRange = errors.New("invalid range")

	// ErrAddressInUse indicates an address was already allocated
	ErrAddressInUse = errors.New("address already in use")

	// ErrNetworkExhausted indicates the address pool has no unused addresses
	ErrNetworkExhausted = errors.New("network exhausted")

	// ErrFailedToCreateGroup indicates the remote system refused a group create
	ErrFailedToCreateGroup = errors.New("failed to create group")

	// ErrFailedToUpdateGroup indicates the remote system refused a group update
	ErrFailedToUpdateGroup = errors.New("failed to update group")

	// ErrFailedToDeleteGroup indicates the remote system refused a group delete
	ErrFailedToDeleteGroup = errors.New("failed to delete group")

	// ErrAuthentication indicates rejected credentials
	ErrAuthentication = errors.New("authentication failed")

	// ErrUnavailable indicates that a remote service is temporarily unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("no %s found", e.Resource)
	}
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

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// AddressError reports a failed address space operation. Err is one of
// ErrInvalidInput, ErrInvalidRange, ErrAddressInUse or ErrNetworkExhausted.
type AddressError struct {
	Op      string // "parse", "allocate", "allocate-specific"
	Space   string
	Address string
	Err     error
}

// Error implements the error interface
func (e *AddressError) Error() string {
	if e.Address != "" {
		return fmt.Sprintf("%s %s in %s: %v", e.Op, e.Address, e.Space, e.Err)
	}
	return fmt.Sprintf("%s in %s: %v", e.Op, e.Space, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *AddressError) Unwrap() error {
	return e.Err
}

// NewAddressError creates a new AddressError
func NewAddressError(op, space, address string, err error) *AddressError {
	return &AddressError{Op: op, Space: space, Address: address, Err: err}
}

// GroupSyncError reports a remote group mutation that aborted a sync batch.
type GroupSyncError struct {
	Op    string // "create", "update", "delete"
	Group string
	Err   error
}

// Error implements the error interface
func (e *GroupSyncError) Error() string {
	return fmt.Sprintf("failed to %s host group %q: %v", e.Op, e.Group, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *GroupSyncError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *GroupSyncError) Is(target error) bool {
	switch e.Op {
	case "create":
		return target == ErrFailedToCreateGroup
	case "update":
		return target == ErrFailedToUpdateGroup
	case "delete":
		return target == ErrFailedToDeleteGroup
	}
	return false
}

// NewGroupSyncError creates a new GroupSyncError
func NewGroupSyncError(op, group string, err error) *GroupSyncError {
	return &GroupSyncError{Op: op, Group: group, Err: err}
}

// APIError represents a non-success response from a remote API
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return target == ErrAuthentication
	case e.StatusCode == http.StatusNotFound:
		return target == ErrNotFound
	case e.StatusCode >= 500:
		return target == ErrUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
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
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
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

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "lock"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents a failed operation against a source or remote resource
type ResourceError struct {
	Operation string // "load", "save", "query"
	Resource  string // "known_devices", "host_groups"
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{Operation: operation, Resource: resource, Message: message, Err: err}
}

// AuthenticationError represents an authentication failure against a remote system
type AuthenticationError struct {
	Service string
	Method  string // "api_key", "password"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.Service, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(service, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Service: service,
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is an input error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsExhausted checks if an error reports an exhausted address pool
func IsExhausted(err error) bool {
	return errors.Is(err, ErrNetworkExhausted)
}

// IsSyncFailure checks if an error aborted a host group sync batch
func IsSyncFailure(err error) bool {
	return errors.Is(err, ErrFailedToCreateGroup) ||
		errors.Is(err, ErrFailedToUpdateGroup) ||
		errors.Is(err, ErrFailedToDeleteGroup)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
