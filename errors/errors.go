/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrInvalidCredentials is returned when the credential mapping is missing a field or malformed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidIdentifier is returned when a keyspace or collection name is rejected
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidQuery is returned when a filter, update or replacement fails validation
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidOption is returned when an operation option is out of range or malformed
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidJSON is returned when a JSON parameter cannot be parsed
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrDatabase is returned when the database client rejects or fails a call
	ErrDatabase = errors.New("database operation failed")

	// ErrConditionFailed is returned when a conditional write loses to a concurrent change
	ErrConditionFailed = errors.New("condition check failed")

	// ErrUnsupportedOperation is returned for an operation name the node does not know
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// CredentialError represents a missing or malformed credential field
type CredentialError struct {
	Field   string
	Message string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("invalid credentials: %s %s", e.Field, e.Message)
}

func (e *CredentialError) Is(target error) bool {
	return target == ErrInvalidCredentials
}

// IdentifierError represents a rejected keyspace or collection name
type IdentifierError struct {
	Kind   string
	Name   string
	Reason string
}

func (e *IdentifierError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid %s name: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid %s name %q: %s", e.Kind, e.Name, e.Reason)
}

func (e *IdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// QueryError represents a filter, update or replacement that failed validation.
// Errors holds every rule violation found.
type QueryError struct {
	Label  string
	Errors []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Label, strings.Join(e.Errors, "; "))
}

func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// OptionError represents an option value outside its allowed range or type
type OptionError struct {
	Option  string
	Message string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid option %q: %s", e.Option, e.Message)
}

func (e *OptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// ParseError represents a parameter that is not valid JSON
type ParseError struct {
	Parameter string
	Cause     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s as JSON: %v", e.Parameter, e.Cause)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidJSON
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// DatabaseError wraps a failure surfaced by the database client
type DatabaseError struct {
	Operation string
	Code      string
	Cause     error
}

func (e *DatabaseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s failed [%s]: %v", e.Operation, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Cause)
}

func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}

func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// UnsupportedOperationError names the operation that was requested
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q", e.Operation)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// Helper functions for creating errors

// NewCredentialError creates a new CredentialError
func NewCredentialError(field, message string) error {
	return &CredentialError{Field: field, Message: message}
}

// NewIdentifierError creates a new IdentifierError
func NewIdentifierError(kind, name, reason string) error {
	return &IdentifierError{Kind: kind, Name: name, Reason: reason}
}

// NewQueryError creates a new QueryError
func NewQueryError(label string, errs []string) error {
	return &QueryError{Label: label, Errors: errs}
}

// NewOptionError creates a new OptionError
func NewOptionError(option, message string) error {
	return &OptionError{Option: option, Message: message}
}

// NewParseError creates a new ParseError
func NewParseError(parameter string, cause error) error {
	return &ParseError{Parameter: parameter, Cause: cause}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(operation string, cause error) error {
	return &DatabaseError{Operation: operation, Cause: cause}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError
func NewUnsupportedOperationError(operation string) error {
	return &UnsupportedOperationError{Operation: operation}
}

// IsValidationError reports whether err was raised by local validation,
// before any database call was issued.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrInvalidOption) ||
		errors.Is(err, ErrInvalidJSON) ||
		errors.Is(err, ErrUnsupportedOperation)
}

// IsDatabaseError checks if an error came from the database client
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabase) || errors.Is(err, ErrConditionFailed)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// Kind returns a stable name for the category of err, suitable for output records.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "CredentialError"
	case errors.Is(err, ErrInvalidIdentifier):
		return "IdentifierError"
	case errors.Is(err, ErrInvalidQuery):
		return "QueryError"
	case errors.Is(err, ErrInvalidOption):
		return "OptionError"
	case errors.Is(err, ErrInvalidJSON):
		return "ParseError"
	case errors.Is(err, ErrUnsupportedOperation):
		return "UnsupportedOperationError"
	case errors.Is(err, ErrConditionFailed):
		return "ConditionFailedError"
	case errors.Is(err, ErrDatabase):
		return "DatabaseError"
	default:
		return "Error"
	}
}
