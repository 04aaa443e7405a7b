// Package errors provides a structured error type shared across the
// product-config packages, so callers can branch on a stable code instead of
// parsing messages.
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the class of failure a StructuredError represents.
type ErrorCode string

const (
	// Schema-load error codes (§7 "Schema-load errors"). A schema that
	// triggers any of these fails Load entirely.
	ErrCodeInvalidUnitRegex             ErrorCode = "INVALID_UNIT_REGEX"
	ErrCodeUnknownSchemaField           ErrorCode = "UNKNOWN_SCHEMA_FIELD"
	ErrCodeDanglingUnitReference        ErrorCode = "DANGLING_UNIT_REFERENCE"
	ErrCodeDanglingPropertyReference    ErrorCode = "DANGLING_PROPERTY_REFERENCE"
	ErrCodeOverlappingVersionRanges     ErrorCode = "OVERLAPPING_VERSION_RANGES"
	ErrCodeBadVersion                   ErrorCode = "BAD_VERSION"
	ErrCodeSchemaDefaultFailsValidation ErrorCode = "SCHEMA_DEFAULT_FAILS_VALIDATION"
	ErrCodeCyclicExpansion              ErrorCode = "CYCLIC_EXPANSION"

	// General-purpose codes for engine plumbing, following the same
	// taxonomy shape the teacher uses for its HTTP layer.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StructuredError is a typed error carrying a stable code, a message meant
// for humans, an optional wrapped cause, and optional structured details.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError with no wrapped cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError around an existing error.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext is Wrap plus a details map, for callers that want to
// attach structured context (e.g. the offending field name).
func WrapWithContext(code ErrorCode, message string, cause error, details map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Details: details}
}

// LoadReport aggregates every StructuredError collected while loading a
// schema document, satisfying the "abort with a single aggregated report"
// requirement for schema-load failures.
type LoadReport struct {
	Errors []*StructuredError
}

func (r *LoadReport) Add(err *StructuredError) {
	r.Errors = append(r.Errors, err)
}

func (r *LoadReport) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *LoadReport) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("%d schema load error(s): %s", len(r.Errors), strings.Join(parts, "; "))
}

// AsReport returns nil if the report carries no errors, so callers can
// return `report.AsReport()` directly as an `error`.
func (r *LoadReport) AsReport() error {
	if r == nil || !r.HasErrors() {
		return nil
	}
	return r
}
