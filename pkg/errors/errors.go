package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Graph mutation errors
	ErrorTypeDuplicateID    ErrorType = "DUPLICATE_ID"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeSelfLoop       ErrorType = "SELF_LOOP"
	ErrorTypeImmutableField ErrorType = "IMMUTABLE_FIELD"

	// Input errors
	ErrorTypeValidation     ErrorType = "VALIDATION"
	ErrorTypeMalformedInput ErrorType = "MALFORMED_INPUT"

	// Misuse of a stateful object (undo before execute, stale batch)
	ErrorTypeInvalidState ErrorType = "INVALID_STATE"
)

// CodeInvalidReference marks a NOT_FOUND raised because an entity names a
// missing node or port, as opposed to a lookup of the entity itself.
const CodeInvalidReference = "invalid_reference"

// AppError represents a graph-engine error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(t ErrorType, message string) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// Constructor functions for common error types

// NewDuplicateIDError creates an error for an id that is already taken
func NewDuplicateIDError(kind, id string) *AppError {
	return newError(ErrorTypeDuplicateID, fmt.Sprintf("%s with id=%s already exists", kind, id)).
		WithDetails(map[string]interface{}{"kind": kind, "id": id})
}

// NewNotFoundError creates a not found error
func NewNotFoundError(kind, id string) *AppError {
	return newError(ErrorTypeNotFound, fmt.Sprintf("%s with id=%s does not exist", kind, id)).
		WithDetails(map[string]interface{}{"kind": kind, "id": id})
}

// NewInvalidReferenceError creates a NOT_FOUND error for a dangling reference
// held by another entity (a port naming a missing node, an edge naming a
// missing port).
func NewInvalidReferenceError(owner, field, id string) *AppError {
	return newError(ErrorTypeNotFound, fmt.Sprintf("%s refers to missing %s=%s", owner, field, id)).
		WithCode(CodeInvalidReference).
		WithDetails(map[string]interface{}{"owner": owner, "field": field, "id": id})
}

// NewSelfLoopError creates an error for an edge whose ends are the same port
func NewSelfLoopError(edgeID, portID string) *AppError {
	return newError(ErrorTypeSelfLoop, fmt.Sprintf("edge %s: source and target cannot be the same port (%s)", edgeID, portID))
}

// NewImmutableFieldError creates an error for a patch that touches an identity field
func NewImmutableFieldError(kind, field string) *AppError {
	return newError(ErrorTypeImmutableField, fmt.Sprintf("cannot update %s.%s once created", kind, field)).
		WithDetails(map[string]interface{}{"kind": kind, "field": field})
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, message)
}

// NewMalformedInputError creates an error for structurally invalid persisted data
func NewMalformedInputError(message string) *AppError {
	return newError(ErrorTypeMalformedInput, message)
}

// NewInvalidStateError creates an error for an operation invoked in the wrong state
func NewInvalidStateError(message string) *AppError {
	return newError(ErrorTypeInvalidState, message)
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsDuplicateID checks if an error is a duplicate id error
func IsDuplicateID(err error) bool {
	return IsType(err, ErrorTypeDuplicateID)
}

// IsNotFound checks if an error is a not found error, including invalid references
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsInvalidReference checks if an error is a dangling-reference error
func IsInvalidReference(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound && appErr.Code == CodeInvalidReference
}

// IsSelfLoop checks if an error is a self-loop error
func IsSelfLoop(err error) bool {
	return IsType(err, ErrorTypeSelfLoop)
}

// IsImmutableField checks if an error is an identity-field violation
func IsImmutableField(err error) bool {
	return IsType(err, ErrorTypeImmutableField)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsMalformedInput checks if an error is a malformed input error
func IsMalformedInput(err error) bool {
	return IsType(err, ErrorTypeMalformedInput)
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return IsType(err, ErrorTypeInvalidState)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		wrapped := *appErr
		wrapped.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return &wrapped
	}

	return NewMalformedInputError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
