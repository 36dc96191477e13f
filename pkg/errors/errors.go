package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeExternal   ErrorType = "external"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeWorkflow   ErrorType = "workflow"
	ErrorTypeNode       ErrorType = "node"
	ErrorTypeExecution  ErrorType = "execution"
	ErrorTypeNetwork    ErrorType = "network"
)

// ErrorCode represents specific error codes
type ErrorCode string

const (
	CodeInvalidInput  ErrorCode = "invalid_input"
	CodeMissingField  ErrorCode = "missing_field"
	CodeInvalidFormat ErrorCode = "invalid_format"

	CodeResourceNotFound ErrorCode = "resource_not_found"

	CodeWorkflowInvalid   ErrorCode = "workflow_invalid"
	CodeWorkflowExecution ErrorCode = "workflow_execution"
	CodeNodeExecution     ErrorCode = "node_execution"
	CodeNodeConfiguration ErrorCode = "node_configuration"
	CodeExpressionFailed  ErrorCode = "expression_failed"
	CodeActionFailed      ErrorCode = "action_failed"

	CodeExternalService ErrorCode = "external_service"
	CodeTimeout         ErrorCode = "timeout"
	CodeInternal        ErrorCode = "internal_error"
)

// AppError represents a structured application error
type AppError struct {
	Type        ErrorType              `json:"type"`
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Cause       error                  `json:"-"`
	Context     map[string]interface{} `json:"context,omitempty"`
	StackTrace  string                 `json:"stack_trace,omitempty"`
	Recoverable bool                   `json:"recoverable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails adds additional details
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// SetRecoverable marks whether the error leaves the run in a continuable state
func (e *AppError) SetRecoverable(recoverable bool) *AppError {
	e.Recoverable = recoverable
	return e
}

// New creates a new AppError
func New(errorType ErrorType, code ErrorCode, message string) *AppError {
	return &AppError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(),
	}
}

// Newf creates a new AppError with formatted message
func Newf(errorType ErrorType, code ErrorCode, format string, args ...interface{}) *AppError {
	return New(errorType, code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errorType ErrorType, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Type:        errorType,
			Code:        code,
			Message:     message,
			Cause:       appErr,
			Context:     make(map[string]interface{}),
			StackTrace:  captureStackTrace(),
			Recoverable: appErr.Recoverable,
		}
	}

	return &AppError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Cause:      err,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(),
	}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, errorType ErrorType, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, errorType, code, fmt.Sprintf(format, args...))
}

// Is checks if the error is of a specific type
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetAppError extracts AppError from error chain
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return appErr
	}

	return nil
}

// Common error constructors

// NewValidationError creates a validation error with a simple message
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, CodeInvalidInput, message)
}

// NewNotFoundError creates a not found error with a simple message
func NewNotFoundError(resource string) *AppError {
	return New(ErrorTypeNotFound, CodeResourceNotFound, fmt.Sprintf("%s not found", resource))
}

// NewExecutionError creates an execution error with a simple message
func NewExecutionError(message string) *AppError {
	return New(ErrorTypeExecution, CodeWorkflowExecution, message)
}

// NewNetworkError creates a network error
func NewNetworkError(message string) *AppError {
	return New(ErrorTypeNetwork, CodeExternalService, message)
}

// InternalError creates an internal error
func InternalError(message string) *AppError {
	return New(ErrorTypeInternal, CodeInternal, message)
}

// TimeoutError creates a timeout error
func TimeoutError(operation string) *AppError {
	return New(ErrorTypeTimeout, CodeTimeout, fmt.Sprintf("operation %s timed out", operation))
}

// WorkflowError creates a workflow error
func WorkflowError(workflowID string, message string) *AppError {
	return New(ErrorTypeWorkflow, CodeWorkflowExecution, message).
		WithContext("workflow_id", workflowID)
}

// NodeError creates a node execution error
func NodeError(nodeID, nodeType string, message string) *AppError {
	return New(ErrorTypeNode, CodeNodeExecution, message).
		WithContext("node_id", nodeID).
		WithContext("node_type", nodeType)
}

// HTTP status code mapping
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return 400
	case ErrorTypeNotFound:
		return 404
	case ErrorTypeTimeout:
		return 408
	default:
		return 500
	}
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}

	return builder.String()
}
