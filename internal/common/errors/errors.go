// Package errors provides the standardized error taxonomy for command routing.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Classification errors. The Tier 2 backend being unreachable, slow, or
	// returning garbage is recovered locally by degrading to Conversation.
	ErrCodeClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeClassifierTimeout    ErrorCode = "CLASSIFIER_TIMEOUT"
	ErrCodeClassifierUnhealthy  ErrorCode = "CLASSIFIER_UNHEALTHY"

	// Resolution errors.
	ErrCodeEntityNotFound ErrorCode = "ENTITY_NOT_FOUND"

	// Execution errors.
	ErrCodeExecutorFailed   ErrorCode = "EXECUTOR_FAILED"
	ErrCodeExecutorTimeout  ErrorCode = "EXECUTOR_TIMEOUT"
	ErrCodeExecutorPanic    ErrorCode = "EXECUTOR_PANIC"
	ErrCodeNoExecutor       ErrorCode = "NO_EXECUTOR_REGISTERED"
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrCodeWorkflowAborted  ErrorCode = "WORKFLOW_ABORTED"

	// Transport errors.
	ErrCodeChannelClosed  ErrorCode = "CHANNEL_CLOSED"
	ErrCodeInvalidMessage ErrorCode = "INVALID_MESSAGE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandard normalizes any error into a StandardError. Errors that already
// carry a code pass through untouched; everything else becomes EXECUTOR_FAILED.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeExecutorFailed,
		Message:   "The requested action could not be completed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewClassificationFailedError marks a Tier 2 response that could not be
// parsed or validated against the closed intent schema.
func NewClassificationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationFailed,
		Message:   "Intent classification backend returned an unusable response",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifierTimeoutError marks a Tier 2 call that exceeded its budget.
func NewClassifierTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifierTimeout,
		Message:   "Intent classification backend timed out",
		Details:   "call exceeded the configured timeout",
		Timestamp: time.Now().UTC(),
	}
}

// NewEntityNotFoundError echoes the attempted query so the caller can see
// exactly what failed to resolve.
func NewEntityNotFoundError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEntityNotFound,
		Message:   fmt.Sprintf("I couldn't find '%s' in your directory", query),
		Details:   fmt.Sprintf("query: %s", query),
		Metadata:  map[string]interface{}{"query": query},
		Timestamp: time.Now().UTC(),
	}
}

// NewExecutorFailedError wraps a domain handler failure. The executor-supplied
// message is surfaced to the user; the raw cause stays in Details.
func NewExecutorFailedError(executorName, message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeExecutorFailed,
		Message:   message,
		Details:   details,
		Metadata:  map[string]interface{}{"executor": executorName},
		Timestamp: time.Now().UTC(),
	}
}

// NewExecutorTimeoutError marks a single executor call that exceeded its budget.
func NewExecutorTimeoutError(executorName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExecutorTimeout,
		Message:   fmt.Sprintf("The %s action took too long and was stopped", executorName),
		Details:   fmt.Sprintf("executor: %s", executorName),
		Timestamp: time.Now().UTC(),
	}
}

// NewExecutorPanicError converts a recovered panic into a structured failure.
func NewExecutorPanicError(executorName string, recovered interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeExecutorPanic,
		Message:   "The requested action hit an internal problem",
		Details:   fmt.Sprintf("executor %s panicked: %v", executorName, recovered),
		Timestamp: time.Now().UTC(),
	}
}

// NewNoExecutorError marks an intent category with no registered handler.
func NewNoExecutorError(intent string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoExecutor,
		Message:   fmt.Sprintf("I don't know how to handle '%s' commands yet", intent),
		Details:   fmt.Sprintf("intent: %s", intent),
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingParameterError marks a command that parsed but lacks a required slot.
func NewMissingParameterError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingParameter,
		Message:   fmt.Sprintf("I couldn't work out the %s from that command", name),
		Details:   fmt.Sprintf("missing slot: %s", name),
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowAbortedError wraps the producing step's failure in a multi-step
// pipeline. The consuming step is never attempted.
func NewWorkflowAbortedError(step string, cause *StandardError) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowAborted,
		Message:   cause.Message,
		Details:   fmt.Sprintf("pipeline aborted at step %s: %s", step, cause.Details),
		Metadata:  map[string]interface{}{"step": step, "cause": string(cause.Code)},
		Timestamp: time.Now().UTC(),
	}
}

// NewChannelClosedError marks a delivery attempt to a gone connection.
// Logged only; never user-visible (there is no recipient).
func NewChannelClosedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeChannelClosed,
		Message:   "Connection closed before the result could be delivered",
		Details:   fmt.Sprintf("session: %s", sessionID),
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidMessageError marks an inbound frame that does not fit the wire contract.
func NewInvalidMessageError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMessage,
		Message:   "Message could not be understood",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// GetErrorCategory returns the coarse category of an error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CLASSIF"):
		return "CLASSIFICATION"
	case strings.Contains(codeStr, "ENTITY"):
		return "RESOLUTION"
	case strings.Contains(codeStr, "EXECUTOR") || strings.Contains(codeStr, "WORKFLOW") || strings.Contains(codeStr, "PARAMETER"):
		return "EXECUTION"
	case strings.Contains(codeStr, "CHANNEL") || strings.Contains(codeStr, "MESSAGE"):
		return "TRANSPORT"
	default:
		return "OTHER"
	}
}
