// Package errors provides the standardized error taxonomy for questionnaire sessions.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Field-level and session-level conditions, all recoverable by the user.
	ErrCodeValidation           ErrorCode = "VALIDATION_ERROR"
	ErrCodeSessionComplete      ErrorCode = "SESSION_COMPLETE"
	ErrCodeSubmissionInProgress ErrorCode = "SUBMISSION_IN_PROGRESS"

	// Prediction service failures.
	ErrCodeTransportFailure       ErrorCode = "TRANSPORT_FAILURE"
	ErrCodeServiceError           ErrorCode = "SERVICE_ERROR"
	ErrCodeNoExplanation          ErrorCode = "NO_EXPLANATION"
	ErrCodeRequestSchemaViolation ErrorCode = "REQUEST_SCHEMA_VIOLATION"

	// Startup problems.
	ErrCodeCatalogInvalid ErrorCode = "CATALOG_INVALID"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError with the same code, so sentinel
// values below match any error built by the constructors.
func (e *StandardError) Is(target error) bool {
	var t *StandardError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns a copy of the error carrying an additional metadata key.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	cp := *e
	cp.Metadata = make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		cp.Metadata[k] = v
	}
	cp.Metadata[key] = value
	return &cp
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation           = &StandardError{Code: ErrCodeValidation}
	ErrSessionComplete      = &StandardError{Code: ErrCodeSessionComplete}
	ErrSubmissionInProgress = &StandardError{Code: ErrCodeSubmissionInProgress}
	ErrTransportFailure     = &StandardError{Code: ErrCodeTransportFailure}
	ErrServiceError         = &StandardError{Code: ErrCodeServiceError}
	ErrNoExplanation        = &StandardError{Code: ErrCodeNoExplanation}
	ErrRequestSchema        = &StandardError{Code: ErrCodeRequestSchemaViolation}
	ErrCatalogInvalid       = &StandardError{Code: ErrCodeCatalogInvalid}
	ErrConfigInvalid        = &StandardError{Code: ErrCodeConfigInvalid}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable field validation error. The message
// is the field-specific text shown to the user.
func NewValidationError(field, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionCompleteError reports an operation attempted after the session ended.
func NewSessionCompleteError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionComplete,
		Message:   "Session already complete",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionInProgressError reports a re-entrant submission.
func NewSubmissionInProgressError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionInProgress,
		Message:   "A submission is already in progress",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportFailureError creates an error for a failed or non-2xx prediction call.
func NewTransportFailureError(reason string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeTransportFailure,
		Message:   reason,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceError creates an error for a service-reported failure payload.
func NewServiceError(reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceError,
		Message:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoExplanationError reports a successful response that carried no explanation.
func NewNoExplanationError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoExplanation,
		Message:   "Erro desconhecido na análise",
		Details:   "explanation missing from successful response",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestSchemaError reports an answer set that does not match the request schema.
func NewRequestSchemaError(violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestSchemaViolation,
		Message:   "Dados do formulário inconsistentes",
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogInvalidError reports a malformed question catalog.
func NewCatalogInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Invalid question catalog",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError reports a configuration problem.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// UserMessage returns the transcript text for a failed submission.
func UserMessage(err error) string {
	stdErr := Normalize(err)
	reason := stdErr.Message
	if reason == "" {
		reason = "Erro desconhecido na análise"
	}
	return fmt.Sprintf("Erro na análise: %s. Tente novamente.", reason)
}

// IsRetryableErrorCode reports whether resubmitting the whole flow may succeed.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTransportFailure:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "SUBMISSION"):
		return "SESSION"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "SERVICE") ||
		strings.Contains(codeStr, "EXPLANATION") || strings.Contains(codeStr, "REQUEST"):
		return "PREDICTION"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "CONFIG"):
		return "STARTUP"
	default:
		return "OTHER"
	}
}
