package errors

import "fmt"

// Error codes
const (
	CodeReportError = "REPORT_ERROR"
	CodeProvider    = "PROVIDER_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
	CodeCache       = "CACHE_ERROR"
)

type ReportError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *ReportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ReportError) Unwrap() error {
	return e.Cause
}

func NewReportError(message, code string, context map[string]any) *ReportError {
	return &ReportError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *ReportError) WithCause(cause error) *ReportError {
	e.Cause = cause
	return e
}

// ProviderError marks a failure of one of the external activity data sources.
// Callers treat it as recoverable: the affected metric degrades to its zero value.
type ProviderError struct {
	*ReportError
	Provider  string
	Operation string
}

func NewProviderError(message, provider, operation string, cause error) *ProviderError {
	return &ProviderError{
		ReportError: &ReportError{
			Message: message,
			Code:    CodeProvider,
			Context: map[string]any{
				"provider":  provider,
				"operation": operation,
			},
			Cause: cause,
		},
		Provider:  provider,
		Operation: operation,
	}
}

type ValidationError struct {
	*ReportError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		ReportError: &ReportError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*ReportError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		ReportError: &ReportError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}
