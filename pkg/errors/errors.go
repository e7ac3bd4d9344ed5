package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	// ErrorTypeValidation Validation errors
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized Authentication/Authorization errors
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"

	// ErrorTypeBusiness Business logic errors
	ErrorTypeBusiness ErrorType = "BUSINESS_ERROR"

	// ErrorTypeExternal Infrastructure errors
	ErrorTypeExternal ErrorType = "EXTERNAL_SERVICE_ERROR"
	ErrorTypeInternal ErrorType = "INTERNAL_ERROR"

	// ErrorTypeRateLimit Rate limiting errors
	ErrorTypeRateLimit ErrorType = "RATE_LIMIT_EXCEEDED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, statusCode int) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Context:    make(map[string]interface{}),
	}
}

// NewValidationError Validation Errors
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusUnprocessableEntity)
}

func NewValidationErrorWithDetails(message, details string) *AppError {
	err := NewValidationError(message)
	err.Details = details
	return err
}

// NewNotFoundError Not Found Errors
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func NewNotFoundErrorWithID(resource, id string) *AppError {
	err := NewNotFoundError(resource)
	err.WithContext("id", id)
	return err
}

// NewConflictError Conflict Errors
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypeConflict, message, http.StatusConflict)
}

// NewUnauthorizedError Authentication/Authorization Errors
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(ErrorTypeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "Access forbidden"
	}
	return NewAppError(ErrorTypeForbidden, message, http.StatusForbidden)
}

// NewBusinessError Business Logic Errors
func NewBusinessError(message string) *AppError {
	return NewAppError(ErrorTypeBusiness, message, http.StatusBadRequest)
}

// NewExternalServiceError Infrastructure Errors
func NewExternalServiceError(service, message string, cause error) *AppError {
	err := NewAppError(ErrorTypeExternal, fmt.Sprintf("%s service error: %s", service, message), http.StatusBadGateway)
	err.WithContext("service", service)
	err.WithCause(cause)
	return err
}

func NewInternalError(message string, cause error) *AppError {
	err := NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
	err.WithCause(cause)
	return err
}

// NewRateLimitError Rate Limiting Errors
func NewRateLimitError(limit int, window string) *AppError {
	err := NewAppError(ErrorTypeRateLimit, "Rate limit exceeded", http.StatusTooManyRequests)
	err.WithContext("limit", limit)
	err.WithContext("window", window)
	return err
}

// WrapValidationError wraps a validation error with context
func WrapValidationError(field string, cause error) *AppError {
	err := NewValidationError(fmt.Sprintf("Validation failed for field: %s", field))
	err.WithContext("field", field)
	err.WithCause(cause)
	return err
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// GetStatusCode extracts HTTP status code from error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorResponse creates a standardized error response
func GetErrorResponse(err error) map[string]interface{} {
	var appErr *AppError
	if errors.As(err, &appErr) {
		response := map[string]interface{}{
			"error": map[string]interface{}{
				"type":    appErr.Type,
				"message": appErr.Message,
			},
		}

		if appErr.Details != "" {
			response["error"].(map[string]interface{})["details"] = appErr.Details
		}

		if len(appErr.Context) > 0 {
			response["error"].(map[string]interface{})["context"] = appErr.Context
		}

		return response
	}

	// Fallback for non-AppError types
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    ErrorTypeInternal,
			"message": "An unexpected error occurred",
		},
	}
}
