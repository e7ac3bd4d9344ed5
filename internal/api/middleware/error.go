package middleware

import (
	"net/http"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/errors"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorMiddleware provides centralized error handling
type ErrorMiddleware struct {
	logger *logger.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *logger.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// Handler returns the error handling middleware
func (em *ErrorMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			em.handleError(c, err)
			return
		}
	}
}

// handleError processes and responds to different types of errors
func (em *ErrorMiddleware) handleError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		em.handleAppError(c, appErr)
		return
	}
	em.handleGenericError(c, err)
}

// handleAppError processes structured application errors
func (em *ErrorMiddleware) handleAppError(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestIDFromContext(c)

	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeNotFound, errors.ErrorTypeConflict:
		em.logger.Warn("client error", "error_type", appErr.Type, "message", appErr.Message, "status_code", appErr.StatusCode, "path", c.Request.URL.Path, "method", c.Request.Method, "request_id", requestID)
	case errors.ErrorTypeUnauthorized, errors.ErrorTypeForbidden:
		em.logger.Warn("authentication/authorization error", "error_type", appErr.Type, "message", appErr.Message, "status_code", appErr.StatusCode, "path", c.Request.URL.Path, "method", c.Request.Method, "request_id", requestID)
	case errors.ErrorTypeBusiness:
		em.logger.Info("business logic error", "error_type", appErr.Type, "message", appErr.Message, "status_code", appErr.StatusCode, "path", c.Request.URL.Path, "method", c.Request.Method, "request_id", requestID)
	case errors.ErrorTypeExternal, errors.ErrorTypeInternal:
		em.logger.Error("infrastructure error", "error_type", appErr.Type, "message", appErr.Message, "status_code", appErr.StatusCode, "path", c.Request.URL.Path, "method", c.Request.Method, "request_id", requestID)
	case errors.ErrorTypeRateLimit:
		em.logger.Warn("rate limit exceeded", "error_type", appErr.Type, "message", appErr.Message, "status_code", appErr.StatusCode, "path", c.Request.URL.Path, "method", c.Request.Method, "request_id", requestID)
	default:
		em.logger.Error("unknown error type", "error_type", appErr.Type, "message", appErr.Message, "status_code", appErr.StatusCode, "path", c.Request.URL.Path, "method", c.Request.Method, "request_id", requestID)
	}

	response := errors.GetErrorResponse(appErr)
	c.JSON(appErr.StatusCode, response)
}

// handleGenericError processes non-structured errors
func (em *ErrorMiddleware) handleGenericError(c *gin.Context, err error) {
	em.logger.Error("unhandled error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", getRequestIDFromContext(c),
	)

	internalErr := errors.NewInternalError("an unexpected error occurred", err)
	response := errors.GetErrorResponse(internalErr)
	c.JSON(http.StatusInternalServerError, response)
}

// getRequestIDFromContext extracts the request id set by RequestIDMiddleware,
// if any.
func getRequestIDFromContext(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if requestIDStr, ok := requestID.(string); ok {
			return requestIDStr
		}
	}
	return "unknown"
}

// AbortWithError is a helper function to abort with a structured error
func AbortWithError(c *gin.Context, err *errors.AppError) {
	c.Error(err)
	c.Abort()
}

// AbortWithValidationError is a helper for validation errors
func AbortWithValidationError(c *gin.Context, message, details string) {
	err := errors.NewValidationErrorWithDetails(message, details)
	AbortWithError(c, err)
}

// AbortWithNotFoundError is a helper for not found errors
func AbortWithNotFoundError(c *gin.Context, resource string) {
	err := errors.NewNotFoundError(resource)
	AbortWithError(c, err)
}

// AbortWithInternalError is a helper for internal errors
func AbortWithInternalError(c *gin.Context, message string, cause error) {
	err := errors.NewInternalError(message, cause)
	AbortWithError(c, err)
}
