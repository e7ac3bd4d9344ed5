package middleware

import (
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var alphanumDashPattern = regexp.MustCompile(`^[\w\-]{1,64}$`)

// registerCustomValidators wires the tag-name func (JSON field names in
// error output) and the alphanumdash tag onto v.
func registerCustomValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// alphanumdash backs transaction_id and merchant_id: opaque strings of
	// alphanumerics plus '-' and '_', 1-64 chars.
	_ = v.RegisterValidation("alphanumdash", func(fl validator.FieldLevel) bool {
		return alphanumDashPattern.MatchString(fl.Field().String())
	})
}

// RegisterGinValidators wires the custom tags onto gin's own binding
// validator engine, the one c.ShouldBindJSON actually consults. Without
// this call, struct tags like `binding:"alphanumdash"` on handler DTOs
// fail validator registration lookups rather than validating.
func RegisterGinValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidators(v)
	}
}

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validator.Validate
	logger    *logger.Logger
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(logger *logger.Logger) *ValidationMiddleware {
	v := validator.New()
	registerCustomValidators(v)

	return &ValidationMiddleware{
		validator: v,
		logger:    logger,
	}
}

// ValidateJSON is a middleware that validates JSON request body against a struct
func (vm *ValidationMiddleware) ValidateJSON(structType interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestStruct := reflect.New(reflect.TypeOf(structType)).Interface()

		if err := c.ShouldBindJSON(requestStruct); err != nil {
			vm.logger.Warn("JSON binding failed", "error", err, "path", c.Request.URL.Path)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		if err := vm.validator.Struct(requestStruct); err != nil {
			validationErrors := vm.formatValidationErrors(err)
			vm.logger.Warn("validation failed", "errors", validationErrors, "path", c.Request.URL.Path)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": validationErrors,
			})
			c.Abort()
			return
		}

		c.Set("validated_request", requestStruct)
		c.Next()
	}
}

// formatValidationErrors formats validator errors into user-friendly messages
func (vm *ValidationMiddleware) formatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			fieldName := fieldError.Field()

			switch fieldError.Tag() {
			case "required":
				errs[fieldName] = "this field is required"
			case "min":
				errs[fieldName] = "value is too short (minimum " + fieldError.Param() + ")"
			case "max":
				errs[fieldName] = "value is too long (maximum " + fieldError.Param() + ")"
			case "gt":
				errs[fieldName] = "value must be greater than " + fieldError.Param()
			case "lte":
				errs[fieldName] = "value must be less than or equal to " + fieldError.Param()
			case "len":
				errs[fieldName] = "value must be exactly " + fieldError.Param() + " characters"
			case "numeric":
				errs[fieldName] = "value must be numeric"
			case "oneof":
				errs[fieldName] = "must be one of: " + fieldError.Param()
			case "alphanumdash":
				errs[fieldName] = "must contain only letters, digits, '-' and '_'"
			default:
				errs[fieldName] = "invalid value for " + fieldError.Tag()
			}
		}
	}

	return errs
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest(c *gin.Context) (interface{}, bool) {
	return c.Get("validated_request")
}
