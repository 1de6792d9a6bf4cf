package dto

import (
	"time"

	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Business rule errors
	ErrorCodeBusinessRule ErrorCode = "BUS_001"
	ErrorCodeCourseFull   ErrorCode = "BUS_002"

	// Server errors
	ErrorCodeInternalServer   ErrorCode = "SRV_001"
	ErrorCodeStoreUnavailable ErrorCode = "SRV_002"
)

// ErrorResponse represents the standard error response structure.
// Message is always present; Errors lists field-level validation messages when there are any.
type ErrorResponse struct {
	Success   bool                   `json:"success" example:"false"`
	Message   string                 `json:"message" example:"Course is full"`
	Code      ErrorCode              `json:"code" example:"BUS_002"`
	Errors    []apperrors.FieldError `json:"errors,omitempty"`
	Timestamp time.Time              `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithErrors attaches field-level errors
func (e *ErrorResponse) WithErrors(fields []apperrors.FieldError) *ErrorResponse {
	e.Errors = fields
	return e
}
