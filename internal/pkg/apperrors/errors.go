package apperrors

import "errors"

// Error categories. Every error returned by the repositories and services unwraps to one of these.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrValidationFailed = errors.New("validation failed")
	ErrBusinessRule     = errors.New("business rule violation")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Student errors
var (
	ErrStudentNotFound      = &CustomError{Err: ErrResourceNotFound, Message: "Student not found"}
	ErrStudentAlreadyExists = &CustomError{Err: ErrDuplicateKey, Message: "Student with this ID or email already exists"}
	ErrEmailAlreadyExists   = &CustomError{Err: ErrDuplicateKey, Message: "Email already exists"}
)

// Course errors
var (
	ErrCourseNotFound       = &CustomError{Err: ErrResourceNotFound, Message: "Course not found"}
	ErrCourseAlreadyExists  = &CustomError{Err: ErrDuplicateKey, Message: "Course with this code already exists"}
	ErrCourseCodeExists     = &CustomError{Err: ErrDuplicateKey, Message: "Course code already exists"}
	ErrCourseHasEnrollments = &CustomError{Err: ErrBusinessRule, Message: "Cannot delete course while students are enrolled"}
)

// Enrollment errors
var (
	ErrCourseFull      = &CustomError{Err: ErrBusinessRule, Message: "Course is full"}
	ErrAlreadyEnrolled = &CustomError{Err: ErrBusinessRule, Message: "Student already enrolled in this course"}
	ErrNotEnrolled     = &CustomError{Err: ErrBusinessRule, Message: "Student is not enrolled in this course"}
)

// FieldError describes a single failed field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Fields  []FieldError
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithFields attaches field-level messages
func (e *CustomError) WithFields(fields ...FieldError) *CustomError {
	e.Fields = append(e.Fields, fields...)
	return e
}

// NewResourceNotFoundError creates a not-found error with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewValidationError creates a validation error carrying field messages
func NewValidationError(message string, fields ...FieldError) error {
	return NewCustomError(ErrValidationFailed, message).WithFields(fields...)
}

// NewFieldError is a shortcut for a validation error about a single field
func NewFieldError(field, message string) error {
	return NewValidationError(message, FieldError{Field: field, Message: message})
}

// NewBusinessRuleError wraps one of the business sentinels with a more specific message.
// cause should itself unwrap to ErrBusinessRule.
func NewBusinessRuleError(cause error, message string) error {
	return NewCustomError(cause, message)
}

// NewStoreUnavailableError marks a driver/infrastructure failure
func NewStoreUnavailableError(err error) error {
	return &CustomError{Err: errors.Join(ErrStoreUnavailable, err), Message: "Store unavailable"}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Message returns the user-facing message of the outermost CustomError in err's chain.
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Fields collects the field errors of the outermost CustomError in err's chain.
func Fields(err error) []FieldError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Fields
	}
	return nil
}
