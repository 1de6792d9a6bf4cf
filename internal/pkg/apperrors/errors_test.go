package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelChains(t *testing.T) {
	assert.ErrorIs(t, ErrCourseFull, ErrBusinessRule)
	assert.ErrorIs(t, ErrAlreadyEnrolled, ErrBusinessRule)
	assert.ErrorIs(t, ErrNotEnrolled, ErrBusinessRule)
	assert.ErrorIs(t, ErrCourseHasEnrollments, ErrBusinessRule)
	assert.ErrorIs(t, ErrStudentNotFound, ErrResourceNotFound)
	assert.ErrorIs(t, ErrEmailAlreadyExists, ErrDuplicateKey)
	assert.NotErrorIs(t, ErrCourseFull, ErrValidationFailed)
}

func TestNewBusinessRuleError(t *testing.T) {
	err := NewBusinessRuleError(ErrCourseHasEnrollments, "Cannot delete course. 2 student(s) are enrolled.")

	assert.ErrorIs(t, err, ErrCourseHasEnrollments)
	assert.ErrorIs(t, err, ErrBusinessRule)
	assert.Equal(t, "Cannot delete course. 2 student(s) are enrolled.", Message(err))
}

func TestNewStoreUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("find student: %w", NewStoreUnavailableError(cause))

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Store unavailable", Message(err))
}

func TestFieldsAndMessage(t *testing.T) {
	err := NewValidationError("Validation failed",
		FieldError{Field: "email", Message: "Email is required"},
		FieldError{Field: "gpa", Message: "GPA cannot exceed 4.0"},
	)

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Len(t, Fields(err), 2)
	assert.Equal(t, "gpa", Fields(err)[1].Field)

	single := NewFieldError("capacity", "Capacity must be at least 1")
	assert.Equal(t, []FieldError{{Field: "capacity", Message: "Capacity must be at least 1"}}, Fields(single))

	assert.Nil(t, Fields(errors.New("plain")))
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "", Message(nil))
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrNotEnrolled)

	assert.True(t, Is(err, ErrCourseFull, ErrNotEnrolled))
	assert.False(t, Is(err, ErrCourseFull, ErrAlreadyEnrolled))
}
