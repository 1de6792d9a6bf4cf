package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)

	HandleAPIError(c, err)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrCourseNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found"},
		{"duplicate", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
		{"course full", apperrors.ErrCourseFull, http.StatusBadRequest, dto.ErrorCodeCourseFull, "Course is full"},
		{"business rule", apperrors.ErrNotEnrolled, http.StatusBadRequest, dto.ErrorCodeBusinessRule, "Student is not enrolled in this course"},
		{"store unavailable", apperrors.NewStoreUnavailableError(errors.New("dial tcp")), http.StatusInternalServerError, dto.ErrorCodeStoreUnavailable, "Store unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := respond(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.False(t, resp.Success)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestHandleAPIError_FieldErrors(t *testing.T) {
	err := apperrors.NewFieldError("capacity", "Capacity cannot be lower than the 3 students already enrolled")

	status, resp := respond(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "capacity", resp.Errors[0].Field)
}

func TestPathID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "F47AC10B-58CC-4372-A567-0E02B2C3D479"}}

	id, ok := PathID(c, "id")
	require.True(t, ok)
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", id)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	_, ok = PathID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
