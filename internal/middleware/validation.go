package middleware

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yigit/edurecords/internal/pkg/apperrors"
)

// BindJSON decodes the request body into obj. Malformed JSON is answered with a ValidationFailed
// response and false is returned; field rules are checked later by the services.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		message := "Invalid request body"
		if errors.Is(err, io.EOF) {
			message = "Request body is required"
		}
		HandleAPIError(c, apperrors.NewValidationError(message, apperrors.FieldError{Field: "body", Message: err.Error()}))
		return false
	}
	return true
}

// PathID reads a record id from the path. Anything that is not a UUID is answered with 400 and
// false is returned.
func PathID(c *gin.Context, param string) (string, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		HandleAPIError(c, apperrors.NewFieldError(param, "Invalid "+param+" format"))
		return "", false
	}
	return id.String(), true
}
