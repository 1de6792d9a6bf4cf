package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/pkg/apperrors"
	"github.com/yigit/edurecords/internal/pkg/logger"
)

// --- Central Error Handling Middleware/Function ---

// HandleAPIError maps an error returned by a service to a status code and the standard error body
func HandleAPIError(c *gin.Context, err error) {
	status, code := classify(err)

	message := apperrors.Message(err)
	if status == http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		if code == dto.ErrorCodeInternalServer {
			message = "Internal server error"
		}
	}

	resp := dto.NewErrorResponse(code, message).WithErrors(apperrors.Fields(err))
	c.AbortWithStatusJSON(status, resp)
}

// classify picks the status and error code; the most specific sentinel wins
func classify(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrDuplicateKey):
		return http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrCourseFull):
		return http.StatusBadRequest, dto.ErrorCodeCourseFull
	case errors.Is(err, apperrors.ErrBusinessRule):
		return http.StatusBadRequest, dto.ErrorCodeBusinessRule
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusInternalServerError, dto.ErrorCodeStoreUnavailable
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

// HandleNotFound answers unknown routes with the standard error body
func HandleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Route not found"))
}
