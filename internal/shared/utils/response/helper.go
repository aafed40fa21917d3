package response

import (
	"errors"
	"net/http"

	"homestay/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps an application error kind to its HTTP status code
func RespondError(c *gin.Context, err error) {
	code := StatusCodeFor(err)
	message := apperr.Message(err)
	if code == http.StatusInternalServerError || code == http.StatusServiceUnavailable {
		message = "Service temporarily unavailable, please retry"
	}
	c.JSON(code, StandardApiResponse{
		Status:     "error",
		StatusCode: code,
		Message:    message,
		Errors: ErrorDetails{
			Kind:      kindName(err),
			Retryable: apperr.Retryable(err),
		},
	})
}

// StatusCodeFor returns the HTTP status code for err
func StatusCodeFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrDatesUnavailable):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNotFoundOrIllegalState):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrDependencyFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func kindName(err error) string {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return "ValidationError"
	case errors.Is(err, apperr.ErrDatesUnavailable):
		return "DatesUnavailable"
	case errors.Is(err, apperr.ErrNotFoundOrIllegalState):
		return "NotFoundOrIllegalState"
	case errors.Is(err, apperr.ErrDependencyFailure):
		return "DependencyFailure"
	default:
		return "InternalError"
	}
}
