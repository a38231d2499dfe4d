package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "vessel-tracker/pkg/errors"
)

// ErrorBody is the machine-readable error payload returned by the API.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": ErrorBody{Code: http.StatusText(status), Message: message}})
}

// AppErrorResponse maps an application error to an HTTP response.
func AppErrorResponse(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		status := statusForCode(appErr.Code)
		c.JSON(status, gin.H{"error": ErrorBody{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

func statusForCode(code string) int {
	switch code {
	case "VALIDATION_ERROR", "INVALID_INPUT":
		return http.StatusBadRequest
	case "NOT_FOUND", "VESSEL_NOT_FOUND":
		return http.StatusNotFound
	case "ALREADY_EXISTS", "VESSEL_EXISTS":
		return http.StatusConflict
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "FORBIDDEN":
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
