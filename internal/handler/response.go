package handler

import (
	"errors"
	"net/http"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/apperror"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Error: &APIError{Code: "invalid_argument", Message: message},
	})
}

// respondError maps an error kind to its status code. Unknown errors become
// a generic 500 so internal details never reach the client.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status, code := statusFor(err)
		c.JSON(status, Envelope{
			Error: &APIError{Code: code, Message: appErr.Message, Field: appErr.Field},
		})
		return
	}

	logger.Log.Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.String("user_id", c.GetString("user_id")),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, Envelope{
		Error: &APIError{Code: "internal_error", Message: "An internal error occurred"},
	})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, apperror.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
