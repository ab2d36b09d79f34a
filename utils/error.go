package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppError is an error that knows which HTTP status it maps to.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequest(msg string) error   { return &AppError{Status: http.StatusBadRequest, Message: msg} }
func NewUnauthorized(msg string) error { return &AppError{Status: http.StatusUnauthorized, Message: msg} }
func NewForbidden(msg string) error    { return &AppError{Status: http.StatusForbidden, Message: msg} }
func NewNotFound(msg string) error     { return &AppError{Status: http.StatusNotFound, Message: msg} }
func NewConflict(msg string) error     { return &AppError{Status: http.StatusConflict, Message: msg} }

// NewUnavailable marks a feature whose backing service is not configured.
func NewUnavailable(msg string) error {
	return &AppError{Status: http.StatusServiceUnavailable, Message: msg}
}

// NewBadGateway wraps an upstream failure.
func NewBadGateway(msg string, err error) error {
	return &AppError{Status: http.StatusBadGateway, Message: msg, Err: err}
}

// NewInternal wraps an unexpected failure; the cause is logged, never sent.
func NewInternal(msg string, err error) error {
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// StatusOf returns the HTTP status for err, 500 for untyped errors.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Success: false,
					Message: "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Message: message})
}

// RespondError maps a service error onto the response.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		GetLogger().Error("Unexpected error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		JSONError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if appErr.Status >= http.StatusInternalServerError {
		GetLogger().Error(appErr.Message,
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr.Err),
		)
	} else {
		GetLogger().Debug(appErr.Message, zap.String("path", c.Request.URL.Path))
	}
	JSONError(c, appErr.Status, appErr.Message)
}

// RespondOK writes a 200 success envelope.
func RespondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: message, Data: data})
}

// RespondCreated writes a 201 success envelope.
func RespondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Message: message, Data: data})
}
