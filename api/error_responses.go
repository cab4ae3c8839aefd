package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeInvalidJSON    ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidRecord  ErrorCode = "INVALID_RECORD"
	ErrorCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeIndexingFailed ErrorCode = "INDEXING_FAILED"
	ErrorCodeSearchFailed   ErrorCode = "SEARCH_FAILED"
	ErrorCodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string) {
	c.JSON(statusCode, &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// SendValidationError sends a 400 with the collected validation conflicts.
func SendValidationError(c *gin.Context, conflicts []string) {
	c.JSON(http.StatusBadRequest, &APIError{
		Error:     "Request failed",
		Code:      ErrorCodeInvalidRequest,
		Message:   "invalid configuration: " + strings.Join(conflicts, "; "),
		Timestamp: time.Now(),
	})
}
