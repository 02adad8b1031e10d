// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "FORBIDDEN").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	// For validation errors, this contains field-level error messages.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeAlreadyExists = "ALREADY_EXISTS"
	ErrorCodeInvalidArg    = "INVALID_ARGUMENT"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeForbidden     = "FORBIDDEN"
	ErrorCodeUnavailable   = "SERVICE_UNAVAILABLE"
	ErrorCodeUnsupported   = "UNSUPPORTED"
	ErrorCodeInternal      = "INTERNAL_ERROR"
	ErrorCodeBadRequest    = "BAD_REQUEST"
)

// ContextKeyTraceID is the gin context key consulted first by GetTraceID.
const ContextKeyTraceID = "trace_id"

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeAlreadyExists:
		return http.StatusConflict
	case ErrorCodeInvalidArg, ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// CodeFromError maps a domain error kind to an error code. Errors without a
// kind are internal.
func CodeFromError(err error) string {
	kind, _ := domain.KindOf(err)

	switch kind {
	case domain.KindNotFound:
		return ErrorCodeNotFound
	case domain.KindAlreadyExists:
		return ErrorCodeAlreadyExists
	case domain.KindInvalidArgument:
		return ErrorCodeInvalidArg
	case domain.KindUnavailable:
		return ErrorCodeUnavailable
	case domain.KindUnsupported:
		return ErrorCodeUnsupported
	default:
		return ErrorCodeInternal
	}
}

// GetTraceID returns the request's trace ID. It prefers an explicit value in
// the gin context, then the active span, then the X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		s, _ := v.(string)
		return s
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes err as an error envelope. Internal and unknown errors
// are logged and replaced by a generic message.
func HandleError(c *gin.Context, err error) {
	code := CodeFromError(err)
	traceID := GetTraceID(c)

	message := err.Error()
	if code == ErrorCodeInternal {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", message,
			"trace_id", traceID,
		)

		message = "an internal error occurred"
	}

	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(traceID))
}

// AbortWithCode aborts the chain with an explicit error code.
func AbortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
