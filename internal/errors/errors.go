package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// Is matches another APIError with the same status and code, so errors built
// from a predefined error satisfy errors.Is against it
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.StatusCode == e.StatusCode && t.ErrorCode == e.ErrorCode
}

// WithDetails returns a copy of e carrying its own message and details
func (e *APIError) WithDetails(message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: e.StatusCode,
		ErrorCode:  e.ErrorCode,
		Message:    message,
		Details:    details,
	}
}

// ParameterError describes a rejected path or query parameter
type ParameterError struct {
	Parameter string   `json:"parameter"`
	Value     string   `json:"value"`
	Allowed   []string `json:"allowed,omitempty"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeNotFound          = "NOT_FOUND"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeChartRender       = "CHART_RENDER_FAILED"
)

// Predefined error types for common scenarios
var (
	ErrInvalidParameter  = New(http.StatusBadRequest, CodeInvalidParameter, "Invalid parameter value")
	ErrNotFound          = New(http.StatusNotFound, CodeNotFound, "The requested resource was not found")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred while processing your request")
)

// NotFoundError creates a not found error for one named resource
func NotFoundError(resource, name string) *APIError {
	return ErrNotFound.WithDetails(
		fmt.Sprintf("%s %q not found", resource, name),
		map[string]string{"resource": resource, "name": name})
}

// InvalidParameterError rejects a parameter value and lists the accepted ones
func InvalidParameterError(parameter, value string, allowed []string) *APIError {
	return ErrInvalidParameter.WithDetails(
		fmt.Sprintf("invalid value %q for %s", value, parameter),
		ParameterError{Parameter: parameter, Value: value, Allowed: allowed})
}

// ChartRenderError wraps a failure of the chart renderer
func ChartRenderError(chart string, err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeChartRender,
		fmt.Sprintf("failed to render chart %s", chart), err.Error())
}

// PanicRecovery represents panic recovery information
type PanicRecovery struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ErrPanic creates a panic recovery error
func ErrPanic(rec interface{}) *APIError {
	return ErrInternalServer.WithDetails("Internal server error", PanicRecovery{Message: fmt.Sprintf("%v", rec)})
}
