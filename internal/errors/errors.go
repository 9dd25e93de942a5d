package errors

import "fmt"

// ErrorCode represents a planforge error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrGenerationFailed    ErrorCode = "GENERATION_FAILED"    // 500 (malformed model output after all attempts)
	ErrUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE" // 503 (completion service unreachable/unauthorized)
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// PlanError represents a structured error with code, status, and details.
type PlanError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PlanError {
	return &PlanError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a plan cannot be found.
func NewNotFound(id int64) *PlanError {
	return &PlanError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("plan not found: %d", id),
		Details: map[string]any{"id": id},
	}
}

// NewGenerationFailed creates a 500 error for when the model never produced a
// usable plan. The attempt count is included so callers can see the retry
// budget was exhausted.
func NewGenerationFailed(msg string, attempts int) *PlanError {
	return &PlanError{
		Code:    ErrGenerationFailed,
		Status:  500,
		Message: msg,
		Details: map[string]any{"attempts": attempts},
	}
}

// NewUpstreamUnavailable creates a 503 error for completion-service transport
// or auth failures. These are never retried.
func NewUpstreamUnavailable(err error) *PlanError {
	msg := "completion service unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &PlanError{
		Code:    ErrUpstreamUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PlanError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PlanError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a PlanError with the given code.
func Is(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PlanError); ok {
		return pErr.Code == code
	}
	return false
}
