package common

import (
	"net/http"
)

// ErrorResponse is the JSON error body returned by the API layer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomError carries an error code, a user-facing message, the HTTP status the
// web layer should answer with, and the wrapped cause.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As chains.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches two CustomErrors by code, so errors.Is(err, ErrServiceUnavailable)
// works regardless of the wrapped cause.
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Code == e.Code
}

// NewError creates a new CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WrapError returns a copy of base carrying err as its cause.
func WrapError(base *CustomError, err error) *CustomError {
	return NewError(base.Code, base.Message, base.Status, err)
}

// Error codes.
const (
	// Client errors (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"  // 400
	ErrCodeInvalidConsumer = "INVALID_CONSUMER" // 400
	ErrCodePlanOwnership   = "PLAN_OWNERSHIP"   // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"     // 401
	ErrCodeNotFound        = "NOT_FOUND"        // 404
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// Server errors (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeGenerationFailed   = "GENERATION_FAILED"   // 500
	ErrCodeNoMealsGenerated   = "NO_MEALS_GENERATED"  // 502
	ErrCodeEmailDelivery      = "EMAIL_DELIVERY"      // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
)

// Predefined errors.
var (
	// Client errors
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrInvalidConsumer = NewError(ErrCodeInvalidConsumer, "consumer does not exist", http.StatusBadRequest, nil)
	ErrPlanOwnership   = NewError(ErrCodePlanOwnership, "meal plan does not belong to consumer", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)

	// Server errors
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrGenerationFailed   = NewError(ErrCodeGenerationFailed, "failed to generate meal plan", http.StatusInternalServerError, nil)
	ErrNoMealsGenerated   = NewError(ErrCodeNoMealsGenerated, "could not generate meals, please try again", http.StatusBadGateway, nil)
	ErrEmailDelivery      = NewError(ErrCodeEmailDelivery, "failed to send email", http.StatusBadGateway, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "generation service unavailable", http.StatusServiceUnavailable, nil)
)
