// Package errors provides structured error handling for the planner.
// Every error that crosses a service boundary is an *AppError carrying a
// stable code callers can branch on.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
	CodeExternalUnavailable ErrorCode = "EXTERNAL_UNAVAILABLE"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"

	// Business logic errors
	CodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	CodeMealPlanNotFound ErrorCode = "MEAL_PLAN_NOT_FOUND"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status an outer surface should answer with.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeUserNotFound, CodeMealPlanNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeExternalUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether repeating the same request later may succeed.
func (e *AppError) Retryable() bool {
	return e.Code == CodeExternalUnavailable
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewExternalUnavailableError reports that an external recipe source could
// not be reached. Callers may retry the whole request later.
func NewExternalUnavailableError(provider string, cause error) *AppError {
	return NewAppError(
		CodeExternalUnavailable,
		"External recipe source unavailable",
		fmt.Sprintf("Failed to obtain recipes from %s", provider),
	).WithMetadata("provider", provider).WithCause(cause)
}

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(userID string) *AppError {
	return NewAppError(
		CodeUserNotFound,
		"User not found",
		fmt.Sprintf("User with ID %s does not exist", userID),
	).WithMetadata("user_id", userID)
}

// NewMealPlanNotFoundError is returned both for absent plans and plans
// owned by someone else, so callers cannot probe foreign identifiers.
func NewMealPlanNotFoundError(planID string) *AppError {
	return NewAppError(
		CodeMealPlanNotFound,
		"Meal plan not found",
		fmt.Sprintf("Meal plan with ID %s does not exist", planID),
	).WithMetadata("meal_plan_id", planID)
}

// NewRecipeNotOwnedError is a validation error for a recipe reference that
// is missing or belongs to another user.
func NewRecipeNotOwnedError(recipeID string) *AppError {
	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		fmt.Sprintf("Recipe with ID %s does not exist or is not owned by the user", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if any error in the chain carries the given code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// NewValidationErrors creates validation errors from validator errors
func NewValidationErrors(errs []ValidationError) *AppError {
	validationErrs := ValidationErrors(errs)

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}
