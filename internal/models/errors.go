package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the wire shape of every API error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// AppError is a classified application error carrying the HTTP status it
// should surface as. Unclassified errors fall through as 500s.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a missing or malformed request field.
func NewValidationError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

// NewConflictError reports a duplicate unique key. Conflicts surface as 400
// with a distinct "already exists" message rather than a generic failure.
func NewConflictError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

// NewUnauthorizedError reports a missing or invalid token.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Message: message}
}

// NewForbiddenError reports a role or ownership mismatch.
func NewForbiddenError(message string) *AppError {
	return &AppError{Status: fiber.StatusForbidden, Message: message}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Message: message}
}

// NewInternalError wraps an unexpected error behind an opaque client message.
func NewInternalError(err error) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Message: "Server error", Err: err}
}

// StatusOf returns the HTTP status an error should surface as.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// RespondWithError writes the standardized { message } error body. The
// wrapped cause of an internal error is never exposed to the client.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(ErrorResponse{Message: appErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Server error"})
}
