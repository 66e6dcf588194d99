package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies an application error so handlers can map it to a
// stable HTTP status without string matching.
type ErrorKind int

const (
	ErrKindInternal ErrorKind = iota
	ErrKindNotFound
	ErrKindUnauthorized
	ErrKindForbidden
	ErrKindValidation
	ErrKindConflict
)

// AppError is the error type every repository and service returns for
// domain-level failures.
type AppError struct {
	Kind    ErrorKind
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

// Is lets errors.Is match two AppErrors by kind.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return appErr.Kind == e.Kind
	}
	return false
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: ErrKindNotFound, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: ErrKindUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: ErrKindForbidden, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrKindValidation, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: ErrKindConflict, Message: message}
}

// NewInternalError hides the underlying cause behind a generic message.
// The cause stays reachable through Unwrap for logging.
func NewInternalError(err error) *AppError {
	return &AppError{Kind: ErrKindInternal, Message: "internal server error", Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// StatusCode maps an error to its HTTP status. Unknown errors are treated as
// internal failures.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case ErrKindNotFound:
		return fiber.StatusNotFound
	case ErrKindUnauthorized:
		return fiber.StatusUnauthorized
	case ErrKindForbidden:
		return fiber.StatusForbidden
	case ErrKindValidation:
		return fiber.StatusBadRequest
	case ErrKindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard JSON error payload for err.
// Internal causes are never exposed to the client.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := StatusCode(err)
	message := err.Error()
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}
