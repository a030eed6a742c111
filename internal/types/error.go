package types

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// CustomError is an error carrying an HTTP status code and a machine-readable
// type tag, rendered by the central fiber error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Unauthenticated builds the 401 error used by the auth middleware.
func Unauthenticated(message, errorType string) *CustomError {
	return &CustomError{Code: fiber.StatusUnauthorized, Message: message, Type: errorType}
}

// Forbidden builds the 403 error used by the role predicates.
func Forbidden(message, errorType string) *CustomError {
	return &CustomError{Code: fiber.StatusForbidden, Message: message, Type: errorType}
}
