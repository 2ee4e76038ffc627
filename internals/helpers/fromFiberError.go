package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	customerrors "librarian_backend/internals/customErrors"
)

// FromError renders a service error in the standard error shape. Store
// failures are logged with their cause and answered with a generic 500.
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	status := customerrors.GetStatus(err)
	message := customerrors.GetMessage(err)

	switch customerrors.GetKind(err) {
	case customerrors.KindValidation:
		if fields := customerrors.GetFields(err); len(fields) > 0 {
			return JsonValidationError(c, message, fields)
		}
		return JsonErrorWithCode(c, status, "VALIDATION_ERROR", message)
	case customerrors.KindDuplicateEmail:
		return JsonErrorWithCode(c, status, "DUPLICATE_EMAIL", message)
	case customerrors.KindConflict:
		return JsonErrorWithCode(c, status, "CONFLICT", message)
	case customerrors.KindStore:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	}
	return JsonError(c, status, message)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so errors returned
// from middleware and unmatched routes share the same shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
