package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	customerrors "librarian_backend/internals/customErrors"
)

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError converts validator.v10 failures into a field map keyed by
// the json name of each field.
func ValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return customerrors.Validation("Invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = messageForTag(fe)
	}
	return customerrors.ValidationFields("Missing or invalid fields", fields)
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return fe.Field() + " must be a date formatted as " + fe.Param()
	case "gtefield":
		return fe.Field() + " must not be before " + fe.Param()
	default:
		return "invalid value"
	}
}

// ParseBody decodes the JSON body into dst, rejecting malformed payloads
// with a validation error.
func ParseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return customerrors.Validation("Request body is required")
	}
	if err := c.BodyParser(dst); err != nil {
		return customerrors.Validation("Invalid payload")
	}
	return nil
}
