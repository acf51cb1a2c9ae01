package response

import (
	"agrivest-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape: every error carries the
// error class and a message.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const statusSuccess = "success"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return c.Status(fiber.StatusOK).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, errName string, message string, statusCode int) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Error:   errName,
		Message: message,
	})
}

// FromAppError translates a service error into the standard error response.
func FromAppError(c *fiber.Ctx, err error) error {
	e := apperr.From(err)
	return Error(c, string(e.Code), e.Message, e.StatusCode())
}

// Unauthorized sends 401 with the same shape as other errors.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, string(apperr.CodeUnauthenticated), message, fiber.StatusUnauthorized)
}

// Forbidden sends 403 with the same shape as other errors.
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, string(apperr.CodeForbidden), message, fiber.StatusForbidden)
}

// BadRequest sends 400 with the same shape as other errors.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, string(apperr.CodeValidation), message, fiber.StatusBadRequest)
}
