package middleware

import (
	"errors"

	"agrivest-backend/internal/pkg/apperr"
	"agrivest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Translates application and Fiber
// errors to the standard {error, message} format; anything unclassified is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Code == apperr.CodeInternal {
			log.Error().Str("trace_id", GetTraceID(c)).Err(appErr.Err).Msg("unhandled internal error")
		}
		return response.FromAppError(c, appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return response.Error(c, "request_error", fiberErr.Message, fiberErr.Code)
	}

	log.Error().Str("trace_id", GetTraceID(c)).Err(err).Msg("unhandled error")
	return response.Error(c, string(apperr.CodeInternal), "Internal Server Error", fiber.StatusInternalServerError)
}
