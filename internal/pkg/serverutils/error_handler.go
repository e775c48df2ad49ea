package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"policyai-be/internal/pkg/apperr"
)

// ErrorHandlerMiddleware turns service-layer errors into the envelope the
// client expects. Authorization and validation failures resolve locally;
// everything else degrades to a 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(FailureResponse(fe.Message))
		}

		status := fiber.StatusInternalServerError
		message := "Internal server error"

		switch apperr.KindOf(err) {
		case apperr.AuthenticationMissing:
			status = fiber.StatusUnauthorized
			message = err.Error()
		case apperr.AuthorizationDenied:
			status = fiber.StatusForbidden
			message = err.Error()
		case apperr.ValidationFailed:
			status = fiber.StatusBadRequest
			message = err.Error()
		case apperr.NotFound:
			status = fiber.StatusNotFound
			message = err.Error()
		case apperr.DuplicateConflict:
			status = fiber.StatusConflict
			message = err.Error()
		case apperr.UpstreamFailure:
			status = fiber.StatusBadGateway
			message = "Upstream service failure"
		}

		return ctx.Status(status).JSON(FailureResponse(message))
	}
}
