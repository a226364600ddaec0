package serverutils

import (
	"errors"

	"evidence-engine-be/pkg/embedding"
	"evidence-engine-be/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors into JSON error envelopes.
// Mapping: AppError keeps its code, fiber errors keep theirs, a lexical
// index failure is a 502 (search cannot run at all), a provider error that
// was NOT failed open is a 502 as well, anything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		if errors.Is(err, retrieval.ErrLexicalIndex) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, "Search index unavailable"))
		}
		if errors.Is(err, retrieval.ErrProvider) || errors.Is(err, embedding.ErrMissingAPIKey) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, "Embedding provider unavailable"))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
