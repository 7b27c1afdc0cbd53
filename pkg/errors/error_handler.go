package errors

import (
	stderrors "errors"

	"media-orchestrator/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func StatusFor(code string) int {
	switch code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation, CodeInsufficientInputs, CodeInvalidProfile, CodeUnsupportedMedia, CodeFileTooLarge:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var ae *AppError
	if stderrors.As(err, &ae) {
		if ae.Err != nil {
			zap.L().Warn("request failed", zap.String("code", ae.Code), zap.Error(ae.Err))
		}

		status := StatusFor(ae.Code)
		message := ae.Message
		if status == fiber.StatusInternalServerError {
			// internal details stay in the log
			message = i18n.T(CodeInternal)
			return c.Status(status).JSON(fiber.Map{"error": CodeInternal, "message": message})
		}
		if translated, ok := i18n.Lookup(ae.Code); ok && ae.Message == "" {
			message = translated
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   ae.Code,
			"message": message,
		})
	}

	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": "http_error", "message": fe.Message})
	}

	zap.L().Error("unexpected error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   CodeInternal,
		"message": i18n.T(CodeInternal),
	})
}
