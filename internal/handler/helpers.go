package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/models"
	"github.com/noah-isme/portal-go-api/internal/utils"
)

// identityFromCtx returns the identity stored by the authenticate middleware.
// Routes behind the middleware always have one; the zero value only appears
// when a handler is wired without it, and the role gate rejects that anyway.
func identityFromCtx(c *fiber.Ctx) models.Identity {
	if identity, ok := c.Locals("identity").(models.Identity); ok {
		return identity
	}
	return models.Identity{}
}

func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return utils.SendFailure(c, statusForKind(appErr.Kind), string(appErr.Kind), appErr.Message)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.SendFailure(c, fiber.StatusBadRequest, string(apperr.KindValidation), validationErrors.Error())
	}

	logger.Error().Err(err).Msg("internal server error")
	return utils.SendFailure(c, fiber.StatusInternalServerError, string(apperr.KindUpstream), "internal server error")
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
