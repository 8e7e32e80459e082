package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/service"
	"github.com/noah-isme/portal-go-api/internal/utils"
)

// Authenticate resolves the bearer credential on every protected route and
// binds the caller identity to request locals. Resolution failures end the
// request here; role checks stay with the services, which declare their own
// allowed role sets.
func Authenticate(resolver service.IdentityResolver, logger zerolog.Logger) fiber.Handler {
	authLogger := logger.With().Str("component", "authenticate_middleware").Logger()

	return func(c *fiber.Ctx) error {
		identity, err := resolver.Resolve(c.UserContext(), c.Get("Authorization"))
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) && appErr.Kind == apperr.KindUnauthenticated {
				return utils.SendFailure(c, fiber.StatusUnauthorized, string(appErr.Kind), appErr.Message)
			}

			authLogger.Error().Err(err).Msg("identity resolution failed")
			return utils.SendFailure(c, fiber.StatusInternalServerError, string(apperr.KindUpstream), "internal server error")
		}

		c.Locals("identity", identity)

		return c.Next()
	}
}
