package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/service"
	"github.com/noah-isme/portal-go-api/internal/utils"
)

// AuthHandler wires the unauthenticated signup/signin routes.
type AuthHandler struct {
	accounts service.AccountService
	logger   zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(accounts service.AccountService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the auth endpoints to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/signup", h.signup)
	router.Post("/signin", h.signin)
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var payload dto.SignupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendFailure(c, fiber.StatusBadRequest, string(apperr.KindValidation), "invalid request body")
	}

	user, err := h.accounts.Signup(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "signup successful", dto.SignupResponse{User: user})
}

func (h *AuthHandler) signin(c *fiber.Ctx) error {
	var payload dto.SigninRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendFailure(c, fiber.StatusBadRequest, string(apperr.KindValidation), "invalid request body")
	}

	session, err := h.accounts.Signin(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "signin successful", session)
}
