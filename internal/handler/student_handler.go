package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/service"
	"github.com/noah-isme/portal-go-api/internal/utils"
)

// StudentHandler exposes the teacher-facing student roster.
type StudentHandler struct {
	accounts service.AccountService
	logger   zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(accounts service.AccountService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		accounts: accounts,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the roster endpoint to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.accounts.ListStudents(c.UserContext(), identityFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "students retrieved", fiber.Map{"students": students})
}
