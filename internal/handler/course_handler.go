package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/service"
	"github.com/noah-isme/portal-go-api/internal/utils"
)

// CourseHandler wires course HTTP routes.
type CourseHandler struct {
	courses service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches course endpoints to the router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Delete("/:courseId", h.delete)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendFailure(c, fiber.StatusBadRequest, string(apperr.KindValidation), "invalid request body")
	}

	course, err := h.courses.Create(c.UserContext(), identityFromCtx(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course created", fiber.Map{"course": course})
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.UserContext(), identityFromCtx(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "courses retrieved", fiber.Map{"courses": courses})
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	// Course ids contain colons; accept both raw and percent-encoded forms.
	courseID := c.Params("courseId")
	if decoded, err := url.PathUnescape(courseID); err == nil {
		courseID = decoded
	}

	if err := h.courses.Delete(c.UserContext(), identityFromCtx(c), courseID); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course deleted", fiber.Map{"id": courseID})
}
