package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/services"
)

type SubmissionHandler struct {
	submissions *services.SubmissionService
}

func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.submissions.Create(req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	subs, total, err := h.submissions.List(c.QueryBool("unread", false), page, limit)
	if err != nil {
		return internalError(c, "Failed to list submissions")
	}
	return c.JSON(fiber.Map{"submissions": subs, "total": total, "page": page, "limit": limit})
}

func (h *SubmissionHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	if err := h.submissions.MarkRead(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to update submission")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *SubmissionHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	if err := h.submissions.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to delete submission")
	}
	return c.JSON(fiber.Map{"success": true})
}
