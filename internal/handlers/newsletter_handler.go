package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/services"
)

type NewsletterHandler struct {
	newsletter *services.NewsletterService
}

func NewNewsletterHandler(newsletter *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter}
}

func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.newsletter.Subscribe(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrEmailSubscribed) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidEmail) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to subscribe")
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// Unsubscribe is the one-click link target from newsletter emails; the token
// is a signed claim on the subscriber email.
func (h *NewsletterHandler) Unsubscribe(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return badRequest(c, "Missing token")
	}

	if err := h.newsletter.Unsubscribe(token); err != nil {
		if errors.Is(err, services.ErrInvalidUnsubToken) {
			return badRequest(c, err.Error())
		}
		if errors.Is(err, services.ErrSubscriberNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to unsubscribe")
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *NewsletterHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	subs, total, err := h.newsletter.List(page, limit)
	if err != nil {
		return internalError(c, "Failed to list subscribers")
	}
	return c.JSON(fiber.Map{"subscribers": subs, "total": total, "page": page, "limit": limit})
}
