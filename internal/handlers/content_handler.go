package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/middleware"
	"github.com/harborlight/foundation-backend/internal/models"
	"github.com/harborlight/foundation-backend/internal/services"
)

type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// --- Request DTOs ---

type newsRequest struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	CoverImageURL string `json:"cover_image_url"`
	Published     bool   `json:"published"`
}

type eventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Published   bool      `json:"published"`
}

type testimonialRequest struct {
	AuthorName string `json:"author_name"`
	Quote      string `json:"quote"`
	Approved   bool   `json:"approved"`
}

type impactMetricRequest struct {
	Label     string `json:"label"`
	Value     int64  `json:"value"`
	Unit      string `json:"unit"`
	SortOrder int    `json:"sort_order"`
}

type documentRequest struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Category  string `json:"category"`
	Published bool   `json:"published"`
}

// --- Public ---

func (h *ContentHandler) ListNews(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	// Staff-or-higher sessions also see drafts.
	publishedOnly := true
	if auth, ok := middleware.GetAuth(c); ok && auth.Role.AtLeast(models.RoleStaff) {
		publishedOnly = false
	}

	posts, total, err := h.content.ListNews(publishedOnly, page, limit)
	if err != nil {
		return internalError(c, "Failed to list news")
	}
	return c.JSON(fiber.Map{"news": posts, "total": total, "page": page, "limit": limit})
}

func (h *ContentHandler) GetNews(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	post, err := h.content.GetNews(id, true)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to load news post")
	}
	return c.JSON(post)
}

func (h *ContentHandler) ListEvents(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	upcoming := c.QueryBool("upcoming", true)

	events, total, err := h.content.ListEvents(true, upcoming, page, limit)
	if err != nil {
		return internalError(c, "Failed to list events")
	}
	return c.JSON(fiber.Map{"events": events, "total": total, "page": page, "limit": limit})
}

func (h *ContentHandler) ListTestimonials(c *fiber.Ctx) error {
	testimonials, err := h.content.ListTestimonials(true)
	if err != nil {
		return internalError(c, "Failed to list testimonials")
	}
	return c.JSON(fiber.Map{"testimonials": testimonials})
}

func (h *ContentHandler) ListImpactMetrics(c *fiber.Ctx) error {
	impactMetrics, err := h.content.ListImpactMetrics()
	if err != nil {
		return internalError(c, "Failed to list impact metrics")
	}
	return c.JSON(fiber.Map{"metrics": impactMetrics})
}

func (h *ContentHandler) ListDocuments(c *fiber.Ctx) error {
	docs, err := h.content.ListDocuments(true, c.Query("category"))
	if err != nil {
		return internalError(c, "Failed to list documents")
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// --- Back office ---

func (h *ContentHandler) CreateNews(c *fiber.Ctx) error {
	auth, _ := middleware.GetAuth(c)

	var req newsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := h.content.CreateNews(auth.UserID, req.Title, req.Body, req.CoverImageURL, req.Published)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *ContentHandler) UpdateNews(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req newsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := h.content.UpdateNews(id, req.Title, req.Body, req.CoverImageURL, req.Published)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(post)
}

func (h *ContentHandler) DeleteNews(c *fiber.Ctx) error {
	return h.deleteByID(c, h.content.DeleteNews)
}

func (h *ContentHandler) CreateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Published:   req.Published,
	}
	if err := h.content.CreateEvent(event); err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *ContentHandler) UpdateEvent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	event, err := h.content.UpdateEvent(id, &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Published:   req.Published,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(event)
}

func (h *ContentHandler) DeleteEvent(c *fiber.Ctx) error {
	return h.deleteByID(c, h.content.DeleteEvent)
}

func (h *ContentHandler) CreateTestimonial(c *fiber.Ctx) error {
	var req testimonialRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	t, err := h.content.CreateTestimonial(req.AuthorName, req.Quote, req.Approved)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *ContentHandler) UpdateTestimonial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req testimonialRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	t, err := h.content.UpdateTestimonial(id, req.AuthorName, req.Quote)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(t)
}

func (h *ContentHandler) ApproveTestimonial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.content.SetTestimonialApproval(id, req.Approved); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to update testimonial")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ContentHandler) DeleteTestimonial(c *fiber.Ctx) error {
	return h.deleteByID(c, h.content.DeleteTestimonial)
}

func (h *ContentHandler) CreateImpactMetric(c *fiber.Ctx) error {
	var req impactMetricRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	m, err := h.content.CreateImpactMetric(req.Label, req.Value, req.Unit, req.SortOrder)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *ContentHandler) UpdateImpactMetric(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req impactMetricRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	m, err := h.content.UpdateImpactMetric(id, req.Label, req.Value, req.Unit, req.SortOrder)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(m)
}

func (h *ContentHandler) DeleteImpactMetric(c *fiber.Ctx) error {
	return h.deleteByID(c, h.content.DeleteImpactMetric)
}

func (h *ContentHandler) CreateDocument(c *fiber.Ctx) error {
	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	d, err := h.content.CreateDocument(req.Title, req.URL, req.Category, req.Published)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *ContentHandler) UpdateDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	d, err := h.content.UpdateDocument(id, req.Title, req.URL, req.Category, req.Published)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(d)
}

func (h *ContentHandler) DeleteDocument(c *fiber.Ctx) error {
	return h.deleteByID(c, h.content.DeleteDocument)
}

func (h *ContentHandler) deleteByID(c *fiber.Ctx, del func(uuid.UUID) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}
	if err := del(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Delete failed")
	}
	return c.JSON(fiber.Map{"success": true})
}

// --- shared error helpers ---

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Not found"})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: msg})
}
