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

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	auth, _ := middleware.GetAuth(c)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	tasks, total, err := h.tasks.ListForUser(auth.UserID, auth.Role, c.Query("status"), page, limit)
	if err != nil {
		return internalError(c, "Failed to list tasks")
	}
	return c.JSON(fiber.Map{"tasks": tasks, "total": total, "page": page, "limit": limit})
}

func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	auth, _ := middleware.GetAuth(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.tasks.UpdateStatus(id, auth.UserID, auth.Role, models.TaskStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return notFound(c)
		case errors.Is(err, services.ErrNotTaskOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidTaskState):
			return badRequest(c, err.Error())
		default:
			return internalError(c, "Failed to update task")
		}
	}
	return c.JSON(task)
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	auth, _ := middleware.GetAuth(c)

	var req struct {
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		AssignedToID *uuid.UUID `json:"assigned_to_id"`
		DueDate      *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.tasks.Create(auth.UserID, req.Title, req.Description, req.AssignedToID, req.DueDate)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	if err := h.tasks.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to delete task")
	}
	return c.JSON(fiber.Map{"success": true})
}
