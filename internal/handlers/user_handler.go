package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/middleware"
	"github.com/harborlight/foundation-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	users, total, err := h.userService.List(page, limit)
	if err != nil {
		return internalError(c, "Failed to list users")
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"users": responses, "total": total, "page": page, "limit": limit})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	auth, _ := middleware.GetAuth(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid id")
	}

	var req struct {
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.Update(auth.Role, id, services.UpdateUserParams{
		Role:     req.Role,
		IsActive: req.IsActive,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c)
		case errors.Is(err, services.ErrRolePrivilege):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return badRequest(c, err.Error())
		}
	}

	return c.JSON(dto.NewUserResponse(user))
}
