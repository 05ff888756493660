package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/services"
)

type DonationHandler struct {
	donationService *services.DonationService
}

func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// CreatePaymentIntent starts a checkout: gateway intent plus pending ledger
// row. Gateway failures surface as a generic message; the detail stays in
// server logs.
func (h *DonationHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req dto.CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.donationService.CreateDonation(c.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrAmountTooSmall) || errors.Is(err, services.ErrInvalidDonationType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("payment intent creation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Payment setup failed",
		})
	}

	return c.JSON(resp)
}

func (h *DonationHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	donations, total, err := h.donationService.List(page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list donations",
		})
	}

	return c.JSON(dto.DonationListResponse{
		Donations: donations,
		Total:     total,
		Page:      page,
		Limit:     limit,
	})
}

func (h *DonationHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.donationService.Summary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to summarize donations",
		})
	}
	return c.JSON(summary)
}
