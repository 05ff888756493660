package dto

import (
	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/models"
)

// CreateDonationRequest carries the checkout amount in major units (dollars);
// the service converts to cents before talking to the gateway.
type CreateDonationRequest struct {
	Amount     float64 `json:"amount"`
	DonorName  string  `json:"donor_name,omitempty"`
	DonorEmail string  `json:"donor_email,omitempty"`
	Type       string  `json:"type,omitempty"`
}

type CreateDonationResponse struct {
	ClientSecret string    `json:"client_secret"`
	DonationID   uuid.UUID `json:"donation_id"`
}

// DonationSummary aggregates the ledger for the back-office dashboard.
// Only succeeded donations count toward TotalRaised.
type DonationSummary struct {
	TotalRaised    int64 `json:"total_raised"`
	SucceededCount int64 `json:"succeeded_count"`
	PendingCount   int64 `json:"pending_count"`
	FailedCount    int64 `json:"failed_count"`
}

type DonationListResponse struct {
	Donations []models.Donation `json:"donations"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
}
