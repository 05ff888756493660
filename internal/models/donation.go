package models

import (
	"time"

	"github.com/google/uuid"
)

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationSucceeded DonationStatus = "succeeded"
	DonationFailed    DonationStatus = "failed"
)

// Terminal reports whether the status can no longer change. Only pending
// donations transition; succeeded/failed never regress.
func (s DonationStatus) Terminal() bool {
	return s == DonationSucceeded || s == DonationFailed
}

type DonationType string

const (
	DonationGeneral DonationType = "general"
	DonationSponsor DonationType = "sponsor"
)

func (t DonationType) Valid() bool {
	return t == DonationGeneral || t == DonationSponsor
}

// Donation is one ledger row per Stripe payment intent. Amount is in minor
// units (cents). The row is created pending when the intent is created and
// moved to a terminal status by webhook reconciliation.
type Donation struct {
	ID                    uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Amount                int64          `gorm:"not null" json:"amount"`
	Currency              string         `gorm:"size:3;not null;default:'usd'" json:"currency"`
	DonorName             string         `gorm:"size:255" json:"donor_name"`
	DonorEmail            string         `gorm:"size:255" json:"donor_email"`
	StripePaymentIntentID string         `gorm:"size:255;not null;uniqueIndex" json:"stripe_payment_intent_id"`
	Status                DonationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Type                  DonationType   `gorm:"size:20;not null;default:'general'" json:"type"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}
