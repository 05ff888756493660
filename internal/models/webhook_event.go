package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WebhookEvent logs every gateway event we accept. The unique index on the
// Stripe event id is the first line of defense against at-least-once
// redelivery; the conditional status transition is the second.
type WebhookEvent struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StripeEventID   string         `gorm:"size:255;not null;uniqueIndex" json:"stripe_event_id"`
	Type            string         `gorm:"size:100;not null;index" json:"type"`
	PaymentIntentID string         `gorm:"size:255;index" json:"payment_intent_id"`
	Payload         datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	CreatedAt       time.Time      `json:"created_at"`
}
