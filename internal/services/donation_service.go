package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/metrics"
	"github.com/harborlight/foundation-backend/internal/models"
	"github.com/harborlight/foundation-backend/internal/payments"
)

// MinDonationCents is the gateway floor: Stripe rejects charges under $0.50.
const MinDonationCents = 50

var (
	ErrAmountTooSmall      = errors.New("minimum donation amount is $0.50")
	ErrInvalidDonationType = errors.New("invalid donation type")
)

// Reconcile results, used as the webhook metric label.
const (
	ReconcileApplied       = "applied"
	ReconcileDuplicate     = "duplicate"
	ReconcileUnknownIntent = "unknown_intent"
	ReconcileIgnored       = "ignored"
)

// DonationStore persists the donation ledger and the webhook event log.
// A missing donation is (nil, nil). TransitionStatus must be conditional on
// the current status so concurrent or replayed deliveries cannot double-apply.
type DonationStore interface {
	Create(d *models.Donation) error
	FindByIntentID(intentID string) (*models.Donation, error)
	TransitionStatus(id uuid.UUID, from, to models.DonationStatus) (bool, error)
	// EventSeen reports whether a gateway event id was already recorded.
	EventSeen(eventID string) (bool, error)
	// RecordEvent inserts the event row, returning false when the gateway
	// event id was already recorded.
	RecordEvent(e *models.WebhookEvent) (bool, error)
	List(page, limit int) ([]models.Donation, int64, error)
	Summary() (*dto.DonationSummary, error)
}

type DonationService struct {
	store   DonationStore
	gateway payments.Gateway
}

func NewDonationService(store DonationStore, gateway payments.Gateway) *DonationService {
	return &DonationService{store: store, gateway: gateway}
}

// CreateDonation creates a gateway payment intent and a matching pending
// ledger row. The row exists even if the donor abandons checkout, so every
// intent is auditable. The two writes are not atomic: a store failure after
// the gateway call leaves a gateway-side intent with no local row, which is
// logged for manual reconciliation.
func (s *DonationService) CreateDonation(ctx context.Context, req *dto.CreateDonationRequest) (*dto.CreateDonationResponse, error) {
	amountCents := int64(math.Round(req.Amount * 100))
	if amountCents < MinDonationCents {
		return nil, ErrAmountTooSmall
	}

	donationType := models.DonationType(req.Type)
	if req.Type == "" {
		donationType = models.DonationGeneral
	}
	if !donationType.Valid() {
		return nil, ErrInvalidDonationType
	}

	intent, err := s.gateway.CreateIntent(ctx, amountCents, "usd", map[string]string{
		"donor_name":    req.DonorName,
		"donor_email":   req.DonorEmail,
		"donation_type": string(donationType),
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	donation := &models.Donation{
		ID:                    uuid.New(),
		Amount:                amountCents,
		Currency:              "usd",
		DonorName:             req.DonorName,
		DonorEmail:            req.DonorEmail,
		StripePaymentIntentID: intent.ID,
		Status:                models.DonationPending,
		Type:                  donationType,
	}
	if err := s.store.Create(donation); err != nil {
		slog.Error("orphaned payment intent: ledger write failed after gateway create",
			"payment_intent_id", intent.ID, "error", err)
		return nil, fmt.Errorf("record donation: %w", err)
	}

	metrics.ObserveDonationCreated()
	slog.Info("donation created", "donation_id", donation.ID,
		"payment_intent_id", intent.ID, "amount", amountCents, "type", donationType)

	return &dto.CreateDonationResponse{
		ClientSecret: intent.ClientSecret,
		DonationID:   donation.ID,
	}, nil
}

// OutcomeForEventType maps a gateway event type to the terminal donation
// status it implies. Unlisted event types carry no ledger transition.
func OutcomeForEventType(eventType string) (models.DonationStatus, bool) {
	switch eventType {
	case "payment_intent.succeeded":
		return models.DonationSucceeded, true
	case "payment_intent.payment_failed", "payment_intent.canceled":
		return models.DonationFailed, true
	default:
		return "", false
	}
}

// Reconcile applies one webhook delivery to the ledger. Deliveries are
// at-least-once and may repeat or arrive stale, so the operation is an
// idempotent state merge: dedupe by event id, look up by intent id, and
// transition only pending rows. Terminal states never change, which also
// drops out-of-order deliveries (a late payment_failed after succeeded).
// The returned result names what happened for logging and metrics.
func (s *DonationService) Reconcile(eventID, eventType, intentID string, payload []byte) (string, error) {
	if eventID != "" {
		seen, err := s.store.EventSeen(eventID)
		if err != nil {
			return "", fmt.Errorf("lookup webhook event: %w", err)
		}
		if seen {
			slog.Info("duplicate webhook event skipped", "event_id", eventID, "type", eventType)
			return ReconcileDuplicate, nil
		}
	}

	result, err := s.applyDelivery(eventType, intentID)
	if err != nil {
		// Nothing has been recorded for this event yet, so the gateway's
		// redelivery runs the whole merge again.
		return "", err
	}

	// The event is marked seen only after the merge lands. If this write
	// fails the redelivery replays the merge, which the conditional
	// transition makes a harmless no-op.
	if eventID != "" {
		if _, err := s.store.RecordEvent(&models.WebhookEvent{
			ID:              uuid.New(),
			StripeEventID:   eventID,
			Type:            eventType,
			PaymentIntentID: intentID,
			Payload:         payload,
		}); err != nil {
			return "", fmt.Errorf("record webhook event: %w", err)
		}
	}
	return result, nil
}

func (s *DonationService) applyDelivery(eventType, intentID string) (string, error) {
	outcome, ok := OutcomeForEventType(eventType)
	if !ok {
		return ReconcileIgnored, nil
	}
	if intentID == "" {
		return ReconcileIgnored, nil
	}

	donation, err := s.store.FindByIntentID(intentID)
	if err != nil {
		return "", fmt.Errorf("lookup donation: %w", err)
	}
	if donation == nil {
		// Should not happen when the ledger row was created at checkout,
		// but a retry storm is worse than a missed row.
		slog.Warn("webhook for unknown payment intent", "payment_intent_id", intentID, "type", eventType)
		return ReconcileUnknownIntent, nil
	}

	if donation.Status.Terminal() {
		slog.Info("stale webhook for settled donation ignored",
			"donation_id", donation.ID, "status", donation.Status, "type", eventType)
		return ReconcileIgnored, nil
	}

	applied, err := s.store.TransitionStatus(donation.ID, models.DonationPending, outcome)
	if err != nil {
		return "", fmt.Errorf("transition donation: %w", err)
	}
	if !applied {
		// Lost the race to a concurrent delivery.
		return ReconcileIgnored, nil
	}

	metrics.ObserveDonationOutcome(string(outcome))
	slog.Info("donation reconciled", "donation_id", donation.ID,
		"payment_intent_id", intentID, "status", outcome)
	return ReconcileApplied, nil
}

func (s *DonationService) List(page, limit int) ([]models.Donation, int64, error) {
	return s.store.List(page, limit)
}

func (s *DonationService) Summary() (*dto.DonationSummary, error) {
	return s.store.Summary()
}
