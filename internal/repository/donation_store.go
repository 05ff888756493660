package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/models"
	"gorm.io/gorm"
)

// DonationStore is the GORM-backed services.DonationStore. All writes are
// single-row and keyed, so the database's row atomicity is the only
// concurrency control needed.
type DonationStore struct {
	db *gorm.DB
}

func NewDonationStore(db *gorm.DB) *DonationStore {
	return &DonationStore{db: db}
}

func (r *DonationStore) Create(d *models.Donation) error {
	return r.db.Create(d).Error
}

func (r *DonationStore) FindByIntentID(intentID string) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.Where("stripe_payment_intent_id = ?", intentID).First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find donation by intent id: %w", err)
	}
	return &donation, nil
}

// TransitionStatus is a conditional single-row update: it applies only when
// the row is still in the from status, making replays and races no-ops.
func (r *DonationStore) TransitionStatus(id uuid.UUID, from, to models.DonationStatus) (bool, error) {
	result := r.db.Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("transition donation status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// EventSeen reports whether a gateway event id is already recorded.
func (r *DonationStore) EventSeen(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.WebhookEvent{}).
		Where("stripe_event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("lookup webhook event: %w", err)
	}
	return count > 0, nil
}

// RecordEvent inserts the webhook event, reporting false when the gateway
// event id was already seen. The unique index decides under concurrency.
func (r *DonationStore) RecordEvent(e *models.WebhookEvent) (bool, error) {
	var existing models.WebhookEvent
	err := r.db.Select("id").Where("stripe_event_id = ?", e.StripeEventID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup webhook event: %w", err)
	}

	if err := r.db.Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("record webhook event: %w", err)
	}
	return true, nil
}

func (r *DonationStore) List(page, limit int) ([]models.Donation, int64, error) {
	var donations []models.Donation
	var total int64

	if err := r.db.Model(&models.Donation{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&donations).Error
	return donations, total, err
}

func (r *DonationStore) Summary() (*dto.DonationSummary, error) {
	var summary dto.DonationSummary

	err := r.db.Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.DonationSucceeded).
		Scan(&summary.TotalRaised).Error
	if err != nil {
		return nil, fmt.Errorf("sum donations: %w", err)
	}

	counts := []struct {
		status models.DonationStatus
		dest   *int64
	}{
		{models.DonationSucceeded, &summary.SucceededCount},
		{models.DonationPending, &summary.PendingCount},
		{models.DonationFailed, &summary.FailedCount},
	}
	for _, c := range counts {
		if err := r.db.Model(&models.Donation{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count donations: %w", err)
		}
	}

	return &summary, nil
}
