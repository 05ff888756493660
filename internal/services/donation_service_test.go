package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/models"
	"github.com/harborlight/foundation-backend/internal/payments"
)

type memDonationStore struct {
	byID        map[uuid.UUID]*models.Donation
	byIntent    map[string]*models.Donation
	events      map[string]bool
	transitions int

	// failNextTransitions makes that many TransitionStatus calls error,
	// simulating a transient database failure mid-reconcile.
	failNextTransitions int
}

func newMemDonationStore() *memDonationStore {
	return &memDonationStore{
		byID:     map[uuid.UUID]*models.Donation{},
		byIntent: map[string]*models.Donation{},
		events:   map[string]bool{},
	}
}

func (m *memDonationStore) Create(d *models.Donation) error {
	if _, ok := m.byIntent[d.StripePaymentIntentID]; ok {
		return errors.New("duplicate payment intent id")
	}
	clone := *d
	m.byID[d.ID] = &clone
	m.byIntent[d.StripePaymentIntentID] = &clone
	return nil
}

func (m *memDonationStore) FindByIntentID(intentID string) (*models.Donation, error) {
	if d, ok := m.byIntent[intentID]; ok {
		clone := *d
		return &clone, nil
	}
	return nil, nil
}

func (m *memDonationStore) TransitionStatus(id uuid.UUID, from, to models.DonationStatus) (bool, error) {
	if m.failNextTransitions > 0 {
		m.failNextTransitions--
		return false, errors.New("connection reset")
	}
	d, ok := m.byID[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	m.transitions++
	return true, nil
}

func (m *memDonationStore) EventSeen(eventID string) (bool, error) {
	return m.events[eventID], nil
}

func (m *memDonationStore) RecordEvent(e *models.WebhookEvent) (bool, error) {
	if m.events[e.StripeEventID] {
		return false, nil
	}
	m.events[e.StripeEventID] = true
	return true, nil
}

func (m *memDonationStore) List(page, limit int) ([]models.Donation, int64, error) {
	donations := make([]models.Donation, 0, len(m.byID))
	for _, d := range m.byID {
		donations = append(donations, *d)
	}
	return donations, int64(len(donations)), nil
}

func (m *memDonationStore) Summary() (*dto.DonationSummary, error) {
	var s dto.DonationSummary
	for _, d := range m.byID {
		switch d.Status {
		case models.DonationSucceeded:
			s.SucceededCount++
			s.TotalRaised += d.Amount
		case models.DonationPending:
			s.PendingCount++
		case models.DonationFailed:
			s.FailedCount++
		}
	}
	return &s, nil
}

type fakeGateway struct {
	fail  bool
	calls int
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	if g.fail {
		return nil, errors.New("gateway unreachable")
	}
	g.calls++
	return &payments.Intent{
		ID:           fmt.Sprintf("pi_%d", g.calls),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.calls),
	}, nil
}

func newTestDonationService() (*DonationService, *memDonationStore, *fakeGateway) {
	store := newMemDonationStore()
	gateway := &fakeGateway{}
	return NewDonationService(store, gateway), store, gateway
}

func TestCreateDonationConvertsToMinorUnits(t *testing.T) {
	s, store, _ := newTestDonationService()

	resp, err := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{
		Amount: 25, DonorName: "Pat", DonorEmail: "pat@example.org", Type: "sponsor",
	})
	if err != nil {
		t.Fatalf("create donation failed: %v", err)
	}
	if resp.ClientSecret == "" {
		t.Error("expected a client secret")
	}

	d := store.byID[resp.DonationID]
	if d == nil {
		t.Fatal("donation row not created")
	}
	if d.Amount != 2500 {
		t.Errorf("amount = %d, want 2500 cents", d.Amount)
	}
	if d.Status != models.DonationPending {
		t.Errorf("status = %s, want pending", d.Status)
	}
	if d.Type != models.DonationSponsor {
		t.Errorf("type = %s, want sponsor", d.Type)
	}
}

func TestCreateDonationRejectsBelowFloor(t *testing.T) {
	s, store, gateway := newTestDonationService()

	_, err := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 0.25})
	if !errors.Is(err, ErrAmountTooSmall) {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}
	if len(store.byID) != 0 {
		t.Error("no donation row may exist for a rejected amount")
	}
	if gateway.calls != 0 {
		t.Error("gateway must not be called for a rejected amount")
	}
}

func TestCreateDonationDefaultsTypeAndRejectsUnknown(t *testing.T) {
	s, store, _ := newTestDonationService()

	resp, err := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10})
	if err != nil {
		t.Fatalf("create donation failed: %v", err)
	}
	if store.byID[resp.DonationID].Type != models.DonationGeneral {
		t.Error("empty type should default to general")
	}

	if _, err := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10, Type: "crypto"}); !errors.Is(err, ErrInvalidDonationType) {
		t.Errorf("expected ErrInvalidDonationType, got %v", err)
	}
}

func TestCreateDonationGatewayFailure(t *testing.T) {
	s, store, gateway := newTestDonationService()
	gateway.fail = true

	if _, err := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10}); err == nil {
		t.Fatal("expected gateway error")
	}
	if len(store.byID) != 0 {
		t.Error("no ledger row may exist when the gateway call fails")
	}
}

func TestReconcileAppliesSuccess(t *testing.T) {
	s, store, _ := newTestDonationService()
	resp, _ := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10})
	intentID := store.byID[resp.DonationID].StripePaymentIntentID

	result, err := s.Reconcile("evt_1", "payment_intent.succeeded", intentID, nil)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result != ReconcileApplied {
		t.Errorf("result = %s, want applied", result)
	}
	if store.byID[resp.DonationID].Status != models.DonationSucceeded {
		t.Errorf("status = %s, want succeeded", store.byID[resp.DonationID].Status)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	s, store, _ := newTestDonationService()
	resp, _ := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10})
	intentID := store.byID[resp.DonationID].StripePaymentIntentID

	// Same event redelivered: deduped by event id.
	if result, _ := s.Reconcile("evt_1", "payment_intent.succeeded", intentID, nil); result != ReconcileApplied {
		t.Fatalf("first delivery = %s, want applied", result)
	}
	if result, _ := s.Reconcile("evt_1", "payment_intent.succeeded", intentID, nil); result != ReconcileDuplicate {
		t.Errorf("redelivery should be duplicate, got %s", result)
	}

	// Distinct event for an already settled intent: terminal state holds.
	if result, _ := s.Reconcile("evt_2", "payment_intent.succeeded", intentID, nil); result != ReconcileIgnored {
		t.Errorf("second success event should be ignored, got %s", result)
	}

	if store.transitions != 1 {
		t.Errorf("transitions = %d, want exactly 1", store.transitions)
	}
	summary, _ := store.Summary()
	if summary.SucceededCount != 1 || summary.TotalRaised != 1000 {
		t.Errorf("summary %+v, want one succeeded donation of 1000", summary)
	}
}

func TestReconcileRedeliveryAfterTransientFailure(t *testing.T) {
	s, store, _ := newTestDonationService()
	resp, _ := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10})
	intentID := store.byID[resp.DonationID].StripePaymentIntentID

	// First delivery hits a transient store failure mid-merge. The event
	// must not be marked seen, or the redelivery would be deduped away and
	// the donation stranded in pending.
	store.failNextTransitions = 1
	if _, err := s.Reconcile("evt_1", "payment_intent.succeeded", intentID, nil); err == nil {
		t.Fatal("expected the first delivery to error")
	}
	if store.byID[resp.DonationID].Status != models.DonationPending {
		t.Fatalf("status = %s, want still pending", store.byID[resp.DonationID].Status)
	}

	result, err := s.Reconcile("evt_1", "payment_intent.succeeded", intentID, nil)
	if err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if result != ReconcileApplied {
		t.Errorf("redelivery = %s, want applied", result)
	}
	if store.byID[resp.DonationID].Status != models.DonationSucceeded {
		t.Error("redelivery must settle the donation")
	}

	// Only the settled delivery is recorded, so a third copy dedupes.
	if result, _ := s.Reconcile("evt_1", "payment_intent.succeeded", intentID, nil); result != ReconcileDuplicate {
		t.Errorf("third delivery = %s, want duplicate", result)
	}
}

func TestReconcileNeverRegressesTerminalStatus(t *testing.T) {
	s, store, _ := newTestDonationService()
	resp, _ := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10})
	intentID := store.byID[resp.DonationID].StripePaymentIntentID

	s.Reconcile("evt_1", "payment_intent.succeeded", intentID, nil)

	// A stale failure after success must be dropped.
	result, err := s.Reconcile("evt_2", "payment_intent.payment_failed", intentID, nil)
	if err != nil {
		t.Fatalf("reconcile errored: %v", err)
	}
	if result != ReconcileIgnored {
		t.Errorf("stale failure = %s, want ignored", result)
	}
	if store.byID[resp.DonationID].Status != models.DonationSucceeded {
		t.Error("succeeded donation must never regress")
	}
}

func TestReconcileUnknownIntentIsNoOp(t *testing.T) {
	s, _, _ := newTestDonationService()

	result, err := s.Reconcile("evt_1", "payment_intent.succeeded", "pi_missing", nil)
	if err != nil {
		t.Fatalf("unknown intent must not error: %v", err)
	}
	if result != ReconcileUnknownIntent {
		t.Errorf("result = %s, want unknown_intent", result)
	}
}

func TestReconcileAppliesFailure(t *testing.T) {
	s, store, _ := newTestDonationService()
	resp, _ := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10})
	intentID := store.byID[resp.DonationID].StripePaymentIntentID

	if result, _ := s.Reconcile("evt_1", "payment_intent.payment_failed", intentID, nil); result != ReconcileApplied {
		t.Fatalf("failure event should apply, got %s", result)
	}
	if store.byID[resp.DonationID].Status != models.DonationFailed {
		t.Error("expected failed status")
	}
}

func TestReconcileIgnoresUnhandledEventTypes(t *testing.T) {
	s, store, _ := newTestDonationService()
	resp, _ := s.CreateDonation(context.Background(), &dto.CreateDonationRequest{Amount: 10})
	intentID := store.byID[resp.DonationID].StripePaymentIntentID

	if result, _ := s.Reconcile("evt_1", "charge.refunded", intentID, nil); result != ReconcileIgnored {
		t.Errorf("unhandled type should be ignored, got %s", result)
	}
	if store.byID[resp.DonationID].Status != models.DonationPending {
		t.Error("unhandled event must not touch the ledger")
	}
}

func TestOutcomeForEventType(t *testing.T) {
	cases := []struct {
		eventType string
		want      models.DonationStatus
		handled   bool
	}{
		{"payment_intent.succeeded", models.DonationSucceeded, true},
		{"payment_intent.payment_failed", models.DonationFailed, true},
		{"payment_intent.canceled", models.DonationFailed, true},
		{"payment_intent.created", "", false},
		{"charge.succeeded", "", false},
	}
	for _, tc := range cases {
		got, handled := OutcomeForEventType(tc.eventType)
		if handled != tc.handled || got != tc.want {
			t.Errorf("OutcomeForEventType(%s) = (%s, %v), want (%s, %v)",
				tc.eventType, got, handled, tc.want, tc.handled)
		}
	}
}
