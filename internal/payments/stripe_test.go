package payments

import (
	"encoding/json"
	"testing"

	"github.com/stripe/stripe-go/v81"
)

func TestEventIntentID(t *testing.T) {
	event := stripe.Event{
		Data: &stripe.EventData{
			Raw: json.RawMessage(`{"id":"pi_123","amount":2500,"status":"succeeded"}`),
		},
	}
	if got := EventIntentID(&event); got != "pi_123" {
		t.Errorf("EventIntentID = %q, want pi_123", got)
	}

	malformed := stripe.Event{Data: &stripe.EventData{Raw: json.RawMessage(`{`)}}
	if got := EventIntentID(&malformed); got != "" {
		t.Errorf("malformed payload should yield empty id, got %q", got)
	}
}

func TestEventIntentIDWithoutData(t *testing.T) {
	// Unverified payloads can be any valid JSON, including one with no
	// data object at all. That must not panic.
	event, err := ParseEventUnverified([]byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := EventIntentID(&event); got != "" {
		t.Errorf("event without data should yield empty id, got %q", got)
	}
}

func TestParseEventUnverified(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)

	event, err := ParseEventUnverified(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if event.ID != "evt_1" {
		t.Errorf("event id = %q, want evt_1", event.ID)
	}
	if string(event.Type) != "payment_intent.succeeded" {
		t.Errorf("event type = %q", event.Type)
	}
	if got := EventIntentID(&event); got != "pi_123" {
		t.Errorf("intent id = %q, want pi_123", got)
	}

	if _, err := ParseEventUnverified([]byte("not json")); err == nil {
		t.Error("expected error for invalid payload")
	}
}
