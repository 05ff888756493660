package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestUnsubscribeTokenRoundTrip(t *testing.T) {
	s := NewNewsletterService(nil, "newsletter-secret", time.Hour)

	token, err := s.UnsubscribeToken("Pat@Example.org")
	if err != nil {
		t.Fatalf("token signing failed: %v", err)
	}

	email, err := s.ParseUnsubscribeToken(token)
	if err != nil {
		t.Fatalf("token parse failed: %v", err)
	}
	if email != "pat@example.org" {
		t.Errorf("email = %q, want normalized pat@example.org", email)
	}
}

func TestUnsubscribeTokenRejectsWrongSecret(t *testing.T) {
	signer := NewNewsletterService(nil, "secret-a", time.Hour)
	verifier := NewNewsletterService(nil, "secret-b", time.Hour)

	token, err := signer.UnsubscribeToken("pat@example.org")
	if err != nil {
		t.Fatalf("token signing failed: %v", err)
	}
	if _, err := verifier.ParseUnsubscribeToken(token); !errors.Is(err, ErrInvalidUnsubToken) {
		t.Errorf("expected ErrInvalidUnsubToken, got %v", err)
	}
}

func TestUnsubscribeTokenRejectsExpired(t *testing.T) {
	s := NewNewsletterService(nil, "newsletter-secret", -time.Minute)

	token, err := s.UnsubscribeToken("pat@example.org")
	if err != nil {
		t.Fatalf("token signing failed: %v", err)
	}
	if _, err := s.ParseUnsubscribeToken(token); !errors.Is(err, ErrInvalidUnsubToken) {
		t.Errorf("expected ErrInvalidUnsubToken for expired token, got %v", err)
	}
}

func TestUnsubscribeTokenRejectsWrongPurpose(t *testing.T) {
	s := NewNewsletterService(nil, "newsletter-secret", time.Hour)

	claims := unsubscribeClaims{
		Purpose: "password_reset",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "pat@example.org",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("newsletter-secret"))
	if err != nil {
		t.Fatalf("token signing failed: %v", err)
	}

	if _, err := s.ParseUnsubscribeToken(token); !errors.Is(err, ErrInvalidUnsubToken) {
		t.Errorf("expected ErrInvalidUnsubToken for wrong purpose, got %v", err)
	}
}

func TestUnsubscribeTokenRejectsGarbage(t *testing.T) {
	s := NewNewsletterService(nil, "newsletter-secret", time.Hour)
	if _, err := s.ParseUnsubscribeToken("not.a.jwt"); !errors.Is(err, ErrInvalidUnsubToken) {
		t.Errorf("expected ErrInvalidUnsubToken, got %v", err)
	}
}
