package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harborlight/foundation-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrEmailSubscribed    = errors.New("email already subscribed")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidUnsubToken  = errors.New("invalid or expired unsubscribe token")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

const unsubscribePurpose = "newsletter_unsubscribe"

type NewsletterService struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
}

func NewNewsletterService(db *gorm.DB, secret string, tokenTTL time.Duration) *NewsletterService {
	return &NewsletterService{db: db, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (s *NewsletterService) Subscribe(email string) (*models.NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || len(email) < 5 {
		return nil, ErrInvalidEmail
	}

	var existing models.NewsletterSubscriber
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Active {
			return nil, ErrEmailSubscribed
		}
		// Previously unsubscribed; opt back in.
		if err := s.db.Model(&existing).Update("active", true).Error; err != nil {
			return nil, fmt.Errorf("reactivate subscriber: %w", err)
		}
		existing.Active = true
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}

	sub := models.NewsletterSubscriber{Email: email, Active: true}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return &sub, nil
}

type unsubscribeClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// UnsubscribeToken signs a one-click unsubscribe token for email links.
func (s *NewsletterService) UnsubscribeToken(email string) (string, error) {
	claims := unsubscribeClaims{
		Purpose: unsubscribePurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(strings.TrimSpace(email)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseUnsubscribeToken validates the token and returns the subject email.
func (s *NewsletterService) ParseUnsubscribeToken(tokenString string) (string, error) {
	var claims unsubscribeClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Purpose != unsubscribePurpose || claims.Subject == "" {
		return "", ErrInvalidUnsubToken
	}
	return claims.Subject, nil
}

func (s *NewsletterService) Unsubscribe(tokenString string) error {
	email, err := s.ParseUnsubscribeToken(tokenString)
	if err != nil {
		return err
	}

	result := s.db.Model(&models.NewsletterSubscriber{}).
		Where("email = ?", email).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

func (s *NewsletterService) List(page, limit int) ([]models.NewsletterSubscriber, int64, error) {
	var subs []models.NewsletterSubscriber
	var total int64

	s.db.Model(&models.NewsletterSubscriber{}).Count(&total)
	err := s.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subs).Error
	return subs, total, err
}
