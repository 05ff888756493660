package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/models"
	"gorm.io/gorm"
)

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

func (s *SubmissionService) Create(name, email, subject, message string) (*models.ContactSubmission, error) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if name == "" || message == "" {
		return nil, errors.New("name and message are required")
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	sub := models.ContactSubmission{
		ID:      uuid.New(),
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return &sub, nil
}

func (s *SubmissionService) List(unreadOnly bool, page, limit int) ([]models.ContactSubmission, int64, error) {
	var subs []models.ContactSubmission
	var total int64

	query := s.db.Model(&models.ContactSubmission{})
	if unreadOnly {
		query = query.Where("read = false")
	}
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subs).Error
	return subs, total, err
}

func (s *SubmissionService) MarkRead(id uuid.UUID) error {
	result := s.db.Model(&models.ContactSubmission{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("mark submission read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SubmissionService) Delete(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.ContactSubmission{})
	if result.Error != nil {
		return fmt.Errorf("delete submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
