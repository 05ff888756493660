package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// ContentService is the back office for marketing content: news, events,
// testimonials, impact metrics and documents.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// --- News ---

func (s *ContentService) ListNews(publishedOnly bool, page, limit int) ([]models.NewsPost, int64, error) {
	var posts []models.NewsPost
	var total int64

	query := s.db.Model(&models.NewsPost{})
	if publishedOnly {
		query = query.Where("published = true")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count news posts: %w", err)
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (s *ContentService) GetNews(id uuid.UUID, publishedOnly bool) (*models.NewsPost, error) {
	var post models.NewsPost
	query := s.db.Where("id = ?", id)
	if publishedOnly {
		query = query.Where("published = true")
	}
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup news post: %w", err)
	}
	return &post, nil
}

func (s *ContentService) CreateNews(authorID uuid.UUID, title, body, coverImageURL string, published bool) (*models.NewsPost, error) {
	if title == "" || body == "" {
		return nil, errors.New("title and body are required")
	}

	post := models.NewsPost{
		ID:            uuid.New(),
		Title:         title,
		Body:          body,
		CoverImageURL: coverImageURL,
		Published:     published,
		AuthorID:      authorID,
	}
	if published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create news post: %w", err)
	}
	return &post, nil
}

func (s *ContentService) UpdateNews(id uuid.UUID, title, body, coverImageURL string, published bool) (*models.NewsPost, error) {
	post, err := s.GetNews(id, false)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Body = body
	post.CoverImageURL = coverImageURL
	if published && !post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	post.Published = published

	if err := s.db.Save(post).Error; err != nil {
		return nil, fmt.Errorf("update news post: %w", err)
	}
	return post, nil
}

func (s *ContentService) DeleteNews(id uuid.UUID) error {
	return s.deleteByID(&models.NewsPost{}, id)
}

// --- Events ---

func (s *ContentService) ListEvents(publishedOnly, upcomingOnly bool, page, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	query := s.db.Model(&models.Event{})
	if publishedOnly {
		query = query.Where("published = true")
	}
	if upcomingOnly {
		query = query.Where("starts_at >= ?", time.Now())
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	err := query.Order("starts_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}

func (s *ContentService) CreateEvent(event *models.Event) error {
	if event.Title == "" || event.StartsAt.IsZero() {
		return errors.New("title and starts_at are required")
	}
	event.ID = uuid.New()
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *ContentService) UpdateEvent(id uuid.UUID, updated *models.Event) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup event: %w", err)
	}

	event.Title = updated.Title
	event.Description = updated.Description
	event.Location = updated.Location
	event.StartsAt = updated.StartsAt
	event.EndsAt = updated.EndsAt
	event.Published = updated.Published

	if err := s.db.Save(&event).Error; err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &event, nil
}

func (s *ContentService) DeleteEvent(id uuid.UUID) error {
	return s.deleteByID(&models.Event{}, id)
}

// --- Testimonials ---

func (s *ContentService) ListTestimonials(approvedOnly bool) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	query := s.db.Order("created_at DESC")
	if approvedOnly {
		query = query.Where("approved = true")
	}
	err := query.Find(&testimonials).Error
	return testimonials, err
}

func (s *ContentService) CreateTestimonial(authorName, quote string, approved bool) (*models.Testimonial, error) {
	if authorName == "" || quote == "" {
		return nil, errors.New("author name and quote are required")
	}
	t := models.Testimonial{ID: uuid.New(), AuthorName: authorName, Quote: quote, Approved: approved}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return &t, nil
}

func (s *ContentService) UpdateTestimonial(id uuid.UUID, authorName, quote string) (*models.Testimonial, error) {
	if authorName == "" || quote == "" {
		return nil, errors.New("author name and quote are required")
	}

	var t models.Testimonial
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup testimonial: %w", err)
	}

	t.AuthorName = authorName
	t.Quote = quote
	if err := s.db.Save(&t).Error; err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	return &t, nil
}

func (s *ContentService) SetTestimonialApproval(id uuid.UUID, approved bool) error {
	result := s.db.Model(&models.Testimonial{}).Where("id = ?", id).Update("approved", approved)
	if result.Error != nil {
		return fmt.Errorf("update testimonial: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ContentService) DeleteTestimonial(id uuid.UUID) error {
	return s.deleteByID(&models.Testimonial{}, id)
}

// --- Impact metrics ---

func (s *ContentService) ListImpactMetrics() ([]models.ImpactMetric, error) {
	var impactMetrics []models.ImpactMetric
	err := s.db.Order("sort_order ASC, created_at ASC").Find(&impactMetrics).Error
	return impactMetrics, err
}

func (s *ContentService) CreateImpactMetric(label string, value int64, unit string, sortOrder int) (*models.ImpactMetric, error) {
	if label == "" {
		return nil, errors.New("label is required")
	}
	m := models.ImpactMetric{ID: uuid.New(), Label: label, Value: value, Unit: unit, SortOrder: sortOrder}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create impact metric: %w", err)
	}
	return &m, nil
}

func (s *ContentService) UpdateImpactMetric(id uuid.UUID, label string, value int64, unit string, sortOrder int) (*models.ImpactMetric, error) {
	var m models.ImpactMetric
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup impact metric: %w", err)
	}

	m.Label = label
	m.Value = value
	m.Unit = unit
	m.SortOrder = sortOrder
	if err := s.db.Save(&m).Error; err != nil {
		return nil, fmt.Errorf("update impact metric: %w", err)
	}
	return &m, nil
}

func (s *ContentService) DeleteImpactMetric(id uuid.UUID) error {
	return s.deleteByID(&models.ImpactMetric{}, id)
}

// --- Documents ---

func (s *ContentService) ListDocuments(publishedOnly bool, category string) ([]models.Document, error) {
	var docs []models.Document
	query := s.db.Order("created_at DESC")
	if publishedOnly {
		query = query.Where("published = true")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Find(&docs).Error
	return docs, err
}

func (s *ContentService) CreateDocument(title, url, category string, published bool) (*models.Document, error) {
	if title == "" || url == "" {
		return nil, errors.New("title and url are required")
	}
	d := models.Document{ID: uuid.New(), Title: title, URL: url, Category: category, Published: published}
	if err := s.db.Create(&d).Error; err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return &d, nil
}

func (s *ContentService) UpdateDocument(id uuid.UUID, title, url, category string, published bool) (*models.Document, error) {
	if title == "" || url == "" {
		return nil, errors.New("title and url are required")
	}

	var d models.Document
	if err := s.db.First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup document: %w", err)
	}

	d.Title = title
	d.URL = url
	d.Category = category
	d.Published = published
	if err := s.db.Save(&d).Error; err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return &d, nil
}

func (s *ContentService) DeleteDocument(id uuid.UUID) error {
	return s.deleteByID(&models.Document{}, id)
}

func (s *ContentService) deleteByID(model interface{}, id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
