package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsPost is a news/blog entry. Unpublished posts are only visible in the
// back office.
type NewsPost struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Body          string     `gorm:"type:text;not null" json:"body"`
	CoverImageURL string     `gorm:"size:1024" json:"cover_image_url"`
	Published     bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt   *time.Time `json:"published_at"`
	AuthorID      uuid.UUID  `gorm:"type:uuid" json:"author_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Published   bool      `gorm:"not null;default:false" json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Testimonial struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthorName string    `gorm:"size:255;not null" json:"author_name"`
	Quote      string    `gorm:"type:text;not null" json:"quote"`
	Approved   bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ImpactMetric is a headline number for the marketing pages
// ("1,200 meals served").
type ImpactMetric struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Label     string    `gorm:"size:255;not null" json:"label"`
	Value     int64     `gorm:"not null" json:"value"`
	Unit      string    `gorm:"size:50" json:"unit"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is a downloadable resource (annual report, bylaws). The file
// itself lives at URL; we only keep metadata.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	Category  string    `gorm:"size:100;index" json:"category"`
	Published bool      `gorm:"not null;default:true" json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
