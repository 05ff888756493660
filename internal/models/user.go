package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a portal account. Passwords are bcrypt hashes and never serialize.
// Accounts are deactivated via IsActive rather than deleted, so donation and
// task history keeps its author.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"size:20;not null;default:'volunteer'" json:"role"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	Email     string    `gorm:"size:255" json:"email"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
