package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated shopper.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName keeps gorm aligned with the goose schema.
func (User) TableName() string { return "users" }
