package model

import (
	"time"

	"github.com/google/uuid"
)

// Business is the tenant boundary. Every shift, movement, order and user
// belongs to exactly one business.
type Business struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null"`
	Slug       string    `gorm:"uniqueIndex;not null"`
	OwnerEmail *string
	Phone      *string
	// Currency code for report rendering, e.g. "MXN"
	Currency  string `gorm:"type:varchar(3);not null;default:'MXN'"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
