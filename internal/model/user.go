package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores staff members with role-based access, scoped to one business.
// Role: "admin" | "manager" | "cashier"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	// PIN for quick register unlock on shared POS terminals
	PIN       *string `gorm:"type:varchar(8)"`
	Role      string  `gorm:"type:varchar(20);not null"`
	Active    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Business *Business `gorm:"foreignKey:BusinessID"`
}
