package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted on orders. Only PaymentCash passes through the
// physical drawer; the rest are tracked per method for reporting.
const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit_card"
	PaymentDebitCard  = "debit_card"
	PaymentTransfer   = "transfer"
)

// Order statuses.
const (
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
	OrderPending   = "pending"
)

// Order is a completed sale. The shift ledger consumes orders READ-ONLY as the
// source of per-method sale totals; order lifecycle is owned elsewhere.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_business_created"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'completed'"`
	// Source: "pos" | "online" — kitchen/online orders settle through the same drawer
	Source    string    `gorm:"type:varchar(20);not null;default:'pos'"`
	CreatedAt time.Time `gorm:"index:idx_orders_business_created"`
}
