package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift statuses. A shift is the unit of cash reconciliation: one continuous
// register session from open to close ("caja").
const (
	ShiftOpen   = "open"
	ShiftClosed = "closed"
)

// Movement types.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// PaymentTotal is a count+amount pair for one payment method, derived from the
// orders attributed to the shift's window at close time.
type PaymentTotal struct {
	Count  int             `gorm:"not null;default:0"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// Shift tracks one register session. InitialCash, the movement list and the
// per-method totals are frozen the instant Status flips to "closed"; closed
// shifts are write-once history. At most one shift per business may be open,
// enforced by a partial unique index on (business_id) WHERE status = 'open'.
type Shift struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"type:varchar(10);not null;default:'open'"`

	InitialCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StartTime   time.Time       `gorm:"not null"`
	EndTime     *time.Time

	// Per-method sale totals, populated at close. Only cash enters the
	// expectation formula; cards and transfers never touch the drawer.
	SalesCash       PaymentTotal `gorm:"embedded;embeddedPrefix:sales_cash_"`
	SalesCreditCard PaymentTotal `gorm:"embedded;embeddedPrefix:sales_credit_"`
	SalesDebitCard  PaymentTotal `gorm:"embedded;embeddedPrefix:sales_debit_"`
	SalesTransfer   PaymentTotal `gorm:"embedded;embeddedPrefix:sales_transfer_"`

	// FinalCashExpected = initialCash + cash sales + manual ins − manual outs.
	FinalCashExpected *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// FinalCashActual is the physical count declared by the cashier.
	FinalCashActual *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// CashOut is withdrawn from the drawer at close. It reduces the float
	// carried to the next shift but never enters Difference.
	CashOut *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Difference = finalCashActual − finalCashExpected. Positive = overage.
	Difference *decimal.Decimal `gorm:"type:decimal(12,2)"`

	OpenedByID uuid.UUID  `gorm:"type:uuid;not null"`
	ClosedByID *uuid.UUID `gorm:"type:uuid"`

	Movements []Movement `gorm:"foreignKey:ShiftID"`

	CreatedAt time.Time
	UpdatedAt time.Time

	ClosedBy *User `gorm:"foreignKey:ClosedByID"`
}

// Movement is an immutable entry in the shift's manual cash ledger: a drawer
// top-up (in) or withdrawal (out) that is not a sale. Movements are NEVER
// updated or deleted — corrections append a compensating entry of the
// opposite type that references the original via ReversesID.
type Movement struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Type: "in" | "out". Amount is always positive; Type carries direction.
	Type       string          `gorm:"type:varchar(3);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason     string          `gorm:"not null"`
	ReversesID *uuid.UUID      `gorm:"type:uuid"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
}
