package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenShiftRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"min=0"`
}

type MovementRequest struct {
	Type   string          `json:"type"   validate:"required,oneof=in out"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Reason string          `json:"reason" validate:"required,min=1"`
}

type CloseShiftRequest struct {
	FinalCashActual decimal.Decimal `json:"finalCashActual" validate:"min=0"`
	CashOut         decimal.Decimal `json:"cashOut"         validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	ReversesID *string         `json:"reversesId,omitempty"`
	Date       string          `json:"date"`
}

type PaymentTotalResponse struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type ShiftResponse struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	InitialCash decimal.Decimal `json:"initialCash"`
	StartTime   string          `json:"startTime"`
	EndTime     *string         `json:"endTime,omitempty"`

	Movements []MovementResponse `json:"movements"`

	TotalSalesCash  PaymentTotalResponse `json:"totalSalesCash"`
	TotalCreditCard PaymentTotalResponse `json:"totalCreditCard"`
	TotalDebitCard  PaymentTotalResponse `json:"totalDebitCard"`
	TotalTransfer   PaymentTotalResponse `json:"totalTransfer"`

	FinalCashExpected *decimal.Decimal `json:"finalCashExpected,omitempty"`
	FinalCashActual   *decimal.Decimal `json:"finalCashActual,omitempty"`
	CashOut           *decimal.Decimal `json:"cashOut,omitempty"`
	Difference        *decimal.Decimal `json:"difference,omitempty"`

	// AverageTicket = total income / ticket count; omitted when no tickets.
	AverageTicket *decimal.Decimal `json:"averageTicket,omitempty"`

	ClosedBy *string `json:"closedBy,omitempty"`
}

// StatusResponse answers "is there an open register right now?".
type StatusResponse struct {
	Status string         `json:"status"` // "open" | "closed"
	Shift  *ShiftResponse `json:"shift,omitempty"`
}

type HistoryResponse struct {
	Data  []ShiftResponse `json:"data"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int64           `json:"total"`
}
