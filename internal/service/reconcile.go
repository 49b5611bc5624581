package service

// reconcile.go — pure cash reconciliation for a closing shift.
//
// Expected cash is re-derived from the immutable movement ledger and the sales
// log every time, never read from a running counter:
//
//	finalCashExpected = initialCash + cashSales + Σ(in) − Σ(out)
//	difference        = finalCashActual − finalCashExpected
//
// Card and transfer totals are aggregated per method for reporting but never
// enter the expectation — they do not pass through the physical drawer.

import (
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/repository"

	"github.com/shopspring/decimal"
)

// SalesTotals groups per-method sale aggregates for one shift window.
type SalesTotals struct {
	Cash       model.PaymentTotal
	CreditCard model.PaymentTotal
	DebitCard  model.PaymentTotal
	Transfer   model.PaymentTotal
}

func salesTotalsFromBreakdown(sums map[string]repository.PaymentBreakdown) SalesTotals {
	pick := func(method string) model.PaymentTotal {
		b := sums[method]
		return model.PaymentTotal{Count: b.Count, Amount: b.Total}
	}
	return SalesTotals{
		Cash:       pick(model.PaymentCash),
		CreditCard: pick(model.PaymentCreditCard),
		DebitCard:  pick(model.PaymentDebitCard),
		Transfer:   pick(model.PaymentTransfer),
	}
}

// MovementTotals sums the manual ledger: entries (type in) and exits (type out).
// Amounts are stored positive; order of the slice does not matter.
func MovementTotals(movs []model.Movement) (entries, exits decimal.Decimal) {
	entries, exits = decimal.Zero, decimal.Zero
	for _, m := range movs {
		switch m.Type {
		case model.MovementIn:
			entries = entries.Add(m.Amount)
		case model.MovementOut:
			exits = exits.Add(m.Amount)
		}
	}
	return entries, exits
}

// Reconcile computes the expected drawer cash and the signed discrepancy for a
// closing shift. Positive difference = overage, negative = shortage. cashOut is
// deliberately absent: it only reduces the float carried to the next shift.
func Reconcile(initialCash decimal.Decimal, movs []model.Movement, cashSales, finalCashActual decimal.Decimal) (expected, difference decimal.Decimal) {
	entries, exits := MovementTotals(movs)
	expected = initialCash.Add(cashSales).Add(entries).Sub(exits)
	difference = finalCashActual.Sub(expected)
	return expected, difference
}

// AverageTicket returns income divided by ticket count, or nil when the shift
// had no tickets — the metric is undefined then, never a division fault.
func AverageTicket(totalIncome decimal.Decimal, tickets int) *decimal.Decimal {
	if tickets == 0 {
		return nil
	}
	avg := totalIncome.Div(decimal.NewFromInt(int64(tickets))).Round(2)
	return &avg
}
