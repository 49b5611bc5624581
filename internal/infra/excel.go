package infra

// excel.go — end-of-shift workbook built with excelize. One sheet: the cash
// balance table (float, cash sales, entries, exits, withdrawal, counted cash,
// difference), the per-method income breakdown with the average-ticket metric,
// and the full movement ledger. Read-only over the finalized shift.

import (
	"fmt"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// BuildShiftCloseWorkbook renders a closed shift into an xlsx file in memory.
// The caller is responsible for streaming and closing the returned file.
func BuildShiftCloseWorkbook(shift *model.Shift, business *model.Business) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Corte"
	f.SetSheetName("Sheet1", sheet)

	entries, exits := decimal.Zero, decimal.Zero
	for _, m := range shift.Movements {
		if m.Type == model.MovementIn {
			entries = entries.Add(m.Amount)
		} else {
			exits = exits.Add(m.Amount)
		}
	}

	money := func(d decimal.Decimal) string { return "$" + d.StringFixed(2) }
	moneyPtr := func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		return money(*d)
	}

	row := 1
	set := func(cells ...interface{}) error {
		for i, v := range cells {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	// ── Header ───────────────────────────────────────────────────────────────
	endTime := "-"
	if shift.EndTime != nil {
		endTime = shift.EndTime.Format("02/01/2006 15:04")
	}
	closedBy := "N/A"
	if shift.ClosedBy != nil {
		closedBy = shift.ClosedBy.Username
	}
	if err := set("Corte de Caja", business.Name); err != nil {
		return nil, err
	}
	if err := set("ID", shift.ID.String(), "Cajero", closedBy); err != nil {
		return nil, err
	}
	if err := set("Apertura", shift.StartTime.Format("02/01/2006 15:04"), "Cierre", endTime); err != nil {
		return nil, err
	}
	row++

	// ── Balance de caja (efectivo) ────────────────────────────────────────────
	if err := set("Balance de Caja"); err != nil {
		return nil, err
	}
	if err := set("Fondo inicial", "Ventas efectivo", "Entradas", "Salidas", "Retiros", "Contado en caja", "Diferencia"); err != nil {
		return nil, err
	}
	if err := set(
		money(shift.InitialCash),
		money(shift.SalesCash.Amount),
		money(entries),
		money(exits),
		moneyPtr(shift.CashOut),
		moneyPtr(shift.FinalCashActual),
		moneyPtr(shift.Difference),
	); err != nil {
		return nil, err
	}
	row++

	// ── Ingresos por metodo ──────────────────────────────────────────────────
	income := shift.SalesCash.Amount.
		Add(shift.SalesCreditCard.Amount).
		Add(shift.SalesDebitCard.Amount).
		Add(shift.SalesTransfer.Amount)
	tickets := shift.SalesCash.Count + shift.SalesCreditCard.Count + shift.SalesDebitCard.Count + shift.SalesTransfer.Count
	avgTicket := "-"
	if tickets > 0 {
		avgTicket = money(income.Div(decimal.NewFromInt(int64(tickets))).Round(2))
	}
	if err := set("Ingresos"); err != nil {
		return nil, err
	}
	if err := set("Efectivo", "T. Crédito", "T. Débito", "Transferencia", "Total", "Tickets", "Ticket promedio"); err != nil {
		return nil, err
	}
	if err := set(
		money(shift.SalesCash.Amount),
		money(shift.SalesCreditCard.Amount),
		money(shift.SalesDebitCard.Amount),
		money(shift.SalesTransfer.Amount),
		money(income),
		tickets,
		avgTicket,
	); err != nil {
		return nil, err
	}
	row++

	// ── Movimientos ──────────────────────────────────────────────────────────
	if err := set("Movimientos de Caja"); err != nil {
		return nil, err
	}
	if err := set("Hora", "Tipo", "Concepto", "Monto"); err != nil {
		return nil, err
	}
	if len(shift.Movements) == 0 {
		if err := set("Sin movimientos"); err != nil {
			return nil, err
		}
	}
	for _, m := range shift.Movements {
		tipo := "Entrada"
		if m.Type == model.MovementOut {
			tipo = "Salida"
		}
		if err := set(m.CreatedAt.Format("15:04"), tipo, m.Reason, money(m.Amount)); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "G", 18); err != nil {
		return nil, fmt.Errorf("excel: set col width: %w", err)
	}
	return f, nil
}
