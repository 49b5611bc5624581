package infra

// pdf.go — end-of-shift report ("corte de caja") rendering with go-pdf/fpdf.
// Layout: header with shift id and dates, income summary (cash sales, manual
// entries/exits, expected total), the movement ledger, and the closing block
// (cashier, counted cash, withdrawal, difference). Reads a finalized shift and
// never mutates it.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateShiftClosePDF writes the corte PDF for a closed shift and returns
// the absolute path of the generated file.
func GenerateShiftClosePDF(shift *model.Shift, business *model.Business, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("corte_%s.pdf", shift.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	money := func(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "CORTE DE CAJA", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, business.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("ID: %s", shift.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Apertura: %s", shift.StartTime.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	if shift.EndTime != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Cierre: %s", shift.EndTime.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Income summary ────────────────────────────────────────────────────────
	entries, exits := decimal.Zero, decimal.Zero
	for _, m := range shift.Movements {
		if m.Type == model.MovementIn {
			entries = entries.Add(m.Amount)
		} else {
			exits = exits.Add(m.Amount)
		}
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "INGRESOS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Fondo Inicial: %s", money(shift.InitialCash)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Ventas en Efectivo: %s", money(shift.SalesCash.Amount)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Entradas Manuales: %s", money(entries)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Salidas Manuales: %s", money(exits)), "", 1, "L", false, 0, "")
	if shift.FinalCashExpected != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Total Esperado: %s", money(*shift.FinalCashExpected)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Movements ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "MOVIMIENTOS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if len(shift.Movements) == 0 {
		pdf.CellFormat(0, 5, "Sin movimientos", "", 1, "L", false, 0, "")
	} else {
		for _, m := range shift.Movements {
			sign := "+"
			if m.Type == model.MovementOut {
				sign = "-"
			}
			line := fmt.Sprintf("%s %s - %s  (%s)", sign, money(m.Amount), m.Reason, m.CreatedAt.Format("15:04"))
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(3)

	// ── Closing block ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "CIERRE", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if shift.ClosedBy != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Cajero: %s", shift.ClosedBy.Username), "", 1, "L", false, 0, "")
	}
	if shift.FinalCashActual != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Contado en Caja: %s", money(*shift.FinalCashActual)), "", 1, "L", false, 0, "")
	}
	if shift.CashOut != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Retiro de Caja: %s", money(*shift.CashOut)), "", 1, "L", false, 0, "")
	}
	if shift.Difference != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Diferencia: %s", money(*shift.Difference)), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
