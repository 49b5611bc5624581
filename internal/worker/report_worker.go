package worker

// report_worker.go
// Processes close-report jobs: renders the end-of-shift PDF and emails it to
// the business owner. Rendering reads a finalized shift — nothing here may
// alter the shift record.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/infra"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CloseReportWorker renders and emails the "corte de caja" for closed shifts.
type CloseReportWorker struct {
	shifts      repository.ShiftRepository
	businesses  repository.BusinessRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewCloseReportWorker(shifts repository.ShiftRepository, businesses repository.BusinessRepository, mailer *infra.Mailer, storagePath string) *CloseReportWorker {
	return &CloseReportWorker{shifts: shifts, businesses: businesses, mailer: mailer, storagePath: storagePath}
}

// Process renders the PDF and sends it to the owner. A missing owner email is
// not an error — the report simply stays on disk.
func (w *CloseReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CloseReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}

	shiftID, err := uuid.Parse(payload.ShiftID)
	if err != nil {
		log.Error().Str("shift_id", payload.ShiftID).Msg("report_worker: invalid shift id")
		return nil
	}
	businessID, err := uuid.Parse(payload.BusinessID)
	if err != nil {
		log.Error().Str("business_id", payload.BusinessID).Msg("report_worker: invalid business id")
		return nil
	}

	shift, err := w.shifts.FindByID(ctx, businessID, shiftID)
	if err != nil {
		return fmt.Errorf("report_worker: load shift: %w", err)
	}
	business, err := w.businesses.FindByID(ctx, businessID)
	if err != nil {
		return fmt.Errorf("report_worker: load business: %w", err)
	}

	pdfPath, err := infra.GenerateShiftClosePDF(shift, business, w.storagePath)
	if err != nil {
		return fmt.Errorf("report_worker: render pdf: %w", err)
	}

	if business.OwnerEmail == nil || *business.OwnerEmail == "" {
		log.Warn().Str("business_id", businessID.String()).Msg("report_worker: no owner email — report saved only")
		return nil
	}

	subject := fmt.Sprintf("Corte de caja — %s", business.Name)
	body := fmt.Sprintf("Se adjunta el corte de caja del %s.", shift.StartTime.Format("02/01/2006"))
	if err := w.mailer.SendCloseReport(*business.OwnerEmail, subject, body, pdfPath); err != nil {
		return fmt.Errorf("report_worker: send email: %w", err)
	}

	log.Info().Str("shift_id", shiftID.String()).Str("to", *business.OwnerEmail).Msg("report_worker: corte sent")
	return nil
}
