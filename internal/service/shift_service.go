package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/dto"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/repository"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ShiftService is the register-session state machine: closed → open → closed.
// All operations are tenant-scoped; the caller's identity comes from the JWT
// and is trusted here.
type ShiftService interface {
	Open(ctx context.Context, businessID, userID uuid.UUID, req dto.OpenShiftRequest) (*dto.ShiftResponse, error)
	CurrentStatus(ctx context.Context, businessID uuid.UUID) (*dto.StatusResponse, error)
	PostMovement(ctx context.Context, businessID, userID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error)
	ReverseMovement(ctx context.Context, businessID, userID, movementID uuid.UUID) (*dto.MovementResponse, error)
	Close(ctx context.Context, businessID, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error)
	ReopenWithFloat(ctx context.Context, businessID, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error)
	Get(ctx context.Context, businessID, shiftID uuid.UUID) (*dto.ShiftResponse, error)
	History(ctx context.Context, businessID uuid.UUID, page, limit int) (*dto.HistoryResponse, error)
}

type shiftService struct {
	shifts     repository.ShiftRepository
	orders     repository.OrderRepository
	dispatcher *worker.Dispatcher // nil in unit tests — close reports are best-effort
}

func NewShiftService(shifts repository.ShiftRepository, orders repository.OrderRepository, dispatcher *worker.Dispatcher) ShiftService {
	return &shiftService{shifts: shifts, orders: orders, dispatcher: dispatcher}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *shiftService) Open(ctx context.Context, businessID, userID uuid.UUID, req dto.OpenShiftRequest) (*dto.ShiftResponse, error) {
	if req.Amount.IsNegative() {
		return nil, apierror.Validation("El fondo inicial no puede ser negativo")
	}

	// Fast path check; the partial unique index is the real guard under races.
	if _, err := s.shifts.FindOpenByBusiness(ctx, businessID); err == nil {
		return nil, apierror.Conflict("Ya existe una caja abierta para este negocio")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Persistence(err)
	}

	shift := &model.Shift{
		BusinessID:  businessID,
		Status:      model.ShiftOpen,
		InitialCash: req.Amount,
		StartTime:   time.Now(),
		OpenedByID:  userID,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Ya existe una caja abierta para este negocio")
		}
		return nil, apierror.Persistence(err)
	}
	return buildShiftResponse(shift), nil
}

// ── CurrentStatus ─────────────────────────────────────────────────────────────

func (s *shiftService) CurrentStatus(ctx context.Context, businessID uuid.UUID) (*dto.StatusResponse, error) {
	shift, err := s.shifts.FindOpenByBusiness(ctx, businessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.StatusResponse{Status: "closed"}, nil
	}
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	return &dto.StatusResponse{Status: "open", Shift: buildShiftResponse(shift)}, nil
}

// ── PostMovement ──────────────────────────────────────────────────────────────

func (s *shiftService) PostMovement(ctx context.Context, businessID, userID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error) {
	if req.Type != model.MovementIn && req.Type != model.MovementOut {
		return nil, apierror.Validation("Tipo de movimiento invalido")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("El monto debe ser mayor a cero")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apierror.Validation("El concepto del movimiento es obligatorio")
	}

	shift, err := s.shifts.FindOpenByBusiness(ctx, businessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Conflict("No hay caja abierta")
	}
	if err != nil {
		return nil, apierror.Persistence(err)
	}

	mov := &model.Movement{
		ShiftID:   shift.ID,
		Type:      req.Type,
		Amount:    req.Amount,
		Reason:    reason,
		CreatedBy: userID,
	}
	if err := s.appendMovement(ctx, businessID, mov); err != nil {
		return nil, err
	}
	return buildMovementResponse(mov), nil
}

// ── ReverseMovement ───────────────────────────────────────────────────────────
// Movements are never edited or deleted; a correction appends a compensating
// entry of the opposite type for the same amount, linked to the original.

func (s *shiftService) ReverseMovement(ctx context.Context, businessID, userID, movementID uuid.UUID) (*dto.MovementResponse, error) {
	orig, err := s.shifts.FindMovement(ctx, businessID, movementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Movimiento no encontrado")
	}
	if err != nil {
		return nil, apierror.Persistence(err)
	}

	shift, err := s.shifts.FindOpenByBusiness(ctx, businessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Conflict("No hay caja abierta")
	}
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	if orig.ShiftID != shift.ID {
		return nil, apierror.Conflict("El movimiento pertenece a una caja ya cerrada")
	}

	reversed := model.MovementOut
	if orig.Type == model.MovementOut {
		reversed = model.MovementIn
	}
	mov := &model.Movement{
		ShiftID:    shift.ID,
		Type:       reversed,
		Amount:     orig.Amount,
		Reason:     "Reverso de: " + orig.Reason,
		ReversesID: &orig.ID,
		CreatedBy:  userID,
	}
	if err := s.appendMovement(ctx, businessID, mov); err != nil {
		return nil, err
	}
	return buildMovementResponse(mov), nil
}

func (s *shiftService) appendMovement(ctx context.Context, businessID uuid.UUID, mov *model.Movement) error {
	if err := s.shifts.AppendMovement(ctx, businessID, mov); err != nil {
		// The shift closed between our read and the locked insert.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Conflict("No hay caja abierta")
		}
		return apierror.Persistence(err)
	}
	return nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Derives all closing figures from the movement ledger plus the order log and
// persists them with the state flip in a single transactional write. The
// ledger sums come from a re-read under the close lock, so a movement posted
// concurrently with the close is never missing from FinalCashExpected.

func (s *shiftService) Close(ctx context.Context, businessID, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	if req.FinalCashActual.IsNegative() {
		return nil, apierror.Validation("El efectivo contado no puede ser negativo")
	}
	if req.CashOut.IsNegative() {
		return nil, apierror.Validation("El retiro no puede ser negativo")
	}
	if req.CashOut.GreaterThan(req.FinalCashActual) {
		return nil, apierror.Validation("El retiro no puede exceder el efectivo contado")
	}

	shift, err := s.shifts.FindOpenByBusiness(ctx, businessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Conflict("No hay caja abierta")
	}
	if err != nil {
		return nil, apierror.Persistence(err)
	}

	now := time.Now()
	sums, err := s.orders.SumCompletedByMethod(ctx, businessID, shift.StartTime, now)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	sales := salesTotalsFromBreakdown(sums)

	finalCashActual := req.FinalCashActual
	cashOut := req.CashOut
	shift.EndTime = &now
	shift.SalesCash = sales.Cash
	shift.SalesCreditCard = sales.CreditCard
	shift.SalesDebitCard = sales.DebitCard
	shift.SalesTransfer = sales.Transfer
	shift.FinalCashActual = &finalCashActual
	shift.CashOut = &cashOut
	shift.ClosedByID = &userID

	// Expectation and difference are computed from the ledger the repository
	// reads under its row lock, not from the unlocked read above.
	reconcile := func(movs []model.Movement) {
		expected, difference := Reconcile(shift.InitialCash, movs, sales.Cash.Amount, req.FinalCashActual)
		shift.FinalCashExpected = &expected
		shift.Difference = &difference
	}

	if err := s.shifts.Close(ctx, shift, reconcile); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Conflict("No hay caja abierta")
		}
		return nil, apierror.Persistence(err)
	}
	shift.Status = model.ShiftClosed

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueCloseReport(ctx, worker.CloseReportPayload{
			ShiftID:    shift.ID.String(),
			BusinessID: businessID.String(),
		}); err != nil {
			log.Error().Err(err).Str("shift_id", shift.ID.String()).Msg("failed to enqueue close report")
		}
	}

	return buildShiftResponse(shift), nil
}

// ── ReopenWithFloat ───────────────────────────────────────────────────────────
// Close-then-open composition: the new shift's float is the counted cash minus
// the withdrawal. Not atomic across the two primitives — if Open fails the
// close stays committed and the caller sees the error.

func (s *shiftService) ReopenWithFloat(ctx context.Context, businessID, userID uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	closed, err := s.Close(ctx, businessID, userID, req)
	if err != nil {
		return nil, err
	}
	carry := req.FinalCashActual.Sub(req.CashOut)
	opened, err := s.Open(ctx, businessID, userID, dto.OpenShiftRequest{Amount: carry})
	if err != nil {
		log.Error().Err(err).Str("closed_shift_id", closed.ID).Msg("reopen after close failed")
		return nil, err
	}
	return opened, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *shiftService) Get(ctx context.Context, businessID, shiftID uuid.UUID) (*dto.ShiftResponse, error) {
	shift, err := s.shifts.FindByID(ctx, businessID, shiftID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Caja no encontrada")
	}
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	return buildShiftResponse(shift), nil
}

func (s *shiftService) History(ctx context.Context, businessID uuid.UUID, page, limit int) (*dto.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	shifts, total, err := s.shifts.ListClosed(ctx, businessID, page, limit)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	data := make([]dto.ShiftResponse, len(shifts))
	for i := range shifts {
		data[i] = *buildShiftResponse(&shifts[i])
	}
	return &dto.HistoryResponse{Data: data, Page: page, Limit: limit, Total: total}, nil
}

// ── Response builders ─────────────────────────────────────────────────────────

func buildMovementResponse(m *model.Movement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:     m.ID.String(),
		Type:   m.Type,
		Amount: m.Amount,
		Reason: m.Reason,
		Date:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReversesID != nil {
		id := m.ReversesID.String()
		resp.ReversesID = &id
	}
	return resp
}

func buildShiftResponse(s *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ID:          s.ID.String(),
		Status:      s.Status,
		InitialCash: s.InitialCash,
		StartTime:   s.StartTime.Format(time.RFC3339),
		Movements:   make([]dto.MovementResponse, len(s.Movements)),

		TotalSalesCash:  dto.PaymentTotalResponse{Count: s.SalesCash.Count, Amount: s.SalesCash.Amount},
		TotalCreditCard: dto.PaymentTotalResponse{Count: s.SalesCreditCard.Count, Amount: s.SalesCreditCard.Amount},
		TotalDebitCard:  dto.PaymentTotalResponse{Count: s.SalesDebitCard.Count, Amount: s.SalesDebitCard.Amount},
		TotalTransfer:   dto.PaymentTotalResponse{Count: s.SalesTransfer.Count, Amount: s.SalesTransfer.Amount},

		FinalCashExpected: s.FinalCashExpected,
		FinalCashActual:   s.FinalCashActual,
		CashOut:           s.CashOut,
		Difference:        s.Difference,
	}
	for i := range s.Movements {
		resp.Movements[i] = *buildMovementResponse(&s.Movements[i])
	}
	if s.EndTime != nil {
		t := s.EndTime.Format(time.RFC3339)
		resp.EndTime = &t
	}
	if s.ClosedBy != nil {
		username := s.ClosedBy.Username
		resp.ClosedBy = &username
	}
	if s.Status == model.ShiftClosed {
		income := s.SalesCash.Amount.
			Add(s.SalesCreditCard.Amount).
			Add(s.SalesDebitCard.Amount).
			Add(s.SalesTransfer.Amount)
		tickets := s.SalesCash.Count + s.SalesCreditCard.Count + s.SalesDebitCard.Count + s.SalesTransfer.Count
		resp.AverageTicket = AverageTicket(income, tickets)
	}
	return resp
}
