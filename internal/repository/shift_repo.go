package repository

import (
	"context"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShiftRepository owns the durable state of register sessions. The
// one-open-shift-per-business invariant lives here, not in memory: Create
// relies on the partial unique index uni_shifts_open_per_business, and every
// write that depends on the shift still being open re-checks under a row lock.
// Closed shifts are write-once — no method mutates a closed shift.
type ShiftRepository interface {
	Create(ctx context.Context, s *model.Shift) error
	FindOpenByBusiness(ctx context.Context, businessID uuid.UUID) (*model.Shift, error)
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Shift, error)
	// Close persists all derived closing fields plus the state flip in one
	// transaction. The movement ledger is re-read under the row lock and handed
	// to reconcile before the write, so an append that committed after the
	// caller's unlocked read still lands in the closing figures. reconcile may
	// mutate s. Returns gorm.ErrRecordNotFound if the shift is no longer open.
	Close(ctx context.Context, s *model.Shift, reconcile func(movs []model.Movement)) error
	// AppendMovement inserts a ledger entry while holding a row lock on the
	// open shift, so concurrent posts serialize and none lands on a closed shift.
	AppendMovement(ctx context.Context, businessID uuid.UUID, m *model.Movement) error
	FindMovement(ctx context.Context, businessID, movementID uuid.UUID) (*model.Movement, error)
	ListMovements(ctx context.Context, shiftID uuid.UUID) ([]model.Movement, error)
	ListClosed(ctx context.Context, businessID uuid.UUID, page, limit int) ([]model.Shift, int64, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) Create(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shiftRepo) FindOpenByBusiness(ctx context.Context, businessID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND status = ?", businessID, model.ShiftOpen).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepo) FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("ClosedBy").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepo) Close(ctx context.Context, s *model.Shift, reconcile func(movs []model.Movement)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked model.Shift
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND business_id = ? AND status = ?", s.ID, s.BusinessID, model.ShiftOpen).
			First(&locked).Error; err != nil {
			return err
		}

		// The lock serializes against AppendMovement, so this read is the
		// definitive ledger for the closing figures.
		var movs []model.Movement
		if err := tx.Where("shift_id = ?", s.ID).
			Order("created_at ASC").
			Find(&movs).Error; err != nil {
			return err
		}
		s.Movements = movs
		if reconcile != nil {
			reconcile(movs)
		}

		return tx.Model(&model.Shift{}).
			Where("id = ?", s.ID).
			Updates(map[string]interface{}{
				"status":                model.ShiftClosed,
				"end_time":              s.EndTime,
				"sales_cash_count":      s.SalesCash.Count,
				"sales_cash_amount":     s.SalesCash.Amount,
				"sales_credit_count":    s.SalesCreditCard.Count,
				"sales_credit_amount":   s.SalesCreditCard.Amount,
				"sales_debit_count":     s.SalesDebitCard.Count,
				"sales_debit_amount":    s.SalesDebitCard.Amount,
				"sales_transfer_count":  s.SalesTransfer.Count,
				"sales_transfer_amount": s.SalesTransfer.Amount,
				"final_cash_expected":   s.FinalCashExpected,
				"final_cash_actual":     s.FinalCashActual,
				"cash_out":              s.CashOut,
				"difference":            s.Difference,
				"closed_by_id":          s.ClosedByID,
			}).Error
	})
}

func (r *shiftRepo) AppendMovement(ctx context.Context, businessID uuid.UUID, m *model.Movement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked model.Shift
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND business_id = ? AND status = ?", m.ShiftID, businessID, model.ShiftOpen).
			First(&locked).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
}

func (r *shiftRepo) FindMovement(ctx context.Context, businessID, movementID uuid.UUID) (*model.Movement, error) {
	var m model.Movement
	err := r.db.WithContext(ctx).
		Joins("JOIN shifts ON shifts.id = movements.shift_id").
		Where("movements.id = ? AND shifts.business_id = ?", movementID, businessID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *shiftRepo) ListMovements(ctx context.Context, shiftID uuid.UUID) ([]model.Movement, error) {
	var movs []model.Movement
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *shiftRepo) ListClosed(ctx context.Context, businessID uuid.UUID, page, limit int) ([]model.Shift, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Shift{}).
		Where("business_id = ? AND status = ?", businessID, model.ShiftClosed)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shifts []model.Shift
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND status = ?", businessID, model.ShiftClosed).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("ClosedBy").
		Order("end_time DESC").
		Offset(offset).Limit(limit).
		Find(&shifts).Error
	return shifts, total, err
}
