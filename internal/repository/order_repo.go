package repository

import (
	"context"
	"time"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentBreakdown is the count and summed amount of completed orders for one
// payment method inside a time window.
type PaymentBreakdown struct {
	Count int
	Total decimal.Decimal
}

// OrderRepository is the shift ledger's READ-ONLY window onto sales. The
// reconciliation engine derives per-method totals from it; nothing in this
// package writes orders.
type OrderRepository interface {
	SumCompletedByMethod(ctx context.Context, businessID uuid.UUID, from, to time.Time) (map[string]PaymentBreakdown, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) SumCompletedByMethod(ctx context.Context, businessID uuid.UUID, from, to time.Time) (map[string]PaymentBreakdown, error) {
	var rows []struct {
		PaymentMethod string
		Count         int
		Total         decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("business_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			businessID, model.OrderCompleted, from, to).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]PaymentBreakdown, len(rows))
	for _, row := range rows {
		sums[row.PaymentMethod] = PaymentBreakdown{Count: row.Count, Total: row.Total}
	}
	return sums, nil
}
