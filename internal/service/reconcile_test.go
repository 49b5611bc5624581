package service_test

import (
	"testing"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementTotals(t *testing.T) {
	movs := []model.Movement{
		{Type: model.MovementIn, Amount: dec(200)},
		{Type: model.MovementOut, Amount: dec(50)},
		{Type: model.MovementIn, Amount: dec(30.50)},
		{Type: model.MovementOut, Amount: dec(10.25)},
	}

	entries, exits := service.MovementTotals(movs)
	assert.Equal(t, "230.5", entries.String())
	assert.Equal(t, "60.25", exits.String())
}

func TestMovementTotals_Empty(t *testing.T) {
	entries, exits := service.MovementTotals(nil)
	assert.True(t, entries.IsZero())
	assert.True(t, exits.IsZero())
}

func TestReconcile(t *testing.T) {
	movs := []model.Movement{
		{Type: model.MovementIn, Amount: dec(200)},
		{Type: model.MovementOut, Amount: dec(50)},
	}

	// expected = 1000 + 420 + 200 − 50 = 1570
	expected, difference := service.Reconcile(dec(1000), movs, dec(420), dec(1570))
	assert.Equal(t, "1570", expected.String())
	assert.Equal(t, "0", difference.String())

	// Shortage: counted 20 less than expected.
	_, difference = service.Reconcile(dec(1000), movs, dec(420), dec(1550))
	assert.Equal(t, "-20", difference.String())

	// Overage: counted 5 more.
	_, difference = service.Reconcile(dec(1000), movs, dec(420), dec(1575))
	assert.Equal(t, "5", difference.String())
}

func TestReconcile_CentPrecision(t *testing.T) {
	// Decimal arithmetic: 0.1 + 0.2 is exactly 0.3, no float drift.
	expected, difference := service.Reconcile(dec(0.1), nil, dec(0.2), dec(0.3))
	assert.Equal(t, "0.3", expected.String())
	assert.True(t, difference.IsZero())
}

func TestAverageTicket(t *testing.T) {
	avg := service.AverageTicket(dec(750), 3)
	require.NotNil(t, avg)
	assert.Equal(t, "250", avg.String())

	avg = service.AverageTicket(dec(100), 3)
	require.NotNil(t, avg)
	assert.Equal(t, "33.33", avg.String())
}

func TestAverageTicket_NoTickets(t *testing.T) {
	assert.Nil(t, service.AverageTicket(decimal.Zero, 0))
	assert.Nil(t, service.AverageTicket(dec(500), 0))
}
