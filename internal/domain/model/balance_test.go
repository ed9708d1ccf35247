package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
)

func TestComputeOutstandingBalance(t *testing.T) {
	principal := decimal.NewFromInt(10_000)
	interest := decimal.NewFromInt(500)
	paidAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	charges := []model.LoanCharge{
		{ID: "lc-1", Amount: decimal.NewFromInt(100)},
		{ID: "lc-2", Amount: decimal.NewFromInt(50), DeductFromPrincipal: true},
		{ID: "lc-3", Amount: decimal.NewFromInt(75), Waived: true},
	}
	payments := []model.Payment{
		{ID: "p-1", PrincipalPaid: decimal.NewFromInt(800), InterestPaid: decimal.NewFromInt(100), PaidAt: paidAt},
		{ID: "p-2", PrincipalPaid: decimal.NewFromInt(200), PenaltyPaid: decimal.NewFromInt(25), PaidAt: paidAt},
	}

	t.Run("counts only effective non-deducted charges", func(t *testing.T) {
		// 10,000 + 500 + 100 - (800+100) - (200+25) = 9,475.
		got := model.ComputeOutstandingBalance(principal, interest, charges, payments)
		assert.True(t, got.Equal(decimal.NewFromInt(9_475)), "got %s", got)
	})

	t.Run("no history means principal plus interest", func(t *testing.T) {
		got := model.ComputeOutstandingBalance(principal, interest, nil, nil)
		assert.True(t, got.Equal(decimal.NewFromInt(10_500)))
	})

	t.Run("waiving a charge lowers the derived balance", func(t *testing.T) {
		before := model.ComputeOutstandingBalance(principal, interest, charges, nil)

		waived, err := charges[0].Waive()
		assert.NoError(t, err)
		after := model.ComputeOutstandingBalance(principal, interest,
			[]model.LoanCharge{waived, charges[1], charges[2]}, nil)

		assert.True(t, after.Equal(before.Sub(decimal.NewFromInt(100))))
	})

	t.Run("waiving twice fails", func(t *testing.T) {
		waived, err := charges[0].Waive()
		assert.NoError(t, err)
		_, err = waived.Waive()
		assert.Error(t, err)
	})
}
