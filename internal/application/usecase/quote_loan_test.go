package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/application/usecase"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/calculation"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
)

func newQuoteUseCase() *usecase.QuoteLoanUseCase {
	return usecase.NewQuoteLoanUseCase(
		service.NewCalculator(calculation.DefaultRegistry()), discardLogger())
}

func TestQuoteLoan_Penalty(t *testing.T) {
	uc := newQuoteUseCase()

	t.Run("prices under the originating method", func(t *testing.T) {
		resp, err := uc.Penalty(context.Background(), dto.CalculatePenaltyRequest{
			Method:        "FLAT_RATE",
			OverdueDays:   10,
			OverdueAmount: decimal.NewFromInt(1_000),
			PenaltyRate:   decimal.NewFromInt(5),
			PenaltyType:   "PERCENTAGE_OF_OVERDUE",
		})
		require.NoError(t, err)

		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, 10, resp.Days)
		assert.Equal(t, "PERCENTAGE_OF_OVERDUE", resp.Type)
	})

	t.Run("rejects unknown penalty types", func(t *testing.T) {
		_, err := uc.Penalty(context.Background(), dto.CalculatePenaltyRequest{
			Method:      "FLAT_RATE",
			PenaltyType: "DOUBLE_OR_NOTHING",
		})
		assert.True(t, errors.Is(err, model.ErrValidation))
	})
}

func TestQuoteLoan_EarlySettlement(t *testing.T) {
	uc := newQuoteUseCase()

	resp, err := uc.EarlySettlement(context.Background(), dto.EarlySettlementRequest{
		Original:         calculationRequest("FLAT_RATE"),
		SettlementDate:   time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC),
		InstallmentsPaid: 6,
	})
	require.NoError(t, err)

	assert.True(t, resp.Penalty.IsZero())
	assert.True(t, resp.Rebate.IsPositive(), "rule of 78 rebates part of the remaining interest")
	assert.True(t, resp.TotalSettlement.LessThan(resp.RemainingPrincipal.Add(resp.RemainingInterest)))
}

func TestQuoteLoan_Restructure(t *testing.T) {
	uc := newQuoteUseCase()

	t.Run("keeps the originating method when none is given", func(t *testing.T) {
		resp, err := uc.Restructure(context.Background(), dto.RestructureLoanRequest{
			Original:         calculationRequest("FLAT_RATE"),
			InstallmentsPaid: 6,
			NewTermMonths:    12,
			NewAnnualRate:    decimal.NewFromInt(10),
			RestructureDate:  time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, "FLAT_RATE", resp.NewSchedule.Method)
	})

	t.Run("switches conventions on request", func(t *testing.T) {
		resp, err := uc.Restructure(context.Background(), dto.RestructureLoanRequest{
			Original:         calculationRequest("FLAT_RATE"),
			InstallmentsPaid: 6,
			NewTermMonths:    6,
			NewAnnualRate:    decimal.NewFromInt(10),
			NewFrequency:     "MONTHLY",
			NewMethod:        "REDUCING_BALANCE",
			RestructureDate:  time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, "REDUCING_BALANCE", resp.NewSchedule.Method)
		assert.Len(t, resp.NewSchedule.Installments, 6)
	})
}
