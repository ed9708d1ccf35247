package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/calculation"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

func newCalculator() *service.Calculator {
	return service.NewCalculator(calculation.DefaultRegistry())
}

func baseInput(method valueobject.CalculationMethod) model.LoanCalculationInput {
	return model.LoanCalculationInput{
		Principal:        decimal.NewFromInt(10_000),
		AnnualRate:       decimal.NewFromInt(12),
		TermMonths:       12,
		Frequency:        valueobject.FrequencyMonthly,
		Method:           method,
		DisbursementDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculatorCalculateLoan(t *testing.T) {
	c := newCalculator()

	t.Run("computes a schedule for each method", func(t *testing.T) {
		for _, m := range []valueobject.CalculationMethod{
			valueobject.CalculationMethodReducingBalance,
			valueobject.CalculationMethodFlatRate,
			valueobject.CalculationMethodSimpleInterest,
		} {
			res, err := c.CalculateLoan(baseInput(m))
			require.NoError(t, err, "method %s", m)
			assert.True(t, res.Method.Equal(m))
			assert.Len(t, res.Installments, 12)
		}
	})

	t.Run("rejects invalid input before resolving a strategy", func(t *testing.T) {
		in := baseInput(valueobject.CalculationMethodFlatRate)
		in.TermMonths = 0
		_, err := c.CalculateLoan(in)
		assert.True(t, errors.Is(err, model.ErrValidation))
	})

	t.Run("fails on a method with no strategy", func(t *testing.T) {
		registry := calculation.NewRegistry(calculation.NewFlatRateStrategy())
		limited := service.NewCalculator(registry)

		_, err := limited.CalculateLoan(baseInput(valueobject.CalculationMethodReducingBalance))
		assert.True(t, errors.Is(err, model.ErrUnsupportedMethod))
	})
}

func TestCalculatorCompareMethods(t *testing.T) {
	c := newCalculator()

	t.Run("returns one result per method", func(t *testing.T) {
		results, failures := c.CompareMethods(baseInput(valueobject.CalculationMethodReducingBalance),
			[]valueobject.CalculationMethod{
				valueobject.CalculationMethodReducingBalance,
				valueobject.CalculationMethodFlatRate,
				valueobject.CalculationMethodSimpleInterest,
			})

		assert.Empty(t, failures)
		require.Len(t, results, 3)

		// Flat rate charges interest on the full principal for the whole
		// term, so it always costs at least as much as reducing balance.
		flat := results[valueobject.CalculationMethodFlatRate.String()]
		reducing := results[valueobject.CalculationMethodReducingBalance.String()]
		assert.True(t, flat.TotalInterest.GreaterThan(reducing.TotalInterest))
	})

	t.Run("one failing method never hides the others", func(t *testing.T) {
		registry := calculation.NewRegistry(calculation.NewFlatRateStrategy())
		limited := service.NewCalculator(registry)

		results, failures := limited.CompareMethods(baseInput(valueobject.CalculationMethodFlatRate),
			[]valueobject.CalculationMethod{
				valueobject.CalculationMethodFlatRate,
				valueobject.CalculationMethodReducingBalance,
			})

		assert.Len(t, results, 1)
		assert.Contains(t, results, valueobject.CalculationMethodFlatRate.String())
		require.Len(t, failures, 1)
		assert.True(t, errors.Is(failures[valueobject.CalculationMethodReducingBalance.String()],
			model.ErrUnsupportedMethod))
	})
}

func TestCalculatorRestructure(t *testing.T) {
	c := newCalculator()
	original, err := c.CalculateLoan(baseInput(valueobject.CalculationMethodReducingBalance))
	require.NoError(t, err)

	t.Run("re-originates the unpaid principal", func(t *testing.T) {
		res, err := c.CalculateRestructure(original, service.RestructureRequest{
			InstallmentsPaid: 6,
			NewTermMonths:    12,
			NewAnnualRate:    decimal.NewFromInt(10),
			NewFrequency:     valueobject.FrequencyMonthly,
			RestructureDate:  time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		unpaidPrincipal := decimal.Zero
		for _, inst := range original.Installments[6:] {
			unpaidPrincipal = unpaidPrincipal.Add(inst.Principal)
		}
		assert.True(t, res.NewSchedule.Principal.Equal(unpaidPrincipal),
			"new schedule principal should equal the unpaid principal")
		// A zero NewMethod keeps the originating convention.
		assert.True(t, res.NewSchedule.Method.Equal(valueobject.CalculationMethodReducingBalance))
		// Stretching 6 remaining months over 12 extends the term by 6.
		assert.Equal(t, 6, res.TermExtensionMonths)
	})

	t.Run("additional amount increases the new principal", func(t *testing.T) {
		res, err := c.CalculateRestructure(original, service.RestructureRequest{
			InstallmentsPaid: 6,
			AdditionalAmount: decimal.NewFromInt(2_000),
			NewTermMonths:    12,
			NewAnnualRate:    decimal.NewFromInt(10),
			NewFrequency:     valueobject.FrequencyMonthly,
			RestructureDate:  time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		unpaidPrincipal := decimal.Zero
		for _, inst := range original.Installments[6:] {
			unpaidPrincipal = unpaidPrincipal.Add(inst.Principal)
		}
		assert.True(t, res.NewSchedule.Principal.Equal(unpaidPrincipal.Add(decimal.NewFromInt(2_000))))
	})

	t.Run("rejects out-of-range installments paid", func(t *testing.T) {
		_, err := c.CalculateRestructure(original, service.RestructureRequest{
			InstallmentsPaid: 13,
			NewTermMonths:    12,
		})
		assert.True(t, errors.Is(err, model.ErrValidation))
	})
}

func TestEffectiveAnnualRate(t *testing.T) {
	c := newCalculator()

	// 12% nominal compounded monthly: (1 + 0.01)^12 - 1 = 12.68%.
	got, err := c.EffectiveAnnualRate(decimal.NewFromInt(12), 12)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromFloat(12.68)), "expected 12.68, got %s", got)

	_, err = c.EffectiveAnnualRate(decimal.NewFromInt(12), 0)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestAffordability(t *testing.T) {
	c := newCalculator()

	t.Run("reports ratios and remaining capacity", func(t *testing.T) {
		res, err := c.Affordability(
			decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, res.CurrentRatio.Equal(decimal.NewFromInt(20)))
		assert.True(t, res.NewRatio.Equal(decimal.NewFromInt(30)))
		assert.True(t, res.Affordable)
		// 40% of 1000 minus 300 committed.
		assert.True(t, res.RemainingCapacity.Equal(decimal.NewFromInt(100)))
	})

	t.Run("capacity never goes negative", func(t *testing.T) {
		res, err := c.Affordability(
			decimal.NewFromInt(1000), decimal.NewFromInt(500), decimal.NewFromInt(200), decimal.Zero)
		require.NoError(t, err)

		assert.False(t, res.Affordable)
		assert.True(t, res.RemainingCapacity.IsZero())
	})

	t.Run("rejects non-positive income", func(t *testing.T) {
		_, err := c.Affordability(decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
		assert.True(t, errors.Is(err, model.ErrValidation))
	})
}
