package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

func fixedCharge(amount int64) model.Charge {
	return model.Charge{
		ID:             "00000000-0000-0000-0000-000000000040",
		OrganizationID: orgID,
		Name:           "Late Fee",
		Type:           valueobject.ChargeTypeFixed,
		Mode:           valueobject.ChargeModeAuto,
		TriggerStatus:  valueobject.LoanStatusDefaulted,
		Base:           valueobject.ChargeBaseBalance,
		DefaultAmount:  decimal.NewFromInt(amount),
		IsActive:       true,
	}
}

func percentageCharge(pct float64) model.Charge {
	c := fixedCharge(0)
	c.Type = valueobject.ChargeTypePercentage
	c.DefaultPercentage = decimal.NewFromFloat(pct)
	return c
}

func nullDec(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

func TestChargeEvaluatorEvaluate(t *testing.T) {
	e := service.NewChargeEvaluator()
	base := decimal.NewFromInt(10_000)

	t.Run("fixed uses the default amount", func(t *testing.T) {
		got := e.Evaluate(fixedCharge(25), base, "USD")
		assert.True(t, got.Equal(decimal.NewFromInt(25)))
	})

	t.Run("fixed prefers the currency override", func(t *testing.T) {
		charge := fixedCharge(25)
		charge.Rates = []model.ChargeRate{{Currency: "KES", FixedAmount: nullDec(3000)}}

		assert.True(t, e.Evaluate(charge, base, "KES").Equal(decimal.NewFromInt(3000)))
		assert.True(t, e.Evaluate(charge, base, "USD").Equal(decimal.NewFromInt(25)),
			"other currencies fall back to the default")
	})

	t.Run("percentage applies to the base amount", func(t *testing.T) {
		got := e.Evaluate(percentageCharge(2.5), base, "USD")
		assert.True(t, got.Equal(decimal.NewFromInt(250)))
	})

	t.Run("percentage respects min and max clamps", func(t *testing.T) {
		charge := percentageCharge(2.5)
		charge.Rates = []model.ChargeRate{{
			Currency:  "USD",
			MinAmount: nullDec(300),
			MaxAmount: nullDec(500),
		}}
		// 2.5% of 10,000 is 250, clamped up to the 300 floor.
		assert.True(t, e.Evaluate(charge, base, "USD").Equal(decimal.NewFromInt(300)))

		// 2.5% of 40,000 is 1,000, clamped down to the 500 cap.
		assert.True(t, e.Evaluate(charge, decimal.NewFromInt(40_000), "USD").
			Equal(decimal.NewFromInt(500)))
	})

	t.Run("clamps never apply to fixed amounts", func(t *testing.T) {
		charge := fixedCharge(25)
		charge.Rates = []model.ChargeRate{{
			Currency:  "USD",
			MinAmount: nullDec(300),
			MaxAmount: nullDec(500),
		}}
		assert.True(t, e.Evaluate(charge, base, "USD").Equal(decimal.NewFromInt(25)),
			"a fixed amount is configured directly and is not floored")
	})

	t.Run("result is rounded to the cent", func(t *testing.T) {
		got := e.Evaluate(percentageCharge(0.333), decimal.NewFromInt(1000), "USD")
		assert.True(t, got.Equal(decimal.NewFromFloat(3.33)), "got %s", got)
	})
}

func TestChargeEvaluatorBaseAmount(t *testing.T) {
	e := service.NewChargeEvaluator()
	product := monthlyProduct(5, 1, 6)
	loan := engineLoan(product, valueobject.LoanStatusActive, startDate)

	balanceCharge := fixedCharge(10)
	assert.True(t, e.BaseAmount(balanceCharge, loan).Equal(loan.OutstandingBalance()))

	principalCharge := fixedCharge(10)
	principalCharge.Base = valueobject.ChargeBasePrincipal
	assert.True(t, e.BaseAmount(principalCharge, loan).Equal(loan.PrincipalAmount()))
}
