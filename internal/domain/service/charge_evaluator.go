package service

import (
	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// ChargeEvaluator computes a single charge's monetary amount. It is shared
// by the disbursement flow and by the lifecycle engine's auto-charge
// triggers. Callers skip charges whose computed amount is zero or negative;
// a zero-value LoanCharge is never recorded.
type ChargeEvaluator struct{}

// NewChargeEvaluator returns the evaluator.
func NewChargeEvaluator() *ChargeEvaluator {
	return &ChargeEvaluator{}
}

// Evaluate resolves the charge amount for the given base and currency.
// Currency-specific rates override the charge's defaults. Percentage results
// are clamped to the currency rate's min/max bounds when configured; fixed
// amounts are taken as configured and never clamped. The result is rounded
// to two decimals.
func (e *ChargeEvaluator) Evaluate(charge model.Charge, baseAmount decimal.Decimal, currency string) decimal.Decimal {
	rate, hasRate := charge.RateFor(currency)

	var amount decimal.Decimal
	switch {
	case charge.Type.Equal(valueobject.ChargeTypeFixed):
		amount = charge.DefaultAmount
		if hasRate && rate.FixedAmount.Valid {
			amount = rate.FixedAmount.Decimal
		}

	case charge.Type.Equal(valueobject.ChargeTypePercentage):
		pct := charge.DefaultPercentage
		if hasRate && rate.Percentage.Valid {
			pct = rate.Percentage.Decimal
		}
		amount = baseAmount.Mul(pct).Div(decimal.NewFromInt(100))
		if hasRate {
			if rate.MinAmount.Valid && amount.LessThan(rate.MinAmount.Decimal) {
				amount = rate.MinAmount.Decimal
			}
			if rate.MaxAmount.Valid && amount.GreaterThan(rate.MaxAmount.Decimal) {
				amount = rate.MaxAmount.Decimal
			}
		}

	default:
		return decimal.Zero
	}

	return amount.Round(2)
}

// BaseAmount picks the application base a charge is computed against.
func (e *ChargeEvaluator) BaseAmount(charge model.Charge, loan model.Loan) decimal.Decimal {
	if charge.Base.Equal(valueobject.ChargeBaseBalance) {
		return loan.OutstandingBalance()
	}
	return loan.PrincipalAmount()
}
