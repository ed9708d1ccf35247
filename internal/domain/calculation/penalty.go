package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// computePenalty implements the shared penalty matrix. The compound flag is
// the only point the conventions differ on: reducing balance compounds the
// daily rate, add-on and simple-interest products multiply it out.
func computePenalty(
	overdueDays int,
	overdueAmount, penaltyRate decimal.Decimal,
	penaltyType valueobject.PenaltyType,
	compound bool,
	now time.Time,
) (model.PenaltyResult, error) {
	if overdueDays < 0 {
		return model.PenaltyResult{}, fmt.Errorf("%w: overdue days must not be negative, got %d",
			model.ErrValidation, overdueDays)
	}
	if overdueAmount.IsNegative() {
		return model.PenaltyResult{}, fmt.Errorf("%w: overdue amount must not be negative, got %s",
			model.ErrValidation, overdueAmount)
	}
	if penaltyRate.IsNegative() {
		return model.PenaltyResult{}, fmt.Errorf("%w: penalty rate must not be negative, got %s",
			model.ErrValidation, penaltyRate)
	}

	var amount decimal.Decimal
	switch {
	case penaltyType.Equal(valueobject.PenaltyFixedAmount):
		// The rate literal is the penalty, independent of days and amount.
		amount = penaltyRate

	case penaltyType.Equal(valueobject.PenaltyPercentOfOverdue),
		penaltyType.Equal(valueobject.PenaltyPercentOfInstallment):
		amount = overdueAmount.Mul(penaltyRate).Div(hundred)

	case penaltyType.Equal(valueobject.PenaltyCompoundingDaily):
		dailyRate := penaltyRate.Div(hundred).Div(daysPerYear)
		if compound {
			factor := pow(one.Add(dailyRate), overdueDays)
			amount = overdueAmount.Mul(factor.Sub(one))
		} else {
			amount = overdueAmount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(overdueDays)))
		}

	default:
		return model.PenaltyResult{}, fmt.Errorf("%w: penalty type %q", model.ErrValidation, penaltyType)
	}

	return model.PenaltyResult{
		Amount:       round2(amount),
		Days:         overdueDays,
		Rate:         penaltyRate,
		Type:         penaltyType,
		CalculatedAt: now,
	}, nil
}
