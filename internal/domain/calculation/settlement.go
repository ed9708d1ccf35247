package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
)

// scheduleTail aggregates the unpaid portion of a schedule after a number of
// paid installments.
type scheduleTail struct {
	remainingPrincipal decimal.Decimal
	remainingInterest  decimal.Decimal
	remainingPayments  decimal.Decimal
	interestPaid       decimal.Decimal
	remainingPeriods   int
}

// splitSchedule sums the unpaid installment tail and the interest already
// collected over the paid head.
func splitSchedule(installments []model.Installment, installmentsPaid int) (scheduleTail, error) {
	if installmentsPaid < 0 || installmentsPaid > len(installments) {
		return scheduleTail{}, fmt.Errorf("%w: installments paid %d outside schedule of %d",
			model.ErrValidation, installmentsPaid, len(installments))
	}

	tail := scheduleTail{
		remainingPrincipal: decimal.Zero,
		remainingInterest:  decimal.Zero,
		remainingPayments:  decimal.Zero,
		interestPaid:       decimal.Zero,
		remainingPeriods:   len(installments) - installmentsPaid,
	}

	for i, inst := range installments {
		if i < installmentsPaid {
			tail.interestPaid = tail.interestPaid.Add(inst.Interest)
			continue
		}
		tail.remainingPrincipal = tail.remainingPrincipal.Add(inst.Principal)
		tail.remainingInterest = tail.remainingInterest.Add(inst.Interest)
		tail.remainingPayments = tail.remainingPayments.Add(inst.Total)
	}

	return tail, nil
}
