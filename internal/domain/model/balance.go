package model

import "github.com/shopspring/decimal"

// ComputeOutstandingBalance is the single balance formula used everywhere a
// loan balance is derived from history:
//
//	balance = principal + interest + charges not deducted from principal
//	        - (payments.principal + payments.interest + payments.penalty)
//
// Waived charges are excluded. Callers pass whichever charge/payment sets the
// surrounding transaction can see, so the function works identically inside
// and outside a transaction.
func ComputeOutstandingBalance(
	principal, interest decimal.Decimal,
	charges []LoanCharge,
	payments []Payment,
) decimal.Decimal {
	balance := principal.Add(interest)

	for _, c := range charges {
		if c.Effective() && !c.DeductFromPrincipal {
			balance = balance.Add(c.Amount)
		}
	}

	for _, p := range payments {
		balance = balance.Sub(p.Total())
	}

	return balance
}
