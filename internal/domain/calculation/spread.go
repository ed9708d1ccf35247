package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
)

// evenSchedule spreads principal and a precomputed total interest evenly
// across n installments. Both columns route their rounding remainder into the
// last installment so the schedule totals match the reported totals exactly.
// One-time fees land on the first installment only.
func evenSchedule(
	in model.LoanCalculationInput,
	n int,
	totalInterest, fees decimal.Decimal,
) ([]model.Installment, decimal.Decimal) {
	count := decimal.NewFromInt(int64(n))
	perPrincipal := round2(in.Principal.Div(count))
	perInterest := round2(totalInterest.Div(count))

	dates := DueDates(in.DisbursementDate, in.Frequency, n)
	installments := make([]model.Installment, 0, n)

	remaining := in.Principal
	cumPrincipal := decimal.Zero
	cumInterest := decimal.Zero

	for period := 1; period <= n; period++ {
		principalPart := perPrincipal
		interestPart := perInterest
		if period == n {
			// Remainder absorption keeps the invariants exact.
			principalPart = in.Principal.Sub(cumPrincipal)
			interestPart = totalInterest.Sub(cumInterest)
		}

		feesPart := decimal.Zero
		if period == 1 {
			feesPart = fees
		}

		remaining = remaining.Sub(principalPart)
		cumPrincipal = cumPrincipal.Add(principalPart)
		cumInterest = cumInterest.Add(interestPart)

		installments = append(installments, model.Installment{
			Period:              period,
			DueDate:             dates[period-1],
			Principal:           principalPart,
			Interest:            interestPart,
			Fees:                feesPart,
			Total:               principalPart.Add(interestPart).Add(feesPart),
			RemainingBalance:    remaining,
			CumulativePrincipal: cumPrincipal,
			CumulativeInterest:  cumInterest,
		})
	}

	levelPayment := round2(in.Principal.Add(totalInterest).Div(count))
	return installments, levelPayment
}

// annualizedCostRate reports total cost of credit (interest plus fees) as a
// simple annualized percentage of principal.
func annualizedCostRate(totalInterest, totalFees, principal decimal.Decimal, termMonths int) decimal.Decimal {
	if principal.LessThanOrEqual(decimal.Zero) || termMonths <= 0 {
		return decimal.Zero
	}
	return round2(totalInterest.Add(totalFees).
		Div(principal).
		Div(TermYears(termMonths)).
		Mul(hundred))
}

// summarize builds the schedule summary from its rows and totals.
func summarize(installments []model.Installment, totalPrincipal, totalInterest, totalFees decimal.Decimal) model.ScheduleSummary {
	s := model.ScheduleSummary{
		InstallmentCount: len(installments),
		TotalPrincipal:   totalPrincipal,
		TotalInterest:    totalInterest,
		TotalFees:        totalFees,
		TotalAmount:      totalPrincipal.Add(totalInterest).Add(totalFees),
	}
	if len(installments) > 0 {
		s.FirstDueDate = installments[0].DueDate
		s.LastDueDate = installments[len(installments)-1].DueDate
	}
	return s
}
