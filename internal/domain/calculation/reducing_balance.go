package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// ReducingBalanceStrategy amortizes with interest charged each period on the
// outstanding principal only, using a level payment (EMI).
type ReducingBalanceStrategy struct{}

// NewReducingBalanceStrategy returns the reducing-balance convention.
func NewReducingBalanceStrategy() *ReducingBalanceStrategy {
	return &ReducingBalanceStrategy{}
}

// Method identifies the convention.
func (s *ReducingBalanceStrategy) Method() valueobject.CalculationMethod {
	return valueobject.CalculationMethodReducingBalance
}

// ComputeSchedule builds the EMI schedule:
//
//	r   = annualRate / periodsPerYear
//	EMI = P*r*(1+r)^n / ((1+r)^n - 1), degenerating to P/n when r = 0
//
// Each period's interest is remaining balance x r; the principal portion is
// EMI minus interest (clamped at zero); the final period's principal is the
// exact remaining balance so rounding residue never escapes the schedule.
func (s *ReducingBalanceStrategy) ComputeSchedule(in model.LoanCalculationInput) (model.LoanCalculationResult, error) {
	if err := in.Validate(); err != nil {
		return model.LoanCalculationResult{}, err
	}

	n := InstallmentCount(in.TermMonths, in.Frequency)
	r := PeriodicRate(in.AnnualRate, in.Frequency)
	fees := round2(in.TotalFees())

	var emi decimal.Decimal
	if r.IsZero() {
		emi = in.Principal.Div(decimal.NewFromInt(int64(n)))
	} else {
		factor := pow(one.Add(r), n)
		emi = in.Principal.Mul(r).Mul(factor).Div(factor.Sub(one))
	}
	levelPayment := round2(emi)

	dates := DueDates(in.DisbursementDate, in.Frequency, n)
	installments := make([]model.Installment, 0, n)

	remaining := in.Principal
	cumPrincipal := decimal.Zero
	cumInterest := decimal.Zero

	for period := 1; period <= n; period++ {
		interest := round2(remaining.Mul(r))

		principalPart := levelPayment.Sub(interest)
		if principalPart.IsNegative() {
			// Internal inconsistency; clamp rather than propagate.
			principalPart = decimal.Zero
		}
		if period == n {
			principalPart = remaining
		}

		feesPart := decimal.Zero
		if period == 1 {
			feesPart = fees
		}

		remaining = remaining.Sub(principalPart)
		cumPrincipal = cumPrincipal.Add(principalPart)
		cumInterest = cumInterest.Add(interest)

		installments = append(installments, model.Installment{
			Period:              period,
			DueDate:             dates[period-1],
			Principal:           principalPart,
			Interest:            interest,
			Fees:                feesPart,
			Total:               principalPart.Add(interest).Add(feesPart),
			RemainingBalance:    remaining,
			CumulativePrincipal: cumPrincipal,
			CumulativeInterest:  cumInterest,
		})
	}

	totalInterest := cumInterest

	return model.LoanCalculationResult{
		Principal:        in.Principal,
		TotalInterest:    totalInterest,
		TotalFees:        fees,
		TotalAmount:      in.Principal.Add(totalInterest).Add(fees),
		LevelPayment:     levelPayment,
		EffectiveRate:    in.AnnualRate,
		APR:              annualizedCostRate(totalInterest, fees, in.Principal, in.TermMonths),
		Method:           s.Method(),
		TermMonths:       in.TermMonths,
		DisbursementDate: in.DisbursementDate,
		Installments:     installments,
		Summary:          summarize(installments, in.Principal, totalInterest, fees),
	}, nil
}

// ComputePenalty compounds the daily penalty rate for the COMPOUNDING_DAILY
// type; the remaining types follow the shared matrix.
func (s *ReducingBalanceStrategy) ComputePenalty(
	overdueDays int,
	overdueAmount, penaltyRate decimal.Decimal,
	penaltyType valueobject.PenaltyType,
	now time.Time,
) (model.PenaltyResult, error) {
	return computePenalty(overdueDays, overdueAmount, penaltyRate, penaltyType, true, now)
}

// ComputeEarlySettlement rebates 80% of the term-proportional share of the
// remaining scheduled interest.
func (s *ReducingBalanceStrategy) ComputeEarlySettlement(
	original model.LoanCalculationResult,
	settlementDate time.Time,
	installmentsPaid int,
) (model.EarlySettlementResult, error) {
	tail, err := splitSchedule(original.Installments, installmentsPaid)
	if err != nil {
		return model.EarlySettlementResult{}, err
	}

	totalPeriods := len(original.Installments)
	rebate := decimal.Zero
	if totalPeriods > 0 {
		proportion := decimal.NewFromInt(int64(tail.remainingPeriods)).
			Div(decimal.NewFromInt(int64(totalPeriods)))
		rebate = tail.remainingInterest.Mul(proportion).Mul(decimal.NewFromFloat(0.80))
	}

	total := tail.remainingPrincipal.Add(tail.remainingInterest).Sub(rebate)

	return model.EarlySettlementResult{
		SettlementDate:     settlementDate,
		RemainingPrincipal: round2(tail.remainingPrincipal),
		RemainingInterest:  round2(tail.remainingInterest),
		Rebate:             round2(rebate),
		Penalty:            decimal.Zero,
		TotalSettlement:    round2(total),
		Savings:            round2(tail.remainingPayments.Sub(total)),
	}, nil
}
