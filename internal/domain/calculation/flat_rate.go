package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// FlatRateStrategy implements add-on interest: interest is computed once on
// the full principal for the whole term and spread evenly, regardless of how
// the principal amortizes.
type FlatRateStrategy struct{}

// NewFlatRateStrategy returns the flat-rate (add-on) convention.
func NewFlatRateStrategy() *FlatRateStrategy {
	return &FlatRateStrategy{}
}

// Method identifies the convention.
func (s *FlatRateStrategy) Method() valueobject.CalculationMethod {
	return valueobject.CalculationMethodFlatRate
}

// ComputeSchedule spreads principal and add-on interest evenly:
//
//	totalInterest = P x annualRate x termMonths/12
//
// The effective rate is reported materially higher than the stated rate via
// the approximation statedRate x 2n/(n+1), since the borrower pays interest
// on principal already repaid.
func (s *FlatRateStrategy) ComputeSchedule(in model.LoanCalculationInput) (model.LoanCalculationResult, error) {
	if err := in.Validate(); err != nil {
		return model.LoanCalculationResult{}, err
	}

	n := InstallmentCount(in.TermMonths, in.Frequency)
	fees := round2(in.TotalFees())

	totalInterest := round2(in.Principal.
		Mul(in.AnnualRate).
		Div(hundred).
		Mul(TermYears(in.TermMonths)))

	installments, levelPayment := evenSchedule(in, n, totalInterest, fees)

	effectiveRate := in.AnnualRate
	if n > 1 {
		effectiveRate = round2(in.AnnualRate.
			Mul(decimal.NewFromInt(2 * int64(n))).
			Div(decimal.NewFromInt(int64(n) + 1)))
	}

	return model.LoanCalculationResult{
		Principal:        in.Principal,
		TotalInterest:    totalInterest,
		TotalFees:        fees,
		TotalAmount:      in.Principal.Add(totalInterest).Add(fees),
		LevelPayment:     levelPayment,
		EffectiveRate:    effectiveRate,
		APR:              annualizedCostRate(totalInterest, fees, in.Principal, in.TermMonths),
		Method:           s.Method(),
		TermMonths:       in.TermMonths,
		DisbursementDate: in.DisbursementDate,
		Installments:     installments,
		Summary:          summarize(installments, in.Principal, totalInterest, fees),
	}, nil
}

// ComputePenalty uses the simple daily product for COMPOUNDING_DAILY; add-on
// products do not compound penalties.
func (s *FlatRateStrategy) ComputePenalty(
	overdueDays int,
	overdueAmount, penaltyRate decimal.Decimal,
	penaltyType valueobject.PenaltyType,
	now time.Time,
) (model.PenaltyResult, error) {
	return computePenalty(overdueDays, overdueAmount, penaltyRate, penaltyType, false, now)
}

// ComputeEarlySettlement rebates remaining interest by the Rule of 78:
// sum-of-digits weighting front-loads interest recognition, so the rebate
// ratio is sum(1..remaining) / sum(1..total).
func (s *FlatRateStrategy) ComputeEarlySettlement(
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
	if totalPeriods > 0 && tail.remainingPeriods > 0 {
		ratio := sumOfDigits(tail.remainingPeriods).Div(sumOfDigits(totalPeriods))
		rebate = tail.remainingInterest.Mul(ratio)
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
