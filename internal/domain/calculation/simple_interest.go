package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// SimpleInterestStrategy computes interest once on the original principal
// like the flat-rate convention, but reports the stated rate as the effective
// rate and settles early payoffs time-proportionally. This is what separates
// it from add-on semantics.
type SimpleInterestStrategy struct{}

// NewSimpleInterestStrategy returns the simple-interest convention.
func NewSimpleInterestStrategy() *SimpleInterestStrategy {
	return &SimpleInterestStrategy{}
}

// Method identifies the convention.
func (s *SimpleInterestStrategy) Method() valueobject.CalculationMethod {
	return valueobject.CalculationMethodSimpleInterest
}

// ComputeSchedule splits principal and interest evenly per installment.
func (s *SimpleInterestStrategy) ComputeSchedule(in model.LoanCalculationInput) (model.LoanCalculationResult, error) {
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

// ComputePenalty uses the simple daily product for COMPOUNDING_DAILY.
func (s *SimpleInterestStrategy) ComputePenalty(
	overdueDays int,
	overdueAmount, penaltyRate decimal.Decimal,
	penaltyType valueobject.PenaltyType,
	now time.Time,
) (model.PenaltyResult, error) {
	return computePenalty(overdueDays, overdueAmount, penaltyRate, penaltyType, false, now)
}

// ComputeEarlySettlement owes interest for the time the money was actually
// out:
//
//	actualOwed = totalInterest x elapsedDays/totalScheduleDays
//	rebate     = max(0, remainingInterest - (actualOwed - interestPaid))
//	settlement = remainingPrincipal + (actualOwed - interestPaid)
func (s *SimpleInterestStrategy) ComputeEarlySettlement(
	original model.LoanCalculationResult,
	settlementDate time.Time,
	installmentsPaid int,
) (model.EarlySettlementResult, error) {
	tail, err := splitSchedule(original.Installments, installmentsPaid)
	if err != nil {
		return model.EarlySettlementResult{}, err
	}

	totalInterest := original.TotalInterest

	actualOwed := decimal.Zero
	if len(original.Installments) > 0 {
		start := original.DisbursementDate
		end := original.Installments[len(original.Installments)-1].DueDate
		totalDays := int64(end.Sub(start).Hours() / 24)
		elapsedDays := int64(settlementDate.Sub(start).Hours() / 24)
		if elapsedDays < 0 {
			elapsedDays = 0
		}
		if elapsedDays > totalDays {
			elapsedDays = totalDays
		}
		if totalDays > 0 {
			actualOwed = totalInterest.
				Mul(decimal.NewFromInt(elapsedDays)).
				Div(decimal.NewFromInt(totalDays))
		}
	}

	// Interest still owed after crediting what the paid installments covered.
	outstandingInterest := actualOwed.Sub(tail.interestPaid)
	if outstandingInterest.IsNegative() {
		outstandingInterest = decimal.Zero
	}

	rebate := tail.remainingInterest.Sub(outstandingInterest)
	if rebate.IsNegative() {
		rebate = decimal.Zero
	}

	total := tail.remainingPrincipal.Add(outstandingInterest)

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
