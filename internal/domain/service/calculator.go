package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/calculation"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// Calculator validates calculation inputs, resolves the strategy for the
// requested convention and orchestrates penalty, settlement and restructure
// calls. It is stateless apart from the registry built at startup.
type Calculator struct {
	registry *calculation.Registry
}

// NewCalculator wires the strategy registry.
func NewCalculator(registry *calculation.Registry) *Calculator {
	return &Calculator{registry: registry}
}

// CalculateLoan validates the input, resolves the strategy and computes the
// schedule.
func (c *Calculator) CalculateLoan(in model.LoanCalculationInput) (model.LoanCalculationResult, error) {
	if err := in.Validate(); err != nil {
		return model.LoanCalculationResult{}, err
	}
	strategy, err := c.registry.Resolve(in.Method)
	if err != nil {
		return model.LoanCalculationResult{}, err
	}
	return strategy.ComputeSchedule(in)
}

// CompareMethods runs the same base input through each requested method.
// A failure in one method never aborts the others; failed methods are
// reported in the second map so the caller can log them.
func (c *Calculator) CompareMethods(
	base model.LoanCalculationInput,
	methods []valueobject.CalculationMethod,
) (map[string]model.LoanCalculationResult, map[string]error) {
	results := make(map[string]model.LoanCalculationResult, len(methods))
	failures := make(map[string]error)

	for _, m := range methods {
		in := base
		in.Method = m
		res, err := c.CalculateLoan(in)
		if err != nil {
			failures[m.String()] = err
			continue
		}
		results[m.String()] = res
	}

	return results, failures
}

// CalculatePenalty prices an overdue amount under the convention the loan
// was originated with.
func (c *Calculator) CalculatePenalty(
	method valueobject.CalculationMethod,
	overdueDays int,
	overdueAmount, penaltyRate decimal.Decimal,
	penaltyType valueobject.PenaltyType,
	now time.Time,
) (model.PenaltyResult, error) {
	strategy, err := c.registry.Resolve(method)
	if err != nil {
		return model.PenaltyResult{}, err
	}
	return strategy.ComputePenalty(overdueDays, overdueAmount, penaltyRate, penaltyType, now)
}

// CalculateEarlySettlement quotes an early payoff under the originating
// convention. Settlement always uses the method the original result was
// produced with, never a newly chosen one.
func (c *Calculator) CalculateEarlySettlement(
	original model.LoanCalculationResult,
	settlementDate time.Time,
	installmentsPaid int,
) (model.EarlySettlementResult, error) {
	strategy, err := c.registry.Resolve(original.Method)
	if err != nil {
		return model.EarlySettlementResult{}, err
	}
	return strategy.ComputeEarlySettlement(original, settlementDate, installmentsPaid)
}

// RestructureRequest carries the new terms a loan is restructured to.
// A zero NewMethod keeps the originating convention.
type RestructureRequest struct {
	InstallmentsPaid int
	AdditionalAmount decimal.Decimal
	NewTermMonths    int
	NewAnnualRate    decimal.Decimal
	NewFrequency     valueobject.RepaymentFrequency
	NewMethod        valueobject.CalculationMethod
	RestructureDate  time.Time
}

// CalculateRestructure re-originates the unpaid principal (plus any
// additional disbursement) over new terms and reports the cost and savings
// against the original remaining payments.
func (c *Calculator) CalculateRestructure(
	original model.LoanCalculationResult,
	req RestructureRequest,
) (model.RestructureResult, error) {
	if req.InstallmentsPaid < 0 || req.InstallmentsPaid > len(original.Installments) {
		return model.RestructureResult{}, fmt.Errorf("%w: installments paid %d outside schedule of %d",
			model.ErrValidation, req.InstallmentsPaid, len(original.Installments))
	}
	if req.AdditionalAmount.IsNegative() {
		return model.RestructureResult{}, fmt.Errorf("%w: additional amount must not be negative",
			model.ErrValidation)
	}

	outstandingPrincipal := decimal.Zero
	remainingPayments := decimal.Zero
	for i := req.InstallmentsPaid; i < len(original.Installments); i++ {
		outstandingPrincipal = outstandingPrincipal.Add(original.Installments[i].Principal)
		remainingPayments = remainingPayments.Add(original.Installments[i].Total)
	}

	method := req.NewMethod
	if method.IsZero() {
		method = original.Method
	}
	frequency := req.NewFrequency
	if frequency.IsZero() {
		frequency = valueobject.FrequencyMonthly
	}

	newResult, err := c.CalculateLoan(model.LoanCalculationInput{
		Principal:        outstandingPrincipal.Add(req.AdditionalAmount),
		AnnualRate:       req.NewAnnualRate,
		TermMonths:       req.NewTermMonths,
		Frequency:        frequency,
		Method:           method,
		DisbursementDate: req.RestructureDate,
	})
	if err != nil {
		return model.RestructureResult{}, err
	}

	// Remaining term of the original schedule, expressed in months.
	remainingMonths := 0
	if len(original.Installments) > 0 {
		remainingMonths = int(decimal.NewFromInt(int64(original.TermMonths)).
			Mul(decimal.NewFromInt(int64(len(original.Installments) - req.InstallmentsPaid))).
			Div(decimal.NewFromInt(int64(len(original.Installments)))).
			Round(0).IntPart())
	}

	return model.RestructureResult{
		NewSchedule:         newResult,
		RestructureCost:     decimal.Zero,
		TotalSavings:        remainingPayments.Sub(newResult.TotalAmount).Round(2),
		TermExtensionMonths: req.NewTermMonths - remainingMonths,
	}, nil
}

// EffectiveAnnualRate converts a nominal annual percentage rate compounded n
// times per year into the effective annual rate, both in percent:
//
//	EAR = ((1 + apr/n)^n - 1) x 100
func (c *Calculator) EffectiveAnnualRate(aprPercent decimal.Decimal, compoundingPeriodsPerYear int) (decimal.Decimal, error) {
	if compoundingPeriodsPerYear <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: compounding periods must be positive, got %d",
			model.ErrValidation, compoundingPeriodsPerYear)
	}
	n := decimal.NewFromInt(int64(compoundingPeriodsPerYear))
	periodic := aprPercent.Div(decimal.NewFromInt(100)).Div(n)
	ear := decimal.NewFromInt(1).Add(periodic).
		Pow(n).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(100))
	return ear.Round(2), nil
}

// DefaultMaxDebtRatio is the affordability ceiling when none is supplied.
var DefaultMaxDebtRatio = decimal.NewFromInt(40)

// Affordability reports current and proposed debt-to-income ratios in
// percent and the remaining borrowing capacity (never negative).
func (c *Calculator) Affordability(
	monthlyIncome, existingDebts, proposedPayment, maxRatioPercent decimal.Decimal,
) (model.AffordabilityResult, error) {
	if monthlyIncome.LessThanOrEqual(decimal.Zero) {
		return model.AffordabilityResult{}, fmt.Errorf("%w: monthly income must be positive",
			model.ErrValidation)
	}
	if existingDebts.IsNegative() || proposedPayment.IsNegative() {
		return model.AffordabilityResult{}, fmt.Errorf("%w: debts and payment must not be negative",
			model.ErrValidation)
	}
	if maxRatioPercent.LessThanOrEqual(decimal.Zero) {
		maxRatioPercent = DefaultMaxDebtRatio
	}

	hundred := decimal.NewFromInt(100)
	currentRatio := existingDebts.Div(monthlyIncome).Mul(hundred)
	newRatio := existingDebts.Add(proposedPayment).Div(monthlyIncome).Mul(hundred)

	capacity := maxRatioPercent.Div(hundred).Mul(monthlyIncome).
		Sub(existingDebts).Sub(proposedPayment)
	if capacity.IsNegative() {
		capacity = decimal.Zero
	}

	return model.AffordabilityResult{
		CurrentRatio:      currentRatio.Round(2),
		NewRatio:          newRatio.Round(2),
		MaxRatio:          maxRatioPercent,
		Affordable:        newRatio.LessThanOrEqual(maxRatioPercent),
		RemainingCapacity: capacity.Round(2),
	}, nil
}
