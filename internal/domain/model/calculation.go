package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Calculation inputs
// ---------------------------------------------------------------------------

// FeeSpec describes a one-time fee as a fixed amount plus a percentage of
// principal. Either part may be zero.
type FeeSpec struct {
	Fixed      decimal.Decimal
	Percentage decimal.Decimal // percent, e.g. 2 means 2% of principal
}

// AmountOn returns the monetary fee for the given principal.
func (f FeeSpec) AmountOn(principal decimal.Decimal) decimal.Decimal {
	return f.Fixed.Add(principal.Mul(f.Percentage).Div(decimal.NewFromInt(100)))
}

// LoanCalculationInput is the immutable request for one schedule calculation.
// Rates are expressed in percent (12 means 12% per annum).
type LoanCalculationInput struct {
	Principal        decimal.Decimal
	AnnualRate       decimal.Decimal
	TermMonths       int
	Frequency        valueobject.RepaymentFrequency
	Method           valueobject.CalculationMethod
	GracePeriodDays  int
	ProcessingFee    FeeSpec
	InsuranceFee     FeeSpec
	DisbursementDate time.Time
}

// Validate checks the input against the calculation preconditions. All
// failures wrap ErrValidation.
func (in LoanCalculationInput) Validate() error {
	if in.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive, got %s", ErrValidation, in.Principal)
	}
	if in.AnnualRate.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative, got %s", ErrValidation, in.AnnualRate)
	}
	if in.TermMonths <= 0 {
		return fmt.Errorf("%w: term months must be positive, got %d", ErrValidation, in.TermMonths)
	}
	if in.GracePeriodDays < 0 {
		return fmt.Errorf("%w: grace period days must not be negative, got %d", ErrValidation, in.GracePeriodDays)
	}
	if in.Method.IsZero() {
		return fmt.Errorf("%w: calculation method is required", ErrValidation)
	}
	if in.Frequency.IsZero() {
		return fmt.Errorf("%w: repayment frequency is required", ErrValidation)
	}
	return nil
}

// TotalFees returns the sum of processing and insurance fees for this input.
func (in LoanCalculationInput) TotalFees() decimal.Decimal {
	return in.ProcessingFee.AmountOn(in.Principal).Add(in.InsuranceFee.AmountOn(in.Principal))
}

// ---------------------------------------------------------------------------
// Calculation outputs
// ---------------------------------------------------------------------------

// Installment is one scheduled period of a repayment schedule.
type Installment struct {
	Period              int
	DueDate             time.Time
	Principal           decimal.Decimal
	Interest            decimal.Decimal
	Fees                decimal.Decimal
	Total               decimal.Decimal
	RemainingBalance    decimal.Decimal
	CumulativePrincipal decimal.Decimal
	CumulativeInterest  decimal.Decimal
}

// ScheduleSummary condenses a schedule for display and reporting.
type ScheduleSummary struct {
	InstallmentCount int
	FirstDueDate     time.Time
	LastDueDate      time.Time
	TotalPrincipal   decimal.Decimal
	TotalInterest    decimal.Decimal
	TotalFees        decimal.Decimal
	TotalAmount      decimal.Decimal
}

// LoanCalculationResult is the immutable outcome of one schedule calculation.
//
// Invariants: the principal portions of Installments sum to Principal exactly,
// and the final installment's RemainingBalance is zero.
type LoanCalculationResult struct {
	Principal        decimal.Decimal
	TotalInterest    decimal.Decimal
	TotalFees        decimal.Decimal
	TotalAmount      decimal.Decimal
	LevelPayment     decimal.Decimal
	EffectiveRate    decimal.Decimal
	APR              decimal.Decimal
	Method           valueobject.CalculationMethod
	TermMonths       int
	DisbursementDate time.Time
	Installments     []Installment
	Summary          ScheduleSummary
}

// PenaltyResult is the outcome of an overdue-penalty calculation.
type PenaltyResult struct {
	Amount       decimal.Decimal
	Days         int
	Rate         decimal.Decimal
	Type         valueobject.PenaltyType
	CalculatedAt time.Time
}

// EarlySettlementResult quotes a voluntary early payoff.
// Penalty is zero for voluntary settlement.
type EarlySettlementResult struct {
	SettlementDate     time.Time
	RemainingPrincipal decimal.Decimal
	RemainingInterest  decimal.Decimal
	Rebate             decimal.Decimal
	Penalty            decimal.Decimal
	TotalSettlement    decimal.Decimal
	Savings            decimal.Decimal
}

// RestructureResult reports a re-originated schedule over the current
// outstanding principal together with the cost/savings of restructuring.
type RestructureResult struct {
	NewSchedule         LoanCalculationResult
	RestructureCost     decimal.Decimal
	TotalSavings        decimal.Decimal
	TermExtensionMonths int
}

// AffordabilityResult reports debt-to-income ratios for a proposed payment.
type AffordabilityResult struct {
	CurrentRatio      decimal.Decimal
	NewRatio          decimal.Decimal
	MaxRatio          decimal.Decimal
	Affordable        bool
	RemainingCapacity decimal.Decimal
}
