package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Calculation requests
// ---------------------------------------------------------------------------

// FeeInput is a one-time fee given as a fixed amount and/or a percentage of
// principal.
type FeeInput struct {
	Fixed      decimal.Decimal `json:"fixed"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CalculateLoanRequest asks for one schedule calculation. Method may be left
// empty to use the organization's configured engine type.
type CalculateLoanRequest struct {
	OrganizationID   string          `json:"organization_id"`
	Principal        decimal.Decimal `json:"principal"`
	AnnualRate       decimal.Decimal `json:"annual_rate"`
	TermMonths       int             `json:"term_months"`
	Frequency        string          `json:"frequency"`
	Method           string          `json:"method"`
	GracePeriodDays  int             `json:"grace_period_days"`
	ProcessingFee    FeeInput        `json:"processing_fee"`
	InsuranceFee     FeeInput        `json:"insurance_fee"`
	DisbursementDate time.Time       `json:"disbursement_date"`
}

// CalculatePenaltyRequest prices an overdue amount under a loan's
// originating method.
type CalculatePenaltyRequest struct {
	Method        string          `json:"method"`
	OverdueDays   int             `json:"overdue_days"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	PenaltyRate   decimal.Decimal `json:"penalty_rate"`
	PenaltyType   string          `json:"penalty_type"`
}

// EarlySettlementRequest quotes a payoff of the schedule described by
// Original after InstallmentsPaid periods.
type EarlySettlementRequest struct {
	Original         CalculateLoanRequest `json:"original"`
	SettlementDate   time.Time            `json:"settlement_date"`
	InstallmentsPaid int                  `json:"installments_paid"`
}

// RestructureLoanRequest re-originates the unpaid tail of Original over new
// terms.
type RestructureLoanRequest struct {
	Original         CalculateLoanRequest `json:"original"`
	InstallmentsPaid int                  `json:"installments_paid"`
	AdditionalAmount decimal.Decimal      `json:"additional_amount"`
	NewTermMonths    int                  `json:"new_term_months"`
	NewAnnualRate    decimal.Decimal      `json:"new_annual_rate"`
	NewFrequency     string               `json:"new_frequency"`
	NewMethod        string               `json:"new_method"`
	RestructureDate  time.Time            `json:"restructure_date"`
}

// ---------------------------------------------------------------------------
// Calculation responses
// ---------------------------------------------------------------------------

// InstallmentResponse is one scheduled period.
type InstallmentResponse struct {
	Period              int             `json:"period"`
	DueDate             time.Time       `json:"due_date"`
	Principal           decimal.Decimal `json:"principal"`
	Interest            decimal.Decimal `json:"interest"`
	Fees                decimal.Decimal `json:"fees"`
	Total               decimal.Decimal `json:"total"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
}

// ScheduleSummaryResponse condenses a schedule.
type ScheduleSummaryResponse struct {
	InstallmentCount int             `json:"installment_count"`
	FirstDueDate     time.Time       `json:"first_due_date"`
	LastDueDate      time.Time       `json:"last_due_date"`
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalFees        decimal.Decimal `json:"total_fees"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// LoanCalculationResponse is the full outcome of one calculation.
type LoanCalculationResponse struct {
	Principal     decimal.Decimal         `json:"principal"`
	TotalInterest decimal.Decimal         `json:"total_interest"`
	TotalFees     decimal.Decimal         `json:"total_fees"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	LevelPayment  decimal.Decimal         `json:"level_payment"`
	EffectiveRate decimal.Decimal         `json:"effective_rate"`
	APR           decimal.Decimal         `json:"apr"`
	Method        string                  `json:"method"`
	Installments  []InstallmentResponse   `json:"installments"`
	Summary       ScheduleSummaryResponse `json:"summary"`
}

// MethodComparisonResponse maps method name to its result; failed methods
// are absent and reported in Failures.
type MethodComparisonResponse struct {
	Results  map[string]LoanCalculationResponse `json:"results"`
	Failures map[string]string                  `json:"failures,omitempty"`
}

// PenaltyResponse is the outcome of a penalty calculation.
type PenaltyResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	Days         int             `json:"days"`
	Rate         decimal.Decimal `json:"rate"`
	Type         string          `json:"type"`
	CalculatedAt time.Time       `json:"calculated_at"`
}

// EarlySettlementResponse quotes a voluntary payoff.
type EarlySettlementResponse struct {
	SettlementDate     time.Time       `json:"settlement_date"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	RemainingInterest  decimal.Decimal `json:"remaining_interest"`
	Rebate             decimal.Decimal `json:"rebate"`
	Penalty            decimal.Decimal `json:"penalty"`
	TotalSettlement    decimal.Decimal `json:"total_settlement"`
	Savings            decimal.Decimal `json:"savings"`
}

// RestructureResponse reports the new schedule and the economics of the
// restructure.
type RestructureResponse struct {
	NewSchedule         LoanCalculationResponse `json:"new_schedule"`
	RestructureCost     decimal.Decimal         `json:"restructure_cost"`
	TotalSavings        decimal.Decimal         `json:"total_savings"`
	TermExtensionMonths int                     `json:"term_extension_months"`
}

// ---------------------------------------------------------------------------
// Lifecycle engine
// ---------------------------------------------------------------------------

// LoanProcessingError attributes one failure to one loan without aborting
// the batch.
type LoanProcessingError struct {
	LoanID         string `json:"loan_id"`
	OrganizationID string `json:"organization_id"`
	Error          string `json:"error"`
}

// LifecycleRunSummary is always returned to the caller of a run, including
// partially failed ones.
type LifecycleRunSummary struct {
	StartedAt         time.Time             `json:"started_at"`
	FinishedAt        time.Time             `json:"finished_at"`
	OrganizationCount int                   `json:"organization_count"`
	ProcessedCount    int                   `json:"processed_count"`
	DefaultedCount    int                   `json:"defaulted_count"`
	OverdueCount      int                   `json:"overdue_count"`
	ChargesApplied    int                   `json:"charges_applied"`
	Errors            []LoanProcessingError `json:"errors,omitempty"`
	SystemError       string                `json:"system_error,omitempty"`
}

// ApplyDisbursementChargesRequest applies configured disbursement charges to
// a newly activated loan.
type ApplyDisbursementChargesRequest struct {
	OrganizationID string `json:"organization_id"`
	LoanID         string `json:"loan_id"`
}

// WaiveLoanChargeRequest cancels an applied charge's economic effect.
type WaiveLoanChargeRequest struct {
	OrganizationID string `json:"organization_id"`
	LoanChargeID   string `json:"loan_charge_id"`
}

// ApplyDisbursementChargesResponse reports the charges recorded.
type ApplyDisbursementChargesResponse struct {
	LoanID         string          `json:"loan_id"`
	ChargesApplied int             `json:"charges_applied"`
	TotalCharged   decimal.Decimal `json:"total_charged"`
}
