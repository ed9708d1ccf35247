package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Lifecycle events
// ---------------------------------------------------------------------------

// LoanDefaulted is raised when the engine moves an ACTIVE loan to DEFAULTED
// after a missed due date.
type LoanDefaulted struct {
	events.BaseEvent
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Currency           string          `json:"currency"`
	NextDueDate        time.Time       `json:"next_due_date"`
}

func NewLoanDefaulted(loanID, tenantID string, outstanding decimal.Decimal, currency string, nextDue time.Time) LoanDefaulted {
	return LoanDefaulted{
		BaseEvent:          events.NewBaseEvent("loans.loan.defaulted", loanID, "Loan", tenantID),
		OutstandingBalance: outstanding,
		Currency:           currency,
		NextDueDate:        nextDue,
	}
}

// LoanOverdue is raised when a loan passes its final due date plus grace and
// leaves the engine's authority.
type LoanOverdue struct {
	events.BaseEvent
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Currency           string          `json:"currency"`
}

func NewLoanOverdue(loanID, tenantID string, outstanding decimal.Decimal, currency string) LoanOverdue {
	return LoanOverdue{
		BaseEvent:          events.NewBaseEvent("loans.loan.overdue", loanID, "Loan", tenantID),
		OutstandingBalance: outstanding,
		Currency:           currency,
	}
}

// LoanInterestAccrued is raised when the engine adds accrued interest to a
// loan's balances.
type LoanInterestAccrued struct {
	events.BaseEvent
	Amount             decimal.Decimal `json:"amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Currency           string          `json:"currency"`
}

func NewLoanInterestAccrued(loanID, tenantID string, amount, outstanding decimal.Decimal, currency string) LoanInterestAccrued {
	return LoanInterestAccrued{
		BaseEvent:          events.NewBaseEvent("loans.loan.interest_accrued", loanID, "Loan", tenantID),
		Amount:             amount,
		OutstandingBalance: outstanding,
		Currency:           currency,
	}
}

// LoanChargeApplied is raised when an auto or disbursement charge is recorded
// against a loan.
type LoanChargeApplied struct {
	events.BaseEvent
	ChargeID   string          `json:"charge_id"`
	ChargeName string          `json:"charge_name"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Trigger    string          `json:"trigger_status"`
}

func NewLoanChargeApplied(loanID, tenantID, chargeID, chargeName string, amount decimal.Decimal, currency, trigger string) LoanChargeApplied {
	return LoanChargeApplied{
		BaseEvent:  events.NewBaseEvent("loans.loan.charge_applied", loanID, "Loan", tenantID),
		ChargeID:   chargeID,
		ChargeName: chargeName,
		Amount:     amount,
		Currency:   currency,
		Trigger:    trigger,
	}
}
