package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Charge definition
// ---------------------------------------------------------------------------

// ChargeRate is a currency-specific override for a charge. Optional fields
// use decimal.NullDecimal; an invalid value means "not configured".
type ChargeRate struct {
	Currency    string
	FixedAmount decimal.NullDecimal
	Percentage  decimal.NullDecimal
	MinAmount   decimal.NullDecimal
	MaxAmount   decimal.NullDecimal
}

// Charge is the organization-level definition of a fee. A charge with mode
// AUTO and a trigger status is applied by the lifecycle engine when a loan
// enters that status; MANUAL charges are applied by operators or by the
// disbursement flow.
type Charge struct {
	ID                  string
	OrganizationID      string
	Name                string
	Type                valueobject.ChargeType
	Mode                valueobject.ChargeMode
	TriggerStatus       valueobject.LoanStatus
	Base                valueobject.ChargeBase
	DefaultAmount       decimal.Decimal
	DefaultPercentage   decimal.Decimal
	DeductFromPrincipal bool
	IsActive            bool
	Rates               []ChargeRate
}

// RateFor returns the currency-specific rate override, if one is configured.
func (c Charge) RateFor(currency string) (ChargeRate, bool) {
	for _, r := range c.Rates {
		if r.Currency == currency {
			return r, true
		}
	}
	return ChargeRate{}, false
}

// ---------------------------------------------------------------------------
// LoanCharge – applied instance
// ---------------------------------------------------------------------------

// LoanCharge is a charge applied to a loan with the calculation type, base
// and amount snapshotted at application time. Applied charges are immutable;
// waiving is the only permitted later mutation and preserves the record for
// audit.
type LoanCharge struct {
	ID                  string
	LoanID              string
	ChargeID            string
	Name                string
	Type                valueobject.ChargeType
	Base                valueobject.ChargeBase
	Amount              decimal.Decimal
	Currency            string
	DeductFromPrincipal bool
	Waived              bool
	CreatedAt           time.Time
}

// NewLoanCharge snapshots a charge definition into an applied instance.
func NewLoanCharge(charge Charge, loanID string, amount decimal.Decimal, currency string, now time.Time) LoanCharge {
	return LoanCharge{
		ID:                  uuid.New().String(),
		LoanID:              loanID,
		ChargeID:            charge.ID,
		Name:                charge.Name,
		Type:                charge.Type,
		Base:                charge.Base,
		Amount:              amount,
		Currency:            currency,
		DeductFromPrincipal: charge.DeductFromPrincipal,
		CreatedAt:           now,
	}
}

// Waive cancels the charge's economic effect without deleting the record.
func (lc LoanCharge) Waive() (LoanCharge, error) {
	if lc.Waived {
		return lc, errors.New("loan charge is already waived")
	}
	next := lc
	next.Waived = true
	return next, nil
}

// Effective reports whether the charge still counts toward the loan balance.
func (lc LoanCharge) Effective() bool {
	return !lc.Waived
}

// ---------------------------------------------------------------------------
// Payment
// ---------------------------------------------------------------------------

// Payment is one repayment applied to a loan, split into its allocation
// buckets. The lifecycle engine reads payments for balance computation and
// never mutates them.
type Payment struct {
	ID            string
	LoanID        string
	PrincipalPaid decimal.Decimal
	InterestPaid  decimal.Decimal
	PenaltyPaid   decimal.Decimal
	PaidAt        time.Time
}

// Total returns the full amount of the payment.
func (p Payment) Total() decimal.Decimal {
	return p.PrincipalPaid.Add(p.InterestPaid).Add(p.PenaltyPaid)
}
