package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan. The lifecycle engine
// only ever advances ACTIVE and DEFAULTED loans; the remaining statuses are
// terminal from the engine's point of view.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending    = "PENDING"
	loanStatusActive     = "ACTIVE"
	loanStatusDefaulted  = "DEFAULTED"
	loanStatusOverdue    = "OVERDUE"
	loanStatusCompleted  = "COMPLETED"
	loanStatusWrittenOff = "WRITTEN_OFF"
)

var (
	LoanStatusPending    = LoanStatus{value: loanStatusPending}
	LoanStatusActive     = LoanStatus{value: loanStatusActive}
	LoanStatusDefaulted  = LoanStatus{value: loanStatusDefaulted}
	LoanStatusOverdue    = LoanStatus{value: loanStatusOverdue}
	LoanStatusCompleted  = LoanStatus{value: loanStatusCompleted}
	LoanStatusWrittenOff = LoanStatus{value: loanStatusWrittenOff}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusPending:    LoanStatusPending,
	loanStatusActive:     LoanStatusActive,
	loanStatusDefaulted:  LoanStatusDefaulted,
	loanStatusOverdue:    LoanStatusOverdue,
	loanStatusCompleted:  LoanStatusCompleted,
	loanStatusWrittenOff: LoanStatusWrittenOff,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// EngineEligible reports whether the lifecycle engine may act on a loan in
// this status.
func (s LoanStatus) EngineEligible() bool {
	return s.value == loanStatusActive || s.value == loanStatusDefaulted
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
