package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/event"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root (lifecycle view)
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy. The lifecycle
// engine is the only writer of status, balances and due dates; payment
// processing owns payment records and is outside this aggregate.
type Loan struct {
	id                    string
	organizationID        string
	clientID              string
	product               LoanProduct
	method                valueobject.CalculationMethod
	status                valueobject.LoanStatus
	currency              string
	principalAmount       decimal.Decimal
	interestAmount        decimal.Decimal
	interestBalance       decimal.Decimal
	outstandingBalance    decimal.Decimal
	interestRate          decimal.Decimal // percent per accrual step
	startDate             time.Time
	nextDueDate           time.Time
	expectedRepaymentDate time.Time
	version               int
	createdAt             time.Time
	updatedAt             time.Time
	domainEvents          []event.DomainEvent
	appliedCharges        []LoanCharge
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, organizationID, clientID string,
	product LoanProduct,
	method valueobject.CalculationMethod,
	status valueobject.LoanStatus,
	currency string,
	principalAmount, interestAmount, interestBalance, outstandingBalance decimal.Decimal,
	interestRate decimal.Decimal,
	startDate, nextDueDate, expectedRepaymentDate time.Time,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                    id,
		organizationID:        organizationID,
		clientID:              clientID,
		product:               product,
		method:                method,
		status:                status,
		currency:              currency,
		principalAmount:       principalAmount,
		interestAmount:        interestAmount,
		interestBalance:       interestBalance,
		outstandingBalance:    outstandingBalance,
		interestRate:          interestRate,
		startDate:             startDate,
		nextDueDate:           nextDueDate,
		expectedRepaymentDate: expectedRepaymentDate,
		version:               version,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// MarkDefaulted transitions ACTIVE -> DEFAULTED on the first missed due date
// and positions the next due date.
func (l Loan) MarkDefaulted(nextDueDate time.Time, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, fmt.Errorf("%w: %s -> DEFAULTED", valueobject.ErrInvalidStatusTransition, l.status)
	}
	next := l
	next.status = valueobject.LoanStatusDefaulted
	next.nextDueDate = nextDueDate
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanDefaulted(
		l.id, l.organizationID, next.outstandingBalance, l.currency, nextDueDate,
	))
	return next, nil
}

// AdvanceDueDate moves an already DEFAULTED loan's next due date forward by
// one more period after a further missed due date.
func (l Loan) AdvanceDueDate(nextDueDate time.Time, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusDefaulted) {
		return l, fmt.Errorf("%w: due-date advance requires DEFAULTED, got %s",
			valueobject.ErrInvalidStatusTransition, l.status)
	}
	next := l
	next.nextDueDate = nextDueDate
	next.updatedAt = now
	return next, nil
}

// MarkOverdue transitions ACTIVE/DEFAULTED -> OVERDUE once the final due date
// plus grace has been exceeded. OVERDUE is terminal within the engine.
func (l Loan) MarkOverdue(now time.Time) (Loan, error) {
	if !l.status.EngineEligible() {
		return l, fmt.Errorf("%w: %s -> OVERDUE", valueobject.ErrInvalidStatusTransition, l.status)
	}
	next := l
	next.status = valueobject.LoanStatusOverdue
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanOverdue(
		l.id, l.organizationID, next.outstandingBalance, l.currency,
	))
	return next, nil
}

// WithDerivedBalance replaces the stored outstanding balance with the
// balance formula applied to the loan's charge and payment history. Callers
// run it inside the row-locked transaction so accruals and charge bases work
// from a balance that excludes waived charges.
func (l Loan) WithDerivedBalance(charges []LoanCharge, payments []Payment, now time.Time) Loan {
	next := l
	next.outstandingBalance = ComputeOutstandingBalance(l.principalAmount, l.interestAmount, charges, payments)
	next.updatedAt = now
	return next
}

// AccrueInterest adds accrued interest to the interest and outstanding
// balances. The amount is computed by the engine as balance x rate/100.
func (l Loan) AccrueInterest(amount decimal.Decimal, now time.Time) Loan {
	next := l
	next.interestAmount = l.interestAmount.Add(amount)
	next.interestBalance = l.interestBalance.Add(amount)
	next.outstandingBalance = l.outstandingBalance.Add(amount)
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanInterestAccrued(
		l.id, l.organizationID, amount, next.outstandingBalance, l.currency,
	))
	return next
}

// ApplyCharge records an applied charge against the loan. Charges not
// deducted from principal increase the outstanding balance.
func (l Loan) ApplyCharge(lc LoanCharge, now time.Time) Loan {
	next := l
	if !lc.DeductFromPrincipal {
		next.outstandingBalance = l.outstandingBalance.Add(lc.Amount)
	}
	next.updatedAt = now
	next.appliedCharges = make([]LoanCharge, len(l.appliedCharges), len(l.appliedCharges)+1)
	copy(next.appliedCharges, l.appliedCharges)
	next.appliedCharges = append(next.appliedCharges, lc)
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanChargeApplied(
		l.id, l.organizationID, lc.ChargeID, lc.Name, lc.Amount, lc.Currency, next.status.String(),
	))
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                            { return l.id }
func (l Loan) OrganizationID() string                { return l.organizationID }
func (l Loan) ClientID() string                      { return l.clientID }
func (l Loan) Product() LoanProduct                  { return l.product }
func (l Loan) Method() valueobject.CalculationMethod { return l.method }
func (l Loan) Status() valueobject.LoanStatus        { return l.status }
func (l Loan) Currency() string                      { return l.currency }
func (l Loan) PrincipalAmount() decimal.Decimal      { return l.principalAmount }
func (l Loan) InterestAmount() decimal.Decimal       { return l.interestAmount }
func (l Loan) InterestBalance() decimal.Decimal      { return l.interestBalance }
func (l Loan) OutstandingBalance() decimal.Decimal   { return l.outstandingBalance }
func (l Loan) InterestRate() decimal.Decimal         { return l.interestRate }
func (l Loan) StartDate() time.Time                  { return l.startDate }
func (l Loan) NextDueDate() time.Time                { return l.nextDueDate }
func (l Loan) ExpectedRepaymentDate() time.Time      { return l.expectedRepaymentDate }
func (l Loan) Version() int                          { return l.version }
func (l Loan) CreatedAt() time.Time                  { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                  { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent     { return l.domainEvents }

// DueDateOrFallback returns the next due date, falling back to the expected
// repayment date when the next due date was never positioned.
func (l Loan) DueDateOrFallback() time.Time {
	if l.nextDueDate.IsZero() {
		return l.expectedRepaymentDate
	}
	return l.nextDueDate
}

// AppliedCharges returns charges recorded by transitions since load.
func (l Loan) AppliedCharges() []LoanCharge {
	if l.appliedCharges == nil {
		return nil
	}
	out := make([]LoanCharge, len(l.appliedCharges))
	copy(out, l.appliedCharges)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(evts []event.DomainEvent) []event.DomainEvent {
	if evts == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(evts))
	copy(out, evts)
	return out
}
