package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// LifecycleAction is the transition the engine should apply to a loan.
type LifecycleAction int

const (
	ActionNone LifecycleAction = iota
	ActionDefault
	ActionOverdue
)

// String names the action for logs and run summaries.
func (a LifecycleAction) String() string {
	switch a {
	case ActionDefault:
		return "DEFAULT"
	case ActionOverdue:
		return "OVERDUE"
	default:
		return "NONE"
	}
}

// TransitionDecision is the outcome of evaluating one loan at one instant.
type TransitionDecision struct {
	Action       LifecycleAction
	TargetDate   time.Time // due date plus grace; crossing it triggers action
	FinalDueDate time.Time // start + maxPeriod + grace; crossing it means OVERDUE
	NextDueDate  time.Time // where the due date moves on ActionDefault
}

// DecideTransition is the pure decision function of the lifecycle engine.
// Given identical loan state and "now" it always returns the same decision,
// which is what makes lock-and-recheck idempotency work: a committed first
// run advances the due date or moves the loan out of the eligible statuses,
// so re-evaluation yields ActionNone.
func DecideTransition(loan model.Loan, now time.Time) TransitionDecision {
	product := loan.Product()

	if !product.AutoProcessable() || !loan.Status().EngineEligible() {
		return TransitionDecision{Action: ActionNone}
	}

	due := loan.DueDateOrFallback()
	if due.IsZero() {
		return TransitionDecision{Action: ActionNone}
	}

	targetDate := due.AddDate(0, 0, product.GracePeriodDays)
	if !now.After(targetDate) {
		// Not yet due.
		return TransitionDecision{Action: ActionNone, TargetDate: targetDate}
	}

	finalDueDate := product.DurationUnit.
		Add(loan.StartDate(), product.MaxPeriod).
		AddDate(0, 0, product.GracePeriodDays)

	if now.After(finalDueDate) {
		return TransitionDecision{
			Action:       ActionOverdue,
			TargetDate:   targetDate,
			FinalDueDate: finalDueDate,
		}
	}

	// Still within the max period but past a due date. First miss advances
	// from the expected repayment date; repeat misses advance from the
	// current next due date.
	var nextDue time.Time
	if loan.Status().Equal(valueobject.LoanStatusActive) {
		nextDue = product.DurationUnit.Add(loan.ExpectedRepaymentDate(), product.MinPeriod)
	} else {
		nextDue = product.DurationUnit.Add(loan.NextDueDate(), product.MinPeriod)
	}

	return TransitionDecision{
		Action:       ActionDefault,
		TargetDate:   targetDate,
		FinalDueDate: finalDueDate,
		NextDueDate:  nextDue,
	}
}

// AccruedInterest computes the interest the engine adds on a missed period:
// outstanding balance x rate/100, rounded to the cent.
func AccruedInterest(outstandingBalance, interestRate decimal.Decimal) decimal.Decimal {
	return outstandingBalance.Mul(interestRate).Div(decimal.NewFromInt(100)).Round(2)
}
