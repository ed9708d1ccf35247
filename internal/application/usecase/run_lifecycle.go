package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/event"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/port"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
	"github.com/Leereal/microfinex-api-sub002/pkg/observability"
)

// RunLifecycleUseCase is the batch engine. One run walks every active
// organization, gates on the auto-process setting, and applies at most one
// status transition per eligible loan. Each loan is handled in its own
// transaction; a failing loan is recorded and the batch moves on.
type RunLifecycleUseCase struct {
	orgs      port.OrganizationRepository
	loans     port.LoanRepository
	uow       port.UnitOfWork
	settings  *service.SettingsResolver
	evaluator *service.ChargeEvaluator
	publisher port.EventPublisher
	metrics   *observability.EngineMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewRunLifecycleUseCase wires the engine's dependencies. metrics and
// publisher may be nil in tests.
func NewRunLifecycleUseCase(
	orgs port.OrganizationRepository,
	loans port.LoanRepository,
	uow port.UnitOfWork,
	settings *service.SettingsResolver,
	evaluator *service.ChargeEvaluator,
	publisher port.EventPublisher,
	metrics *observability.EngineMetrics,
	logger *slog.Logger,
) *RunLifecycleUseCase {
	return &RunLifecycleUseCase{
		orgs:      orgs,
		loans:     loans,
		uow:       uow,
		settings:  settings,
		evaluator: evaluator,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the engine clock. Tests use it to replay the same
// instant and assert that a second run is a no-op.
func (uc *RunLifecycleUseCase) WithClock(now func() time.Time) *RunLifecycleUseCase {
	uc.now = now
	return uc
}

// loanOutcome is what one per-loan transaction produced.
type loanOutcome struct {
	action         service.LifecycleAction
	chargesApplied int
	events         []event.DomainEvent
}

// Execute runs one full pass. It always returns a summary, including for
// partially failed runs; only a failure to enumerate organizations is a
// system error that stops the run.
func (uc *RunLifecycleUseCase) Execute(ctx context.Context) dto.LifecycleRunSummary {
	now := uc.now()
	summary := dto.LifecycleRunSummary{StartedAt: now}

	organizations, err := uc.orgs.ListActive(ctx)
	if err != nil {
		uc.logger.Error("lifecycle run aborted: listing organizations failed", "error", err)
		summary.SystemError = fmt.Sprintf("list organizations: %v", err)
		summary.FinishedAt = uc.now()
		return summary
	}
	summary.OrganizationCount = len(organizations)

	for _, org := range organizations {
		if ctx.Err() != nil {
			summary.SystemError = ctx.Err().Error()
			break
		}
		uc.processOrganization(ctx, org, now, &summary)
	}

	summary.FinishedAt = uc.now()
	if uc.metrics != nil {
		uc.metrics.RunsCompleted.Add(ctx, 1)
	}
	uc.logger.Info("lifecycle run finished",
		"organizations", summary.OrganizationCount,
		"processed", summary.ProcessedCount,
		"defaulted", summary.DefaultedCount,
		"overdue", summary.OverdueCount,
		"charges_applied", summary.ChargesApplied,
		"errors", len(summary.Errors),
	)
	return summary
}

func (uc *RunLifecycleUseCase) processOrganization(
	ctx context.Context,
	org model.Organization,
	now time.Time,
	summary *dto.LifecycleRunSummary,
) {
	enabled, err := uc.settings.ResolveBool(ctx, org.ID, service.SettingLoanAutoProcessEnabled)
	if err != nil {
		uc.recordError(ctx, summary, "", org.ID, fmt.Errorf("resolve auto-process setting: %w", err))
		return
	}
	if !enabled {
		uc.logger.Debug("auto-processing disabled, skipping organization", "organization_id", org.ID)
		return
	}

	eligible, err := uc.loans.FindEligible(ctx, org.ID)
	if err != nil {
		uc.recordError(ctx, summary, "", org.ID, fmt.Errorf("find eligible loans: %w", err))
		return
	}

	for _, loan := range eligible {
		summary.ProcessedCount++
		if uc.metrics != nil {
			uc.metrics.LoansProcessed.Add(ctx, 1)
		}

		outcome, err := uc.processLoan(ctx, org.ID, loan.ID(), now)
		if err != nil {
			uc.recordError(ctx, summary, loan.ID(), org.ID, err)
			continue
		}

		switch outcome.action {
		case service.ActionDefault:
			summary.DefaultedCount++
		case service.ActionOverdue:
			summary.OverdueCount++
		}
		summary.ChargesApplied += outcome.chargesApplied
		if outcome.action != service.ActionNone && uc.metrics != nil {
			uc.metrics.Transitions.Add(ctx, 1)
		}

		uc.publishEvents(ctx, outcome.events)
	}
}

// processLoan reloads the loan inside its own transaction with a row lock and
// re-evaluates the transition decision there. A rerun over an already
// committed transition therefore decides ActionNone and writes nothing.
// The outstanding balance is rederived from the charge and payment history
// before any accrual so waived charges carry no economic effect.
func (uc *RunLifecycleUseCase) processLoan(
	ctx context.Context,
	organizationID, loanID string,
	now time.Time,
) (loanOutcome, error) {
	var outcome loanOutcome

	err := uc.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepos) error {
		loan, err := repos.Loans.FindByID(ctx, organizationID, loanID)
		if err != nil {
			return fmt.Errorf("load loan: %w", err)
		}

		loanCharges, err := repos.Loans.ListCharges(ctx, loanID)
		if err != nil {
			return fmt.Errorf("list loan charges: %w", err)
		}
		payments, err := repos.Loans.ListPayments(ctx, loanID)
		if err != nil {
			return fmt.Errorf("list loan payments: %w", err)
		}
		loan = loan.WithDerivedBalance(loanCharges, payments, now)

		decision := service.DecideTransition(loan, now)
		outcome.action = decision.Action

		switch decision.Action {
		case service.ActionNone:
			return nil

		case service.ActionDefault:
			if loan.Status().Equal(valueobject.LoanStatusActive) {
				loan, err = loan.MarkDefaulted(decision.NextDueDate, now)
			} else {
				loan, err = loan.AdvanceDueDate(decision.NextDueDate, now)
			}
			if err != nil {
				return err
			}

			accrued := service.AccruedInterest(loan.OutstandingBalance(), loan.InterestRate())
			if accrued.IsPositive() {
				loan = loan.AccrueInterest(accrued, now)
			}

			// Every missed period re-applies the DEFAULTED triggers, not
			// just the first one.
			loan, err = uc.applyTriggerCharges(ctx, repos, loan, valueobject.LoanStatusDefaulted, now, &outcome)
			if err != nil {
				return err
			}

		case service.ActionOverdue:
			loan, err = loan.MarkOverdue(now)
			if err != nil {
				return err
			}
			loan, err = uc.applyTriggerCharges(ctx, repos, loan, valueobject.LoanStatusOverdue, now, &outcome)
			if err != nil {
				return err
			}
		}

		if err := repos.Loans.Save(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		outcome.events = loan.DomainEvents()
		return nil
	})
	if err != nil {
		return loanOutcome{}, err
	}
	return outcome, nil
}

// applyTriggerCharges applies the organization's active AUTO charges
// configured for the loan's current status. Charges evaluating to zero or
// less are skipped without a record.
func (uc *RunLifecycleUseCase) applyTriggerCharges(
	ctx context.Context,
	repos port.TxRepos,
	loan model.Loan,
	trigger valueobject.LoanStatus,
	now time.Time,
	outcome *loanOutcome,
) (model.Loan, error) {
	charges, err := repos.Charges.FindAutoCharges(ctx, loan.OrganizationID(), trigger)
	if err != nil {
		return loan, fmt.Errorf("find auto charges for %s: %w", trigger, err)
	}

	for _, charge := range charges {
		base := uc.evaluator.BaseAmount(charge, loan)
		amount := uc.evaluator.Evaluate(charge, base, loan.Currency())
		if !amount.IsPositive() {
			continue
		}

		lc := model.NewLoanCharge(charge, loan.ID(), amount, loan.Currency(), now)
		if err := repos.Charges.SaveLoanCharge(ctx, lc); err != nil {
			return loan, fmt.Errorf("save loan charge %s: %w", charge.Name, err)
		}
		loan = loan.ApplyCharge(lc, now)
		outcome.chargesApplied++
	}
	return loan, nil
}

// publishEvents pushes domain events after the transaction committed. The
// state change is the source of truth; publish failures are logged, never
// propagated.
func (uc *RunLifecycleUseCase) publishEvents(ctx context.Context, events []event.DomainEvent) {
	if uc.publisher == nil || len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		uc.logger.Error("publishing domain events failed", "count", len(events), "error", err)
	}
}

func (uc *RunLifecycleUseCase) recordError(
	ctx context.Context,
	summary *dto.LifecycleRunSummary,
	loanID, organizationID string,
	err error,
) {
	uc.logger.Error("lifecycle processing failed",
		"loan_id", loanID, "organization_id", organizationID, "error", err)
	summary.Errors = append(summary.Errors, dto.LoanProcessingError{
		LoanID:         loanID,
		OrganizationID: organizationID,
		Error:          err.Error(),
	})
	if uc.metrics != nil {
		uc.metrics.LoanErrors.Add(ctx, 1)
	}
}
