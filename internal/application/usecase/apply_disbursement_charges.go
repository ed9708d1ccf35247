package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/event"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/port"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// ApplyDisbursementChargesUseCase applies the organization's AUTO charges
// triggered on ACTIVE to a newly disbursed loan. All charges for the loan are
// recorded in one transaction.
type ApplyDisbursementChargesUseCase struct {
	uow       port.UnitOfWork
	evaluator *service.ChargeEvaluator
	publisher port.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewApplyDisbursementChargesUseCase wires the unit of work and evaluator.
func NewApplyDisbursementChargesUseCase(
	uow port.UnitOfWork,
	evaluator *service.ChargeEvaluator,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ApplyDisbursementChargesUseCase {
	return &ApplyDisbursementChargesUseCase{
		uow:       uow,
		evaluator: evaluator,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute evaluates and records the disbursement charges. Charges evaluating
// to zero or less are skipped without a record.
func (uc *ApplyDisbursementChargesUseCase) Execute(
	ctx context.Context,
	req dto.ApplyDisbursementChargesRequest,
) (dto.ApplyDisbursementChargesResponse, error) {
	now := uc.now()
	resp := dto.ApplyDisbursementChargesResponse{LoanID: req.LoanID, TotalCharged: decimal.Zero}

	var events []event.DomainEvent
	err := uc.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepos) error {
		loan, err := repos.Loans.FindByID(ctx, req.OrganizationID, req.LoanID)
		if err != nil {
			return fmt.Errorf("load loan: %w", err)
		}
		if !loan.Status().Equal(valueobject.LoanStatusActive) {
			return fmt.Errorf("%w: disbursement charges require ACTIVE, got %s",
				valueobject.ErrInvalidStatusTransition, loan.Status())
		}

		charges, err := repos.Charges.FindAutoCharges(ctx, req.OrganizationID, valueobject.LoanStatusActive)
		if err != nil {
			return fmt.Errorf("find disbursement charges: %w", err)
		}

		for _, charge := range charges {
			base := uc.evaluator.BaseAmount(charge, loan)
			amount := uc.evaluator.Evaluate(charge, base, loan.Currency())
			if !amount.IsPositive() {
				continue
			}

			lc := model.NewLoanCharge(charge, loan.ID(), amount, loan.Currency(), now)
			if err := repos.Charges.SaveLoanCharge(ctx, lc); err != nil {
				return fmt.Errorf("save loan charge %s: %w", charge.Name, err)
			}
			loan = loan.ApplyCharge(lc, now)
			resp.ChargesApplied++
			resp.TotalCharged = resp.TotalCharged.Add(amount)
		}

		if resp.ChargesApplied == 0 {
			return nil
		}
		if err := repos.Loans.Save(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		events = loan.DomainEvents()
		return nil
	})
	if err != nil {
		return dto.ApplyDisbursementChargesResponse{}, err
	}

	if uc.publisher != nil && len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			uc.logger.Error("publishing charge events failed", "loan_id", req.LoanID, "error", err)
		}
	}
	return resp, nil
}
