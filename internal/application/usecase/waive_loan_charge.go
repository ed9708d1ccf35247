package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/port"
)

// WaiveLoanChargeUseCase cancels an applied charge's economic effect while
// keeping the record for audit. The loan's outstanding balance is rebuilt
// from the post-waive charge history in the same transaction.
type WaiveLoanChargeUseCase struct {
	uow    port.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

// NewWaiveLoanChargeUseCase wires the unit of work.
func NewWaiveLoanChargeUseCase(uow port.UnitOfWork, logger *slog.Logger) *WaiveLoanChargeUseCase {
	return &WaiveLoanChargeUseCase{uow: uow, logger: logger, now: time.Now}
}

// Execute marks one applied charge as waived and rewrites the loan's stored
// balance without the waived amount. Waiving an already waived charge fails.
func (uc *WaiveLoanChargeUseCase) Execute(ctx context.Context, req dto.WaiveLoanChargeRequest) error {
	now := uc.now()
	err := uc.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepos) error {
		lc, err := repos.Charges.FindLoanChargeByID(ctx, req.LoanChargeID)
		if err != nil {
			return fmt.Errorf("load loan charge: %w", err)
		}
		waived, err := lc.Waive()
		if err != nil {
			return err
		}
		if err := repos.Charges.SaveLoanCharge(ctx, waived); err != nil {
			return fmt.Errorf("save waived charge: %w", err)
		}

		loan, err := repos.Loans.FindByID(ctx, req.OrganizationID, lc.LoanID)
		if err != nil {
			return fmt.Errorf("load loan: %w", err)
		}
		loanCharges, err := repos.Loans.ListCharges(ctx, lc.LoanID)
		if err != nil {
			return fmt.Errorf("list loan charges: %w", err)
		}
		payments, err := repos.Loans.ListPayments(ctx, lc.LoanID)
		if err != nil {
			return fmt.Errorf("list loan payments: %w", err)
		}

		loan = loan.WithDerivedBalance(loanCharges, payments, now)
		if err := repos.Loans.Save(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info("loan charge waived", "loan_charge_id", req.LoanChargeID)
	return nil
}
