package port

import (
	"context"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/event"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans for the lifecycle engine.
type LoanRepository interface {
	// FindEligible lists loans the engine may act on: status ACTIVE or
	// DEFAULTED, product active and allowing auto-calculations.
	FindEligible(ctx context.Context, organizationID string) ([]model.Loan, error)

	// FindByID loads one loan. Inside a unit of work the row is locked for
	// the duration of the transaction.
	FindByID(ctx context.Context, organizationID, id string) (model.Loan, error)

	// Save persists status, balances and due dates of a loan.
	Save(ctx context.Context, loan model.Loan) error

	// ListCharges returns the applied charges of a loan for balance
	// computation.
	ListCharges(ctx context.Context, loanID string) ([]model.LoanCharge, error)

	// ListPayments returns the payment history of a loan for balance
	// computation. The engine never mutates payments.
	ListPayments(ctx context.Context, loanID string) ([]model.Payment, error)
}

// ChargeRepository persists charge definitions and applied loan charges.
type ChargeRepository interface {
	// FindAutoCharges lists active AUTO-mode charges of an organization
	// configured to trigger on the given status.
	FindAutoCharges(ctx context.Context, organizationID string, trigger valueobject.LoanStatus) ([]model.Charge, error)

	// FindLoanChargeByID loads one applied charge.
	FindLoanChargeByID(ctx context.Context, id string) (model.LoanCharge, error)

	// SaveLoanCharge records or updates an applied charge.
	SaveLoanCharge(ctx context.Context, lc model.LoanCharge) error
}

// OrganizationRepository enumerates tenants for a batch run.
type OrganizationRepository interface {
	ListActive(ctx context.Context) ([]model.Organization, error)
}

// SettingsRepository reads raw configuration values. An empty organizationID
// addresses the system-wide default row.
type SettingsRepository interface {
	Get(ctx context.Context, organizationID, key string) (value string, found bool, err error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Unit of work
// ---------------------------------------------------------------------------

// TxRepos bundles the repositories bound to one transaction.
type TxRepos struct {
	Loans   LoanRepository
	Charges ChargeRepository
}

// UnitOfWork runs fn inside one database transaction. All status, balance
// and charge mutations for a single loan go through one unit of work so they
// commit or roll back together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
