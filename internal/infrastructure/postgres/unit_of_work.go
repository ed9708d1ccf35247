package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/port"
	pgdb "github.com/Leereal/microfinex-api-sub002/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork over a pgx pool. Repositories handed
// to fn are bound to one transaction, and loan loads inside it take row
// locks, so a loan re-examined by a concurrent or repeated run observes
// committed state.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork wires the pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// WithinTx runs fn inside one transaction.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepos) error) error {
	return pgdb.WithTransaction(ctx, u.pool, func(tx pgx.Tx) error {
		repos := port.TxRepos{
			Loans:   NewLockingLoanRepo(tx),
			Charges: NewChargeRepo(tx),
		}
		return fn(ctx, repos)
	})
}
