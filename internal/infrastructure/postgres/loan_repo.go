package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
	pgdb "github.com/Leereal/microfinex-api-sub002/pkg/postgres"
)

const loanColumns = `
	l.id, l.organization_id, l.client_id,
	l.method, l.status, l.currency,
	l.principal_amount, l.interest_amount, l.interest_balance, l.outstanding_balance,
	l.interest_rate, l.start_date, l.next_due_date, l.expected_repayment_date,
	l.version, l.created_at, l.updated_at,
	p.id, p.organization_id, p.name, p.duration_unit,
	p.min_period, p.max_period, p.grace_period_days,
	p.allow_auto_calculations, p.is_active, p.default_method
`

// LoanRepo implements port.LoanRepository over a pool or a transaction.
// Repos built by the unit of work lock loaded rows for the transaction.
type LoanRepo struct {
	db      pgdb.Querier
	locking bool
}

// NewLoanRepo creates a loan repository over the given handle.
func NewLoanRepo(db pgdb.Querier) *LoanRepo {
	return &LoanRepo{db: db}
}

// NewLockingLoanRepo creates a transaction-scoped repository whose FindByID
// takes a row lock.
func NewLockingLoanRepo(db pgdb.Querier) *LoanRepo {
	return &LoanRepo{db: db, locking: true}
}

// FindEligible lists loans the engine may act on.
func (r *LoanRepo) FindEligible(ctx context.Context, organizationID string) ([]model.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans l
		JOIN loan_products p ON p.id = l.product_id
		WHERE l.organization_id = $1
		  AND l.status IN ('ACTIVE', 'DEFAULTED')
		  AND p.is_active
		  AND p.allow_auto_calculations
		ORDER BY l.created_at
	`
	rows, err := r.db.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query eligible loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// FindByID loads one loan, locking the row when the repository is
// transaction-scoped.
func (r *LoanRepo) FindByID(ctx context.Context, organizationID, id string) (model.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans l
		JOIN loan_products p ON p.id = l.product_id
		WHERE l.organization_id = $1 AND l.id = $2
	`
	if r.locking {
		query += " FOR UPDATE OF l"
	}

	loan, err := scanLoanRow(r.db.QueryRow(ctx, query, organizationID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, fmt.Errorf("%w: loan %s", model.ErrNotFound, id)
	}
	if err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

// Save persists the engine-owned fields of a loan with an optimistic
// version guard.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	query := `
		UPDATE loans SET
			status              = $1,
			interest_amount     = $2,
			interest_balance    = $3,
			outstanding_balance = $4,
			next_due_date       = $5,
			version             = loans.version + 1,
			updated_at          = $6
		WHERE id = $7 AND organization_id = $8 AND version = $9
	`
	var nextDue *time.Time
	if !loan.NextDueDate().IsZero() {
		d := loan.NextDueDate()
		nextDue = &d
	}

	tag, err := r.db.Exec(ctx, query,
		loan.Status().String(),
		loan.InterestAmount(), loan.InterestBalance(), loan.OutstandingBalance(),
		nextDue, loan.UpdatedAt(),
		loan.ID(), loan.OrganizationID(), loan.Version(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("optimistic locking conflict on loan")
	}
	return nil
}

// ListCharges returns the applied charges of a loan.
func (r *LoanRepo) ListCharges(ctx context.Context, loanID string) ([]model.LoanCharge, error) {
	query := `
		SELECT id, loan_id, charge_id, name, charge_type, charge_base,
		       amount, currency, deduct_from_principal, waived, created_at
		FROM loan_charges
		WHERE loan_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query loan charges: %w", err)
	}
	defer rows.Close()

	var charges []model.LoanCharge
	for rows.Next() {
		lc, err := scanLoanChargeRow(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, lc)
	}
	return charges, rows.Err()
}

// ListPayments returns the payment history of a loan.
func (r *LoanRepo) ListPayments(ctx context.Context, loanID string) ([]model.Payment, error) {
	query := `
		SELECT id, loan_id, principal_paid, interest_paid, penalty_paid, paid_at
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY paid_at
	`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query loan payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.PrincipalPaid, &p.InterestPaid, &p.PenaltyPaid, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, organizationID, clientID                                       string
		methodStr, statusStr, currency                                     string
		principalAmount, interestAmount, interestBalance, outstandingBal   decimal.Decimal
		interestRate                                                       decimal.Decimal
		startDate                                                          time.Time
		nextDueDate                                                        *time.Time
		expectedRepaymentDate                                              time.Time
		version                                                            int
		createdAt, updatedAt                                               time.Time
		productID, productOrgID, productName, durationUnitStr              string
		minPeriod, maxPeriod, gracePeriodDays                              int
		allowAutoCalculations, productActive                               bool
		defaultMethodStr                                                   string
	)

	err := s.Scan(
		&id, &organizationID, &clientID,
		&methodStr, &statusStr, &currency,
		&principalAmount, &interestAmount, &interestBalance, &outstandingBal,
		&interestRate, &startDate, &nextDueDate, &expectedRepaymentDate,
		&version, &createdAt, &updatedAt,
		&productID, &productOrgID, &productName, &durationUnitStr,
		&minPeriod, &maxPeriod, &gracePeriodDays,
		&allowAutoCalculations, &productActive, &defaultMethodStr,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, err
		}
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	method, err := valueobject.NewCalculationMethod(methodStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse calculation method: %w", err)
	}
	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}
	durationUnit, err := valueobject.NewDurationUnit(durationUnitStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse duration unit: %w", err)
	}
	defaultMethod, err := valueobject.NewCalculationMethod(defaultMethodStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse product default method: %w", err)
	}

	product := model.LoanProduct{
		ID:                    productID,
		OrganizationID:        productOrgID,
		Name:                  productName,
		DurationUnit:          durationUnit,
		MinPeriod:             minPeriod,
		MaxPeriod:             maxPeriod,
		GracePeriodDays:       gracePeriodDays,
		AllowAutoCalculations: allowAutoCalculations,
		IsActive:              productActive,
		DefaultMethod:         defaultMethod,
	}

	var nextDue time.Time
	if nextDueDate != nil {
		nextDue = *nextDueDate
	}

	return model.ReconstructLoan(
		id, organizationID, clientID,
		product, method, status, currency,
		principalAmount, interestAmount, interestBalance, outstandingBal,
		interestRate,
		startDate, nextDue, expectedRepaymentDate,
		version, createdAt, updatedAt,
	), nil
}
