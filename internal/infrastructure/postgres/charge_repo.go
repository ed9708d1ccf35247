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

// ChargeRepo implements port.ChargeRepository.
type ChargeRepo struct {
	db pgdb.Querier
}

// NewChargeRepo creates a charge repository over the given handle.
func NewChargeRepo(db pgdb.Querier) *ChargeRepo {
	return &ChargeRepo{db: db}
}

// FindAutoCharges lists active AUTO charges triggered by the given status,
// with their currency rate overrides.
func (r *ChargeRepo) FindAutoCharges(
	ctx context.Context,
	organizationID string,
	trigger valueobject.LoanStatus,
) ([]model.Charge, error) {
	query := `
		SELECT id, organization_id, name, charge_type, charge_mode, trigger_status,
		       charge_base, default_amount, default_percentage, deduct_from_principal, is_active
		FROM charges
		WHERE organization_id = $1
		  AND charge_mode = 'AUTO'
		  AND trigger_status = $2
		  AND is_active
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, organizationID, trigger.String())
	if err != nil {
		return nil, fmt.Errorf("query auto charges: %w", err)
	}
	defer rows.Close()

	var charges []model.Charge
	for rows.Next() {
		charge, err := scanChargeRow(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range charges {
		rates, err := r.loadRates(ctx, charges[i].ID)
		if err != nil {
			return nil, err
		}
		charges[i].Rates = rates
	}
	return charges, nil
}

// FindLoanChargeByID loads one applied charge.
func (r *ChargeRepo) FindLoanChargeByID(ctx context.Context, id string) (model.LoanCharge, error) {
	query := `
		SELECT id, loan_id, charge_id, name, charge_type, charge_base,
		       amount, currency, deduct_from_principal, waived, created_at
		FROM loan_charges
		WHERE id = $1
	`
	lc, err := scanLoanChargeRow(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanCharge{}, fmt.Errorf("%w: loan charge %s", model.ErrNotFound, id)
	}
	if err != nil {
		return model.LoanCharge{}, err
	}
	return lc, nil
}

// SaveLoanCharge records or updates an applied charge.
func (r *ChargeRepo) SaveLoanCharge(ctx context.Context, lc model.LoanCharge) error {
	query := `
		INSERT INTO loan_charges (
			id, loan_id, charge_id, name, charge_type, charge_base,
			amount, currency, deduct_from_principal, waived, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			waived = EXCLUDED.waived
	`
	_, err := r.db.Exec(ctx, query,
		lc.ID, lc.LoanID, lc.ChargeID, lc.Name,
		lc.Type.String(), lc.Base.String(),
		lc.Amount, lc.Currency, lc.DeductFromPrincipal, lc.Waived, lc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save loan charge: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *ChargeRepo) loadRates(ctx context.Context, chargeID string) ([]model.ChargeRate, error) {
	query := `
		SELECT currency, fixed_amount, percentage, min_amount, max_amount
		FROM charge_rates
		WHERE charge_id = $1
		ORDER BY currency
	`
	rows, err := r.db.Query(ctx, query, chargeID)
	if err != nil {
		return nil, fmt.Errorf("query charge rates: %w", err)
	}
	defer rows.Close()

	var rates []model.ChargeRate
	for rows.Next() {
		var rate model.ChargeRate
		if err := rows.Scan(&rate.Currency, &rate.FixedAmount, &rate.Percentage, &rate.MinAmount, &rate.MaxAmount); err != nil {
			return nil, fmt.Errorf("scan charge rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func scanChargeRow(s scannable) (model.Charge, error) {
	var (
		id, organizationID, name            string
		chargeTypeStr, modeStr, triggerStr  string
		baseStr                             string
		defaultAmount, defaultPercentage    decimal.Decimal
		deductFromPrincipal, isActive       bool
	)

	err := s.Scan(
		&id, &organizationID, &name, &chargeTypeStr, &modeStr, &triggerStr,
		&baseStr, &defaultAmount, &defaultPercentage, &deductFromPrincipal, &isActive,
	)
	if err != nil {
		return model.Charge{}, fmt.Errorf("scan charge: %w", err)
	}

	chargeType, err := valueobject.NewChargeType(chargeTypeStr)
	if err != nil {
		return model.Charge{}, fmt.Errorf("parse charge type: %w", err)
	}
	mode, err := valueobject.NewChargeMode(modeStr)
	if err != nil {
		return model.Charge{}, fmt.Errorf("parse charge mode: %w", err)
	}
	trigger, err := valueobject.NewLoanStatus(triggerStr)
	if err != nil {
		return model.Charge{}, fmt.Errorf("parse trigger status: %w", err)
	}
	base, err := valueobject.NewChargeBase(baseStr)
	if err != nil {
		return model.Charge{}, fmt.Errorf("parse charge base: %w", err)
	}

	return model.Charge{
		ID:                  id,
		OrganizationID:      organizationID,
		Name:                name,
		Type:                chargeType,
		Mode:                mode,
		TriggerStatus:       trigger,
		Base:                base,
		DefaultAmount:       defaultAmount,
		DefaultPercentage:   defaultPercentage,
		DeductFromPrincipal: deductFromPrincipal,
		IsActive:            isActive,
	}, nil
}

func scanLoanChargeRow(s scannable) (model.LoanCharge, error) {
	var (
		lc                    model.LoanCharge
		chargeTypeStr, baseStr string
		createdAt             time.Time
	)

	err := s.Scan(
		&lc.ID, &lc.LoanID, &lc.ChargeID, &lc.Name, &chargeTypeStr, &baseStr,
		&lc.Amount, &lc.Currency, &lc.DeductFromPrincipal, &lc.Waived, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LoanCharge{}, err
		}
		return model.LoanCharge{}, fmt.Errorf("scan loan charge: %w", err)
	}

	chargeType, err := valueobject.NewChargeType(chargeTypeStr)
	if err != nil {
		return model.LoanCharge{}, fmt.Errorf("parse charge type: %w", err)
	}
	base, err := valueobject.NewChargeBase(baseStr)
	if err != nil {
		return model.LoanCharge{}, fmt.Errorf("parse charge base: %w", err)
	}

	lc.Type = chargeType
	lc.Base = base
	lc.CreatedAt = createdAt
	return lc, nil
}
