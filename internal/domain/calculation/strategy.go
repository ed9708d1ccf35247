package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// Strategy is the capability set every interest-calculation convention
// implements. Implementations are pure and stateless; they may be called
// concurrently without locking.
type Strategy interface {
	Method() valueobject.CalculationMethod

	// ComputeSchedule turns a validated input into a full amortization
	// schedule. Implementations route all rounding residue into the final
	// installment so that principal portions sum to the original principal
	// exactly, and fold one-time fees into the first installment only.
	ComputeSchedule(in model.LoanCalculationInput) (model.LoanCalculationResult, error)

	// ComputePenalty prices an overdue amount. The compounding-daily variant
	// is convention-specific: reducing balance compounds, the add-on and
	// simple-interest conventions use a simple daily product.
	ComputePenalty(overdueDays int, overdueAmount, penaltyRate decimal.Decimal,
		penaltyType valueobject.PenaltyType, now time.Time) (model.PenaltyResult, error)

	// ComputeEarlySettlement quotes a voluntary payoff after
	// installmentsPaid periods, applying the convention's rebate policy.
	ComputeEarlySettlement(original model.LoanCalculationResult,
		settlementDate time.Time, installmentsPaid int) (model.EarlySettlementResult, error)
}

// Registry resolves strategies by calculation method. It is constructed once
// at startup; adding a method means adding a strategy, not reflection.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds a registry over the given strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		r.strategies[s.Method().String()] = s
	}
	return r
}

// DefaultRegistry registers the three built-in conventions.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewReducingBalanceStrategy(),
		NewFlatRateStrategy(),
		NewSimpleInterestStrategy(),
	)
}

// Resolve returns the strategy for a method or ErrUnsupportedMethod.
func (r *Registry) Resolve(m valueobject.CalculationMethod) (Strategy, error) {
	s, ok := r.strategies[m.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedMethod, m)
	}
	return s, nil
}

// Methods lists the registered calculation methods.
func (r *Registry) Methods() []valueobject.CalculationMethod {
	out := make([]valueobject.CalculationMethod, 0, len(r.strategies))
	for _, s := range r.strategies {
		out = append(out, s.Method())
	}
	return out
}
