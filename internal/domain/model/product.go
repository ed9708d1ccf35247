package model

import "github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"

// LoanProduct is the product configuration a loan was originated under.
// The lifecycle engine reads it to derive due-date and final-due boundaries;
// it never mutates products.
type LoanProduct struct {
	ID                    string
	OrganizationID        string
	Name                  string
	DurationUnit          valueobject.DurationUnit
	MinPeriod             int
	MaxPeriod             int
	GracePeriodDays       int
	AllowAutoCalculations bool
	IsActive              bool
	DefaultMethod         valueobject.CalculationMethod
}

// AutoProcessable reports whether the lifecycle engine may act on loans of
// this product.
func (p LoanProduct) AutoProcessable() bool {
	return p.IsActive && p.AllowAutoCalculations
}
