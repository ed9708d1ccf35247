package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// PenaltyType – immutable value object
// ---------------------------------------------------------------------------

// PenaltyType selects how an overdue penalty is computed.
type PenaltyType struct {
	value string
}

const (
	penaltyFixedAmount          = "FIXED_AMOUNT"
	penaltyPercentOfOverdue     = "PERCENTAGE_OF_OVERDUE"
	penaltyPercentOfInstallment = "PERCENTAGE_OF_INSTALLMENT"
	penaltyCompoundingDaily     = "COMPOUNDING_DAILY"
)

var (
	PenaltyFixedAmount          = PenaltyType{value: penaltyFixedAmount}
	PenaltyPercentOfOverdue     = PenaltyType{value: penaltyPercentOfOverdue}
	PenaltyPercentOfInstallment = PenaltyType{value: penaltyPercentOfInstallment}
	PenaltyCompoundingDaily     = PenaltyType{value: penaltyCompoundingDaily}
)

var validPenaltyTypes = map[string]PenaltyType{
	penaltyFixedAmount:          PenaltyFixedAmount,
	penaltyPercentOfOverdue:     PenaltyPercentOfOverdue,
	penaltyPercentOfInstallment: PenaltyPercentOfInstallment,
	penaltyCompoundingDaily:     PenaltyCompoundingDaily,
}

// NewPenaltyType creates a PenaltyType from a raw string.
func NewPenaltyType(s string) (PenaltyType, error) {
	v, ok := validPenaltyTypes[s]
	if !ok {
		return PenaltyType{}, fmt.Errorf("invalid penalty type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the type.
func (p PenaltyType) String() string { return p.value }

// IsZero returns true if the type has not been initialised.
func (p PenaltyType) IsZero() bool { return p.value == "" }

// Equal returns true when both types carry the same value.
func (p PenaltyType) Equal(other PenaltyType) bool { return p.value == other.value }
