package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// CalculationMethod – immutable value object
// ---------------------------------------------------------------------------

// CalculationMethod identifies the interest-calculation convention a loan was
// originated under. Penalty and early-settlement math must always use the
// originating method, never a newly chosen one.
type CalculationMethod struct {
	value string
}

const (
	methodReducingBalance = "REDUCING_BALANCE"
	methodFlatRate        = "FLAT_RATE"
	methodSimpleInterest  = "SIMPLE_INTEREST"
)

var (
	CalculationMethodReducingBalance = CalculationMethod{value: methodReducingBalance}
	CalculationMethodFlatRate        = CalculationMethod{value: methodFlatRate}
	CalculationMethodSimpleInterest  = CalculationMethod{value: methodSimpleInterest}
)

var validCalculationMethods = map[string]CalculationMethod{
	methodReducingBalance: CalculationMethodReducingBalance,
	methodFlatRate:        CalculationMethodFlatRate,
	methodSimpleInterest:  CalculationMethodSimpleInterest,
}

// NewCalculationMethod creates a CalculationMethod from a raw string.
func NewCalculationMethod(s string) (CalculationMethod, error) {
	v, ok := validCalculationMethods[s]
	if !ok {
		return CalculationMethod{}, fmt.Errorf("invalid calculation method: %q", s)
	}
	return v, nil
}

// String returns the string representation of the method.
func (m CalculationMethod) String() string { return m.value }

// IsZero returns true if the method has not been initialised.
func (m CalculationMethod) IsZero() bool { return m.value == "" }

// Equal returns true when both methods carry the same value.
func (m CalculationMethod) Equal(other CalculationMethod) bool { return m.value == other.value }
