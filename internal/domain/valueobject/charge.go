package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// ChargeType – immutable value object
// ---------------------------------------------------------------------------

// ChargeType selects fixed-amount versus percentage-of-base charge math.
type ChargeType struct {
	value string
}

const (
	chargeTypeFixed      = "FIXED"
	chargeTypePercentage = "PERCENTAGE"
)

var (
	ChargeTypeFixed      = ChargeType{value: chargeTypeFixed}
	ChargeTypePercentage = ChargeType{value: chargeTypePercentage}
)

var validChargeTypes = map[string]ChargeType{
	chargeTypeFixed:      ChargeTypeFixed,
	chargeTypePercentage: ChargeTypePercentage,
}

// NewChargeType creates a ChargeType from a raw string.
func NewChargeType(s string) (ChargeType, error) {
	v, ok := validChargeTypes[s]
	if !ok {
		return ChargeType{}, fmt.Errorf("invalid charge type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the type.
func (c ChargeType) String() string { return c.value }

// IsZero returns true if the type has not been initialised.
func (c ChargeType) IsZero() bool { return c.value == "" }

// Equal returns true when both types carry the same value.
func (c ChargeType) Equal(other ChargeType) bool { return c.value == other.value }

// ---------------------------------------------------------------------------
// ChargeMode – immutable value object
// ---------------------------------------------------------------------------

// ChargeMode distinguishes charges the engine applies automatically on a
// status transition from charges applied by an operator.
type ChargeMode struct {
	value string
}

const (
	chargeModeAuto   = "AUTO"
	chargeModeManual = "MANUAL"
)

var (
	ChargeModeAuto   = ChargeMode{value: chargeModeAuto}
	ChargeModeManual = ChargeMode{value: chargeModeManual}
)

var validChargeModes = map[string]ChargeMode{
	chargeModeAuto:   ChargeModeAuto,
	chargeModeManual: ChargeModeManual,
}

// NewChargeMode creates a ChargeMode from a raw string.
func NewChargeMode(s string) (ChargeMode, error) {
	v, ok := validChargeModes[s]
	if !ok {
		return ChargeMode{}, fmt.Errorf("invalid charge mode: %q", s)
	}
	return v, nil
}

// String returns the string representation of the mode.
func (c ChargeMode) String() string { return c.value }

// IsZero returns true if the mode has not been initialised.
func (c ChargeMode) IsZero() bool { return c.value == "" }

// Equal returns true when both modes carry the same value.
func (c ChargeMode) Equal(other ChargeMode) bool { return c.value == other.value }

// ---------------------------------------------------------------------------
// ChargeBase – immutable value object
// ---------------------------------------------------------------------------

// ChargeBase is the amount a percentage charge is applied against.
type ChargeBase struct {
	value string
}

const (
	chargeBasePrincipal = "PRINCIPAL"
	chargeBaseBalance   = "BALANCE"
)

var (
	ChargeBasePrincipal = ChargeBase{value: chargeBasePrincipal}
	ChargeBaseBalance   = ChargeBase{value: chargeBaseBalance}
)

var validChargeBases = map[string]ChargeBase{
	chargeBasePrincipal: ChargeBasePrincipal,
	chargeBaseBalance:   ChargeBaseBalance,
}

// NewChargeBase creates a ChargeBase from a raw string.
func NewChargeBase(s string) (ChargeBase, error) {
	v, ok := validChargeBases[s]
	if !ok {
		return ChargeBase{}, fmt.Errorf("invalid charge base: %q", s)
	}
	return v, nil
}

// String returns the string representation of the base.
func (c ChargeBase) String() string { return c.value }

// IsZero returns true if the base has not been initialised.
func (c ChargeBase) IsZero() bool { return c.value == "" }

// Equal returns true when both bases carry the same value.
func (c ChargeBase) Equal(other ChargeBase) bool { return c.value == other.value }
