package valueobject

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// RepaymentFrequency – immutable value object
// ---------------------------------------------------------------------------

// RepaymentFrequency is how often installments fall due.
type RepaymentFrequency struct {
	value string
}

const (
	frequencyDaily      = "DAILY"
	frequencyWeekly     = "WEEKLY"
	frequencyBiweekly   = "BIWEEKLY"
	frequencyMonthly    = "MONTHLY"
	frequencyQuarterly  = "QUARTERLY"
	frequencySemiAnnual = "SEMI_ANNUAL"
	frequencyAnnual     = "ANNUAL"
)

var (
	FrequencyDaily      = RepaymentFrequency{value: frequencyDaily}
	FrequencyWeekly     = RepaymentFrequency{value: frequencyWeekly}
	FrequencyBiweekly   = RepaymentFrequency{value: frequencyBiweekly}
	FrequencyMonthly    = RepaymentFrequency{value: frequencyMonthly}
	FrequencyQuarterly  = RepaymentFrequency{value: frequencyQuarterly}
	FrequencySemiAnnual = RepaymentFrequency{value: frequencySemiAnnual}
	FrequencyAnnual     = RepaymentFrequency{value: frequencyAnnual}
)

var validFrequencies = map[string]RepaymentFrequency{
	frequencyDaily:      FrequencyDaily,
	frequencyWeekly:     FrequencyWeekly,
	frequencyBiweekly:   FrequencyBiweekly,
	frequencyMonthly:    FrequencyMonthly,
	frequencyQuarterly:  FrequencyQuarterly,
	frequencySemiAnnual: FrequencySemiAnnual,
	frequencyAnnual:     FrequencyAnnual,
}

// NewRepaymentFrequency creates a RepaymentFrequency from a raw string.
func NewRepaymentFrequency(s string) (RepaymentFrequency, error) {
	v, ok := validFrequencies[s]
	if !ok {
		return RepaymentFrequency{}, fmt.Errorf("invalid repayment frequency: %q", s)
	}
	return v, nil
}

// String returns the string representation of the frequency.
func (f RepaymentFrequency) String() string { return f.value }

// IsZero returns true if the frequency has not been initialised.
func (f RepaymentFrequency) IsZero() bool { return f.value == "" }

// Equal returns true when both frequencies carry the same value.
func (f RepaymentFrequency) Equal(other RepaymentFrequency) bool { return f.value == other.value }

// PeriodsPerYear returns how many installment periods fit in one year.
func (f RepaymentFrequency) PeriodsPerYear() int {
	switch f.value {
	case frequencyDaily:
		return 365
	case frequencyWeekly:
		return 52
	case frequencyBiweekly:
		return 26
	case frequencyMonthly:
		return 12
	case frequencyQuarterly:
		return 4
	case frequencySemiAnnual:
		return 2
	case frequencyAnnual:
		return 1
	default:
		return 12
	}
}

// Next returns the due date one period after t, using calendar arithmetic so
// month-based frequencies track month boundaries rather than fixed day counts.
func (f RepaymentFrequency) Next(t time.Time) time.Time {
	switch f.value {
	case frequencyDaily:
		return t.AddDate(0, 0, 1)
	case frequencyWeekly:
		return t.AddDate(0, 0, 7)
	case frequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case frequencyMonthly:
		return t.AddDate(0, 1, 0)
	case frequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case frequencySemiAnnual:
		return t.AddDate(0, 6, 0)
	case frequencyAnnual:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// ---------------------------------------------------------------------------
// DurationUnit – immutable value object
// ---------------------------------------------------------------------------

// DurationUnit is the unit a loan product measures its periods in.
type DurationUnit struct {
	value string
}

const (
	durationDays   = "DAYS"
	durationWeeks  = "WEEKS"
	durationMonths = "MONTHS"
	durationYears  = "YEARS"
)

var (
	DurationDays   = DurationUnit{value: durationDays}
	DurationWeeks  = DurationUnit{value: durationWeeks}
	DurationMonths = DurationUnit{value: durationMonths}
	DurationYears  = DurationUnit{value: durationYears}
)

var validDurationUnits = map[string]DurationUnit{
	durationDays:   DurationDays,
	durationWeeks:  DurationWeeks,
	durationMonths: DurationMonths,
	durationYears:  DurationYears,
}

// NewDurationUnit creates a DurationUnit from a raw string.
func NewDurationUnit(s string) (DurationUnit, error) {
	v, ok := validDurationUnits[s]
	if !ok {
		return DurationUnit{}, fmt.Errorf("invalid duration unit: %q", s)
	}
	return v, nil
}

// String returns the string representation of the unit.
func (u DurationUnit) String() string { return u.value }

// IsZero returns true if the unit has not been initialised.
func (u DurationUnit) IsZero() bool { return u.value == "" }

// Equal returns true when both units carry the same value.
func (u DurationUnit) Equal(other DurationUnit) bool { return u.value == other.value }

// Add advances t by n units.
func (u DurationUnit) Add(t time.Time, n int) time.Time {
	switch u.value {
	case durationDays:
		return t.AddDate(0, 0, n)
	case durationWeeks:
		return t.AddDate(0, 0, 7*n)
	case durationMonths:
		return t.AddDate(0, n, 0)
	case durationYears:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}
