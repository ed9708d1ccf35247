package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

var (
	hundred     = decimal.NewFromInt(100)
	twelve      = decimal.NewFromInt(12)
	one         = decimal.NewFromInt(1)
	daysPerYear = decimal.NewFromInt(365)
)

// InstallmentCount derives the number of installments from a term in months
// and a repayment frequency: round(termMonths x periodsPerYear / 12), with a
// floor of one installment.
func InstallmentCount(termMonths int, f valueobject.RepaymentFrequency) int {
	n := decimal.NewFromInt(int64(termMonths)).
		Mul(decimal.NewFromInt(int64(f.PeriodsPerYear()))).
		Div(twelve).
		Round(0).
		IntPart()
	if n < 1 {
		return 1
	}
	return int(n)
}

// PeriodicRate converts an annual percentage rate to the per-period decimal
// rate at full precision (no rounding).
func PeriodicRate(annualRatePercent decimal.Decimal, f valueobject.RepaymentFrequency) decimal.Decimal {
	return annualRatePercent.
		Div(hundred).
		Div(decimal.NewFromInt(int64(f.PeriodsPerYear())))
}

// TermYears returns termMonths/12 at full precision.
func TermYears(termMonths int) decimal.Decimal {
	return decimal.NewFromInt(int64(termMonths)).Div(twelve)
}

// DueDates generates n due dates stepping one frequency period at a time from
// the disbursement date.
func DueDates(disbursement time.Time, f valueobject.RepaymentFrequency, n int) []time.Time {
	dates := make([]time.Time, n)
	t := disbursement
	for i := 0; i < n; i++ {
		t = f.Next(t)
		dates[i] = t
	}
	return dates
}

// pow raises base to an integer exponent using exact decimal arithmetic.
func pow(base decimal.Decimal, n int) decimal.Decimal {
	return base.Pow(decimal.NewFromInt(int64(n)))
}

// round2 rounds a monetary output to two decimal places. Only final outputs
// are rounded; intermediate math stays at full precision.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// sumOfDigits returns 1+2+...+n for Rule-of-78 weighting.
func sumOfDigits(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n) * int64(n+1) / 2)
}
