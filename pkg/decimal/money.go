package decimal

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount for display. The simulation runs in float64;
// values are converted here only when they are presented to a user.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64. Non-finite values become zero.
func NewMoney(value float64) Money {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Zero()
	}
	return Money{decimal.NewFromFloat(value)}
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Float returns the rounded amount as a float64 for JSON payloads
func (m Money) Float() float64 {
	f, _ := m.Round().Decimal.Float64()
	return f
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the amount with two decimal places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as US currency with thousands separators, e.g. -$1,234.50
func (m Money) Format() string {
	s := m.Decimal.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if m.Decimal.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Rate is a fractional rate such as 0.25 for 25%
type Rate struct {
	decimal.Decimal
}

// NewRate creates a Rate from a fraction
func NewRate(fraction float64) Rate {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return Rate{decimal.Zero}
	}
	return Rate{decimal.NewFromFloat(fraction)}
}

// RateFromPercent converts a percentage such as 25 into the fraction 0.25
func RateFromPercent(percent float64) Rate {
	return Rate{NewRate(percent).Decimal.Div(decimal.NewFromInt(100))}
}

// Percent formats the rate as a percentage with two decimals
func (r Rate) Percent() string {
	return r.Decimal.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
