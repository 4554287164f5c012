package output

import (
	"math"
	"strconv"

	"github.com/rpgo/household-planner/pkg/decimal"
)

// FormatCurrency formats an amount as USD with thousands separators and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount float64) string { return decimal.NewMoney(amount).Format() }

// FormatPercentage formats a percentage value with 2 decimals.
func FormatPercentage(pct float64) string { return decimal.RateFromPercent(pct).Percent() }

// csvNumber renders a cell with 2 decimals; non-finite values are left blank
func csvNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewMoney(v).String()
}

func intToString(i int) string { return strconv.Itoa(i) }
