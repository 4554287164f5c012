package domain

import (
	"fmt"
	"strings"
)

// MonthlySnapshot is one simulated month of one scenario.
type MonthlySnapshot struct {
	Scenario     string `json:"scenario"`
	MonthIndex   int    `json:"month_index"`
	Month        string `json:"month"`
	CalendarYear int    `json:"calendar_year"`
	MonthInYear  int    `json:"month_in_year"`

	// Balances by account name. AccountNames preserves the engine's iteration order.
	Balances     map[string]float64 `json:"balances"`
	AccountNames []string           `json:"account_names"`

	// Cash flow for the month.
	TotalIncome             float64 `json:"total_income"`
	TotalSpending           float64 `json:"total_spending"`
	TaxableIncome           float64 `json:"taxable_income"`
	TaxableInvestmentGrowth float64 `json:"taxable_investment_growth"`
	TaxableBase             float64 `json:"taxable_base"`
	TotalTax                float64 `json:"total_tax"`
	NetCashflow             float64 `json:"net_cashflow"`

	// Position at month end.
	TotalAssets float64 `json:"total_assets"`
	TotalDebt   float64 `json:"total_debt"`
	Liquid      float64 `json:"liquid"`
	NetWorth    float64 `json:"net_worth"`
}

// Balance returns the named account's balance, zero when unknown.
func (s *MonthlySnapshot) Balance(name string) float64 {
	return s.Balances[name]
}

// PeriodSnapshot is an end-of-period reduction of monthly snapshots.
type PeriodSnapshot struct {
	MonthlySnapshot
	Period      string `json:"period"`
	PeriodValue int    `json:"period_value"`
}

// Frequency selects the reporting period for aggregation.
type Frequency string

const (
	Monthly   Frequency = "M"
	Quarterly Frequency = "Q"
	Yearly    Frequency = "Y"
)

// Frequencies lists the supported reporting frequencies.
var Frequencies = []Frequency{Monthly, Quarterly, Yearly}

// ParseFrequency is case-insensitive and falls back to Monthly on empty or unknown input.
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToUpper(strings.TrimSpace(s))) {
	case Quarterly:
		return Quarterly
	case Yearly:
		return Yearly
	default:
		return Monthly
	}
}

// Label is the human readable name of the frequency.
func (f Frequency) Label() string {
	switch f {
	case Quarterly:
		return "Quarterly"
	case Yearly:
		return "Yearly"
	default:
		return "Monthly"
	}
}

// MonthLabel formats a calendar month as YYYY-MM.
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// Report is the aggregated, presentation-ready result across stored scenarios.
type Report struct {
	Frequency Frequency        `json:"freq"`
	Scenarios []string         `json:"scenarios"`
	Periods   []PeriodSnapshot `json:"data"`
}

// AccountColumns returns account names across all periods in first-seen order.
func (r *Report) AccountColumns() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range r.Periods {
		for _, n := range p.AccountNames {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}
