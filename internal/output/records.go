package output

import (
	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/pkg/jsonsafe"
)

// Record field names, in column order. Account balances follow under their own names.
var recordFields = []string{
	"scenario", "period", "period_value", "month_index", "month", "calendar_year", "month_in_year",
	"total_income", "total_spending", "taxable_income", "taxable_investment_growth", "taxable_base",
	"total_tax", "net_cashflow", "total_assets", "total_debt", "liquid", "net_worth",
}

// RecordColumns lists the flat record columns: fixed fields, then account columns
func RecordColumns(report *domain.Report) []string {
	cols := append([]string(nil), recordFields...)
	return append(cols, report.AccountColumns()...)
}

// Record flattens one period into a column map. Non-finite numbers become nil and
// accounts a scenario does not hold are absent.
func Record(p domain.PeriodSnapshot) map[string]any {
	r := map[string]any{
		"scenario":                  p.Scenario,
		"period":                    p.Period,
		"period_value":              p.PeriodValue,
		"month_index":               p.MonthIndex,
		"month":                     p.Month,
		"calendar_year":             p.CalendarYear,
		"month_in_year":             p.MonthInYear,
		"total_income":              jsonsafe.Value(p.TotalIncome),
		"total_spending":            jsonsafe.Value(p.TotalSpending),
		"taxable_income":            jsonsafe.Value(p.TaxableIncome),
		"taxable_investment_growth": jsonsafe.Value(p.TaxableInvestmentGrowth),
		"taxable_base":              jsonsafe.Value(p.TaxableBase),
		"total_tax":                 jsonsafe.Value(p.TotalTax),
		"net_cashflow":              jsonsafe.Value(p.NetCashflow),
		"total_assets":              jsonsafe.Value(p.TotalAssets),
		"total_debt":                jsonsafe.Value(p.TotalDebt),
		"liquid":                    jsonsafe.Value(p.Liquid),
		"net_worth":                 jsonsafe.Value(p.NetWorth),
	}
	for _, name := range p.AccountNames {
		r[name] = jsonsafe.Value(p.Balances[name])
	}
	return r
}

// Records flattens every period of the report
func Records(report *domain.Report) []map[string]any {
	out := make([]map[string]any, 0, len(report.Periods))
	for _, p := range report.Periods {
		out = append(out, Record(p))
	}
	return out
}

// Payload is the aggregated scenario payload served to the dashboard
type Payload struct {
	Scenarios []string         `json:"scenarios"`
	Freq      string           `json:"freq"`
	Data      []map[string]any `json:"data"`
}

// NewPayload converts a report into its served form
func NewPayload(report *domain.Report) Payload {
	scenarios := report.Scenarios
	if scenarios == nil {
		scenarios = []string{}
	}
	return Payload{Scenarios: scenarios, Freq: string(report.Frequency), Data: Records(report)}
}
