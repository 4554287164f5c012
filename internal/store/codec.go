package store

import (
	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/pkg/jsonsafe"
)

// storedBalance keeps account order, which a JSON object would not
type storedBalance struct {
	Name    string   `json:"name"`
	Balance *float64 `json:"balance"`
}

// storedMonth is the persisted form of a snapshot. Non-finite values are stored as null.
type storedMonth struct {
	MonthIndex   int    `json:"month_index"`
	Month        string `json:"month"`
	CalendarYear int    `json:"calendar_year"`
	MonthInYear  int    `json:"month_in_year"`

	Balances []storedBalance `json:"balances"`

	TotalIncome             *float64 `json:"total_income"`
	TotalSpending           *float64 `json:"total_spending"`
	TaxableIncome           *float64 `json:"taxable_income"`
	TaxableInvestmentGrowth *float64 `json:"taxable_investment_growth"`
	TaxableBase             *float64 `json:"taxable_base"`
	TotalTax                *float64 `json:"total_tax"`
	NetCashflow             *float64 `json:"net_cashflow"`
	TotalAssets             *float64 `json:"total_assets"`
	TotalDebt               *float64 `json:"total_debt"`
	Liquid                  *float64 `json:"liquid"`
	NetWorth                *float64 `json:"net_worth"`
}

type storedScenario struct {
	Name string        `json:"name"`
	Rows []storedMonth `json:"rows"`
}

func encodeMonth(s domain.MonthlySnapshot) storedMonth {
	balances := make([]storedBalance, 0, len(s.AccountNames))
	for _, name := range s.AccountNames {
		balances = append(balances, storedBalance{Name: name, Balance: jsonsafe.Float(s.Balances[name])})
	}
	return storedMonth{
		MonthIndex:              s.MonthIndex,
		Month:                   s.Month,
		CalendarYear:            s.CalendarYear,
		MonthInYear:             s.MonthInYear,
		Balances:                balances,
		TotalIncome:             jsonsafe.Float(s.TotalIncome),
		TotalSpending:           jsonsafe.Float(s.TotalSpending),
		TaxableIncome:           jsonsafe.Float(s.TaxableIncome),
		TaxableInvestmentGrowth: jsonsafe.Float(s.TaxableInvestmentGrowth),
		TaxableBase:             jsonsafe.Float(s.TaxableBase),
		TotalTax:                jsonsafe.Float(s.TotalTax),
		NetCashflow:             jsonsafe.Float(s.NetCashflow),
		TotalAssets:             jsonsafe.Float(s.TotalAssets),
		TotalDebt:               jsonsafe.Float(s.TotalDebt),
		Liquid:                  jsonsafe.Float(s.Liquid),
		NetWorth:                jsonsafe.Float(s.NetWorth),
	}
}

func decodeMonth(scenario string, m storedMonth) domain.MonthlySnapshot {
	names := make([]string, 0, len(m.Balances))
	balances := make(map[string]float64, len(m.Balances))
	for _, b := range m.Balances {
		names = append(names, b.Name)
		balances[b.Name] = jsonsafe.Deref(b.Balance)
	}
	return domain.MonthlySnapshot{
		Scenario:                scenario,
		MonthIndex:              m.MonthIndex,
		Month:                   m.Month,
		CalendarYear:            m.CalendarYear,
		MonthInYear:             m.MonthInYear,
		Balances:                balances,
		AccountNames:            names,
		TotalIncome:             jsonsafe.Deref(m.TotalIncome),
		TotalSpending:           jsonsafe.Deref(m.TotalSpending),
		TaxableIncome:           jsonsafe.Deref(m.TaxableIncome),
		TaxableInvestmentGrowth: jsonsafe.Deref(m.TaxableInvestmentGrowth),
		TaxableBase:             jsonsafe.Deref(m.TaxableBase),
		TotalTax:                jsonsafe.Deref(m.TotalTax),
		NetCashflow:             jsonsafe.Deref(m.NetCashflow),
		TotalAssets:             jsonsafe.Deref(m.TotalAssets),
		TotalDebt:               jsonsafe.Deref(m.TotalDebt),
		Liquid:                  jsonsafe.Deref(m.Liquid),
		NetWorth:                jsonsafe.Deref(m.NetWorth),
	}
}

func encodeScenario(sc Scenario) storedScenario {
	rows := make([]storedMonth, 0, len(sc.Rows))
	for _, r := range sc.Rows {
		rows = append(rows, encodeMonth(r))
	}
	return storedScenario{Name: sc.Name, Rows: rows}
}

func decodeScenario(s storedScenario) Scenario {
	rows := make([]domain.MonthlySnapshot, 0, len(s.Rows))
	for _, m := range s.Rows {
		rows = append(rows, decodeMonth(s.Name, m))
	}
	return Scenario{Name: s.Name, Rows: rows}
}
