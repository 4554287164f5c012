package output

import (
	"math"

	"github.com/rpgo/household-planner/internal/domain"
)

func period(scenario, label string, idx int, netWorth float64, balances map[string]float64, names []string) domain.PeriodSnapshot {
	return domain.PeriodSnapshot{
		MonthlySnapshot: domain.MonthlySnapshot{
			Scenario:      scenario,
			MonthIndex:    idx,
			Month:         domain.MonthLabel(2024+idx/12, idx%12+1),
			CalendarYear:  2024 + idx/12,
			MonthInYear:   idx%12 + 1,
			Balances:      balances,
			AccountNames:  names,
			TotalIncome:   1000,
			TotalSpending: 400,
			TotalTax:      150,
			NetCashflow:   450,
			TotalAssets:   netWorth + 500,
			TotalDebt:     -500,
			Liquid:        netWorth,
			NetWorth:      netWorth,
		},
		Period:      label,
		PeriodValue: idx / 3,
	}
}

func buildTestReport() *domain.Report {
	return &domain.Report{
		Frequency: domain.Quarterly,
		Scenarios: []string{"Base", "Saver"},
		Periods: []domain.PeriodSnapshot{
			period("Base", "2024 Q1", 2, 10000, map[string]float64{"Cash": 10500, "Loan": -500}, []string{"Cash", "Loan"}),
			period("Base", "2024 Q2", 5, 11000, map[string]float64{"Cash": 11500, "Loan": -500}, []string{"Cash", "Loan"}),
			period("Saver", "2024 Q1", 2, 12000, map[string]float64{"Cash": 12000, "Index Fund": math.NaN()}, []string{"Cash", "Index Fund"}),
			period("Saver", "2024 Q2", 5, 15000, map[string]float64{"Cash": 15000, "Index Fund": 500}, []string{"Cash", "Index Fund"}),
		},
	}
}
