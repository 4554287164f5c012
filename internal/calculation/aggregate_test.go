package calculation

import (
	"strconv"
	"testing"

	"github.com/rpgo/household-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyRows(scenario string, startYear, months int) []domain.MonthlySnapshot {
	rows := make([]domain.MonthlySnapshot, 0, months)
	for m := 0; m < months; m++ {
		year := startYear + m/12
		rows = append(rows, domain.MonthlySnapshot{
			Scenario:     scenario,
			MonthIndex:   m,
			Month:        domain.MonthLabel(year, m%12+1),
			CalendarYear: year,
			MonthInYear:  m%12 + 1,
			Balances:     map[string]float64{"Cash": float64(m * 100)},
			AccountNames: []string{"Cash"},
			NetWorth:     float64(m * 100),
		})
	}
	return rows
}

// reaggregate runs period rows back through Aggregate
func reaggregate(rows []domain.PeriodSnapshot, freq domain.Frequency) ([]domain.PeriodSnapshot, error) {
	monthly := make([]domain.MonthlySnapshot, len(rows))
	for i := range rows {
		monthly[i] = rows[i].MonthlySnapshot
	}
	return Aggregate(monthly, freq)
}

func TestAggregateEmpty(t *testing.T) {
	out, err := Aggregate(nil, domain.Quarterly)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAggregateQuarterlyLastRowWins(t *testing.T) {
	rows := monthlyRows("Base", 2024, 6)
	out, err := Aggregate(rows, domain.Quarterly)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "2024 Q1", out[0].Period)
	assert.Equal(t, 0, out[0].PeriodValue)
	assert.Equal(t, rows[2], out[0].MonthlySnapshot)

	assert.Equal(t, "2024 Q2", out[1].Period)
	assert.Equal(t, 1, out[1].PeriodValue)
	assert.Equal(t, rows[5], out[1].MonthlySnapshot)
}

func TestAggregateYearlyOrdersByScenario(t *testing.T) {
	rows := append(monthlyRows("Zeta", 2030, 24), monthlyRows("Alpha", 2030, 18)...)
	out, err := Aggregate(rows, domain.Yearly)
	require.NoError(t, err)
	require.Len(t, out, 4)

	got := make([]string, 0, len(out))
	for _, p := range out {
		got = append(got, p.Scenario+" "+p.Period+" "+strconv.Itoa(p.MonthIndex))
	}
	assert.Equal(t, []string{
		"Alpha 2030 11",
		"Alpha 2031 17",
		"Zeta 2030 11",
		"Zeta 2031 23",
	}, got)
}

func TestAggregateSortsUnorderedInput(t *testing.T) {
	rows := monthlyRows("Base", 2024, 3)
	shuffled := []domain.MonthlySnapshot{rows[2], rows[0], rows[1]}
	out, err := Aggregate(shuffled, domain.Quarterly)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].MonthIndex)
	assert.Equal(t, rows[2].MonthIndex, shuffled[0].MonthIndex, "input slice is left untouched")
}

func TestAggregateMonthlyReproducesInput(t *testing.T) {
	rows := Simulate(salaryPlan())
	out, err := Aggregate(rows, domain.Monthly)
	require.NoError(t, err)
	require.Len(t, out, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i], out[i].MonthlySnapshot)
		assert.Equal(t, rows[i].Month, out[i].Period)
		assert.Equal(t, rows[i].MonthIndex, out[i].PeriodValue)
	}
}

func TestAggregateMonthlyLabelFallback(t *testing.T) {
	rows := monthlyRows("Base", 2024, 2)
	rows[1].Month = ""
	out, err := Aggregate(rows, domain.Monthly)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", out[0].Period)
	assert.Equal(t, "1", out[1].Period)
}

func TestAggregateIdempotent(t *testing.T) {
	plan := salaryPlan()
	plan.Years = 3
	rows := Simulate(plan)

	for _, freq := range domain.Frequencies {
		t.Run(string(freq), func(t *testing.T) {
			once, err := Aggregate(rows, freq)
			require.NoError(t, err)
			twice, err := reaggregate(once, freq)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestAggregateMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.MonthlySnapshot)
	}{
		{"no scenario", func(r *domain.MonthlySnapshot) { r.Scenario = "" }},
		{"month in year out of range", func(r *domain.MonthlySnapshot) { r.MonthInYear = 13 }},
		{"negative month index", func(r *domain.MonthlySnapshot) { r.MonthIndex = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := monthlyRows("Base", 2024, 3)
			tt.mutate(&rows[1])
			_, err := Aggregate(rows, domain.Monthly)
			assert.ErrorIs(t, err, ErrMissingColumns)
		})
	}
}

func TestAggregateStartYearZero(t *testing.T) {
	plan := &domain.Plan{
		Name:      "P",
		StartYear: 0,
		Years:     2,
		Accounts: []domain.Account{
			{Name: "Cash", Category: domain.CategoryCash, Principal: 100},
		},
	}
	rows := Simulate(plan)
	require.Len(t, rows, 24)
	assert.Equal(t, 0, rows[0].CalendarYear)

	out, err := Aggregate(rows, domain.Quarterly)
	require.NoError(t, err)
	require.Len(t, out, 8)
	assert.Equal(t, "0 Q1", out[0].Period)
	assert.Equal(t, "1 Q4", out[7].Period)

	yearly, err := Aggregate(rows, domain.Yearly)
	require.NoError(t, err)
	require.Len(t, yearly, 2)
	assert.Equal(t, "0", yearly[0].Period)
	assert.InDelta(t, 100.0, yearly[1].Balance("Cash"), 1e-9)
}

func TestEngineAggregateLogsFailure(t *testing.T) {
	se := NewSimulationEngine()
	_, err := se.Aggregate([]domain.MonthlySnapshot{{MonthInYear: 1, CalendarYear: 2024}}, domain.Yearly)
	assert.ErrorIs(t, err, ErrMissingColumns)
}
