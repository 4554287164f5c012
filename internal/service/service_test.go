package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpgo/household-planner/internal/config"
	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	return New(Deps{
		Scenarios: store.NewScenarioStore(store.NewJSONPersister(filepath.Join(dir, "scenarios.json"), nil), nil),
		Plans:     store.NewPlanStore(filepath.Join(dir, "plans.json"), nil),
		Layout:    store.NewLayoutStore(filepath.Join(dir, "layout.json"), nil),
	})
}

func salaryPayload(name string, years int) config.Payload {
	return config.Payload{
		"name":      name,
		"startYear": 2024,
		"years":     years,
		"taxRate":   25.0,
		"accounts": []any{
			map[string]any{"Name": "Cash", "Category": "cash", "Amount (USD)": 1000.0},
		},
		"income": []any{
			map[string]any{"Name": "Salary", "Category": "salary", "Annual Amount": 12000.0},
		},
	}
}

func TestAddScenarioAggregates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	report, err := svc.AddScenario(ctx, salaryPayload("Base", 1), domain.Quarterly)
	require.NoError(t, err)
	assert.Equal(t, []string{"Base"}, report.Scenarios)
	require.Len(t, report.Periods, 4)
	assert.Equal(t, "2024 Q4", report.Periods[3].Period)
	assert.InDelta(t, 10000.0, report.Periods[3].Balance("Cash"), 1e-9)

	report, err = svc.AddScenario(ctx, salaryPayload("Base", 2), domain.Yearly)
	require.NoError(t, err)
	assert.Equal(t, []string{"Base"}, report.Scenarios)
	require.Len(t, report.Periods, 2)
}

func TestAddScenarioRejectsPlanWithoutAccounts(t *testing.T) {
	svc := newTestService(t)
	payload := salaryPayload("Empty", 1)
	payload["accounts"] = []any{map[string]any{"Name": "Cash", "Amount (USD)": 0.0}}

	_, err := svc.AddScenario(context.Background(), payload, domain.Monthly)
	assert.ErrorIs(t, err, config.ErrNoAccounts)
	assert.Empty(t, svc.ScenarioNames())
}

func TestAddScenariosKeepsInputOrder(t *testing.T) {
	svc := newTestService(t)
	payloads := []config.Payload{salaryPayload("Zulu", 1), salaryPayload("Alpha", 1), salaryPayload("Mike", 1)}

	report, err := svc.AddScenarios(context.Background(), payloads, domain.Yearly)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zulu", "Alpha", "Mike"}, report.Scenarios)
	// aggregation sorts by scenario name
	require.Len(t, report.Periods, 3)
	assert.Equal(t, "Alpha", report.Periods[0].Scenario)
}

func TestAddScenariosStoresNothingOnError(t *testing.T) {
	svc := newTestService(t)
	bad := salaryPayload("Bad", 1)
	bad["accounts"] = []any{}

	_, err := svc.AddScenarios(context.Background(), []config.Payload{salaryPayload("Good", 1), bad}, domain.Monthly)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNoAccounts)
	assert.Contains(t, err.Error(), "scenario 2")
	assert.Empty(t, svc.ScenarioNames())
}

func TestAggregatedEmptyAndClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	report, err := svc.Aggregated(domain.Quarterly)
	require.NoError(t, err)
	assert.Empty(t, report.Periods)
	assert.NotNil(t, report.Periods)

	_, err = svc.AddScenario(ctx, salaryPayload("Base", 1), domain.Monthly)
	require.NoError(t, err)
	require.NoError(t, svc.ClearScenarios(ctx))
	report, err = svc.Aggregated(domain.Monthly)
	require.NoError(t, err)
	assert.Empty(t, report.Scenarios)
}

func TestScenariosSurviveReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.json")
	ctx := context.Background()

	first := New(Deps{Scenarios: store.NewScenarioStore(store.NewJSONPersister(path, nil), nil)})
	_, err := first.AddScenario(ctx, salaryPayload("Kept", 1), domain.Monthly)
	require.NoError(t, err)

	second := New(Deps{Scenarios: store.NewScenarioStore(store.NewJSONPersister(path, nil), nil)})
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, []string{"Kept"}, second.ScenarioNames())
	months, ok := second.ScenarioMonths("Kept")
	require.True(t, ok)
	assert.Len(t, months, 12)
}

func TestPlansAndLayout(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SavePlan(map[string]any{"name": "  "})
	assert.ErrorIs(t, err, ErrPlanNameRequired)

	name, err := svc.SavePlan(map[string]any{"name": " Retire Early ", "years": 5.0})
	require.NoError(t, err)
	assert.Equal(t, "Retire Early", name)
	assert.Equal(t, []string{"Retire Early"}, svc.ListPlans())

	plan, err := svc.GetPlan("Retire Early")
	require.NoError(t, err)
	assert.Equal(t, 5.0, plan["years"])

	require.NoError(t, svc.DeletePlan("Retire Early"))
	_, err = svc.GetPlan("Retire Early")
	assert.ErrorIs(t, err, store.ErrPlanNotFound)

	require.NoError(t, svc.SaveLayout([]any{"a", "b"}))
	assert.Equal(t, []any{"a", "b"}, svc.Layout())
}

func TestSchemaAndMonths(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, "MyPlan", svc.Schema().PlanDefaults.Name)
	months := svc.Months(2025, 1)
	require.Len(t, months, 12)
	assert.Equal(t, "2025-01", months[0])
	assert.Empty(t, svc.Months(2025, 0))
}

func TestAddScenarioStartYearZeroStaysReadable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	payload := salaryPayload("Year Zero", 1)
	payload["startYear"] = 0

	report, err := svc.AddScenario(ctx, payload, domain.Quarterly)
	require.NoError(t, err)
	require.Len(t, report.Periods, 4)
	assert.Equal(t, "0 Q4", report.Periods[3].Period)

	report, err = svc.Aggregated(domain.Yearly)
	require.NoError(t, err)
	require.Len(t, report.Periods, 1)
	assert.Equal(t, "0", report.Periods[0].Period)
}
