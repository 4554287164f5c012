package store

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/household-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows(scenario string, months int, cash float64) []domain.MonthlySnapshot {
	rows := make([]domain.MonthlySnapshot, 0, months)
	for m := 0; m < months; m++ {
		bal := cash + float64(m)*100
		rows = append(rows, domain.MonthlySnapshot{
			Scenario:     scenario,
			MonthIndex:   m,
			Month:        domain.MonthLabel(2024+m/12, m%12+1),
			CalendarYear: 2024 + m/12,
			MonthInYear:  m%12 + 1,
			Balances:     map[string]float64{"Cash": bal, "Loan": -500},
			AccountNames: []string{"Cash", "Loan"},
			TotalIncome:  1000,
			NetCashflow:  100,
			TotalAssets:  bal,
			TotalDebt:    500,
			Liquid:       bal,
			NetWorth:     bal - 500,
		})
	}
	return rows
}

func TestScenarioStoreOrderAndReplace(t *testing.T) {
	ctx := context.Background()
	s := NewScenarioStore(nil, nil)

	require.NoError(t, s.Add(ctx, "A", sampleRows("A", 2, 100)))
	require.NoError(t, s.Add(ctx, "B", sampleRows("B", 3, 200)))
	require.NoError(t, s.Add(ctx, "A", sampleRows("A", 1, 900)))

	assert.Equal(t, []string{"A", "B"}, s.Names())
	assert.Equal(t, 2, s.Len())

	rows, ok := s.Get("A")
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, 900.0, rows[0].Balance("Cash"))

	all := s.All()
	require.Len(t, all, 4)
	assert.Equal(t, "A", all[0].Scenario)
	assert.Equal(t, "B", all[3].Scenario)

	require.NoError(t, s.Delete(ctx, "A"))
	require.NoError(t, s.Delete(ctx, "missing"))
	assert.Equal(t, []string{"B"}, s.Names())

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
	assert.Empty(t, s.All())
}

// flakyPersister fails every Save while fail is set
type flakyPersister struct {
	*MemoryPersister
	fail bool
}

func (f *flakyPersister) Save(ctx context.Context, scenarios []Scenario) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryPersister.Save(ctx, scenarios)
}

func TestScenarioStoreRestoresMemoryWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	p := &flakyPersister{MemoryPersister: NewMemoryPersister()}
	s := NewScenarioStore(p, nil)

	require.NoError(t, s.Add(ctx, "A", sampleRows("A", 2, 100)))
	require.NoError(t, s.Add(ctx, "B", sampleRows("B", 1, 200)))
	p.fail = true

	tests := []struct {
		name string
		op   func() error
	}{
		{"add new", func() error { return s.Add(ctx, "C", sampleRows("C", 1, 300)) }},
		{"replace", func() error { return s.Add(ctx, "A", sampleRows("A", 1, 900)) }},
		{"delete", func() error { return s.Delete(ctx, "A") }},
		{"clear", func() error { return s.Clear(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "saving scenarios")

			assert.Equal(t, []string{"A", "B"}, s.Names())
			rows, ok := s.Get("A")
			require.True(t, ok)
			require.Len(t, rows, 2)
			assert.Equal(t, 100.0, rows[0].Balance("Cash"))
			_, ok = s.Get("C")
			assert.False(t, ok)
			assert.Len(t, s.All(), 3)
		})
	}

	p.fail = false
	require.NoError(t, s.Delete(ctx, "A"))
	assert.Equal(t, []string{"B"}, s.Names())
}

func TestScenarioStoreCopiesRows(t *testing.T) {
	s := NewScenarioStore(nil, nil)
	rows := sampleRows("A", 1, 100)
	require.NoError(t, s.Add(context.Background(), "A", rows))
	rows[0].NetWorth = -1

	got, _ := s.Get("A")
	assert.Equal(t, -400.0, got[0].NetWorth)
}

func persisters(t *testing.T) map[string]func(dir string) Persister {
	t.Helper()
	return map[string]func(dir string) Persister{
		"json": func(dir string) Persister {
			return NewJSONPersister(filepath.Join(dir, "scenarios.json"), nil)
		},
		"sqlite": func(dir string) Persister {
			p, err := OpenSQLite(filepath.Join(dir, "scenarios.db"))
			require.NoError(t, err)
			return p
		},
		"memory": func(string) Persister { return NewMemoryPersister() },
	}
}

func TestPersistersRoundTripStore(t *testing.T) {
	for name, open := range persisters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := open(t.TempDir())
			defer p.Close()

			s := NewScenarioStore(p, nil)
			require.NoError(t, s.Add(ctx, "Zulu", sampleRows("Zulu", 3, 50)))
			require.NoError(t, s.Add(ctx, "Alpha", sampleRows("Alpha", 2, 75)))

			reloaded := NewScenarioStore(p, nil)
			require.NoError(t, reloaded.Load(ctx))
			assert.Equal(t, []string{"Zulu", "Alpha"}, reloaded.Names())

			rows, ok := reloaded.Get("Zulu")
			require.True(t, ok)
			require.Len(t, rows, 3)
			assert.Equal(t, "Zulu", rows[2].Scenario)
			assert.Equal(t, []string{"Cash", "Loan"}, rows[2].AccountNames)
			assert.Equal(t, 250.0, rows[2].Balance("Cash"))
			assert.Equal(t, -500.0, rows[2].Balance("Loan"))
			assert.Equal(t, "2024-03", rows[2].Month)

			require.NoError(t, s.Clear(ctx))
			require.NoError(t, reloaded.Load(ctx))
			assert.Zero(t, reloaded.Len())
		})
	}
}

func TestJSONPersisterNonFiniteBecomesZero(t *testing.T) {
	ctx := context.Background()
	p := NewJSONPersister(filepath.Join(t.TempDir(), "scenarios.json"), nil)
	rows := sampleRows("A", 1, 100)
	rows[0].TotalTax = math.NaN()
	rows[0].Balances["Cash"] = math.Inf(1)

	require.NoError(t, p.Save(ctx, []Scenario{{Name: "A", Rows: rows}}))
	loaded, err := p.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Zero(t, loaded[0].Rows[0].TotalTax)
	assert.Zero(t, loaded[0].Rows[0].Balance("Cash"))
}

func TestJSONPersisterTolerantLoad(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "empty file", content: strPtr("")},
		{name: "corrupt file", content: strPtr("{not json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scenarios.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}
			loaded, err := NewJSONPersister(path, nil).Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, loaded)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "plans.json")
	require.NoError(t, writeJSONAtomic(path, map[string]int{"a": 1}))
	require.NoError(t, writeJSONAtomic(path, map[string]int{"a": 2}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plans.json", entries[0].Name())

	var got map[string]int
	ok, err := readJSON(path, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, got["a"])
}

func TestPlanStore(t *testing.T) {
	s := NewPlanStore(filepath.Join(t.TempDir(), "plans.json"), nil)
	assert.Empty(t, s.List())

	require.NoError(t, s.Save("beta", map[string]any{"years": 5.0}))
	require.NoError(t, s.Save("alpha", map[string]any{"taxRate": math.NaN(), "name": "alpha"}))
	assert.Equal(t, []string{"alpha", "beta"}, s.List())

	got, err := s.Get("alpha")
	require.NoError(t, err)
	assert.Nil(t, got["taxRate"])
	assert.Equal(t, "alpha", got["name"])

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	require.NoError(t, s.Delete("beta"))
	require.NoError(t, s.Delete("beta"))
	assert.Equal(t, []string{"alpha"}, s.List())
}

func TestPlanStoreCorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))
	s := NewPlanStore(path, nil)
	assert.Empty(t, s.List())

	require.NoError(t, s.Save("fresh", map[string]any{}))
	assert.Equal(t, []string{"fresh"}, s.List())
}

func TestLayoutStore(t *testing.T) {
	s := NewLayoutStore(filepath.Join(t.TempDir(), "layout.json"), nil)
	assert.Equal(t, []any{}, s.Get())

	layout := []any{map[string]any{"i": "chart", "w": 6.0, "x": math.Inf(-1)}}
	require.NoError(t, s.Save(layout))
	got := s.Get()
	require.Len(t, got, 1)
	item := got[0].(map[string]any)
	assert.Equal(t, "chart", item["i"])
	assert.Nil(t, item["x"])

	require.NoError(t, s.Save(nil))
	assert.Equal(t, []any{}, s.Get())
}

func TestOpenPersister(t *testing.T) {
	dir := t.TempDir()
	p, err := OpenPersister(BackendJSON, filepath.Join(dir, "s.json"), nil)
	require.NoError(t, err)
	assert.IsType(t, &JSONPersister{}, p)

	p, err = OpenPersister(BackendSQLite, filepath.Join(dir, "s.db"), nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLitePersister{}, p)
	require.NoError(t, p.Close())

	_, err = OpenPersister("redis", "", nil)
	assert.Error(t, err)
}
