package calculation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rpgo/household-planner/internal/domain"
)

// ErrMissingColumns reports rows that lack the fields the period reduction is keyed on.
var ErrMissingColumns = errors.New("missing required columns")

// validateRow checks scenario identity, month-in-year and month index.
// Any calendar year, including 0, is a valid bucket key.
func validateRow(i int, row *domain.MonthlySnapshot) error {
	var missing []string
	if row.Scenario == "" {
		missing = append(missing, "Scenario")
	}
	if row.MonthInYear < 1 || row.MonthInYear > 12 {
		missing = append(missing, "MonthInYear")
	}
	if row.MonthIndex < 0 {
		missing = append(missing, "MonthIndex")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: row %d: %s", ErrMissingColumns, i, strings.Join(missing, ", "))
	}
	return nil
}

// periodOf returns the bucket value and label of a row at the given frequency.
func periodOf(row *domain.MonthlySnapshot, freq domain.Frequency) (int, string) {
	switch freq {
	case domain.Quarterly:
		quarter := (row.MonthInYear-1)/3 + 1
		return row.MonthIndex / 3, fmt.Sprintf("%d Q%d", row.CalendarYear, quarter)
	case domain.Yearly:
		return row.MonthIndex / 12, strconv.Itoa(row.CalendarYear)
	default:
		label := row.Month
		if label == "" {
			label = strconv.Itoa(row.MonthIndex)
		}
		return row.MonthIndex, label
	}
}

// Aggregate reduces monthly rows to one end-of-period row per (scenario, period).
// Rows are ordered by scenario name, then period. Empty input yields an empty result.
func Aggregate(rows []domain.MonthlySnapshot, freq domain.Frequency) ([]domain.PeriodSnapshot, error) {
	if len(rows) == 0 {
		return []domain.PeriodSnapshot{}, nil
	}
	for i := range rows {
		if err := validateRow(i, &rows[i]); err != nil {
			return nil, err
		}
	}

	sorted := make([]domain.MonthlySnapshot, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Scenario != sorted[j].Scenario {
			return sorted[i].Scenario < sorted[j].Scenario
		}
		return sorted[i].MonthIndex < sorted[j].MonthIndex
	})

	type bucketKey struct {
		scenario string
		value    int
	}
	// Pre-sorted input means buckets appear in output order; the map only tracks
	// which slot a bucket occupies so later rows overwrite earlier ones.
	slots := make(map[bucketKey]int)
	out := make([]domain.PeriodSnapshot, 0, len(sorted))
	for i := range sorted {
		row := &sorted[i]
		value, label := periodOf(row, freq)
		key := bucketKey{row.Scenario, value}
		ps := domain.PeriodSnapshot{MonthlySnapshot: *row, Period: label, PeriodValue: value}
		if slot, ok := slots[key]; ok {
			out[slot] = ps
			continue
		}
		slots[key] = len(out)
		out = append(out, ps)
	}
	return out, nil
}

// Aggregate is the engine-bound form of the package-level Aggregate.
func (se *SimulationEngine) Aggregate(rows []domain.MonthlySnapshot, freq domain.Frequency) ([]domain.PeriodSnapshot, error) {
	out, err := Aggregate(rows, freq)
	if err != nil {
		se.Logger.Errorf("aggregate %d rows at %s: %v", len(rows), freq, err)
		return nil, err
	}
	se.Logger.Debugf("aggregated %d monthly rows into %d %s periods", len(rows), len(out), freq.Label())
	return out, nil
}
