package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/rpgo/household-planner/internal/domain"
)

// CSVExporter writes every aggregated period as one row with account balances as columns.
type CSVExporter struct{}

func (c CSVExporter) Name() string { return "csv" }

func (c CSVExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	cols := RecordColumns(report)
	if err := w.Write(cols); err != nil {
		return nil, err
	}
	for _, p := range report.Periods {
		rec := Record(p)
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = csvCell(rec[col])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func csvCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return csvNumber(t)
	case int:
		return intToString(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
