package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/household-planner/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

func (c CSVSummarizer) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Periods", "FirstPeriod", "LastPeriod", "StartNetWorth", "EndNetWorth", "NetWorthChange", "EndLiquid", "EndAssets", "EndDebt"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range Summarize(report) {
		row := []string{
			sc.Name,
			intToString(sc.Periods),
			sc.FirstPeriod,
			sc.LastPeriod,
			csvNumber(sc.StartNetWorth),
			csvNumber(sc.EndNetWorth),
			csvNumber(sc.NetWorthChange),
			csvNumber(sc.EndLiquid),
			csvNumber(sc.EndAssets),
			csvNumber(sc.EndDebt),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
