package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/rpgo/household-planner/internal/domain"
)

// ConsoleFormatter renders one period table per scenario followed by a recommendation.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "HOUSEHOLD CASH-FLOW PROJECTION")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Frequency: %s\n", report.Frequency.Label())
	if len(report.Periods) == 0 {
		fmt.Fprintln(&buf, "No scenarios stored.")
		return buf.Bytes(), nil
	}

	current := ""
	var tw *tabwriter.Writer
	for _, p := range report.Periods {
		if p.Scenario != current {
			if tw != nil {
				tw.Flush()
			}
			current = p.Scenario
			fmt.Fprintf(&buf, "\n%s\n", current)
			tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Period\tIncome\tSpending\tTax\tNet Cash Flow\tLiquid\tNet Worth\t")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Period,
			FormatCurrency(p.TotalIncome),
			FormatCurrency(p.TotalSpending),
			FormatCurrency(p.TotalTax),
			FormatCurrency(p.NetCashflow),
			FormatCurrency(p.Liquid),
			FormatCurrency(p.NetWorth),
		)
	}
	tw.Flush()

	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" && len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Highest ending net worth: %s %s (Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.EndNetWorth), FormatCurrency(rec.NetWorthChange), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}
