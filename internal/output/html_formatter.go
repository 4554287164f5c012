package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"math"

	"github.com/rpgo/household-planner/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with a net worth chart per scenario.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type chartSeries struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (h HTMLFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	var series []chartSeries
	index := make(map[string]int)
	for _, p := range report.Periods {
		i, ok := index[p.Scenario]
		if !ok {
			i = len(series)
			index[p.Scenario] = i
			series = append(series, chartSeries{Name: p.Scenario})
		}
		series[i].Labels = append(series[i].Labels, p.Period)
		series[i].Values = append(series[i].Values, finiteOrZero(p.NetWorth))
	}

	data := struct {
		*domain.Report
		Summaries      []ScenarioSummary
		Recommendation Recommendation
		Series         []chartSeries
	}{
		Report:         report,
		Summaries:      Summarize(report),
		Recommendation: AnalyzeScenarios(report),
		Series:         series,
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
