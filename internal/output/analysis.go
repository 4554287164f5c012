package output

import (
	"math"
	"sort"

	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/pkg/decimal"
)

// ScenarioSummary condenses one scenario's aggregated periods
type ScenarioSummary struct {
	Name           string
	Periods        int
	FirstPeriod    string
	LastPeriod     string
	StartNetWorth  float64
	EndNetWorth    float64
	NetWorthChange float64
	EndLiquid      float64
	EndAssets      float64
	EndDebt        float64
}

// Summarize returns one summary per scenario in report order
func Summarize(report *domain.Report) []ScenarioSummary {
	index := make(map[string]int)
	var out []ScenarioSummary
	for _, p := range report.Periods {
		i, ok := index[p.Scenario]
		if !ok {
			i = len(out)
			index[p.Scenario] = i
			out = append(out, ScenarioSummary{Name: p.Scenario, FirstPeriod: p.Period, StartNetWorth: p.NetWorth})
		}
		s := &out[i]
		s.Periods++
		s.LastPeriod = p.Period
		s.EndNetWorth = p.NetWorth
		s.EndLiquid = p.Liquid
		s.EndAssets = p.TotalAssets
		s.EndDebt = p.TotalDebt
		s.NetWorthChange = decimal.NewMoney(s.EndNetWorth).Sub(decimal.NewMoney(s.StartNetWorth)).Float()
	}
	return out
}

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	EndNetWorth      float64
	NetWorthChange   float64 // versus the first scenario
	PercentageChange float64
}

// AnalyzeScenarios picks the scenario with the highest ending net worth and compares it
// with the first scenario in the report.
func AnalyzeScenarios(report *domain.Report) Recommendation {
	summaries := Summarize(report)
	if len(summaries) == 0 {
		return Recommendation{}
	}
	baseline := summaries[0].EndNetWorth
	ranked := append([]ScenarioSummary(nil), summaries...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].EndNetWorth > ranked[j].EndNetWorth })
	best := ranked[0]
	delta := decimal.NewMoney(best.EndNetWorth).Sub(decimal.NewMoney(baseline)).Float()
	pct := 0.0
	if baseline != 0 {
		pct = delta / math.Abs(baseline) * 100
	}
	return Recommendation{ScenarioName: best.Name, EndNetWorth: best.EndNetWorth, NetWorthChange: delta, PercentageChange: pct}
}
