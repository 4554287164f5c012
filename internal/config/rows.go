package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/pkg/dateutil"
)

// Payload is a plan as exchanged with users: the HTTP request body, a saved plan,
// or a decoded YAML plan file. Keys follow the table headers shown to users
// ("Amount (USD)", "APR (%)") with snake_case and camelCase aliases accepted.
type Payload map[string]any

// Row is one table row of accounts, incomes or spendings
type Row map[string]any

// lookup returns the first key that is present with a non-nil value
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r Row) str(keys ...string) string {
	v, ok := lookup(r, keys...)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(v))
}

// num parses leniently: missing or malformed values are zero
func (r Row) num(keys ...string) float64 {
	v, ok := lookup(r, keys...)
	if !ok {
		return 0
	}
	f, err := toFloat(v)
	if err != nil {
		return 0
	}
	return f
}

// has reports whether any key carries a non-blank value
func (r Row) has(keys ...string) bool {
	v, ok := lookup(r, keys...)
	return ok && strings.TrimSpace(toString(v)) != ""
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint64:
		f = float64(t)
	case bool:
		return 0, fmt.Errorf("unexpected boolean %v", t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}

// toRows accepts []any of maps as produced by encoding/json and yaml.v3
func toRows(v any) []Row {
	switch t := v.(type) {
	case []Row:
		return t
	case []map[string]any:
		rows := make([]Row, 0, len(t))
		for _, m := range t {
			rows = append(rows, Row(m))
		}
		return rows
	case []any:
		rows := make([]Row, 0, len(t))
		for _, item := range t {
			switch m := item.(type) {
			case map[string]any:
				rows = append(rows, Row(m))
			case Row:
				rows = append(rows, m)
			}
		}
		return rows
	default:
		return nil
	}
}

// monthOffsets converts the Start Month / End Month cells of a row.
// An empty end month means "through the end of the horizon".
func monthOffsets(r Row, startYear int) (float64, float64) {
	start := dateutil.MonthToYearOffset(r.str("Start Month", "start_month", "startMonth"), startYear)
	end := 0.0
	if endMonth := r.str("End Month", "end_month", "endMonth"); endMonth != "" {
		end = dateutil.MonthToYearOffset(endMonth, startYear)
	}
	return start, end
}

// ParseAccounts converts account rows. Rows without a name or with a zero principal are skipped.
// Rates are given in percent.
func ParseAccounts(rows []Row, startYear int) []domain.Account {
	accounts := make([]domain.Account, 0, len(rows))
	for _, r := range rows {
		name := r.str("Name", "name")
		if name == "" {
			continue
		}
		principal := r.num("Amount (USD)", "Principal", "principal", "amount")
		if principal == 0 {
			continue
		}
		category := strings.ToLower(r.str("Category", "category"))
		if category == "" {
			category = string(domain.CategoryAsset)
		}
		action := r.str("Action at End", "end_action", "endAction")
		if action == "" {
			action = string(domain.EndActionKeep)
		}
		start, end := monthOffsets(r, startYear)
		accounts = append(accounts, domain.Account{
			Name:         name,
			Category:     domain.Category(category),
			Principal:    principal,
			APR:          r.num("APR (%)", "apr") / 100.0,
			InterestRate: r.num("Interest Rate (%)", "interest_rate", "interestRate") / 100.0,
			StartYear:    start,
			EndYear:      end,
			EndAction:    domain.EndAction(action).Normalize(),
		})
	}
	return accounts
}

// ParseCashflows converts income or spending rows. Rows without a name or with a zero
// amount are skipped. Income is taxable when its category is salary, bonus or business.
// Spending in the living category inherits livingInflation unless the row sets its own rate.
func ParseCashflows(rows []Row, startYear int, flowType domain.FlowType, livingInflation float64) []domain.Cashflow {
	flows := make([]domain.Cashflow, 0, len(rows))
	for _, r := range rows {
		name := r.str("Name", "name")
		if name == "" {
			continue
		}
		amount := r.num("Annual Amount", "annual_amount", "annualAmount", "amount")
		if amount == 0 {
			continue
		}
		category := r.str("Category", "category")
		if category == "" {
			category = "other"
		}
		start, end := monthOffsets(r, startYear)
		cf := domain.Cashflow{
			Name:         name,
			AnnualAmount: amount,
			Category:     category,
			StartYear:    start,
			EndYear:      end,
			FlowType:     flowType,
		}
		switch flowType {
		case domain.FlowIncome:
			cf.Taxable = domain.IsTaxableIncomeCategory(category)
		case domain.FlowSpending:
			inflationKeys := []string{"Inflation Rate (%)", "inflation_rate", "inflationRate"}
			if r.has(inflationKeys...) {
				cf.InflationRate = r.num(inflationKeys...) / 100.0
			} else if strings.EqualFold(strings.TrimSpace(category), "living") {
				cf.InflationRate = livingInflation
			}
		}
		flows = append(flows, cf)
	}
	return flows
}
