package config

import (
	"github.com/rpgo/household-planner/internal/domain"
)

// Column describes one editable column of a plan table
type Column struct {
	Field   string   `json:"field" yaml:"field"`
	Label   string   `json:"label" yaml:"label"`
	Kind    string   `json:"kind" yaml:"kind"` // text | number | select
	Default any      `json:"default" yaml:"default"`
	Options []string `json:"options" yaml:"options"`
	Min     *float64 `json:"min" yaml:"min,omitempty"`
	Step    *float64 `json:"step" yaml:"step,omitempty"`
	Format  string   `json:"format,omitempty" yaml:"format,omitempty"`
	Help    string   `json:"help,omitempty" yaml:"help,omitempty"`
}

// TableModel is a table schema plus its default rows
type TableModel struct {
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	Defaults []Row    `json:"defaults"`
	// MonthFields are select columns whose options are the plan's month list
	MonthFields []string `json:"monthFields"`
}

// PlanDefaults are the initial plan-level values offered to users
type PlanDefaults struct {
	Name                string  `json:"name"`
	StartYear           int     `json:"startYear"`
	Years               int     `json:"years"`
	TaxRate             float64 `json:"taxRate"`
	Freq                string  `json:"freq"`
	LivingInflationRate float64 `json:"livingInflationRate"`
}

// FreqOption is one selectable reporting frequency
type FreqOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Schema describes the plan editor: defaults, table models and frequencies
type Schema struct {
	PlanDefaults PlanDefaults `json:"planDefaults"`
	Accounts     TableModel   `json:"accounts"`
	Incomes      TableModel   `json:"incomes"`
	Spendings    TableModel   `json:"spendings"`
	FreqOptions  []FreqOption `json:"freqOptions"`
}

func ptr(f float64) *float64 { return &f }

func categoryStrings() []string {
	out := make([]string, 0, len(domain.AccountCategories))
	for _, c := range domain.AccountCategories {
		out = append(out, string(c))
	}
	return out
}

func endActionStrings() []string {
	out := make([]string, 0, len(domain.EndActions))
	for _, a := range domain.EndActions {
		out = append(out, string(a))
	}
	return out
}

func monthColumns() []Column {
	return []Column{
		{Field: "Start Month", Label: "Start Month", Kind: "select", Default: "", Options: []string{}, Help: "First active month"},
		{Field: "End Month", Label: "End Month (empty=all)", Kind: "select", Default: "", Options: []string{}, Help: "Last active month; empty runs through the horizon"},
	}
}

func accountRow(name string, category domain.Category, amount, apr float64) Row {
	return Row{
		"Name":              name,
		"Category":          string(category),
		"Amount (USD)":      amount,
		"APR (%)":           apr,
		"Interest Rate (%)": 0.0,
		"Start Month":       "",
		"End Month":         "",
		"Action at End":     string(domain.EndActionKeep),
	}
}

func cashflowRow(name, category string, amount float64) Row {
	return Row{
		"Name":          name,
		"Category":      category,
		"Annual Amount": amount,
		"Start Month":   "",
		"End Month":     "",
	}
}

// AccountTable is the account editor model
func AccountTable() TableModel {
	cols := []Column{
		{Field: "Name", Label: "Name", Kind: "text", Default: "", Options: []string{}},
		{Field: "Category", Label: "Category", Kind: "select", Default: string(domain.CategoryAsset), Options: categoryStrings()},
		{Field: "Amount (USD)", Label: "Amount (USD)", Kind: "number", Default: 0.0, Options: []string{}, Min: ptr(0), Step: ptr(1000), Format: "%.2f"},
		{Field: "APR (%)", Label: "APR (%)", Kind: "number", Default: 0.0, Options: []string{}, Step: ptr(0.1), Format: "%.2f"},
		{Field: "Interest Rate (%)", Label: "Interest Rate (%)", Kind: "number", Default: 0.0, Options: []string{}, Step: ptr(0.1), Format: "%.2f"},
	}
	cols = append(cols, monthColumns()...)
	cols = append(cols, Column{Field: "Action at End", Label: "Action at End", Kind: "select", Default: string(domain.EndActionKeep), Options: endActionStrings()})
	return TableModel{
		Name:    "accounts",
		Columns: cols,
		Defaults: []Row{
			accountRow("Cash Reserve", domain.CategoryCash, 20000, 1),
			accountRow("Certificate of Deposit", domain.CategoryInvestment, 10000, 3),
			accountRow("Index Fund", domain.CategoryInvestment, 15000, 5),
			accountRow("HSA", domain.CategoryInvestment, 6000, 4),
			accountRow("Taxable Brokerage", domain.CategoryInvestment, 20000, 6),
			accountRow("401k", domain.CategoryInvestment, 30000, 6),
			accountRow("Car", domain.CategoryAsset, 18000, -12),
		},
		MonthFields: []string{"Start Month", "End Month"},
	}
}

func cashflowTable(name, defaultCategory string, categories []string, defaults []Row) TableModel {
	cols := []Column{
		{Field: "Name", Label: "Name", Kind: "text", Default: "", Options: []string{}},
		{Field: "Category", Label: "Category", Kind: "select", Default: defaultCategory, Options: categories},
		{Field: "Annual Amount", Label: "Annual Amount (USD)", Kind: "number", Default: 0.0, Options: []string{}, Min: ptr(0), Step: ptr(1000), Format: "%.2f"},
	}
	cols = append(cols, monthColumns()...)
	return TableModel{Name: name, Columns: cols, Defaults: defaults, MonthFields: []string{"Start Month", "End Month"}}
}

// IncomeTable is the income editor model
func IncomeTable() TableModel {
	return cashflowTable("income", "salary", domain.IncomeCategories, []Row{
		cashflowRow("Household Salary", "salary", 75000),
		cashflowRow("Other Income", "other", 6000),
	})
}

// SpendingTable is the spending editor model
func SpendingTable() TableModel {
	t := cashflowTable("spending", "living", domain.SpendingCategories, []Row{
		cashflowRow("Household Expenses", "living", 36000),
		cashflowRow("Debt Payments", "debt", 6000),
	})
	t.Columns = append(t.Columns, Column{
		Field: "Inflation Rate (%)", Label: "Inflation Rate (%)", Kind: "number", Default: "", Options: []string{}, Step: ptr(0.1), Format: "%.2f",
		Help: "Empty uses the plan living inflation rate for living costs",
	})
	return t
}

// DefaultPlanDefaults are the plan-level values a new plan starts from
func DefaultPlanDefaults() PlanDefaults {
	return PlanDefaults{
		Name:                "MyPlan",
		StartYear:           DefaultStartYear,
		Years:               5,
		TaxRate:             25.0,
		Freq:                string(domain.Quarterly),
		LivingInflationRate: 0.0,
	}
}

// BuildSchema assembles the plan editor schema
func BuildSchema() Schema {
	opts := make([]FreqOption, 0, len(domain.Frequencies))
	for _, f := range domain.Frequencies {
		opts = append(opts, FreqOption{Label: f.Label(), Value: string(f)})
	}
	return Schema{
		PlanDefaults: DefaultPlanDefaults(),
		Accounts:     AccountTable(),
		Incomes:      IncomeTable(),
		Spendings:    SpendingTable(),
		FreqOptions:  opts,
	}
}

// CreateExamplePayload returns the default household plan in payload form
func (ip *InputParser) CreateExamplePayload() Payload {
	d := DefaultPlanDefaults()
	return Payload{
		"name":                d.Name,
		"startYear":           d.StartYear,
		"years":               d.Years,
		"taxRate":             d.TaxRate,
		"livingInflationRate": d.LivingInflationRate,
		"freq":                d.Freq,
		"accounts":            rowsToAny(AccountTable().Defaults),
		"income":              rowsToAny(IncomeTable().Defaults),
		"spending":            rowsToAny(SpendingTable().Defaults),
	}
}

// CreateExamplePlan returns the default household plan
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	plan, err := ip.ParsePayload(ip.CreateExamplePayload())
	if err != nil {
		// The defaults above always carry accounts.
		panic(err)
	}
	return plan
}

func rowsToAny(rows []Row) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]any(r))
	}
	return out
}
