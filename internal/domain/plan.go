package domain

import (
	"strings"
)

// Category classifies an account for balance initialization and reporting.
type Category string

const (
	CategoryCash       Category = "cash"
	CategoryAsset      Category = "asset"
	CategoryDebt       Category = "debt"
	CategoryInvestment Category = "investment"
)

// AccountCategories lists the accepted account categories in display order.
var AccountCategories = []Category{CategoryCash, CategoryAsset, CategoryDebt, CategoryInvestment}

// Normalize lowercases and trims the category so "Cash " and "cash" compare equal.
func (c Category) Normalize() Category {
	return Category(strings.ToLower(strings.TrimSpace(string(c))))
}

// IsLiquid reports whether balances in this category count toward the liquid total.
func (c Category) IsLiquid() bool {
	n := c.Normalize()
	return n == CategoryCash || n == CategoryInvestment
}

// EndAction is the disposition applied to an account when its window closes.
type EndAction string

const (
	EndActionKeep            EndAction = "keep"
	EndActionLiquidateToCash EndAction = "liquidate_to_cash"
	EndActionDrop            EndAction = "drop"
)

// EndActions lists the accepted end actions.
var EndActions = []EndAction{EndActionKeep, EndActionLiquidateToCash, EndActionDrop}

// Normalize maps unknown or empty actions to keep.
func (a EndAction) Normalize() EndAction {
	switch EndAction(strings.ToLower(strings.TrimSpace(string(a)))) {
	case EndActionLiquidateToCash:
		return EndActionLiquidateToCash
	case EndActionDrop:
		return EndActionDrop
	default:
		return EndActionKeep
	}
}

// FlowType distinguishes income streams from spending streams.
type FlowType string

const (
	FlowIncome   FlowType = "income"
	FlowSpending FlowType = "spending"
)

// Income and spending categories offered to users.
var (
	IncomeCategories   = []string{"salary", "bonus", "rental", "business", "other"}
	SpendingCategories = []string{"living", "parents", "debt", "health", "other"}
)

// taxableIncomeCategories are the income categories subject to the flat tax.
var taxableIncomeCategories = map[string]bool{
	"salary":   true,
	"bonus":    true,
	"business": true,
}

// IsTaxableIncomeCategory reports whether income in the category is taxable.
func IsTaxableIncomeCategory(category string) bool {
	return taxableIncomeCategories[strings.ToLower(strings.TrimSpace(category))]
}

// Account represents a balance-bearing entity: cash, debt, or an investment-like asset.
// Offsets are fractional years from the plan start year; zero means "from day one"
// for StartYear and "through the end of the horizon" for EndYear.
type Account struct {
	Name         string    `yaml:"name" json:"name"`
	Category     Category  `yaml:"category" json:"category"`
	Principal    float64   `yaml:"principal" json:"principal"`
	APR          float64   `yaml:"apr" json:"apr"`
	InterestRate float64   `yaml:"interest_rate" json:"interest_rate"`
	StartYear    float64   `yaml:"start_year" json:"start_year"`
	EndYear      float64   `yaml:"end_year" json:"end_year"`
	EndAction    EndAction `yaml:"end_action" json:"end_action"`
}

// AnnualRate resolves the growth rate: APR wins whenever it is non-zero.
func (a Account) AnnualRate() float64 {
	if a.APR != 0 {
		return a.APR
	}
	return a.InterestRate
}

// MonthlyRate is the resolved annual rate divided by 12.
func (a Account) MonthlyRate() float64 {
	return a.AnnualRate() / 12.0
}

// InitialBalance is the balance an account takes on activation. Debts are
// stored as positive principal but start as a negative balance.
func (a Account) InitialBalance() float64 {
	if a.Category.Normalize() == CategoryDebt {
		if a.Principal < 0 {
			return a.Principal
		}
		return -a.Principal
	}
	return a.Principal
}

// IsTaxableGrowthSource approximates tax-advantaged exclusion: investment accounts
// are taxed on growth unless their name mentions an HSA.
func (a Account) IsTaxableGrowthSource() bool {
	return a.Category.Normalize() == CategoryInvestment &&
		!strings.Contains(strings.ToLower(a.Name), "hsa")
}

// Cashflow represents a recurring income or spending stream.
type Cashflow struct {
	Name          string   `yaml:"name" json:"name"`
	AnnualAmount  float64  `yaml:"annual_amount" json:"annual_amount"`
	Category      string   `yaml:"category" json:"category"`
	StartYear     float64  `yaml:"start_year" json:"start_year"`
	EndYear       float64  `yaml:"end_year" json:"end_year"`
	FlowType      FlowType `yaml:"flow_type" json:"flow_type"`
	Taxable       bool     `yaml:"taxable" json:"taxable"`
	InflationRate float64  `yaml:"inflation_rate" json:"inflation_rate"`
}

// MonthlyAmount converts the annual amount to a per-month amount.
func (c Cashflow) MonthlyAmount() float64 {
	return c.AnnualAmount / 12.0
}

// Plan bundles everything the simulation engine needs for one scenario.
type Plan struct {
	Name                string     `yaml:"name" json:"name"`
	StartYear           int        `yaml:"start_year" json:"start_year"`
	Years               int        `yaml:"years" json:"years"`
	TaxRate             float64    `yaml:"tax_rate" json:"tax_rate"`
	LivingInflationRate float64    `yaml:"living_inflation_rate" json:"living_inflation_rate"`
	Accounts            []Account  `yaml:"accounts" json:"accounts"`
	Incomes             []Cashflow `yaml:"incomes" json:"incomes"`
	Spendings           []Cashflow `yaml:"spendings" json:"spendings"`
}

// HorizonMonths is the number of simulated months, never less than one.
func (p *Plan) HorizonMonths() int {
	n := p.Years * 12
	if n < 1 {
		return 1
	}
	return n
}
