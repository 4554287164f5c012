package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/household-planner/internal/calculation"
	"github.com/rpgo/household-planner/internal/domain"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoAccounts is returned when a plan carries no named account with a non-zero principal
	ErrNoAccounts = errors.New("at least one account with a non-zero principal is required")
	// ErrInvalidPlan wraps every other plan validation failure
	ErrInvalidPlan = errors.New("invalid plan")
)

// Plan-level defaults applied when a payload omits a field
const (
	DefaultScenarioName = "Scenario"
	DefaultStartYear    = 2024
	DefaultYears        = 1
	MaxYears            = 100
)

// InputParser handles parsing of plan payloads and plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	payload, err := ip.LoadPayloadFromFile(filename)
	if err != nil {
		return nil, err
	}
	plan, err := ip.ParsePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return plan, nil
}

// LoadPayloadFromFile reads a plan file without converting it
func (ip *InputParser) LoadPayloadFromFile(filename string) (Payload, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var payload Payload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidPlan, filename)
	}
	return payload, nil
}

// ParsePayload converts a user-facing payload into a validated plan.
// Tax and living inflation rates are percentages in the payload.
func (ip *InputParser) ParsePayload(p Payload) (*domain.Plan, error) {
	name := DefaultScenarioName
	if v, ok := lookup(p, "name", "planName"); ok {
		if s := strings.TrimSpace(toString(v)); s != "" {
			name = s
		}
	}

	startYear, err := intField(p, DefaultStartYear, "startYear", "planStartYear", "start_year")
	if err != nil {
		return nil, err
	}
	years, err := intField(p, DefaultYears, "years", "planYears")
	if err != nil {
		return nil, err
	}
	taxPct, err := floatField(p, "taxRate", "tax_rate")
	if err != nil {
		return nil, err
	}
	livingPct, err := floatField(p, "livingInflationRate", "living_inflation_rate")
	if err != nil {
		return nil, err
	}
	livingInflation := livingPct / 100.0

	plan := &domain.Plan{
		Name:                name,
		StartYear:           startYear,
		Years:               years,
		TaxRate:             taxPct / 100.0,
		LivingInflationRate: livingInflation,
		Accounts:            ParseAccounts(firstRows(p, "accounts", "accountRows"), startYear),
		Incomes:             ParseCashflows(firstRows(p, "income", "incomes"), startYear, domain.FlowIncome, livingInflation),
		Spendings:           ParseCashflows(firstRows(p, "spending", "spendings", "expenses"), startYear, domain.FlowSpending, livingInflation),
	}
	if err := ip.ValidatePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ValidatePlan validates a parsed plan
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if len(plan.Accounts) == 0 {
		return ErrNoAccounts
	}
	if strings.TrimSpace(plan.Name) == "" {
		return fmt.Errorf("%w: plan name is required", ErrInvalidPlan)
	}
	if plan.Years < 0 || plan.Years > MaxYears {
		return fmt.Errorf("%w: years must be between 0 and %d, got %d", ErrInvalidPlan, MaxYears, plan.Years)
	}
	if plan.TaxRate < 0 || plan.TaxRate > 1 {
		return fmt.Errorf("%w: tax rate must be between 0%% and 100%%, got %.2f%%", ErrInvalidPlan, plan.TaxRate*100)
	}

	seen := make(map[string]bool, len(plan.Accounts))
	hasCash := false
	for i, a := range plan.Accounts {
		if seen[a.Name] {
			return fmt.Errorf("%w: account %d: duplicate name %q", ErrInvalidPlan, i, a.Name)
		}
		seen[a.Name] = true
		if !isKnownCategory(a.Category) {
			return fmt.Errorf("%w: account %q: unknown category %q", ErrInvalidPlan, a.Name, a.Category)
		}
		if a.Category.Normalize() == domain.CategoryCash {
			hasCash = true
		}
	}
	if !hasCash && seen[calculation.VirtualCashName] {
		return fmt.Errorf("%w: %q is reserved when the plan has no cash account", ErrInvalidPlan, calculation.VirtualCashName)
	}
	return nil
}

func isKnownCategory(c domain.Category) bool {
	for _, known := range domain.AccountCategories {
		if c.Normalize() == known {
			return true
		}
	}
	return false
}

func intField(p Payload, def int, keys ...string) (int, error) {
	v, ok := lookup(p, keys...)
	if !ok {
		return def, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidPlan, keys[0], err)
	}
	return int(f), nil
}

func floatField(p Payload, keys ...string) (float64, error) {
	v, ok := lookup(p, keys...)
	if !ok {
		return 0, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidPlan, keys[0], err)
	}
	return f, nil
}

// firstRows returns the first non-empty row list among keys
func firstRows(p Payload, keys ...string) []Row {
	for _, k := range keys {
		if rows := toRows(p[k]); len(rows) > 0 {
			return rows
		}
	}
	return nil
}
