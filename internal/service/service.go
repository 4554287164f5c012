// Package service ties plan parsing, simulation, aggregation and storage together
// for the CLI and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/rpgo/household-planner/internal/calculation"
	"github.com/rpgo/household-planner/internal/config"
	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/internal/logging"
	"github.com/rpgo/household-planner/internal/metrics"
	"github.com/rpgo/household-planner/internal/store"
	"github.com/rpgo/household-planner/pkg/dateutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrPlanNameRequired is returned when saving a plan without a name
var ErrPlanNameRequired = errors.New("plan name is required")

// Deps are the collaborators of a Service. A nil Scenarios store keeps results in
// memory; Plans and Layout are only needed by the plan and layout operations.
type Deps struct {
	Engine    *calculation.SimulationEngine
	Parser    *config.InputParser
	Scenarios *store.ScenarioStore
	Plans     *store.PlanStore
	Layout    *store.LayoutStore
	Logger    logrus.FieldLogger
}

// Service runs scenarios and serves stored results
type Service struct {
	engine    *calculation.SimulationEngine
	parser    *config.InputParser
	scenarios *store.ScenarioStore
	plans     *store.PlanStore
	layout    *store.LayoutStore
	logger    logrus.FieldLogger
}

// New creates a service
func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Engine == nil {
		d.Engine = calculation.NewSimulationEngine()
		d.Engine.SetLogger(d.Logger)
	}
	if d.Parser == nil {
		d.Parser = config.NewInputParser()
	}
	if d.Scenarios == nil {
		d.Scenarios = store.NewScenarioStore(nil, d.Logger)
	}
	return &Service{
		engine:    d.Engine,
		parser:    d.Parser,
		scenarios: d.Scenarios,
		plans:     d.Plans,
		layout:    d.Layout,
		logger:    d.Logger,
	}
}

// SetDebug toggles the engine's per-month trace
func (s *Service) SetDebug(on bool) {
	s.engine.Debug = on
}

// Load restores persisted scenarios
func (s *Service) Load(ctx context.Context) error {
	if err := s.scenarios.Load(ctx); err != nil {
		return err
	}
	metrics.ScenariosStored.Set(float64(s.scenarios.Len()))
	return nil
}

// Result is one simulated plan
type Result struct {
	Plan   *domain.Plan
	Months []domain.MonthlySnapshot
}

// Simulate parses and runs a payload without storing it
func (s *Service) Simulate(payload config.Payload) (*Result, error) {
	started := time.Now()
	plan, err := s.parser.ParsePayload(payload)
	if err != nil {
		metrics.RecordSimulation(false, 0, 0)
		return nil, err
	}
	months := s.engine.Simulate(plan)
	metrics.RecordSimulation(true, len(months), time.Since(started))
	return &Result{Plan: plan, Months: months}, nil
}

// AddScenario simulates a payload, stores it under the plan name (replacing an
// earlier run of the same name) and returns every stored scenario aggregated at freq.
func (s *Service) AddScenario(ctx context.Context, payload config.Payload, freq domain.Frequency) (*domain.Report, error) {
	res, err := s.Simulate(payload)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, res); err != nil {
		return nil, err
	}
	return s.Aggregated(freq)
}

// AddScenarios simulates payloads in parallel and stores them in input order.
// Nothing is stored when any payload is invalid.
func (s *Service) AddScenarios(ctx context.Context, payloads []config.Payload, freq domain.Frequency) (*domain.Report, error) {
	results := make([]*Result, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Simulate(p)
			if err != nil {
				return fmt.Errorf("scenario %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, res := range results {
		if err := s.store(ctx, res); err != nil {
			return nil, err
		}
	}
	return s.Aggregated(freq)
}

func (s *Service) store(ctx context.Context, res *Result) error {
	if err := s.scenarios.Add(ctx, res.Plan.Name, res.Months); err != nil {
		return err
	}
	metrics.ScenariosStored.Set(float64(s.scenarios.Len()))
	s.logger.WithFields(logrus.Fields{
		"scenario": res.Plan.Name,
		"months":   len(res.Months),
	}).Info("scenario stored")
	return nil
}

// Aggregated reduces every stored scenario to periods of freq
func (s *Service) Aggregated(freq domain.Frequency) (*domain.Report, error) {
	report := &domain.Report{
		Frequency: freq,
		Scenarios: s.scenarios.Names(),
		Periods:   []domain.PeriodSnapshot{},
	}
	rows := s.scenarios.All()
	if len(rows) == 0 {
		return report, nil
	}
	periods, err := s.engine.Aggregate(rows, freq)
	if err != nil {
		return nil, err
	}
	report.Periods = periods
	return report, nil
}

// ScenarioNames lists stored scenarios in insertion order
func (s *Service) ScenarioNames() []string {
	return s.scenarios.Names()
}

// ScenarioMonths returns the monthly rows of one stored scenario
func (s *Service) ScenarioMonths(name string) ([]domain.MonthlySnapshot, bool) {
	return s.scenarios.Get(name)
}

// DeleteScenario removes one stored scenario
func (s *Service) DeleteScenario(ctx context.Context, name string) error {
	if err := s.scenarios.Delete(ctx, name); err != nil {
		return err
	}
	metrics.ScenariosStored.Set(float64(s.scenarios.Len()))
	return nil
}

// ClearScenarios removes every stored scenario
func (s *Service) ClearScenarios(ctx context.Context) error {
	if err := s.scenarios.Clear(ctx); err != nil {
		return err
	}
	metrics.ScenariosStored.Set(0)
	s.logger.Info("scenarios cleared")
	return nil
}

// ListPlans returns saved plan names, sorted
func (s *Service) ListPlans() []string {
	return s.plans.List()
}

// GetPlan returns a saved plan payload
func (s *Service) GetPlan(name string) (map[string]any, error) {
	return s.plans.Get(name)
}

// SavePlan stores a payload under its trimmed "name" field and returns that name
func (s *Service) SavePlan(payload map[string]any) (string, error) {
	name := ""
	if v, ok := payload["name"]; ok && v != nil {
		name = strings.TrimSpace(fmt.Sprint(v))
	}
	if name == "" {
		return "", ErrPlanNameRequired
	}
	if err := s.plans.Save(name, payload); err != nil {
		return "", err
	}
	s.logger.WithField("plan", name).Info("plan saved")
	return name, nil
}

// DeletePlan removes a saved plan; unknown names are ignored
func (s *Service) DeletePlan(name string) error {
	return s.plans.Delete(name)
}

// Layout returns the saved dashboard layout
func (s *Service) Layout() []any {
	return s.layout.Get()
}

// SaveLayout replaces the dashboard layout
func (s *Service) SaveLayout(layout []any) error {
	return s.layout.Save(layout)
}

// Schema describes the plan editor
func (s *Service) Schema() config.Schema {
	return config.BuildSchema()
}

// Months lists the selectable months of a plan horizon
func (s *Service) Months(startYear, years int) []string {
	return dateutil.GenerateMonthOptions(startYear, years)
}

// Close releases the scenario store
func (s *Service) Close() error {
	return s.scenarios.Close()
}
