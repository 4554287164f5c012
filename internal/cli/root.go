// Package cli implements the planner command line.
package cli

import (
	"context"
	"fmt"

	"github.com/rpgo/household-planner/internal/calculation"
	"github.com/rpgo/household-planner/internal/config"
	"github.com/rpgo/household-planner/internal/logging"
	"github.com/rpgo/household-planner/internal/service"
	"github.com/rpgo/household-planner/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App holds what the commands share. Fields left nil are built from settings
// the first time a command needs them.
type App struct {
	Settings *config.Settings
	Logger   *logrus.Logger
	Service  *service.Service
	Parser   *config.InputParser

	configFile string
	dataDir    string
	backend    string
	logLevel   string
}

// NewRootCmd creates the top-level "planner" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Household cash-flow projector",
		Long:          "Simulates household plans month by month and reports balances, taxes and net worth by month, quarter or year.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.configFile, "config", "", "settings file (default ./planner.yaml when present)")
	root.PersistentFlags().StringVar(&app.dataDir, "data-dir", "", "override the data directory")
	root.PersistentFlags().StringVar(&app.backend, "backend", "", "override the scenario store backend (json|sqlite)")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "override the log level")

	root.AddCommand(
		newSimulateCmd(app),
		newScenariosCmd(app),
		newPlansCmd(app),
		newMonthsCmd(app),
		newExampleCmd(app),
		newServeCmd(app),
	)
	return root
}

// settings loads settings once, applying flag overrides
func (a *App) settings() (*config.Settings, error) {
	if a.Settings != nil {
		return a.Settings, nil
	}
	s, err := config.LoadSettings(a.configFile)
	if err != nil {
		return nil, err
	}
	if a.dataDir != "" {
		s.DataDir = a.dataDir
	}
	if a.backend != "" {
		s.ScenarioBackend = a.backend
	}
	if a.logLevel != "" {
		s.LogLevel = a.logLevel
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	a.Settings = s
	return s, nil
}

func (a *App) logger() *logrus.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	if s, err := a.settings(); err == nil {
		a.Logger = logging.New(s.LogLevel, s.LogFormat)
	} else {
		a.Logger = logging.New("info", "text")
	}
	return a.Logger
}

func (a *App) defaultFreq() string {
	if a.Settings != nil && a.Settings.DefaultFreq != "" {
		return a.Settings.DefaultFreq
	}
	return "Q"
}

func (a *App) parser() *config.InputParser {
	if a.Parser == nil {
		a.Parser = config.NewInputParser()
	}
	return a.Parser
}

// service opens the configured stores and restores stored scenarios
func (a *App) service(ctx context.Context) (*service.Service, error) {
	if a.Service != nil {
		return a.Service, nil
	}
	s, err := a.settings()
	if err != nil {
		return nil, err
	}
	logger := a.logger()

	path := s.ScenariosFile()
	if s.ScenarioBackend == config.BackendSQLite {
		path = s.ScenariosDB()
	}
	persister, err := store.OpenPersister(s.ScenarioBackend, path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening scenario store: %w", err)
	}

	engine := calculation.NewSimulationEngine()
	engine.SetLogger(logger)
	svc := service.New(service.Deps{
		Engine:    engine,
		Parser:    a.parser(),
		Scenarios: store.NewScenarioStore(persister, logger),
		Plans:     store.NewPlanStore(s.PlansFile(), logger),
		Layout:    store.NewLayoutStore(s.LayoutFile(), logger),
		Logger:    logger,
	})
	if err := svc.Load(ctx); err != nil {
		svc.Close()
		return nil, err
	}
	a.Service = svc
	return svc, nil
}

// Close releases the stores if they were opened
func (a *App) Close() error {
	if a.Service == nil {
		return nil
	}
	return a.Service.Close()
}
