package calculation

import (
	"github.com/rpgo/household-planner/internal/domain"
)

// VirtualCashName is the account injected when a plan defines no cash account.
const VirtualCashName = "Cash Reserve"

// SimulationEngine turns plans into monthly ledgers and rolls them up into reporting periods.
// It holds no per-run state, so one engine may serve concurrent callers.
type SimulationEngine struct {
	Debug  bool // log a per-month trace at debug level
	Logger Logger
}

// NewSimulationEngine creates a new simulation engine with a no-op logger.
func NewSimulationEngine() *SimulationEngine {
	return &SimulationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the simulation engine. If nil is provided, a no-op logger is used.
func (se *SimulationEngine) SetLogger(l Logger) {
	if l == nil {
		se.Logger = NopLogger{}
		return
	}
	se.Logger = l
}

// Simulate runs the plan with a default engine.
func Simulate(plan *domain.Plan) []domain.MonthlySnapshot {
	return NewSimulationEngine().Simulate(plan)
}

// Simulate produces one snapshot per month of the plan horizon. The plan is never
// mutated and the engine never fails: every boundary has a defined outcome.
func (se *SimulationEngine) Simulate(plan *domain.Plan) []domain.MonthlySnapshot {
	started := nowFunc()
	ledger := newLedger(plan)
	snapshots := make([]domain.MonthlySnapshot, 0, ledger.months)

	if ledger.virtualCash {
		se.Logger.Debugf("scenario %q has no cash account, injecting %q", plan.Name, VirtualCashName)
	}

	for m := 0; m < ledger.months; m++ {
		snap := ledger.step(m)
		if se.Debug {
			se.Logger.Debugf("%s %s: income=%.2f spending=%.2f tax=%.2f net=%.2f networth=%.2f",
				plan.Name, snap.Month, snap.TotalIncome, snap.TotalSpending, snap.TotalTax, snap.NetCashflow, snap.NetWorth)
		}
		snapshots = append(snapshots, snap)
	}

	if ledger.cashBuffer != 0 {
		se.Logger.Warnf("scenario %q ended with %.2f of net cash flow never applied to %q",
			plan.Name, ledger.cashBuffer, ledger.accounts[ledger.primaryCash].name)
	}
	se.Logger.Infof("simulated scenario %q: %d months, %d accounts in %s",
		plan.Name, ledger.months, len(ledger.accounts), nowFunc().Sub(started))
	return snapshots
}
