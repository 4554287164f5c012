package calculation

import (
	"math"

	"github.com/rpgo/household-planner/internal/domain"
)

// accountState is the working copy of one account for a single run.
type accountState struct {
	name          string
	category      domain.Category
	initial       float64
	rate          float64
	start, end    int
	endAction     domain.EndAction
	taxableGrowth bool
	liquid        bool

	balance   float64
	active    bool
	completed bool
}

// cashflowState is the working copy of one income or spending stream.
type cashflowState struct {
	monthly    float64
	start, end int
	taxable    bool
	inflation  float64
}

func (c *cashflowState) inWindow(m int) bool {
	return c.start <= m && m <= c.end
}

// ledger owns all per-run state. It is built fresh for every Simulate call.
type ledger struct {
	scenario  string
	startYear int
	months    int
	taxRate   float64

	accounts    []accountState
	incomes     []cashflowState
	spendings   []cashflowState
	primaryCash int
	virtualCash bool
	cashBuffer  float64
}

// monthWindow converts fractional-year offsets to an inclusive month window.
// Rounding is half-to-even so 1.5 months lands on month 2 and 4.5 on month 4.
func monthWindow(startOffset, endOffset float64, months int) (int, int) {
	start := int(math.RoundToEven(startOffset * 12))
	if start < 0 {
		start = 0
	}
	end := months - 1
	if endOffset > 0 {
		if e := int(math.RoundToEven(endOffset * 12)); e < end {
			end = e
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

func newAccountState(a domain.Account, months int) accountState {
	start, end := monthWindow(a.StartYear, a.EndYear, months)
	return accountState{
		name:          a.Name,
		category:      a.Category.Normalize(),
		initial:       a.InitialBalance(),
		rate:          a.MonthlyRate(),
		start:         start,
		end:           end,
		endAction:     a.EndAction.Normalize(),
		taxableGrowth: a.IsTaxableGrowthSource(),
		liquid:        a.Category.IsLiquid(),
	}
}

func newCashflowState(c domain.Cashflow, months int) cashflowState {
	start, end := monthWindow(c.StartYear, c.EndYear, months)
	return cashflowState{
		monthly:   c.MonthlyAmount(),
		start:     start,
		end:       end,
		taxable:   c.Taxable,
		inflation: c.InflationRate,
	}
}

func newLedger(plan *domain.Plan) *ledger {
	months := plan.HorizonMonths()
	l := &ledger{
		scenario:    plan.Name,
		startYear:   plan.StartYear,
		months:      months,
		taxRate:     plan.TaxRate,
		accounts:    make([]accountState, 0, len(plan.Accounts)+1),
		primaryCash: -1,
	}

	for i, a := range plan.Accounts {
		st := newAccountState(a, months)
		if l.primaryCash < 0 && st.category == domain.CategoryCash {
			l.primaryCash = i
		}
		l.accounts = append(l.accounts, st)
	}

	if l.primaryCash < 0 {
		virtual := newAccountState(domain.Account{
			Name:      VirtualCashName,
			Category:  domain.CategoryCash,
			EndAction: domain.EndActionKeep,
		}, months)
		virtual.active = true
		l.accounts = append([]accountState{virtual}, l.accounts...)
		l.primaryCash = 0
		l.virtualCash = true
	}

	for _, c := range plan.Incomes {
		l.incomes = append(l.incomes, newCashflowState(c, months))
	}
	for _, c := range plan.Spendings {
		l.spendings = append(l.spendings, newCashflowState(c, months))
	}
	return l
}

// step advances the ledger through month m and returns its snapshot.
func (l *ledger) step(m int) domain.MonthlySnapshot {
	var totalIncome, taxableIncome float64
	for i := range l.incomes {
		in := &l.incomes[i]
		if !in.inWindow(m) {
			continue
		}
		totalIncome += in.monthly
		if in.taxable {
			taxableIncome += in.monthly
		}
	}

	for i := range l.accounts {
		a := &l.accounts[i]
		if !a.active && !a.completed && a.start == m {
			a.balance = a.initial
			a.active = true
		}
	}

	var taxableGrowth float64
	for i := range l.accounts {
		a := &l.accounts[i]
		if a.active && !a.completed && a.taxableGrowth && m <= a.end {
			taxableGrowth += math.Max(0, a.balance*a.rate)
		}
	}

	taxableBase := taxableIncome + taxableGrowth
	tax := taxableBase * l.taxRate

	var totalSpending float64
	for i := range l.spendings {
		sp := &l.spendings[i]
		if !sp.inWindow(m) {
			continue
		}
		multiplier := 1.0
		if sp.inflation != 0 {
			multiplier = math.Pow(1+sp.inflation, float64(m-sp.start)/12.0)
		}
		totalSpending += sp.monthly * multiplier
	}

	net := totalIncome - totalSpending - tax
	l.applyToCash(net)

	for i := range l.accounts {
		a := &l.accounts[i]
		if a.active && !a.completed && m <= a.end {
			a.balance *= 1 + a.rate
		}
	}

	for i := range l.accounts {
		a := &l.accounts[i]
		if a.active && a.end == m {
			l.close(i)
		}
	}

	snap := domain.MonthlySnapshot{
		Scenario:                l.scenario,
		MonthIndex:              m,
		CalendarYear:            l.startYear + m/12,
		MonthInYear:             m%12 + 1,
		Balances:                make(map[string]float64, len(l.accounts)),
		AccountNames:            make([]string, 0, len(l.accounts)),
		TotalIncome:             totalIncome,
		TotalSpending:           totalSpending,
		TaxableIncome:           taxableIncome,
		TaxableInvestmentGrowth: taxableGrowth,
		TaxableBase:             taxableBase,
		TotalTax:                tax,
		NetCashflow:             net,
	}
	snap.Month = domain.MonthLabel(snap.CalendarYear, snap.MonthInYear)

	for i := range l.accounts {
		a := &l.accounts[i]
		snap.Balances[a.name] = a.balance
		snap.AccountNames = append(snap.AccountNames, a.name)
		if a.balance >= 0 {
			snap.TotalAssets += a.balance
		} else {
			snap.TotalDebt += a.balance
		}
		if a.liquid {
			snap.Liquid += a.balance
		}
	}
	snap.NetWorth = snap.TotalAssets + snap.TotalDebt
	return snap
}

// applyToCash credits the primary cash account, or holds the amount until it activates.
func (l *ledger) applyToCash(amount float64) {
	cash := &l.accounts[l.primaryCash]
	if cash.active && !cash.completed {
		cash.balance += l.cashBuffer + amount
		l.cashBuffer = 0
		return
	}
	l.cashBuffer += amount
}

// close applies the end action of account i on its end month.
func (l *ledger) close(i int) {
	a := &l.accounts[i]
	switch a.endAction {
	case domain.EndActionLiquidateToCash:
		if i == l.primaryCash {
			// Liquidating cash into itself is a no-op transfer; freeze it like keep.
			a.rate = 0
			return
		}
		amount := a.balance
		a.balance = 0
		a.active = false
		a.completed = true
		l.applyToCash(amount)
	case domain.EndActionDrop:
		a.balance = 0
		a.active = false
		a.completed = true
	default:
		a.rate = 0
	}
}
