// Package store persists plans, the dashboard layout and simulated scenarios
// under the data directory.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/internal/logging"
	"github.com/sirupsen/logrus"
)

// Scenario is one named simulation result
type Scenario struct {
	Name string
	Rows []domain.MonthlySnapshot
}

// Persister saves the full scenario set. Save replaces whatever was stored before.
type Persister interface {
	Load(ctx context.Context) ([]Scenario, error)
	Save(ctx context.Context, scenarios []Scenario) error
	Close() error
}

// ScenarioStore is the in-memory scenario set, kept in insertion order and
// written through to a Persister. Adding an existing name replaces its rows
// without moving it.
type ScenarioStore struct {
	mu        sync.RWMutex
	order     []string
	scenarios map[string][]domain.MonthlySnapshot
	persister Persister
	logger    logrus.FieldLogger
}

// NewScenarioStore creates an empty store. A nil persister keeps scenarios in memory only.
func NewScenarioStore(p Persister, logger logrus.FieldLogger) *ScenarioStore {
	if p == nil {
		p = NewMemoryPersister()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ScenarioStore{
		scenarios: make(map[string][]domain.MonthlySnapshot),
		persister: p,
		logger:    logger,
	}
}

// Load replaces the in-memory set with what the persister holds
func (s *ScenarioStore) Load(ctx context.Context) error {
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.scenarios = make(map[string][]domain.MonthlySnapshot, len(loaded))
	for _, sc := range loaded {
		s.put(sc.Name, sc.Rows)
	}
	s.logger.WithField("count", len(s.order)).Debug("scenarios loaded")
	return nil
}

func (s *ScenarioStore) put(name string, rows []domain.MonthlySnapshot) {
	if _, ok := s.scenarios[name]; !ok {
		s.order = append(s.order, name)
	}
	s.scenarios[name] = rows
}

// Add stores rows under name, replacing an earlier scenario of the same name
func (s *ScenarioStore) Add(ctx context.Context, name string, rows []domain.MonthlySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]domain.MonthlySnapshot, len(rows))
	copy(cp, rows)
	prev := s.snapshot()
	s.put(name, cp)
	return s.persistOrRestore(ctx, prev)
}

// Get returns a scenario's rows
func (s *ScenarioStore) Get(name string) ([]domain.MonthlySnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.scenarios[name]
	return rows, ok
}

// Names lists scenario names in insertion order
func (s *ScenarioStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All concatenates every scenario's rows in insertion order
func (s *ScenarioStore) All() []domain.MonthlySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MonthlySnapshot
	for _, name := range s.order {
		out = append(out, s.scenarios[name]...)
	}
	return out
}

// Len is the number of stored scenarios
func (s *ScenarioStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Delete removes one scenario. Deleting an unknown name is not an error.
func (s *ScenarioStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[name]; !ok {
		return nil
	}
	prev := s.snapshot()
	delete(s.scenarios, name)
	order := make([]string, 0, len(s.order))
	for _, n := range s.order {
		if n != name {
			order = append(order, n)
		}
	}
	s.order = order
	return s.persistOrRestore(ctx, prev)
}

// Clear removes every scenario
func (s *ScenarioStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()
	s.order = nil
	s.scenarios = make(map[string][]domain.MonthlySnapshot)
	return s.persistOrRestore(ctx, prev)
}

// Close releases the persister
func (s *ScenarioStore) Close() error {
	return s.persister.Close()
}

// storeState is the in-memory set as it was before a mutation
type storeState struct {
	order     []string
	scenarios map[string][]domain.MonthlySnapshot
}

// snapshot must be called with mu held. Stored row slices are never mutated in
// place, so copying the order and the map is enough.
func (s *ScenarioStore) snapshot() storeState {
	scenarios := make(map[string][]domain.MonthlySnapshot, len(s.scenarios))
	for name, rows := range s.scenarios {
		scenarios[name] = rows
	}
	return storeState{order: append([]string(nil), s.order...), scenarios: scenarios}
}

// persistOrRestore saves the current set and rolls memory back to prev when saving
// fails, so a failed write is never visible to readers. Must be called with mu held.
func (s *ScenarioStore) persistOrRestore(ctx context.Context, prev storeState) error {
	if err := s.persist(ctx); err != nil {
		s.order = prev.order
		s.scenarios = prev.scenarios
		return err
	}
	return nil
}

// persist must be called with mu held
func (s *ScenarioStore) persist(ctx context.Context) error {
	all := make([]Scenario, 0, len(s.order))
	for _, name := range s.order {
		all = append(all, Scenario{Name: name, Rows: s.scenarios[name]})
	}
	if err := s.persister.Save(ctx, all); err != nil {
		s.logger.WithError(err).Error("failed to persist scenarios")
		return fmt.Errorf("saving scenarios: %w", err)
	}
	return nil
}

// MemoryPersister keeps the last saved set in memory
type MemoryPersister struct {
	mu        sync.Mutex
	scenarios []Scenario
}

// NewMemoryPersister creates an empty in-memory persister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load(context.Context) ([]Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Scenario, len(m.scenarios))
	copy(out, m.scenarios)
	return out, nil
}

func (m *MemoryPersister) Save(_ context.Context, scenarios []Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios = append(m.scenarios[:0:0], scenarios...)
	return nil
}

func (m *MemoryPersister) Close() error { return nil }
