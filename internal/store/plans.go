package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rpgo/household-planner/internal/logging"
	"github.com/rpgo/household-planner/pkg/jsonsafe"
	"github.com/sirupsen/logrus"
)

// ErrPlanNotFound is returned by Get for an unknown plan name
var ErrPlanNotFound = errors.New("plan not found")

// PlanStore keeps named plan payloads in one JSON file
type PlanStore struct {
	mu     sync.Mutex
	path   string
	logger logrus.FieldLogger
}

// NewPlanStore stores plans at path
func NewPlanStore(path string, logger logrus.FieldLogger) *PlanStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &PlanStore{path: path, logger: logger}
}

func (s *PlanStore) read() map[string]any {
	plans := map[string]any{}
	if _, err := readJSON(s.path, &plans); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("ignoring unreadable plan file")
		return map[string]any{}
	}
	return plans
}

// List returns saved plan names sorted alphabetically
func (s *PlanStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := s.read()
	names := make([]string, 0, len(plans))
	for name := range plans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a saved plan payload
func (s *PlanStore) Get(name string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.read()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlanNotFound, name)
	}
	payload, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an object", ErrPlanNotFound, name)
	}
	return payload, nil
}

// Save creates or replaces a plan. Non-finite numbers are stored as null.
func (s *PlanStore) Save(name string, payload map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := s.read()
	plans[name] = jsonsafe.Sanitize(payload)
	if err := writeJSONAtomic(s.path, plans); err != nil {
		return fmt.Errorf("saving plan %q: %w", name, err)
	}
	return nil
}

// Delete removes a plan. Deleting an unknown plan is a no-op.
func (s *PlanStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := s.read()
	if _, ok := plans[name]; !ok {
		return nil
	}
	delete(plans, name)
	if err := writeJSONAtomic(s.path, plans); err != nil {
		return fmt.Errorf("deleting plan %q: %w", name, err)
	}
	return nil
}
