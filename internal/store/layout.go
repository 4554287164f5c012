package store

import (
	"fmt"
	"sync"

	"github.com/rpgo/household-planner/internal/logging"
	"github.com/rpgo/household-planner/pkg/jsonsafe"
	"github.com/sirupsen/logrus"
)

// LayoutStore keeps the dashboard widget layout as a JSON list
type LayoutStore struct {
	mu     sync.Mutex
	path   string
	logger logrus.FieldLogger
}

// NewLayoutStore stores the layout at path
func NewLayoutStore(path string, logger logrus.FieldLogger) *LayoutStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LayoutStore{path: path, logger: logger}
}

// Get returns the saved layout, empty when nothing was saved
func (s *LayoutStore) Get() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var layout []any
	if _, err := readJSON(s.path, &layout); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("ignoring unreadable layout file")
	}
	if layout == nil {
		layout = []any{}
	}
	return layout
}

// Save replaces the layout. A nil layout is stored as an empty list.
func (s *LayoutStore) Save(layout []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layout == nil {
		layout = []any{}
	}
	if err := writeJSONAtomic(s.path, jsonsafe.Sanitize(layout)); err != nil {
		return fmt.Errorf("saving layout: %w", err)
	}
	return nil
}
