package store

import (
	"context"

	"github.com/rpgo/household-planner/internal/logging"
	"github.com/sirupsen/logrus"
)

// JSONPersister stores scenarios as a single JSON document
type JSONPersister struct {
	path   string
	logger logrus.FieldLogger
}

// NewJSONPersister stores scenarios at path
func NewJSONPersister(path string, logger logrus.FieldLogger) *JSONPersister {
	if logger == nil {
		logger = logging.Discard()
	}
	return &JSONPersister{path: path, logger: logger}
}

// Load reads the stored scenarios. A missing, empty or corrupt file loads as no scenarios.
func (p *JSONPersister) Load(ctx context.Context) ([]Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var stored []storedScenario
	ok, err := readJSON(p.path, &stored)
	if err != nil {
		p.logger.WithError(err).WithField("path", p.path).Warn("ignoring unreadable scenario file")
		return []Scenario{}, nil
	}
	if !ok {
		return []Scenario{}, nil
	}
	out := make([]Scenario, 0, len(stored))
	for _, s := range stored {
		out = append(out, decodeScenario(s))
	}
	return out, nil
}

// Save atomically replaces the file
func (p *JSONPersister) Save(ctx context.Context, scenarios []Scenario) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]storedScenario, 0, len(scenarios))
	for _, sc := range scenarios {
		stored = append(stored, encodeScenario(sc))
	}
	return writeJSONAtomic(p.path, stored)
}

func (p *JSONPersister) Close() error { return nil }
