package store

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Backends accepted by OpenPersister
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// OpenPersister opens the scenario persister for backend at path
func OpenPersister(backend, path string, logger logrus.FieldLogger) (Persister, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONPersister(path, logger), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryPersister(), nil
	default:
		return nil, fmt.Errorf("unknown scenario backend %q", backend)
	}
}
