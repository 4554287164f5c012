package output

import (
	"encoding/json"

	"github.com/rpgo/household-planner/internal/domain"
)

// JSONFormatter serializes the report as the pretty-printed dashboard payload.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.Report) ([]byte, error) {
	return json.MarshalIndent(NewPayload(report), "", "  ")
}
