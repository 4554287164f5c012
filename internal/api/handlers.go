package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rpgo/household-planner/internal/config"
	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/internal/output"
	"github.com/rpgo/household-planner/internal/service"
	"github.com/rpgo/household-planner/internal/store"
)

// Error messages shown to dashboard users
const (
	msgPlanNotFound     = "Plan not found."
	msgPlanNameRequired = "Plan name is required."
	msgLayoutNotList    = "Layout must be a list."
	msgNoAccounts       = "At least one account with a non-zero principal is required."
	msgInvalidPlan      = "Invalid plan parameters."
	msgInvalidMonths    = "Invalid month parameters."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeObject reads a JSON object body; an empty or malformed body yields an empty object
func decodeObject(r *http.Request) map[string]any {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		return map[string]any{}
	}
	return payload
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WithError(err).WithField("request_id", RequestID(r.Context())).Error("request failed")
	writeError(w, http.StatusInternalServerError, err.Error())
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Schema returns the plan editor schema
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Schema())
}

// Months lists the months of ?startYear=&years= (defaults 2024 and 1)
func (h *Handler) Months(w http.ResponseWriter, r *http.Request) {
	startYear, err1 := queryInt(r, "startYear", config.DefaultStartYear)
	years, err2 := queryInt(r, "years", config.DefaultYears)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, msgInvalidMonths)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": h.svc.Months(startYear, years)})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// ListPlans returns saved plan names
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"plans": h.svc.ListPlans()})
}

// GetPlan returns one saved plan
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.GetPlan(mux.Vars(r)["name"])
	if errors.Is(err, store.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, msgPlanNotFound)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// SavePlan stores the posted plan under its name
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	payload := decodeObject(r)
	if _, err := h.svc.SavePlan(payload); err != nil {
		if errors.Is(err, service.ErrPlanNameRequired) {
			writeError(w, http.StatusBadRequest, msgPlanNameRequired)
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Plan saved.",
		"plans":   h.svc.ListPlans(),
		"plan":    payload,
	})
}

// DeletePlan removes a saved plan
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePlan(mux.Vars(r)["name"]); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Plan deleted.", "plans": h.svc.ListPlans()})
}

// GetLayout returns the dashboard layout
func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"layout": h.svc.Layout()})
}

// SaveLayout replaces the dashboard layout with the posted "layout" list
func (h *Handler) SaveLayout(w http.ResponseWriter, r *http.Request) {
	layout, ok := decodeObject(r)["layout"].([]any)
	if !ok {
		writeError(w, http.StatusBadRequest, msgLayoutNotList)
		return
	}
	if err := h.svc.SaveLayout(layout); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Layout saved."})
}

func (h *Handler) frequency(raw string) domain.Frequency {
	if strings.TrimSpace(raw) == "" {
		return h.defaultFreq
	}
	return domain.ParseFrequency(raw)
}

// ListScenarios returns every stored scenario aggregated at ?freq=
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Aggregated(h.frequency(r.URL.Query().Get("freq")))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewPayload(report))
}

// AddScenario simulates the posted plan, or a JSON list of plans, and returns
// every stored scenario aggregated at the requested frequency.
func (h *Handler) AddScenario(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		body = map[string]any{}
	}

	var payloads []config.Payload
	switch t := body.(type) {
	case map[string]any:
		payloads = append(payloads, config.Payload(t))
	case []any:
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				writeError(w, http.StatusBadRequest, msgInvalidPlan)
				return
			}
			payloads = append(payloads, config.Payload(m))
		}
	default:
		payloads = append(payloads, config.Payload{})
	}
	if len(payloads) == 0 {
		writeError(w, http.StatusBadRequest, msgNoAccounts)
		return
	}

	freq := h.frequency(payloadFreq(payloads[0]))
	var (
		report *domain.Report
		err    error
	)
	if len(payloads) == 1 {
		report, err = h.svc.AddScenario(r.Context(), payloads[0], freq)
	} else {
		report, err = h.svc.AddScenarios(r.Context(), payloads, freq)
	}
	switch {
	case errors.Is(err, config.ErrNoAccounts):
		writeError(w, http.StatusBadRequest, msgNoAccounts)
		return
	case errors.Is(err, config.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, msgInvalidPlan)
		return
	case err != nil:
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.NewPayload(report))
}

func payloadFreq(p config.Payload) string {
	for _, k := range []string{"freq", "frequency"} {
		if s, ok := p[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// ClearScenarios removes every stored scenario
func (h *Handler) ClearScenarios(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearScenarios(r.Context()); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "All scenarios cleared.", "scenarios": []string{}})
}

// DeleteScenario removes one stored scenario
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteScenario(r.Context(), mux.Vars(r)["name"]); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Scenario deleted.", "scenarios": h.svc.ScenarioNames()})
}
