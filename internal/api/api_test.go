package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/household-planner/internal/service"
	"github.com/rpgo/household-planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	svc := service.New(service.Deps{
		Scenarios: store.NewScenarioStore(store.NewJSONPersister(filepath.Join(dir, "scenarios.json"), nil), nil),
		Plans:     store.NewPlanStore(filepath.Join(dir, "plans.json"), nil),
		Layout:    store.NewLayoutStore(filepath.Join(dir, "layout.json"), nil),
	})
	return NewRouter(NewHandler(svc, nil, "Q"))
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

const scenarioBody = `{
  "name": "Base", "startYear": 2024, "years": 1, "taxRate": 25, "freq": "Q",
  "accounts": [{"Name": "Cash", "Category": "cash", "Amount (USD)": 1000}],
  "income": [{"Name": "Salary", "Category": "salary", "Annual Amount": 12000}]
}`

func TestHealthAndCORS(t *testing.T) {
	h := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec, _ = do(t, h, http.MethodOptions, "/api/scenarios", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET,POST,DELETE,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestSchemaAndMonths(t *testing.T) {
	h := newTestRouter(t)
	rec, body := do(t, h, http.MethodGet, "/api/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "planDefaults")
	assert.Len(t, body["freqOptions"], 3)

	rec, body = do(t, h, http.MethodGet, "/api/months?startYear=2030&years=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	months := body["months"].([]any)
	require.Len(t, months, 24)
	assert.Equal(t, "2030-01", months[0])

	rec, body = do(t, h, http.MethodGet, "/api/months?years=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid month parameters.", body["error"])
}

func TestPlanEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec, body := do(t, h, http.MethodPost, "/api/plans", `{"years": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Plan name is required.", body["error"])

	rec, body = do(t, h, http.MethodPost, "/api/plans", `{"name": "Early", "years": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Plan saved.", body["message"])
	assert.Equal(t, []any{"Early"}, body["plans"])

	rec, body = do(t, h, http.MethodGet, "/api/plans/Early", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, body["years"])

	rec, body = do(t, h, http.MethodGet, "/api/plans/Missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Plan not found.", body["error"])

	rec, body = do(t, h, http.MethodDelete, "/api/plans/Early", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Plan deleted.", body["message"])
	assert.Empty(t, body["plans"])
}

func TestLayoutEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec, body := do(t, h, http.MethodGet, "/api/layout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["layout"])

	rec, body = do(t, h, http.MethodPost, "/api/layout", `{"layout": "grid"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Layout must be a list.", body["error"])

	rec, _ = do(t, h, http.MethodPost, "/api/layout", `{"layout": [{"i": "chart"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, body = do(t, h, http.MethodGet, "/api/layout", "")
	assert.Equal(t, []any{map[string]any{"i": "chart"}}, body["layout"])
}

func TestScenarioEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec, body := do(t, h, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Q", body["freq"])
	assert.Equal(t, []any{}, body["data"])

	rec, body = do(t, h, http.MethodPost, "/api/scenarios", scenarioBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Base"}, body["scenarios"])
	data := body["data"].([]any)
	require.Len(t, data, 4)
	last := data[3].(map[string]any)
	assert.Equal(t, "2024 Q4", last["period"])
	assert.InDelta(t, 10000.0, last["Cash"], 1e-9)

	rec, body = do(t, h, http.MethodGet, "/api/scenarios?freq=y", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Y", body["freq"])
	assert.Len(t, body["data"], 1)

	rec, body = do(t, h, http.MethodDelete, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All scenarios cleared.", body["message"])
	assert.Equal(t, []any{}, body["scenarios"])
}

func TestAddScenarioBatchAndDelete(t *testing.T) {
	h := newTestRouter(t)
	second := strings.Replace(scenarioBody, `"Base"`, `"Alt"`, 1)

	rec, body := do(t, h, http.MethodPost, "/api/scenarios", "["+scenarioBody+","+second+"]")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Base", "Alt"}, body["scenarios"])

	rec, body = do(t, h, http.MethodDelete, "/api/scenarios/Base", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Alt"}, body["scenarios"])
}

func TestAddScenarioValidation(t *testing.T) {
	h := newTestRouter(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no accounts", `{"name": "X", "accounts": []}`, "At least one account with a non-zero principal is required."},
		{"zero principal", `{"accounts": [{"Name": "Cash", "Amount (USD)": 0}]}`, "At least one account with a non-zero principal is required."},
		{"empty body", ``, "At least one account with a non-zero principal is required."},
		{"bad years", `{"years": "many", "accounts": [{"Name": "Cash", "Amount (USD)": 10}]}`, "Invalid plan parameters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodPost, "/api/scenarios", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodGet, "/api/health", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "planner_http_requests_total")
}
