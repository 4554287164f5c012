// Package api serves the planner dashboard's REST surface.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpgo/household-planner/internal/config"
	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/internal/logging"
	"github.com/rpgo/household-planner/internal/service"
	"github.com/sirupsen/logrus"
)

// Handler serves the REST endpoints
type Handler struct {
	svc         *service.Service
	logger      logrus.FieldLogger
	defaultFreq domain.Frequency
}

// NewHandler creates a handler. Scenario endpoints use defaultFreq when the request names none.
func NewHandler(svc *service.Service, logger logrus.FieldLogger, defaultFreq string) *Handler {
	freq := domain.Quarterly
	if defaultFreq != "" {
		freq = domain.ParseFrequency(defaultFreq)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{svc: svc, logger: logger, defaultFreq: freq}
}

// NewRouter wires every route with request IDs, access logging, metrics and CORS
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, h.accessLogMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/schema", h.Schema).Methods("GET")
	api.HandleFunc("/months", h.Months).Methods("GET")
	api.HandleFunc("/plans", h.ListPlans).Methods("GET")
	api.HandleFunc("/plans", h.SavePlan).Methods("POST")
	api.HandleFunc("/plans/{name}", h.GetPlan).Methods("GET")
	api.HandleFunc("/plans/{name}", h.DeletePlan).Methods("DELETE")
	api.HandleFunc("/layout", h.GetLayout).Methods("GET")
	api.HandleFunc("/layout", h.SaveLayout).Methods("POST")
	api.HandleFunc("/scenarios", h.ListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", h.AddScenario).Methods("POST")
	api.HandleFunc("/scenarios", h.ClearScenarios).Methods("DELETE")
	api.HandleFunc("/scenarios/{name}", h.DeleteScenario).Methods("DELETE")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return corsMiddleware(r)
}

// NewServer builds the HTTP server from settings
func NewServer(s *config.Settings, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         s.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  s.ReadTimeoutDuration(),
		WriteTimeout: s.WriteTimeoutDuration(),
	}
}
