// Package httpapi exposes the pipeline over HTTP: validation and
// detection endpoints, ledger queries and mutations, and the latest
// analysis report.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/ledger"
	"solana-trade-scout/internal/scorer"
	"solana-trade-scout/internal/storage"
	"solana-trade-scout/internal/validator"
)

// Server wires the pipeline components into an HTTP handler.
type Server struct {
	validator *validator.Validator
	enricher  *validator.Enricher
	scorer    *scorer.Scorer
	ledger    *ledger.Ledger
	reports   storage.ReportStore
}

// New creates a Server. Reports may be nil when no report store is
// configured; the report endpoint then always returns 404.
func New(v *validator.Validator, e *validator.Enricher, s *scorer.Scorer, l *ledger.Ledger, reports storage.ReportStore) *Server {
	return &Server{
		validator: v,
		enricher:  e,
		scorer:    s,
		ledger:    l,
		reports:   reports,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	api.HandleFunc("/detect", s.handleDetect).Methods(http.MethodPost)

	api.HandleFunc("/trades", s.handleListTrades).Methods(http.MethodGet)
	api.HandleFunc("/trades", s.handleRecordBuy).Methods(http.MethodPost)
	api.HandleFunc("/trades/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/trades/{id}/sell", s.handleRecordSell).Methods(http.MethodPost)
	api.HandleFunc("/trades/{id}/notes", s.handleAddNote).Methods(http.MethodPost)

	api.HandleFunc("/performance/tokens", s.handleTokenPerformance).Methods(http.MethodGet)
	api.HandleFunc("/performance/strategies", s.handleStrategyEvaluation).Methods(http.MethodGet)

	api.HandleFunc("/report/latest", s.handleLatestReport).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		respondError(w, http.StatusNotFound, "no report store configured")
		return
	}
	report, err := s.reports.Latest(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no report generated yet")
			return
		}
		respondError(w, http.StatusInternalServerError, "report lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug().Err(err).Msg("response encoding failed")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
