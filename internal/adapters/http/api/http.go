// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	service "github.com/okian/realm/internal/app"
	"github.com/okian/realm/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoreDependencies
	SnapshotDependencies
	OpportunityDependencies
	StateDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	stateHandler       *StateHandler
	scoresHandler      *ScoresHandler
	snapshotsHandler   *SnapshotsHandler
	opportunityHandler *OpportunitiesHandler
	chartHandler       *ChartHandler
	writes             *rate.Limiter
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithWriteLimit caps state-changing requests at perSecond with the given
// burst. A non-positive rate leaves writes unlimited.
func WithWriteLimit(perSecond float64, burst int) ServerOption {
	return func(s *Server) {
		if perSecond > 0 && burst > 0 {
			s.writes = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		stateHandler:       NewStateHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		snapshotsHandler:   NewSnapshotsHandler(deps),
		opportunityHandler: NewOpportunitiesHandler(deps),
		chartHandler:       NewChartHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/state", MetricsMiddleware(s.stateHandler.HandleGetState, "state"))
	mux.HandleFunc("/api/recommendations", MetricsMiddleware(s.stateHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/api/scores/", MetricsMiddleware(limitWrites(s.writes, s.scoresHandler.HandlePutScore), "scores"))
	mux.HandleFunc("/api/snapshots", MetricsMiddleware(limitWrites(s.writes, s.snapshotsHandler.HandlePostSnapshot), "snapshots"))
	mux.HandleFunc("/api/history", MetricsMiddleware(s.snapshotsHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/api/history/summary", MetricsMiddleware(s.snapshotsHandler.HandleGetSummary, "history_summary"))
	mux.HandleFunc("/api/opportunities", MetricsMiddleware(limitWrites(s.writes, s.opportunityHandler.HandleOpportunities), "opportunities"))
	mux.HandleFunc("/api/chart.svg", MetricsMiddleware(s.chartHandler.HandleGetChart, "chart"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service or domain error onto its HTTP status.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownDimension):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, model.ErrInvalidScore),
		errors.Is(err, model.ErrInvalidRating),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, service.ErrPending):
		writeError(w, http.StatusGatewayTimeout, "pending", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 16 << 10

// decodeBody reads at most maxBodyBytes of JSON from r into v. An empty
// body leaves v untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, allow ...string) {
	for _, m := range allow {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
}

// Compile-time check that the service satisfies the handler contract.
var _ Dependencies = (*service.Service)(nil)

