package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/okian/realm/internal/chart"
	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/types"
)

// ChartHandler renders the radar chart.
type ChartHandler struct {
	deps StateDependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps StateDependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleGetChart handles GET /api/chart.svg requests. Query parameters named
// after a dimension override the current score for this rendering only;
// labels=full spells out the dimension names.
func (h *ChartHandler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	scores, err := overrideScores(h.deps.View(), q.Get)
	if err != nil {
		writeFailure(w, err)
		return
	}

	opts := []chart.Option{}
	if q.Get("labels") == "full" {
		opts = append(opts, chart.WithFullLabels())
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf, scores, opts...); err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func overrideScores(view types.StateView, get func(string) string) (model.ScoreSet, error) {
	scores := view.Scores
	for _, d := range model.Dimensions {
		raw := get(string(d))
		if raw == "" {
			continue
		}
		v, err := model.ParseScore(raw)
		if err != nil {
			return scores, fmt.Errorf("%s: %w", d, err)
		}
		if scores, err = scores.With(d, v); err != nil {
			return scores, err
		}
	}
	return scores, nil
}
