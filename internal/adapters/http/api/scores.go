package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/okian/realm/internal/domain/realm"
	"github.com/okian/realm/internal/domain/types"
)

// ScoreDependencies defines the interface for slider updates.
type ScoreDependencies interface {
	SetScoreText(ctx context.Context, dim, raw string) (realm.State, error)
}

// ScoresHandler handles slider updates.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// sliderValue accepts the value as a JSON string or number, the way a range
// input reports it.
type sliderValue string

func (v *sliderValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = sliderValue(s)
		return nil
	}
	*v = sliderValue(b)
	return nil
}

type scoreRequest struct {
	Value *sliderValue `json:"value"`
}

// HandlePutScore handles PUT /api/scores/{dimension} requests.
func (h *ScoresHandler) HandlePutScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, http.MethodPut)
		return
	}
	dim := strings.TrimPrefix(r.URL.Path, "/api/scores/")
	if dim == "" || strings.Contains(dim, "/") {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	var req scoreRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeFailure(w, err)
		return
	}
	if req.Value == nil {
		writeFailure(w, fmt.Errorf("%w: missing value", ErrBadRequest))
		return
	}

	st, err := h.deps.SetScoreText(r.Context(), dim, string(*req.Value))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.View(st))
}
