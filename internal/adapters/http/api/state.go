package api

import (
	"net/http"

	"github.com/okian/realm/internal/domain/types"
)

// StateDependencies exposes read access to the current state.
type StateDependencies interface {
	View() types.StateView
}

// StateHandler serves the full state and its derived recommendations.
type StateHandler struct {
	deps StateDependencies
}

// NewStateHandler creates a new state handler.
func NewStateHandler(deps StateDependencies) *StateHandler {
	return &StateHandler{deps: deps}
}

// HandleGetState handles GET /api/state requests.
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.View())
}

// HandleGetRecommendations handles GET /api/recommendations requests.
func (h *StateHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.View().Recommendations)
}
