package api

import (
	"context"
	"net/http"

	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/types"
)

// OpportunityDependencies defines the interface for the opportunity list.
type OpportunityDependencies interface {
	AddOpportunity(ctx context.Context, requestID string, d model.Draft) (model.Opportunity, bool, error)
	View() types.StateView
}

// OpportunitiesHandler handles adding and listing opportunities.
type OpportunitiesHandler struct {
	deps OpportunityDependencies
}

// NewOpportunitiesHandler creates a new opportunities handler.
func NewOpportunitiesHandler(deps OpportunityDependencies) *OpportunitiesHandler {
	return &OpportunitiesHandler{deps: deps}
}

// opportunityRequest mirrors the form; missing ratings default to 5.
type opportunityRequest struct {
	RequestID string `json:"request_id"`
	Idea      string `json:"idea"`
	Impact    int    `json:"impact"`
	Novelty   int    `json:"novelty"`
	Alignment int    `json:"alignment"`
}

// HandleOpportunities handles GET and POST /api/opportunities requests.
func (h *OpportunitiesHandler) HandleOpportunities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.View().Opportunities)
	case http.MethodPost:
		h.add(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *OpportunitiesHandler) add(w http.ResponseWriter, r *http.Request) {
	var req opportunityRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeFailure(w, err)
		return
	}
	draft := model.Draft{Idea: req.Idea, Impact: req.Impact, Novelty: req.Novelty, Alignment: req.Alignment}

	opp, dup, err := h.deps.AddOpportunity(r.Context(), req.RequestID, draft)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, opp)
}
