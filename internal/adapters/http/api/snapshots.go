package api

import (
	"context"
	"net/http"

	"github.com/okian/realm/internal/domain/history"
	"github.com/okian/realm/internal/domain/model"
)

// SnapshotDependencies defines the interface for the snapshot log.
type SnapshotDependencies interface {
	SaveSnapshot(ctx context.Context, requestID string) (model.Snapshot, bool, error)
	History() []model.Snapshot
	Summary() history.Summary
}

// SnapshotsHandler handles saving and listing snapshots.
type SnapshotsHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(deps SnapshotDependencies) *SnapshotsHandler {
	return &SnapshotsHandler{deps: deps}
}

// snapshotRequest is optional; an empty body saves without idempotency.
type snapshotRequest struct {
	RequestID string `json:"request_id"`
}

// HandlePostSnapshot handles POST /api/snapshots requests.
func (h *SnapshotsHandler) HandlePostSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req snapshotRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeFailure(w, err)
		return
	}

	snap, dup, err := h.deps.SaveSnapshot(r.Context(), req.RequestID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// HandleGetHistory handles GET /api/history requests.
func (h *SnapshotsHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.History())
}

// HandleGetSummary handles GET /api/history/summary requests.
func (h *SnapshotsHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Summary())
}
