package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/planforge/planforge/internal/errors"
	"github.com/planforge/planforge/internal/ops"
	"github.com/planforge/planforge/internal/plan"
)

// Handlers contains HTTP route handlers for the plan API.
type Handlers struct {
	db     *sql.DB
	gen    ops.PlanGenerator
	logger *zap.Logger
}

// generateRequest is the body of POST /api/plans/generate.
type generateRequest struct {
	Goal        string   `json:"goal"`
	Users       []string `json:"users"`
	Constraints []string `json:"constraints"`
}

// updateTasksRequest is the body of PUT /api/plans/{id}/tasks.
type updateTasksRequest struct {
	EngineeringTasks map[string][]plan.EngineeringTask `json:"engineering_tasks"`
}

// HandleGenerate handles POST /api/plans/generate.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidRequest("request body must be valid JSON"))
		return
	}

	result, err := ops.Generate(r.Context(), h.db, h.gen, h.logger, ops.GenerateInput{
		Goal:        req.Goal,
		Users:       req.Users,
		Constraints: req.Constraints,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleRecent handles GET /api/plans/recent.
func (h *Handlers) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.NewInvalidRequest("limit must be an integer"))
			return
		}
		limit = n
	}

	result, err := ops.Recent(h.db, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"plans": result})
}

// HandleGet handles GET /api/plans/{id}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := ops.Get(h.db, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleUpdateTasks handles PUT /api/plans/{id}/tasks.
func (h *Handlers) HandleUpdateTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidRequest("request body must be valid JSON"))
		return
	}

	result, err := ops.UpdateTasks(h.db, ops.UpdateTasksInput{
		ID:               id,
		EngineeringTasks: req.EngineeringTasks,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleExport handles GET /api/plans/{id}/export.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	md, err := ops.Export(h.db, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(md))
}

// HandlePreview handles GET /api/plans/{id}/preview: the exported markdown
// rendered to HTML.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	md, err := ops.Export(h.db, id)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// HandleHealth handles GET /api/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := ops.Health(r.Context(), h.db, h.gen)
	status := http.StatusOK
	if !health.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// pathID parses the {id} path segment; writes an error response on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, errors.NewInvalidRequest("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps a PlanError to its HTTP status. Internal details are not
// exposed.
func writeError(w http.ResponseWriter, err error) {
	planErr, ok := err.(*errors.PlanError)
	if !ok {
		planErr = errors.NewInternal(nil)
	}

	errorObj := map[string]any{
		"code":    planErr.Code,
		"message": planErr.Message,
	}
	if planErr.Code == errors.ErrInternal {
		errorObj["message"] = "an internal error occurred"
	} else if planErr.Details != nil {
		errorObj["details"] = planErr.Details
	}

	writeJSON(w, planErr.Status, map[string]any{"error": errorObj})
}
