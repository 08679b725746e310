package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadscope/leadscope/internal/infra/http/middleware"
	"github.com/leadscope/leadscope/internal/infra/jobs"
	"github.com/leadscope/leadscope/internal/poller"
	"github.com/leadscope/leadscope/internal/usecase"
)

type JobHandler struct {
	Registry *jobs.Registry
	Poller   *poller.Poller
	Sync     *usecase.SyncUsersUseCase
	Analyze  *usecase.AnalyzeGermanUseCase
}

func NewJobHandler(registry *jobs.Registry, p *poller.Poller, sync *usecase.SyncUsersUseCase, analyze *usecase.AnalyzeGermanUseCase) *JobHandler {
	return &JobHandler{Registry: registry, Poller: p, Sync: sync, Analyze: analyze}
}

// HandleJobStatus is what the dashboard polls once per second while a
// job is running.
func (h *JobHandler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := h.Registry.Get(id)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"status": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type usernamesRequest struct {
	Usernames []string `json:"usernames"`
}

type jobStartedResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *JobHandler) HandleSyncUsers(w http.ResponseWriter, r *http.Request) {
	h.startBulk(w, r, "sync", h.Sync.Execute)
}

func (h *JobHandler) HandleAnalyzeGerman(w http.ResponseWriter, r *http.Request) {
	h.startBulk(w, r, "classify", h.Analyze.Execute)
}

// startBulk shares the bulk-job plumbing: validate, queue, start
// tracking the fresh job so the poller picks it up immediately.
func (h *JobHandler) startBulk(w http.ResponseWriter, r *http.Request, kind string, run func(context.Context, []string) (string, error)) {
	var req usernamesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, jobStartedResponse{Error: "invalid JSON"})
		return
	}

	jobID, err := run(r.Context(), req.Usernames)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			writeJSON(w, http.StatusInternalServerError, jobStartedResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, jobStartedResponse{Error: err.Error()})
		return
	}

	middleware.RecordJobStarted(kind)
	if job, ok := h.Registry.Get(jobID); ok {
		h.Poller.Track(job)
	}
	writeJSON(w, http.StatusOK, jobStartedResponse{Success: true, JobID: jobID})
}
