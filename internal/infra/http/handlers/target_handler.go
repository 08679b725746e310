package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/leadscope/leadscope/internal/infra/http/middleware"
	"github.com/leadscope/leadscope/internal/infra/jobs"
	"github.com/leadscope/leadscope/internal/poller"
	"github.com/leadscope/leadscope/internal/usecase"
)

type TargetHandler struct {
	StartScrape *usecase.StartScrapeUseCase
	Registry    *jobs.Registry
	Poller      *poller.Poller
}

func NewTargetHandler(startScrape *usecase.StartScrapeUseCase, registry *jobs.Registry, p *poller.Poller) *TargetHandler {
	return &TargetHandler{StartScrape: startScrape, Registry: registry, Poller: p}
}

type addTargetRequest struct {
	Username string `json:"username"`
}

// HandleAddTarget registers a new source account and starts the scan
// job for it. The response carries the job id the dashboard polls.
func (h *TargetHandler) HandleAddTarget(w http.ResponseWriter, r *http.Request) {
	var req addTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
		return
	}

	jobID, err := h.StartScrape.Execute(r.Context(), req.Username)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	middleware.RecordJobStarted("scan")
	if job, ok := h.Registry.Get(jobID); ok {
		h.Poller.Track(job)
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "starting", "job_id": jobID})
}
