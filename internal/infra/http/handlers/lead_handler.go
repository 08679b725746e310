package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/leadscope/leadscope/internal/dispatch"
	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/http/middleware"
	"github.com/leadscope/leadscope/internal/store"
	"github.com/leadscope/leadscope/internal/usecase"
)

type LeadDeleter interface {
	Delete(ctx context.Context, pks []int64) (int64, error)
}

type LeadExportMarker interface {
	MarkExported(ctx context.Context, usernames []string, at time.Time) (int64, error)
}

type LeadHandler struct {
	Store      *store.LeadStore
	Dispatcher *dispatch.Dispatcher
	Refresh    *usecase.RefreshUseCase
	AddLead    *usecase.AddLeadUseCase
	Deleter    LeadDeleter
	Exporter   LeadExportMarker
}

func NewLeadHandler(st *store.LeadStore, d *dispatch.Dispatcher, refresh *usecase.RefreshUseCase, addLead *usecase.AddLeadUseCase, deleter LeadDeleter, exporter LeadExportMarker) *LeadHandler {
	return &LeadHandler{
		Store:      st,
		Dispatcher: d,
		Refresh:    refresh,
		AddLead:    addLead,
		Deleter:    deleter,
		Exporter:   exporter,
	}
}

type usersResponse struct {
	Leads   []entity.Lead   `json:"leads"`
	Targets []entity.Target `json:"targets"`
}

// HandleGetUsers refreshes the collection and returns all of it. If
// the refresh fails the stale snapshot goes out instead; the dashboard
// never gets an error page for this.
func (h *LeadHandler) HandleGetUsers(w http.ResponseWriter, r *http.Request) {
	_ = h.Refresh.Execute(r.Context())

	leads := h.Store.Snapshot()
	if leads == nil {
		leads = []entity.Lead{}
	}
	targets := h.Store.Targets()
	if targets == nil {
		targets = []entity.Target{}
	}
	writeJSON(w, http.StatusOK, usersResponse{Leads: leads, Targets: targets})
}

type updateStatusRequest struct {
	PK     int64         `json:"pk"`
	Status entity.Status `json:"status"`
}

// HandleUpdateStatus is the durability endpoint for classification
// changes: optimistic in-memory update first, database write in the
// background.
func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
		return
	}
	if !req.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown status"})
		return
	}

	if !h.Dispatcher.SetStatus(req.PK, req.Status) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}

	middleware.RecordStatusChange(string(req.Status))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type addLeadRequest struct {
	Username string `json:"username"`
}

type addLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *LeadHandler) HandleAddLead(w http.ResponseWriter, r *http.Request) {
	var req addLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, addLeadResponse{Error: "invalid JSON"})
		return
	}

	lead, err := h.AddLead.Execute(r.Context(), req.Username)
	if err != nil {
		switch {
		case usecase.IsDomainError(err):
			writeJSON(w, http.StatusConflict, addLeadResponse{Error: err.Error()})
		case usecase.IsTechnicalError(err):
			writeJSON(w, http.StatusInternalServerError, addLeadResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusBadRequest, addLeadResponse{Error: err.Error()})
		}
		return
	}

	// Make the new lead visible without waiting for the next poll.
	_ = h.Refresh.Execute(r.Context())
	writeJSON(w, http.StatusOK, addLeadResponse{Success: true, Message: "added " + lead.Username})
}

type deleteUsersRequest struct {
	PKs []int64 `json:"pks"`
}

// HandleDeleteUsers permanently removes leads. The operator confirmed
// this on their side; here it is just executed.
func (h *LeadHandler) HandleDeleteUsers(w http.ResponseWriter, r *http.Request) {
	var req deleteUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.PKs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "no IDs"})
		return
	}

	deleted, err := h.Deleter.Delete(r.Context(), req.PKs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	_ = h.Refresh.Execute(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}

type markExportedRequest struct {
	Usernames []string `json:"usernames"`
}

func (h *LeadHandler) HandleMarkExported(w http.ResponseWriter, r *http.Request) {
	var req markExportedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Usernames) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "no usernames"})
		return
	}

	count, err := h.Exporter.MarkExported(r.Context(), req.Usernames, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	middleware.RecordLeadsExported(int(count))
	_ = h.Refresh.Execute(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
