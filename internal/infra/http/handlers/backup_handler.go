package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/usecase"
)

type BackupLeadRepository interface {
	List(ctx context.Context) ([]entity.Lead, error)
	FindByPK(ctx context.Context, pk int64) (*entity.Lead, error)
	Upsert(ctx context.Context, lead *entity.Lead) error
}

type BackupTargetRepository interface {
	List(ctx context.Context) ([]entity.Target, error)
	Upsert(ctx context.Context, username string) error
	Touch(ctx context.Context, username string, at time.Time) error
}

// BackupHandler is the whole-collection download/restore pair. It sits
// outside the triage core proper but the operator relies on it before
// risky bulk actions.
type BackupHandler struct {
	Leads   BackupLeadRepository
	Targets BackupTargetRepository
	Refresh *usecase.RefreshUseCase
}

func NewBackupHandler(leads BackupLeadRepository, targets BackupTargetRepository, refresh *usecase.RefreshUseCase) *BackupHandler {
	return &BackupHandler{Leads: leads, Targets: targets, Refresh: refresh}
}

type backupFile struct {
	Leads   []entity.Lead   `json:"leads"`
	Targets []entity.Target `json:"targets"`
}

func (h *BackupHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	targets, err := h.Targets.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.json"`)
	json.NewEncoder(w).Encode(backupFile{Leads: leads, Targets: targets})
}

// HandleImport merges an uploaded backup by pk: known leads are
// overwritten (the import wins), unknown ones added. Accepts both the
// current {leads, targets} shape and the old bare-array format.
func (h *BackupHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "no file part"})
		return
	}
	defer file.Close()

	var imported backupFile
	dec := json.NewDecoder(file)
	if err := dec.Decode(&imported); err != nil {
		// Old exports were a bare lead array.
		if _, seekErr := file.Seek(0, 0); seekErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
			return
		}
		imported = backupFile{}
		if err := json.NewDecoder(file).Decode(&imported.Leads); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
			return
		}
	}

	added, updated := 0, 0
	for i := range imported.Leads {
		lead := imported.Leads[i]
		if lead.PK == 0 {
			continue
		}
		existing, err := h.Leads.FindByPK(r.Context(), lead.PK)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		if err := h.Leads.Upsert(r.Context(), &lead); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		if existing != nil {
			updated++
		} else {
			added++
		}
	}

	for _, t := range imported.Targets {
		if t.Username == "" {
			continue
		}
		if t.LastScraped != nil {
			_ = h.Targets.Touch(r.Context(), t.Username, *t.LastScraped)
		} else {
			_ = h.Targets.Upsert(r.Context(), t.Username)
		}
	}

	_ = h.Refresh.Execute(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "added": added, "updated": updated})
}
