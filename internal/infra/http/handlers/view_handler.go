package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/leadscope/leadscope/internal/store"
	"github.com/leadscope/leadscope/internal/triage"
)

// ViewHandler exposes the derived working set: the filter, sort and
// pagination pipeline applied server-side over the current snapshot.
type ViewHandler struct {
	Store  *store.LeadStore
	Engine *triage.Engine
}

func NewViewHandler(st *store.LeadStore, engine *triage.Engine) *ViewHandler {
	return &ViewHandler{Store: st, Engine: engine}
}

// HandleView applies any view parameters present in the query and
// returns the resulting page. Tab, query, language filter and page
// size changes reset the page; an explicit page parameter wins over
// the reset when both are sent.
func (h *ViewHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if v := q.Get("tab"); v != "" {
		h.Engine.SetTab(triage.Tab(v))
	}
	if q.Has("q") {
		h.Engine.SetQuery(q.Get("q"))
	}
	if v := q.Get("lang"); v != "" {
		h.Engine.SetLang(triage.LangFilter(v))
	}
	if q.Has("hide_english") {
		h.Engine.SetHideEnglish(q.Get("hide_english") == "true")
	}
	if v := q.Get("page_size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			h.Engine.SetPageSize(size)
		}
	}
	if v := q.Get("sort"); v != "" {
		h.Engine.ToggleSort(triage.SortKey(v))
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			h.Engine.SetPage(page)
		}
	}

	writeJSON(w, http.StatusOK, h.Engine.View(h.Store.Snapshot()))
}

type selectionRequest struct {
	Op string `json:"op"` // toggle, page, filtered, clear
	PK int64  `json:"pk,omitempty"`
}

func (h *ViewHandler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON"})
		return
	}

	switch req.Op {
	case "toggle":
		h.Engine.ToggleSelect(req.PK)
	case "page":
		h.Engine.ToggleSelectPage(h.Store.Snapshot())
	case "filtered":
		h.Engine.SelectAllFiltered(h.Store.Snapshot())
	case "clear":
		h.Engine.ClearSelection()
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown op"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"selected": len(h.Engine.SelectedPKs()),
	})
}
