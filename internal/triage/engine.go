package triage

import (
	"sync"

	"github.com/leadscope/leadscope/internal/entity"
)

// Engine holds the single operator's view state and derives the
// visible working set from a snapshot of the collection. Derivation is
// pure; the engine never mutates the leads it is given.
type Engine struct {
	mu          sync.Mutex
	tab         Tab
	query       string
	lang        LangFilter
	hideEnglish bool
	sort        SortSpec
	page        int
	pageSize    int
	selection   *SelectionSet
}

// ViewResult is one rendered page plus the totals the pagination
// controls need.
type ViewResult struct {
	Leads      []entity.Lead `json:"leads"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Selected   int           `json:"selected"`
}

func NewEngine() *Engine {
	return &Engine{
		tab:       TabUnfiltered,
		lang:      LangAll,
		sort:      SortSpec{Key: SortByFoundDate, Direction: Descending},
		page:      1,
		pageSize:  DefaultPageSize,
		selection: NewSelectionSet(),
	}
}

// SetTab switches the view and resets to page 1.
func (e *Engine) SetTab(tab Tab) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !tab.Valid() {
		return
	}
	if tab != e.tab {
		e.tab = tab
		e.page = 1
	}
}

// SetQuery updates the free-text filter and resets to page 1.
func (e *Engine) SetQuery(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if query != e.query {
		e.query = query
		e.page = 1
	}
}

// SetLang updates the classification filter and resets to page 1.
func (e *Engine) SetLang(lang LangFilter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if lang != e.lang {
		e.lang = lang
		e.page = 1
	}
}

func (e *Engine) SetHideEnglish(hide bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if hide != e.hideEnglish {
		e.hideEnglish = hide
		e.page = 1
	}
}

func (e *Engine) SetPage(page int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if page >= 1 {
		e.page = page
	}
}

func (e *Engine) SetPageSize(size int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ValidPageSize(size) && size != e.pageSize {
		e.pageSize = size
		e.page = 1
	}
}

// ToggleSort applies the header-click contract.
func (e *Engine) ToggleSort(key SortKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if key.Valid() {
		e.sort = e.sort.Toggle(key)
	}
}

func (e *Engine) Sort() SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sort
}

func (e *Engine) Tab() Tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tab
}

// ToggleSelect flips one lead in the bulk selection.
func (e *Engine) ToggleSelect(pk int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Toggle(pk)
}

// ToggleSelectPage applies the page-scoped select-all toggle for the
// page currently visible under the given snapshot.
func (e *Engine) ToggleSelectPage(leads []entity.Lead) {
	e.mu.Lock()
	defer e.mu.Unlock()
	page := Page(Sort(e.filterLocked(leads), e.sort, e.tab), e.page, e.pageSize)
	pks := make([]int64, len(page))
	for i, l := range page {
		pks[i] = l.PK
	}
	e.selection.TogglePage(pks)
}

// SelectAllFiltered replaces the selection with everything matching the
// current filter, across all pages.
func (e *Engine) SelectAllFiltered(leads []entity.Lead) {
	e.mu.Lock()
	defer e.mu.Unlock()
	filtered := e.filterLocked(leads)
	pks := make([]int64, len(filtered))
	for i, l := range filtered {
		pks[i] = l.PK
	}
	e.selection.SelectFiltered(pks)
}

func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
}

func (e *Engine) SelectedPKs() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.PKs()
}

// View runs filter -> sort -> paginate over the snapshot.
func (e *Engine) View(leads []entity.Lead) ViewResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	filtered := e.filterLocked(leads)
	sorted := Sort(filtered, e.sort, e.tab)
	page := Page(sorted, e.page, e.pageSize)

	return ViewResult{
		Leads:      page,
		Total:      len(sorted),
		Page:       e.page,
		PageSize:   e.pageSize,
		TotalPages: TotalPages(len(sorted), e.pageSize),
		Selected:   e.selection.Len(),
	}
}

func (e *Engine) filterLocked(leads []entity.Lead) []entity.Lead {
	return Filter(leads, FilterOptions{
		Tab:         e.tab,
		Query:       e.query,
		Lang:        e.lang,
		HideEnglish: e.hideEnglish,
		Selection:   e.selection,
	})
}
