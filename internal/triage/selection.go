package triage

// SelectionSet tracks bulk-selected leads by pk, independent of the
// page or tab they were selected under. That independence is what lets
// the operator collect under one view and act from another.
type SelectionSet struct {
	pks map[int64]struct{}
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{pks: make(map[int64]struct{})}
}

func (s *SelectionSet) Has(pk int64) bool {
	_, ok := s.pks[pk]
	return ok
}

func (s *SelectionSet) Toggle(pk int64) {
	if s.Has(pk) {
		delete(s.pks, pk)
		return
	}
	s.pks[pk] = struct{}{}
}

// TogglePage is page-scoped: if every pk on the page is already
// selected it removes exactly those, otherwise it adds the missing
// ones. Selections made under other filters are never touched.
func (s *SelectionSet) TogglePage(pagePKs []int64) {
	all := len(pagePKs) > 0
	for _, pk := range pagePKs {
		if !s.Has(pk) {
			all = false
			break
		}
	}
	for _, pk := range pagePKs {
		if all {
			delete(s.pks, pk)
		} else {
			s.pks[pk] = struct{}{}
		}
	}
}

// SelectFiltered replaces the whole selection with the full filtered
// set, not just the visible page.
func (s *SelectionSet) SelectFiltered(pks []int64) {
	s.pks = make(map[int64]struct{}, len(pks))
	for _, pk := range pks {
		s.pks[pk] = struct{}{}
	}
}

func (s *SelectionSet) Clear() {
	s.pks = make(map[int64]struct{})
}

func (s *SelectionSet) Len() int {
	return len(s.pks)
}

func (s *SelectionSet) PKs() []int64 {
	out := make([]int64, 0, len(s.pks))
	for pk := range s.pks {
		out = append(out, pk)
	}
	return out
}
