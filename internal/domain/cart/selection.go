package cart

// SelectionSet tracks which cart lines the user intends to purchase in the
// current checkout pass. The empty set is a sentinel meaning "all lines
// selected" (default-select-all), not "nothing selected".
type SelectionSet struct {
	ids map[string]struct{}
}

// NewSelectionSet creates an empty selection set (default-select-all)
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{ids: make(map[string]struct{})}
}

// Toggle flips the selection state of a line id
func (s *SelectionSet) Toggle(lineID string) {
	if _, ok := s.ids[lineID]; ok {
		delete(s.ids, lineID)
		return
	}
	s.ids[lineID] = struct{}{}
}

// SelectAll marks every line of the cart as selected explicitly
func (s *SelectionSet) SelectAll(c *CanonicalCart) {
	s.ids = make(map[string]struct{}, len(c.Lines))
	for i := range c.Lines {
		s.ids[c.Lines[i].LineID] = struct{}{}
	}
}

// Clear empties the set, restoring default-select-all semantics
func (s *SelectionSet) Clear() {
	s.ids = make(map[string]struct{})
}

// IsEmpty reports whether the set is the default-select-all sentinel
func (s *SelectionSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// Contains reports whether a line id is explicitly selected
func (s *SelectionSet) Contains(lineID string) bool {
	_, ok := s.ids[lineID]
	return ok
}

// IDs returns the explicitly selected line ids, unordered
func (s *SelectionSet) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids
}

// Resolve returns the selected lines in canonical cart order, never selection
// event order, so checkout summaries stay stable. An empty set resolves to
// every line.
func (s *SelectionSet) Resolve(c *CanonicalCart) []CartLine {
	if s.IsEmpty() {
		lines := make([]CartLine, len(c.Lines))
		copy(lines, c.Lines)
		return lines
	}
	lines := make([]CartLine, 0, len(s.ids))
	for i := range c.Lines {
		if _, ok := s.ids[c.Lines[i].LineID]; ok {
			lines = append(lines, c.Lines[i])
		}
	}
	return lines
}

// Prune drops selected ids that no longer exist in the cart. Stale
// selections must never cause a checkout attempt referencing a nonexistent
// line. Returns the number of ids removed.
func (s *SelectionSet) Prune(c *CanonicalCart) int {
	if s.IsEmpty() {
		return 0
	}
	present := make(map[string]struct{}, len(c.Lines))
	for i := range c.Lines {
		present[c.Lines[i].LineID] = struct{}{}
	}
	removed := 0
	for id := range s.ids {
		if _, ok := present[id]; !ok {
			delete(s.ids, id)
			removed++
		}
	}
	return removed
}
