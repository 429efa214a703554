package grid

// Coverage describes how much of a set of IDs is selected.
type Coverage int

const (
	CoverNone Coverage = iota
	CoverSome
	CoverAll
)

// Selection is an insertion-ordered set of row IDs. It spans the whole
// dataset, so IDs hidden by filters or paging stay selected.
// The zero value is empty and ready to use; a nil *Selection reads as empty.
type Selection struct {
	index map[ID]int
	order []ID
}

// NewSelection returns a selection holding ids in order.
func NewSelection(ids ...ID) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is selected.
func (s *Selection) Has(id ID) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Len returns the number of selected IDs.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Add selects id. It reports whether the selection changed.
func (s *Selection) Add(id ID) bool {
	if s.Has(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[ID]int)
	}
	s.index[id] = len(s.order)
	s.order = append(s.order, id)
	return true
}

// Remove deselects id. It reports whether the selection changed.
func (s *Selection) Remove(id ID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	s.order = append(s.order[:i], s.order[i+1:]...)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
	return true
}

// Toggle flips the selection state of id.
func (s *Selection) Toggle(id ID) {
	if !s.Remove(id) {
		s.Add(id)
	}
}

// Coverage reports whether none, some or all of ids are selected.
// An empty ids slice is never fully covered.
func (s *Selection) Coverage(ids []ID) Coverage {
	selected := 0
	for _, id := range ids {
		if s.Has(id) {
			selected++
		}
	}
	switch {
	case len(ids) > 0 && selected == len(ids):
		return CoverAll
	case selected > 0:
		return CoverSome
	default:
		return CoverNone
	}
}

// ToggleAllVisible deselects exactly visible when all of them are selected,
// otherwise selects exactly visible. IDs outside visible are untouched.
// It reports whether the selection changed.
func (s *Selection) ToggleAllVisible(visible []ID) bool {
	changed := false
	if s.Coverage(visible) == CoverAll {
		for _, id := range visible {
			changed = s.Remove(id) || changed
		}
		return changed
	}
	for _, id := range visible {
		changed = s.Add(id) || changed
	}
	return changed
}

// IDs returns the selected IDs in insertion order.
func (s *Selection) IDs() []ID {
	if s == nil {
		return nil
	}
	out := make([]ID, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	return NewSelection(s.IDs()...)
}
