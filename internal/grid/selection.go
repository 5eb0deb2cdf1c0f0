package grid

import "slices"

// HeaderState is the state of a "select all on page" checkbox.
type HeaderState int

const (
	HeaderUnchecked HeaderState = iota
	HeaderIndeterminate
	HeaderChecked
)

// Selection is the set of record ids picked by the user. Ids selected on
// another page stay selected while the user navigates; only ClearAll,
// ToggleAllOnPage and ToggleOne change the set.
//
// Selecting all on a page replaces the selection with that page's ids, it
// does not add to selections made on other pages.
type Selection[K comparable] struct {
	order []K
	set   map[K]struct{}
}

// NewSelection returns an empty selection.
func NewSelection[K comparable]() *Selection[K] {
	return &Selection[K]{set: map[K]struct{}{}}
}

// ToggleOne adds id when absent and removes it when present.
func (s *Selection[K]) ToggleOne(id K) {
	s.init()
	if _, ok := s.set[id]; ok {
		delete(s.set, id)
		s.order = slices.DeleteFunc(s.order, func(k K) bool { return k == id })
		return
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
}

// ToggleAllOnPage replaces the selection with exactly visible when checked
// and with the empty set otherwise.
func (s *Selection[K]) ToggleAllOnPage(checked bool, visible []K) {
	s.ClearAll()
	if !checked {
		return
	}
	for _, id := range visible {
		if _, ok := s.set[id]; ok {
			continue
		}
		s.set[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// ClearAll empties the selection.
func (s *Selection[K]) ClearAll() {
	s.set = map[K]struct{}{}
	s.order = nil
}

// Has reports whether id is selected.
func (s *Selection[K]) Has(id K) bool {
	if s == nil || s.set == nil {
		return false
	}
	_, ok := s.set[id]
	return ok
}

// Len is the number of selected ids.
func (s *Selection[K]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.set)
}

// IDs returns the selected ids in the order they were selected.
func (s *Selection[K]) IDs() []K {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// HeaderChecked reports whether the header checkbox is checked: visible is
// non-empty and every visible id is selected.
func (s *Selection[K]) HeaderChecked(visible []K) bool {
	return s.HeaderState(visible) == HeaderChecked
}

// HeaderState reports the header checkbox state for the visible ids.
func (s *Selection[K]) HeaderState(visible []K) HeaderState {
	if len(visible) == 0 {
		return HeaderUnchecked
	}
	selected := 0
	for _, id := range visible {
		if s.Has(id) {
			selected++
		}
	}
	switch selected {
	case 0:
		return HeaderUnchecked
	case len(visible):
		return HeaderChecked
	default:
		return HeaderIndeterminate
	}
}

// Clone returns an independent copy of the selection.
func (s *Selection[K]) Clone() *Selection[K] {
	c := NewSelection[K]()
	if s == nil {
		return c
	}
	for _, id := range s.order {
		c.set[id] = struct{}{}
		c.order = append(c.order, id)
	}
	return c
}

func (s *Selection[K]) init() {
	if s.set == nil {
		s.set = map[K]struct{}{}
	}
}
