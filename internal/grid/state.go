package grid

import (
	"maps"
	"strings"
)

// State is the user-controlled view state of one table. It changes only
// through Reduce.
type State struct {
	Sort        SortState          `json:"sort"`
	Page        int                `json:"page"`
	RowsPerPage PageSize           `json:"rowsPerPage"`
	Search      string             `json:"search,omitempty"`
	Filters     map[string]string  `json:"filters,omitempty"`
	Selection   *Selection[string] `json:"-"`
}

// NewState returns the initial state: unsorted, first page, nothing selected.
func NewState(size PageSize) State {
	if !size.Valid() {
		size = DefaultPageSizes[0]
	}
	return State{
		Page:        1,
		RowsPerPage: size,
		Selection:   NewSelection[string](),
	}
}

// Action is a user or system event applied by Reduce.
type Action interface {
	isAction()
}

type (
	// ClickColumn is a click on a column header.
	ClickColumn struct{ Key string }
	// SetPage moves to a page. Out of range pages are clamped when the frame
	// is derived.
	SetPage struct{ Page int }
	// SetRowsPerPage changes the page size.
	SetRowsPerPage struct{ Size PageSize }
	// SetSearch changes the free-text search.
	SetSearch struct{ Text string }
	// SetFilter sets a column filter; an empty value removes it.
	SetFilter struct{ Key, Value string }
	// ClearFilters removes every filter.
	ClearFilters struct{}
	// ToggleRow toggles one record in the selection.
	ToggleRow struct{ ID string }
	// ToggleAllOnPage is a click on the header checkbox.
	ToggleAllOnPage struct {
		Checked bool
		Visible []string
	}
	// ClearSelection empties the selection.
	ClearSelection struct{}
	// ClampPage moves the page onto the last page when it overflows.
	ClampPage struct{ TotalPages int }
	// ResetView restores the initial sort, page, search and filters. The page
	// size and the selection are kept.
	ResetView struct{}
)

func (ClickColumn) isAction()     {}
func (SetPage) isAction()         {}
func (SetRowsPerPage) isAction()  {}
func (SetSearch) isAction()       {}
func (SetFilter) isAction()       {}
func (ClearFilters) isAction()    {}
func (ToggleRow) isAction()       {}
func (ToggleAllOnPage) isAction() {}
func (ClearSelection) isAction()  {}
func (ClampPage) isAction()       {}
func (ResetView) isAction()       {}

// Reduce applies a to s and returns the new state; s is not modified.
// sortable reports which column keys accept sort clicks.
//
// Any change to the sort, the search text, a filter or the page size moves
// back to page 1. Nothing but the selection actions changes the selection.
func Reduce(s State, a Action, sortable func(key string) bool) State {
	next := s
	next.Filters = maps.Clone(s.Filters)

	switch act := a.(type) {
	case ClickColumn:
		ok := sortable != nil && sortable(act.Key)
		sorted := s.Sort.Click(act.Key, ok)
		if sorted != s.Sort {
			next.Sort = sorted
			next.Page = 1
		}
	case SetPage:
		next.Page = max(act.Page, 1)
	case SetRowsPerPage:
		if act.Size.Valid() {
			next.RowsPerPage = act.Size
			next.Page = 1
		}
	case SetSearch:
		text := strings.TrimSpace(act.Text)
		if text != s.Search {
			next.Search = text
			next.Page = 1
		}
	case SetFilter:
		value := strings.TrimSpace(act.Value)
		if s.Filters[act.Key] != value {
			if value == "" {
				delete(next.Filters, act.Key)
			} else {
				if next.Filters == nil {
					next.Filters = map[string]string{}
				}
				next.Filters[act.Key] = value
			}
			next.Page = 1
		}
	case ClearFilters:
		if len(s.Filters) > 0 {
			next.Filters = nil
			next.Page = 1
		}
	case ToggleRow:
		next.Selection = s.Selection.Clone()
		next.Selection.ToggleOne(act.ID)
	case ToggleAllOnPage:
		next.Selection = s.Selection.Clone()
		next.Selection.ToggleAllOnPage(act.Checked, act.Visible)
	case ClearSelection:
		next.Selection = NewSelection[string]()
	case ClampPage:
		if act.TotalPages >= 1 && next.Page > act.TotalPages {
			next.Page = act.TotalPages
		}
	case ResetView:
		next.Sort = SortState{}
		next.Page = 1
		next.Search = ""
		next.Filters = nil
	}

	if next.Selection == nil {
		next.Selection = NewSelection[string]()
	}
	return next
}

// NeedsFetch reports whether moving from prev to next changes the request a
// paginating server must answer.
func NeedsFetch(prev, next State) bool {
	return prev.Page != next.Page ||
		prev.RowsPerPage != next.RowsPerPage ||
		prev.Search != next.Search ||
		!maps.Equal(prev.Filters, next.Filters)
}
