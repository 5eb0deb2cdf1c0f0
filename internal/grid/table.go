package grid

import "strings"

// Table binds a column table to a record type. It holds no view state; the
// same Table derives frames for any State.
type Table[R any] struct {
	Columns    Columns[R]
	ID         func(R) string
	Comparator *Comparator
	// Match filters records held locally. When nil, a record matches when
	// some column contains the search text and every filter equals its
	// column value, ignoring case.
	Match func(r R, search string, filters map[string]string) bool
}

// Frame is everything needed to render one page of a table.
type Frame[R any] struct {
	Rows       []R
	VisibleIDs []string
	Pagination Pagination
	Sort       SortState
	Header     HeaderState
	// ServerPaginated is set when the rows came pre-sliced from the server.
	ServerPaginated bool
}

// Empty reports whether the underlying record set has no records at all.
func (f Frame[R]) Empty() bool {
	return f.Pagination.TotalItems == 0
}

// Reduce applies a using the table's sortable columns.
func (t *Table[R]) Reduce(s State, a Action) State {
	return Reduce(s, a, t.Columns.Sortable)
}

// Derive computes the frame for s. With a nil server page the records are
// the complete record set and are filtered, sorted and sliced locally.
// Otherwise they are exactly the server's page; they are sorted but not
// filtered or sliced, and the totals come from the server.
func (t *Table[R]) Derive(s State, records []R, server *ServerPage) Frame[R] {
	var (
		rows []R
		p    Pagination
	)
	if server != nil {
		rows = SortRecords(records, t.Columns, s.Sort, t.Comparator)
		p = Reconcile(s.Page, s.RowsPerPage, *server)
	} else {
		filtered := t.filter(records, s.Search, s.Filters)
		sorted := SortRecords(filtered, t.Columns, s.Sort, t.Comparator)
		p = Paginate(s.Page, s.RowsPerPage, len(sorted))
		rows = SliceRows(sorted, p)
	}

	visible := make([]string, 0, len(rows))
	for _, r := range rows {
		visible = append(visible, t.idOf(r))
	}

	return Frame[R]{
		Rows:            rows,
		VisibleIDs:      visible,
		Pagination:      p,
		Sort:            s.Sort,
		Header:          s.Selection.HeaderState(visible),
		ServerPaginated: server != nil,
	}
}

// Options returns the distinct values of a column across records, in
// comparator order. Nulls are skipped.
func (t *Table[R]) Options(key string, records []R) []string {
	col, ok := t.Columns.Find(key)
	if !ok {
		return nil
	}
	seen := map[string]struct{}{}
	var values []string
	for _, r := range records {
		v := col.Value(r)
		if isNull(v) {
			continue
		}
		s := stringOf(v)
		if _, dup := seen[s]; dup || s == "" {
			continue
		}
		seen[s] = struct{}{}
		values = append(values, s)
	}
	c := t.Comparator
	if c == nil {
		c = DefaultComparator()
	}
	sortStrings(values, c, col.Dates)
	return values
}

func sortStrings(values []string, c *Comparator, dates bool) {
	// insertion sort keeps equal values in input order
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && c.Compare(values[j-1], values[j], dates) > 0; j-- {
			values[j-1], values[j] = values[j], values[j-1]
		}
	}
}

func (t *Table[R]) idOf(r R) string {
	if t.ID == nil {
		return ""
	}
	return t.ID(r)
}

func (t *Table[R]) filter(records []R, search string, filters map[string]string) []R {
	if search == "" && len(filters) == 0 {
		return records
	}
	match := t.Match
	if match == nil {
		match = t.defaultMatch
	}
	out := make([]R, 0, len(records))
	for _, r := range records {
		if match(r, search, filters) {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table[R]) defaultMatch(r R, search string, filters map[string]string) bool {
	for key, want := range filters {
		col, ok := t.Columns.Find(key)
		if !ok {
			continue
		}
		v := col.Value(r)
		if isNull(v) || !strings.EqualFold(stringOf(v), want) {
			return false
		}
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(t.idOf(r)), needle) {
		return true
	}
	for _, col := range t.Columns {
		v := col.Value(r)
		if isNull(v) {
			continue
		}
		if strings.Contains(strings.ToLower(stringOf(v)), needle) {
			return true
		}
	}
	return false
}
