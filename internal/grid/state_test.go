package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func leads(n int) []lead {
	out := make([]lead, n)
	for i := range out {
		out[i] = lead{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("lead %d", i+1), Budget: i + 1}
	}
	return out
}

func leadTable() *Table[lead] {
	return &Table[lead]{
		Columns: leadColumns,
		ID:      func(l lead) string { return l.ID },
	}
}

func TestReduce_PageResets(t *testing.T) {
	tbl := leadTable()
	base := NewState(Rows(10))
	base.Page = 3

	tests := []struct {
		name   string
		action Action
		page   int
	}{
		{name: "sort click", action: ClickColumn{Key: "name"}, page: 1},
		{name: "unsortable click", action: ClickColumn{Key: "actions"}, page: 3},
		{name: "search", action: SetSearch{Text: "acme"}, page: 1},
		{name: "blank search is unchanged", action: SetSearch{Text: "  "}, page: 3},
		{name: "filter", action: SetFilter{Key: "name", Value: "x"}, page: 1},
		{name: "rows per page", action: SetRowsPerPage{Size: Rows(25)}, page: 1},
		{name: "invalid rows per page", action: SetRowsPerPage{Size: Rows(0)}, page: 3},
		{name: "toggle row", action: ToggleRow{ID: "1"}, page: 3},
		{name: "set page", action: SetPage{Page: 7}, page: 7},
		{name: "set page below one", action: SetPage{Page: 0}, page: 1},
		{name: "clamp", action: ClampPage{TotalPages: 2}, page: 2},
		{name: "clamp in range", action: ClampPage{TotalPages: 5}, page: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tbl.Reduce(base, tt.action)
			require.Equal(t, tt.page, next.Page)
			require.Equal(t, 3, base.Page)
		})
	}
}

func TestReduce_SelectionSurvivesNavigation(t *testing.T) {
	tbl := leadTable()
	s := NewState(Rows(10))
	s = tbl.Reduce(s, ToggleRow{ID: "2"})
	s = tbl.Reduce(s, SetPage{Page: 2})
	s = tbl.Reduce(s, SetSearch{Text: "lead"})
	s = tbl.Reduce(s, SetFilter{Key: "name", Value: "lead 2"})
	s = tbl.Reduce(s, ClickColumn{Key: "budget"})
	require.Equal(t, []string{"2"}, s.Selection.IDs())

	s = tbl.Reduce(s, ClearSelection{})
	require.Zero(t, s.Selection.Len())
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	tbl := leadTable()
	s := NewState(Rows(10))
	s = tbl.Reduce(s, SetFilter{Key: "name", Value: "a"})
	before := tbl.Reduce(s, ToggleRow{ID: "1"})

	after := tbl.Reduce(before, ToggleRow{ID: "2"})
	after = tbl.Reduce(after, SetFilter{Key: "budget", Value: "3"})

	require.Equal(t, []string{"1"}, before.Selection.IDs())
	require.Equal(t, map[string]string{"name": "a"}, before.Filters)
	require.Equal(t, []string{"1", "2"}, after.Selection.IDs())
}

func TestReduce_FilterRemoveAndReset(t *testing.T) {
	tbl := leadTable()
	s := NewState(Rows(10))
	s = tbl.Reduce(s, SetFilter{Key: "name", Value: "a"})
	s = tbl.Reduce(s, SetFilter{Key: "budget", Value: "1"})
	s = tbl.Reduce(s, SetFilter{Key: "name", Value: ""})
	require.Equal(t, map[string]string{"budget": "1"}, s.Filters)

	s = tbl.Reduce(s, ClickColumn{Key: "name"})
	s = tbl.Reduce(s, SetSearch{Text: "x"})
	s = tbl.Reduce(s, ToggleRow{ID: "9"})
	s = tbl.Reduce(s, SetRowsPerPage{Size: Unlimited})
	s = tbl.Reduce(s, ResetView{})
	require.Equal(t, SortState{}, s.Sort)
	require.Empty(t, s.Search)
	require.Empty(t, s.Filters)
	require.Equal(t, Unlimited, s.RowsPerPage)
	require.Equal(t, []string{"9"}, s.Selection.IDs())
}

func TestNeedsFetch(t *testing.T) {
	tbl := leadTable()
	s := NewState(Rows(10))
	require.False(t, NeedsFetch(s, tbl.Reduce(s, ClickColumn{Key: "name"})))
	require.False(t, NeedsFetch(s, tbl.Reduce(s, ToggleRow{ID: "1"})))
	require.True(t, NeedsFetch(s, tbl.Reduce(s, SetPage{Page: 2})))
	require.True(t, NeedsFetch(s, tbl.Reduce(s, SetSearch{Text: "a"})))
	require.True(t, NeedsFetch(s, tbl.Reduce(s, SetFilter{Key: "name", Value: "a"})))
	require.True(t, NeedsFetch(s, tbl.Reduce(s, SetRowsPerPage{Size: Rows(50)})))
}

func TestDerive_ClientMode(t *testing.T) {
	tbl := leadTable()
	records := leads(25)
	s := NewState(Rows(10))
	s.Page = 5

	f := tbl.Derive(s, records, nil)
	require.Equal(t, 3, f.Pagination.Page)
	require.True(t, f.Pagination.Clamped())
	require.Equal(t, []string{"21", "22", "23", "24", "25"}, f.VisibleIDs)
	require.False(t, f.ServerPaginated)
	require.False(t, f.Empty())

	s = tbl.Reduce(s, ClickColumn{Key: "budget"})
	s = tbl.Reduce(s, ClickColumn{Key: "budget"})
	f = tbl.Derive(s, records, nil)
	require.Equal(t, 1, f.Pagination.Page)
	require.Equal(t, "25", f.VisibleIDs[0])
}

func TestDerive_ClientSearchAndFilter(t *testing.T) {
	tbl := leadTable()
	records := leads(25)
	s := NewState(Rows(10))

	s = tbl.Reduce(s, SetSearch{Text: "LEAD 1"})
	f := tbl.Derive(s, records, nil)
	require.Equal(t, 11, f.Pagination.TotalItems)

	s = tbl.Reduce(s, SetFilter{Key: "budget", Value: "12"})
	f = tbl.Derive(s, records, nil)
	require.Equal(t, []string{"12"}, f.VisibleIDs)

	s = tbl.Reduce(s, SetFilter{Key: "name", Value: "nobody"})
	f = tbl.Derive(s, records, nil)
	require.True(t, f.Empty())
	require.Empty(t, f.Rows)
	require.Equal(t, "0 of 0", f.Pagination.RangeText())
	require.Equal(t, HeaderUnchecked, f.Header)
}

func TestDerive_ServerMode(t *testing.T) {
	tbl := leadTable()
	page := leads(10)[3:6]
	s := NewState(Rows(3))
	s.Page = 2
	s = tbl.Reduce(s, SetSearch{Text: "ignored locally"})
	s.Page = 2

	f := tbl.Derive(s, page, &ServerPage{Total: 10, TotalPages: 4})
	require.True(t, f.ServerPaginated)
	require.Equal(t, []string{"4", "5", "6"}, f.VisibleIDs)
	require.Equal(t, "4–6 of 10", f.Pagination.RangeText())
	require.Equal(t, 4, f.Pagination.TotalPages)
}

func TestDerive_HeaderFollowsVisiblePage(t *testing.T) {
	tbl := leadTable()
	records := leads(6)
	s := NewState(Rows(3))

	f := tbl.Derive(s, records, nil)
	s = tbl.Reduce(s, ToggleAllOnPage{Checked: true, Visible: f.VisibleIDs})
	require.Equal(t, []string{"1", "2", "3"}, s.Selection.IDs())
	require.Equal(t, HeaderChecked, tbl.Derive(s, records, nil).Header)

	s = tbl.Reduce(s, SetPage{Page: 2})
	f = tbl.Derive(s, records, nil)
	require.Equal(t, HeaderUnchecked, f.Header)

	s = tbl.Reduce(s, ToggleAllOnPage{Checked: true, Visible: f.VisibleIDs})
	require.Equal(t, []string{"4", "5", "6"}, s.Selection.IDs())

	s = tbl.Reduce(s, ToggleRow{ID: "5"})
	require.Equal(t, HeaderIndeterminate, tbl.Derive(s, records, nil).Header)
}

func TestTable_Options(t *testing.T) {
	tbl := leadTable()
	records := []lead{
		{ID: "1", Budget: "10"},
		{ID: "2", Budget: nil},
		{ID: "3", Budget: 9},
		{ID: "4", Budget: "10"},
		{ID: "5", Budget: ""},
	}
	require.Equal(t, []string{"9", "10"}, tbl.Options("budget", records))
	require.Nil(t, tbl.Options("missing", records))
}
