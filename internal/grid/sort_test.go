package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type lead struct {
	ID      string
	Name    string
	Budget  any
	Created string
}

var leadColumns = Columns[lead]{
	{Key: "name", Label: "Name", Accessor: func(l lead) any { return l.Name }, Sortable: true},
	{Key: "budget", Label: "Budget", Accessor: func(l lead) any { return l.Budget }, Sortable: true},
	{Key: "created", Label: "Created", Accessor: func(l lead) any { return l.Created }, Sortable: true, Dates: true},
	{Key: "actions", Label: "Actions"},
}

func leadIDs(rows []lead) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSortState_ClickCycle(t *testing.T) {
	var s SortState
	require.False(t, s.Active())

	s = s.Click("name", true)
	require.Equal(t, SortState{Column: "name", Direction: Ascending}, s)
	require.Equal(t, "▲", s.Indicator("name"))
	require.Empty(t, s.Indicator("budget"))

	s = s.Click("name", true)
	require.Equal(t, SortState{Column: "name", Direction: Descending}, s)
	require.Equal(t, "▼", s.Indicator("name"))

	s = s.Click("name", true)
	require.Equal(t, SortState{}, s)
	require.False(t, s.Active())
}

func TestSortState_ClickOtherColumnStartsAscending(t *testing.T) {
	s := SortState{Column: "name", Direction: Descending}
	require.Equal(t, SortState{Column: "budget", Direction: Ascending}, s.Click("budget", true))
}

func TestSortState_ClickUnsortableIsNoop(t *testing.T) {
	s := SortState{Column: "name", Direction: Ascending}
	require.Equal(t, s, s.Click("actions", false))
	require.Equal(t, SortState{}, SortState{}.Click("actions", false))
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    SortState
		wantErr bool
	}{
		{in: "", want: SortState{}},
		{in: "name", want: SortState{Column: "name", Direction: Ascending}},
		{in: "name:desc", want: SortState{Column: "name", Direction: Descending}},
		{in: "platform:name:asc", want: SortState{Column: "platform:name", Direction: Ascending}},
		{in: "name:sideways", wantErr: true},
		{in: ":asc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSort(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSortRecords(t *testing.T) {
	records := []lead{
		{ID: "1", Name: "beta", Budget: "10"},
		{ID: "2", Name: "Alpha", Budget: nil},
		{ID: "3", Name: "gamma", Budget: 9},
		{ID: "4", Name: "alpha", Budget: "10"},
	}

	t.Run("unsorted keeps input order", func(t *testing.T) {
		got := SortRecords(records, leadColumns, SortState{}, nil)
		require.Equal(t, []string{"1", "2", "3", "4"}, leadIDs(got))
	})

	t.Run("ascending is stable", func(t *testing.T) {
		got := SortRecords(records, leadColumns, SortState{Column: "name", Direction: Ascending}, nil)
		require.Equal(t, []string{"2", "4", "1", "3"}, leadIDs(got))
	})

	t.Run("descending keeps ties in input order", func(t *testing.T) {
		got := SortRecords(records, leadColumns, SortState{Column: "name", Direction: Descending}, nil)
		require.Equal(t, []string{"3", "1", "2", "4"}, leadIDs(got))
	})

	t.Run("nulls first ascending and numbers numerically", func(t *testing.T) {
		got := SortRecords(records, leadColumns, SortState{Column: "budget", Direction: Ascending}, nil)
		require.Equal(t, []string{"2", "3", "1", "4"}, leadIDs(got))
	})

	t.Run("nulls last descending", func(t *testing.T) {
		got := SortRecords(records, leadColumns, SortState{Column: "budget", Direction: Descending}, nil)
		require.Equal(t, []string{"1", "4", "3", "2"}, leadIDs(got))
	})

	t.Run("unsortable column is ignored", func(t *testing.T) {
		got := SortRecords(records, leadColumns, SortState{Column: "actions", Direction: Ascending}, nil)
		require.Equal(t, []string{"1", "2", "3", "4"}, leadIDs(got))
	})

	t.Run("input is not modified", func(t *testing.T) {
		before := append([]lead(nil), records...)
		_ = SortRecords(records, leadColumns, SortState{Column: "name", Direction: Descending}, nil)
		if diff := cmp.Diff(before, records); diff != "" {
			t.Fatalf("records modified (-want +got):\n%s", diff)
		}
	})
}

func TestSortRecords_Dates(t *testing.T) {
	records := []lead{
		{ID: "a", Created: "Tue, 01 Jan 2030 00:00:00 UTC"},
		{ID: "b", Created: "2024-06-30"},
		{ID: "c", Created: "2024-06-30T08:00:00Z"},
	}
	got := SortRecords(records, leadColumns, SortState{Column: "created", Direction: Ascending}, nil)
	require.Equal(t, []string{"b", "c", "a"}, leadIDs(got))
}
