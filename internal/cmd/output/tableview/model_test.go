package tableview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/screens"
)

func testScreen(t *testing.T) *screens.Screen {
	t.Helper()
	s, err := screens.Compile(screens.Definition{
		Name:     "vendors",
		Title:    "Vendors",
		Resource: "vendors",
		Columns: []screens.ColumnDef{
			{Key: "name", Label: "Name", Sortable: true},
			{Key: "platform", Label: "Platform", Sortable: true, Filterable: true},
		},
	}, grid.NewComparator("en"))
	require.NoError(t, err)
	return s
}

func testRecords(n int) []collection.Record {
	out := make([]collection.Record, n)
	for i := range out {
		id := fmt.Sprint(i + 1)
		platform := "alpha"
		if i%2 == 1 {
			platform = "beta"
		}
		out[i] = collection.Record{ID: id, Fields: map[string]any{
			"id":       id,
			"name":     fmt.Sprintf("Vendor %02d", i+1),
			"platform": platform,
		}}
	}
	return out
}

func newTestModel(t *testing.T, fetcher collection.Fetcher, width, height int) *bubbleModel {
	t.Helper()
	screen := testScreen(t)
	session := collection.NewSession(screen.Table, fetcher, grid.NewState(grid.Rows(10)), nil)
	cfg := newConfig(screen, []Option{WithProfileName("default")})
	m := newBubbleModel(context.Background(), screen, session, cfg, width, height)
	return executeCmd(t, m, m.Init())
}

func executeCmd(t *testing.T, model *bubbleModel, cmd tea.Cmd) *bubbleModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		msg := current()
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(m)...)
			continue
		case spinner.TickMsg, nil:
			continue
		}
		updated, next := model.Update(msg)
		bm, ok := updated.(*bubbleModel)
		require.True(t, ok)
		model = bm
		if next != nil {
			queue = append(queue, next)
		}
	}
	return model
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m *bubbleModel, keys ...string) *bubbleModel {
	t.Helper()
	for _, k := range keys {
		updated, cmd := m.Update(keyMsg(k))
		bm, ok := updated.(*bubbleModel)
		require.True(t, ok)
		m = executeCmd(t, bm, cmd)
	}
	return m
}

func firstCell(m *bubbleModel, column int) string {
	return m.table.Rows()[0][column+1]
}

func TestModel_LoadsFirstPage(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)

	require.Equal(t, collection.StatusReady, m.session.Status())
	require.Len(t, m.table.Rows(), 10)
	require.Equal(t, "Vendor 01", firstCell(m, 0))

	view := m.View()
	require.Contains(t, view, "Vendors")
	require.Contains(t, view, "1–10 of 25")
	require.Contains(t, view, "Profile: default")
}

func TestModel_SortCycle(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)

	m = press(t, m, "s")
	require.Equal(t, grid.SortState{Column: "name", Direction: grid.Ascending}, m.session.State().Sort)
	require.Contains(t, m.table.Columns()[1].Title, "▲")

	m = press(t, m, "s")
	require.Equal(t, grid.Descending, m.session.State().Sort.Direction)
	require.Equal(t, "Vendor 25", firstCell(m, 0))

	m = press(t, m, "s")
	require.False(t, m.session.State().Sort.Active())
	require.Equal(t, "Vendor 01", firstCell(m, 0))
}

func TestModel_SortRejectsUnsortableColumn(t *testing.T) {
	screen, err := screens.Compile(screens.Definition{
		Name: "reports", Resource: "reports",
		Columns: []screens.ColumnDef{{Key: "name"}},
	}, grid.NewComparator("en"))
	require.NoError(t, err)
	session := collection.NewSession(screen.Table, collection.StaticFetcher(testRecords(3)),
		grid.NewState(grid.Rows(10)), nil)
	m := newBubbleModel(context.Background(), screen, session, newConfig(screen, nil), 100, 30)
	m = executeCmd(t, m, m.Init())

	m = press(t, m, "s")
	require.False(t, m.session.State().Sort.Active())
	require.Contains(t, m.View(), "is not sortable")
}

func TestModel_Paging(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)

	m = press(t, m, "n")
	require.Contains(t, m.View(), "11–20 of 25")

	m = press(t, m, "G")
	require.Contains(t, m.View(), "21–25 of 25")
	require.Len(t, m.table.Rows(), 5)

	m = press(t, m, "n")
	require.Equal(t, 3, m.session.State().Page)

	m = press(t, m, "g")
	require.Contains(t, m.View(), "1–10 of 25")
}

func TestModel_SelectAllIsScopedToPage(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)

	m = press(t, m, " ")
	require.True(t, m.session.State().Selection.Has("1"))
	require.Equal(t, "[x]", m.table.Rows()[0][0])
	require.Equal(t, "[-]", m.table.Columns()[0].Title)

	m = press(t, m, "n", "a")
	require.ElementsMatch(t,
		[]string{"11", "12", "13", "14", "15", "16", "17", "18", "19", "20"},
		m.session.State().Selection.IDs())
	require.Equal(t, "[x]", m.table.Columns()[0].Title)

	m = press(t, m, "a")
	require.Zero(t, m.session.State().Selection.Len())

	m = press(t, m, " ", "x")
	require.Zero(t, m.session.State().Selection.Len())
}

func TestModel_CopySelection(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m := newTestModel(t, collection.StaticFetcher(testRecords(5)), 100, 30)
	m = press(t, m, "y")
	require.Contains(t, m.View(), "Nothing selected")

	m = press(t, m, " ", "down", " ", "y")
	require.Equal(t, "1\n2", copied)
	require.Contains(t, m.View(), "Copied 2 id(s)")
}

func TestModel_RowsPerPageDropdown(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 40)

	m = press(t, m, "n", "r")
	require.NotNil(t, m.dropdown)
	require.True(t, m.dropdown.overlay.IsOpen())
	require.Equal(t, 3, m.events.Count())
	require.Equal(t, []string{"10", "25", "50", "unlimited"}, m.dropdown.options)
	require.Equal(t, 0, m.dropdown.cursor)
	require.Contains(t, m.View(), "› 10")

	m = press(t, m, "down", "enter")
	require.False(t, m.dropdown.overlay.IsOpen())
	require.Zero(t, m.events.Count())
	require.Equal(t, 1, m.session.State().Page)
	require.Contains(t, m.View(), "1–25 of 25")

	m = press(t, m, "r", "down", "down", "enter")
	require.True(t, m.session.State().RowsPerPage.IsUnlimited())
	require.Contains(t, m.View(), "1–25 of 25")
}

func TestModel_RowsPerPagePlacement(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(5)), 100, 40)
	m = press(t, m, "r")
	require.Equal(t, grid.PlacementBottom, m.dropdown.overlay.Placement())
	m = press(t, m, "esc")

	m = newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 16)
	m = press(t, m, "r")
	require.Equal(t, grid.PlacementTop, m.dropdown.overlay.Placement())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	m = updated.(*bubbleModel)
	require.Equal(t, grid.PlacementBottom, m.dropdown.overlay.Placement())
}

func TestModel_FilterDropdown(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)

	m = press(t, m, "f")
	require.Nil(t, m.dropdown)
	require.Contains(t, m.View(), "Column Name is not filterable")

	m = press(t, m, "l", "f")
	require.True(t, m.dropdown.overlay.IsOpen())
	require.Equal(t, []string{allOption, "alpha", "beta"}, m.dropdown.options)

	updated, _ := m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = updated.(*bubbleModel)
	require.False(t, m.dropdown.overlay.IsOpen())
	require.Zero(t, m.events.Count())

	m = press(t, m, "f", "down", "enter")
	require.Equal(t, map[string]string{"platform": "alpha"}, m.session.State().Filters)
	require.Contains(t, m.View(), "1–10 of 13")
	require.Contains(t, m.table.Columns()[2].Title, "*")

	m = press(t, m, "f")
	require.Equal(t, 1, m.dropdown.cursor)
	m = press(t, m, "up", "enter")
	require.Empty(t, m.session.State().Filters)
	require.Contains(t, m.View(), "1–10 of 25")
}

func TestModel_Search(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)

	m = press(t, m, "n", "/", "2", "1", "enter")
	require.Equal(t, "21", m.session.State().Search)
	require.Equal(t, 1, m.session.State().Page)
	require.Len(t, m.table.Rows(), 1)
	require.Equal(t, "Vendor 21", firstCell(m, 0))

	m = press(t, m, "/", "esc")
	require.False(t, m.searchActive)
	require.Equal(t, "21", m.session.State().Search)
}

func TestModel_EmptyAndFailedStates(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(nil), 100, 30)
	require.Equal(t, collection.StatusEmpty, m.session.Status())
	view := m.View()
	require.Contains(t, view, emptyText)
	require.Contains(t, view, "0 of 0")

	failing := collection.FetcherFunc(func(context.Context, collection.Params) (collection.Result, error) {
		return collection.Result{}, errors.New("boom")
	})
	m = newTestModel(t, failing, 100, 30)
	require.Equal(t, collection.StatusFailed, m.session.Status())
	view = m.View()
	require.Contains(t, view, failedText)
	require.Contains(t, view, "Error: boom")
}

func TestModel_DetailPane(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(3)), 100, 30)

	m = press(t, m, "down", "enter")
	require.NotNil(t, m.detail)
	require.Contains(t, ansi.Strip(m.View()), "Vendor 02")

	m = press(t, m, "esc")
	require.Nil(t, m.detail)
	require.Contains(t, m.View(), "1–3 of 3")
}

func TestModel_QuitReleasesListeners(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(3)), 100, 30)
	m = press(t, m, "r")
	require.Equal(t, 3, m.events.Count())

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Nil(t, m.dropdown)
	require.Zero(t, m.events.Count())
}

func TestModel_ClearFiltersKey(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)

	m = press(t, m, "l", "f", "down", "enter", "n")
	require.Equal(t, map[string]string{"platform": "alpha"}, m.session.State().Filters)
	require.Equal(t, 2, m.session.State().Page)

	m = press(t, m, "F")
	require.Empty(t, m.session.State().Filters)
	require.Equal(t, 1, m.session.State().Page)
	require.Contains(t, m.View(), "1–10 of 25")
}

func TestModel_QuitResetsView(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(25)), 100, 30)
	m = press(t, m, "s", " ", "n", "/", "2", "enter")
	require.True(t, m.session.State().Sort.Active())
	require.Equal(t, "2", m.session.State().Search)

	_, cmd := m.Update(keyMsg("q"))
	require.IsType(t, tea.QuitMsg{}, cmd())

	state := m.session.State()
	require.Equal(t, grid.SortState{}, state.Sort)
	require.Equal(t, 1, state.Page)
	require.Empty(t, state.Search)
	require.Empty(t, state.Filters)
	require.Equal(t, 1, state.Selection.Len())
}

func TestModel_ThemeCycle(t *testing.T) {
	m := newTestModel(t, collection.StaticFetcher(testRecords(3)), 100, 30)
	before := m.palette.Name

	m = press(t, m, "t")
	require.NotEqual(t, before, m.palette.Name)
	require.Contains(t, m.View(), "Theme:")
}

func TestPageWindow(t *testing.T) {
	pages := make([]int, 20)
	for i := range pages {
		pages[i] = i + 1
	}
	require.Equal(t, []int{1, 2, 3}, pageWindow(pages[:3], 2, 9))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 0, 20}, pageWindow(pages, 1, 9))
	require.Equal(t, []int{1, 0, 8, 9, 10, 11, 12, 0, 20}, pageWindow(pages, 10, 9))
	require.Equal(t, []int{1, 0, 15, 16, 17, 18, 19, 20}, pageWindow(pages, 20, 9))
}
