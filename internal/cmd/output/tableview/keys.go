package tableview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Sort        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	Toggle      key.Binding
	ToggleAll   key.Binding
	Clear       key.Binding
	Search      key.Binding
	Filter      key.Binding
	Unfilter    key.Binding
	RowsPerPage key.Binding
	Enter       key.Binding
	Back        key.Binding
	Copy        key.Binding
	Reload      key.Binding
	Theme       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous row")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next row")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous column")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by column")),
		NextPage:    key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n/pgdn", "next page")),
		PrevPage:    key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p/pgup", "previous page")),
		FirstPage:   key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
		LastPage:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		ToggleAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear selection")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter column")),
		Unfilter:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filters")),
		RowsPerPage: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rows per page")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose / open record")),
		Back:        key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selected ids")),
		Reload:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle color theme")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle this help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Left, k.Right, k.Sort,
		k.NextPage, k.PrevPage, k.FirstPage, k.LastPage,
		k.Toggle, k.ToggleAll, k.Clear, k.Copy,
		k.Search, k.Filter, k.Unfilter, k.RowsPerPage, k.Enter, k.Back,
		k.Reload, k.Theme, k.Help, k.Quit,
	}
}

func (k keyMap) helpLines() []string {
	bindings := k.bindings()
	width := 0
	for _, b := range bindings {
		width = max(width, len([]rune(b.Help().Key)))
	}
	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("%-*s : %s", width, h.Key, h.Desc))
	}
	return lines
}

// tableKeyMap leaves only row movement to the table component; every other
// key is handled by the model.
func tableKeyMap(k keyMap) table.KeyMap {
	return table.KeyMap{
		LineUp:       k.Up,
		LineDown:     k.Down,
		PageUp:       key.NewBinding(),
		PageDown:     key.NewBinding(),
		HalfPageUp:   key.NewBinding(),
		HalfPageDown: key.NewBinding(),
		GotoTop:      key.NewBinding(),
		GotoBottom:   key.NewBinding(),
	}
}
