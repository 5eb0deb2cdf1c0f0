package tableview

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/leadops/leadctl/internal/grid"
)

type dropdownKind int

const (
	dropdownFilter dropdownKind = iota
	dropdownRowsPerPage
)

// allOption is the filter entry that removes the column filter.
const allOption = "(all)"

// dropdown is a floating option list anchored to a trigger cell. Its open
// state and placement are owned by a grid.Overlay.
type dropdown struct {
	kind    dropdownKind
	column  string
	options []string
	cursor  int
	overlay *grid.Overlay
	trigger func() grid.Rect
}

type dropdownAnchor struct {
	d        *dropdown
	viewport func() int
}

func (a dropdownAnchor) TriggerRect() grid.Rect { return a.d.trigger() }
func (a dropdownAnchor) ViewportHeight() int    { return a.viewport() }
func (a dropdownAnchor) Contains(e grid.Event) bool {
	return a.d.trigger().Contains(e.X, e.Y) || a.d.panelRect().Contains(e.X, e.Y)
}

func newDropdown(
	events grid.EventSource,
	kind dropdownKind,
	column string,
	options []string,
	value string,
	placement grid.Placement,
	trigger func() grid.Rect,
	viewport func() int,
) *dropdown {
	d := &dropdown{
		kind:    kind,
		column:  column,
		options: options,
		cursor:  max(slices.Index(options, value), 0),
		trigger: trigger,
	}
	d.overlay = grid.NewOverlay(events, dropdownAnchor{d: d, viewport: viewport},
		grid.WithPlacement(placement),
		grid.WithPanelMetrics(grid.CellPanelMetrics),
		grid.WithItemCount(len(options)),
	)
	return d
}

func (d *dropdown) is(kind dropdownKind, column string) bool {
	return d != nil && d.kind == kind && d.column == column
}

func (d *dropdown) move(delta int) {
	if len(d.options) == 0 {
		return
	}
	d.cursor = clamp(d.cursor+delta, 0, len(d.options)-1)
}

// choose closes the panel and returns the highlighted option.
func (d *dropdown) choose() (string, bool) {
	if len(d.options) == 0 {
		d.overlay.Close()
		return "", false
	}
	value := d.options[d.cursor]
	d.overlay.Close()
	return value, true
}

func (d *dropdown) visibleRows() int {
	m := grid.CellPanelMetrics
	return max(min(len(d.options), (m.MaxHeight-m.Padding)/m.RowHeight), 1)
}

func (d *dropdown) size() (width, height int) {
	width = 0
	for _, o := range d.options {
		width = max(width, runewidth.StringWidth(o))
	}
	// marker, padding and border
	return width + 2 + 4, d.visibleRows() + 2
}

func (d *dropdown) panelRect() grid.Rect {
	t := d.trigger()
	w, h := d.size()
	if d.overlay.Placement() == grid.PlacementTop {
		return grid.Rect{Top: t.Top - h, Bottom: t.Top - 1, Left: t.Left, Right: t.Left + w - 1}
	}
	return grid.Rect{Top: t.Bottom + 1, Bottom: t.Bottom + h, Left: t.Left, Right: t.Left + w - 1}
}

func (d *dropdown) view(style, selected lipgloss.Style) string {
	visible := d.visibleRows()
	start := clamp(d.cursor-visible+1, 0, max(len(d.options)-visible, 0))
	end := min(start+visible, len(d.options))

	width, _ := d.size()
	inner := width - 4
	lines := make([]string, 0, visible)
	for i := start; i < end; i++ {
		line := "  " + d.options[i]
		if i == d.cursor {
			line = "› " + d.options[i]
		}
		line = padStatusLine(line, inner)
		if i == d.cursor {
			line = selected.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, padStatusLine("  (none)", inner))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// overlayPanel draws panel over base with its top left corner at (left, top).
// Rows above the first line of base are dropped.
func overlayPanel(base, panel string, top, left int) string {
	lines := strings.Split(base, "\n")
	for i, pl := range strings.Split(panel, "\n") {
		y := top + i
		if y < 0 {
			continue
		}
		for y >= len(lines) {
			lines = append(lines, "")
		}
		line := lines[y]
		w := ansi.StringWidth(line)
		if w < left {
			line += strings.Repeat(" ", left-w)
			w = left
		}
		pw := ansi.StringWidth(pl)
		lines[y] = ansi.Cut(line, 0, left) + pl + ansi.Cut(line, left+pw, max(w, left+pw))
	}
	return strings.Join(lines, "\n")
}
