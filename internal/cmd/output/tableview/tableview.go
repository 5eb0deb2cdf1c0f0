package tableview

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/leadops/leadctl/internal/screens"
	"github.com/leadops/leadctl/internal/theme"
	"github.com/leadops/leadctl/internal/util"
)

const (
	// bubbles table cells are padded by one column on either side
	cellPadding = 2

	emptyText   = "No records"
	loadingText = "Loading…"
	failedText  = "Failed to load records"
)

// Static is a table rendered once without interaction.
type Static struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  string
	// Empty is the text of the single row rendered when Rows is empty.
	Empty string
}

// StaticFromFrame renders the visible page of a screen.
func StaticFromFrame(title string, screen *screens.Screen, frame grid.Frame[collection.Record]) Static {
	return Static{
		Title:   title,
		Headers: Headers(screen, frame.Sort),
		Rows:    Rows(screen, frame.Rows),
		Footer:  PaginationText(frame.Pagination),
		Empty:   emptyText,
	}
}

// Headers are the column labels of a screen, the sorted column marked with
// its direction.
func Headers(screen *screens.Screen, sort grid.SortState) []string {
	out := make([]string, 0, len(screen.Table.Columns))
	for _, c := range screen.Table.Columns {
		label := c.Label
		if ind := sort.Indicator(c.Key); ind != "" {
			label += " " + ind
		}
		out = append(out, label)
	}
	return out
}

// Rows renders every cell of records.
func Rows(screen *screens.Screen, records []collection.Record) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, flatten(screen.Row(r)))
	}
	return out
}

// PaginationText summarizes the pagination of a page, e.g.
// "Rows per page: 10 · 11–20 of 25 · Page 2 of 3".
func PaginationText(p grid.Pagination) string {
	parts := []string{
		"Rows per page: " + p.RowsPerPage.String(),
		p.RangeText(),
	}
	if len(p.PageNumbers()) > 1 {
		parts = append(parts, fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages))
	}
	return strings.Join(parts, " · ")
}

// RenderStatic writes s to the output stream inside a bordered box.
func RenderStatic(streams *iostreams.IOStreams, s Static) error {
	if streams == nil || streams.Out == nil {
		return errors.New("tableview: output stream is not available")
	}
	if len(s.Headers) == 0 {
		return writeStaticMessage(streams.Out, s.Title, "No data to display.")
	}

	palette := theme.Current()
	tableStyle := newTableBoxStyle(palette)
	termWidth, _ := iostreams.TerminalSize(streams.Out)

	rows := s.Rows
	if len(rows) == 0 {
		rows = [][]string{emptyRow(len(s.Headers), s.Empty)}
	}

	frameWidth, _ := tableStyle.GetFrameSize()
	widths, _ := calculateColumnWidths(s.Headers, rows,
		termWidth-frameWidth-cellPadding*len(s.Headers))

	styles := newTableStyles(palette)
	styles.Selected = styles.Cell
	tbl := table.New(
		table.WithColumns(tableColumns(s.Headers, widths)),
		table.WithRows(tableRows(rows, widths)),
		table.WithStyles(styles),
	)
	tbl.Blur()
	tbl.SetWidth(sum(widths) + cellPadding*len(widths))
	setTableHeight(&tbl, len(rows), 0, false, 0)

	var sections []string
	if s.Title != "" {
		sections = append(sections, s.Title)
	}
	sections = append(sections, tableStyle.Render(tbl.View()))
	if s.Footer != "" {
		sections = append(sections, s.Footer)
	}
	_, err := fmt.Fprintln(streams.Out, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func writeStaticMessage(out io.Writer, title, message string) error {
	if out == nil {
		return errors.New("tableview: output stream is not available")
	}
	content := message
	if title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, title, message)
	}
	_, err := fmt.Fprintln(out, content)
	return err
}

func newTableBoxStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		Padding(0, 1)
}

func newDetailBoxStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		Padding(0, 1)
}

func newStatusBoxStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		Padding(0, 1)
}

func newPanelStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Adaptive(theme.ColorPrimary)).
		Background(p.Adaptive(theme.ColorSurface)).
		Padding(0, 1)
}

func newTableStyles(p theme.Palette) table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(p.Adaptive(theme.ColorTextPrimary)).
		Background(p.Adaptive(theme.ColorSurface))
	styles.Cell = styles.Cell.
		Foreground(p.Adaptive(theme.ColorTextPrimary))
	styles.Selected = styles.Selected.
		Foreground(p.Adaptive(theme.ColorAccentText)).
		Background(p.Adaptive(theme.ColorAccent))
	return styles
}

func tableColumns(headers []string, widths []int) []table.Column {
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: truncateCell(h, widths[i]), Width: widths[i]}
	}
	return columns
}

func tableRows(rows [][]string, widths []int) []table.Row {
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		r := make(table.Row, len(widths))
		for j := range widths {
			if j < len(row) {
				r[j] = truncateCell(row[j], widths[j])
			}
		}
		out[i] = r
	}
	return out
}

func emptyRow(columns int, text string) []string {
	row := make([]string, columns)
	if columns > 0 {
		row[0] = text
	}
	return row
}

// flatten prepares cells for a single table line: whitespace runs collapse
// and UUIDs are abbreviated.
func flatten(cells []string) []string {
	for i, c := range cells {
		if strings.ContainsAny(c, "\r\n\t") {
			c = strings.Join(strings.Fields(c), " ")
		}
		cells[i] = util.AbbreviateUUID(c)
	}
	return cells
}

func truncateCell(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

func calculateColumnWidths(headers []string, rows [][]string, widthLimit int) ([]int, []int) {
	const minColumnWidth = 3
	const maxColumnWidth = 60

	widths := make([]int, len(headers))
	minWidths := make([]int, len(headers))
	for i, header := range headers {
		headerWidth := ansi.StringWidth(header)
		minWidth := clamp(headerWidth, minColumnWidth, 12)
		minWidths[i] = minWidth

		maxWidth := headerWidth
		for _, row := range rows {
			if i < len(row) {
				if w := ansi.StringWidth(row[i]); w > maxWidth {
					maxWidth = w
				}
			}
		}
		maxWidth = clamp(maxWidth, minColumnWidth, maxColumnWidth)
		if maxWidth < minWidth {
			maxWidth = minWidth
		}
		widths[i] = maxWidth
	}

	if widthLimit <= 0 {
		return widths, minWidths
	}

	total := sum(widths)
	for total > widthLimit {
		idx := widestColumnAboveMin(widths, minWidths)
		if idx == -1 {
			break
		}
		widths[idx]--
		total--
	}

	return widths, minWidths
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func widestColumnAboveMin(widths, minWidths []int) int {
	idx := -1
	maxWidth := math.MinInt
	for i, width := range widths {
		if width > maxWidth && width > minWidths[i] {
			maxWidth = width
			idx = i
		}
	}
	return idx
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func setTableHeight(tbl *table.Model, rowCount, termHeight int, interactive bool, reservedHeight int) {
	if tbl == nil {
		return
	}

	if !interactive {
		tbl.SetHeight(rowCount + 1) // include header
		return
	}

	const minHeight = 3

	target := rowCount + 1
	if termHeight > 0 {
		available := max(termHeight-reservedHeight, minHeight)
		target = clamp(target, minHeight, available)
	}
	tbl.SetHeight(target)
}
