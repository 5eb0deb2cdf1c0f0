package tableview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/leadops/leadctl/internal/log"
	"github.com/leadops/leadctl/internal/render"
	"github.com/leadops/leadctl/internal/screens"
	"github.com/leadops/leadctl/internal/theme"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// tableOrigin is the event origin of scrolls and clicks inside the grid.
const tableOrigin = "table"

type config struct {
	title       string
	profileName string
	pageSizes   []grid.PageSize
	logger      *slog.Logger
}

// Option configures the interactive view.
type Option func(*config)

// WithTitle sets the title line.
func WithTitle(title string) Option {
	return func(c *config) { c.title = strings.TrimSpace(title) }
}

// WithProfileName shows the active profile in the status area.
func WithProfileName(name string) Option {
	return func(c *config) { c.profileName = strings.TrimSpace(name) }
}

// WithPageSizes sets the rows-per-page dropdown options.
func WithPageSizes(sizes []grid.PageSize) Option {
	return func(c *config) {
		if len(sizes) > 0 {
			c.pageSizes = slices.Clone(sizes)
		}
	}
}

// WithLogger logs fetch failures and stale responses.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

type fetchedMsg struct {
	resp collection.Response
}

// Run shows session in an interactive grid until the user quits. When the
// output is not a terminal the first page is loaded and rendered statically.
func Run(
	ctx context.Context,
	streams *iostreams.IOStreams,
	screen *screens.Screen,
	session *collection.Session,
	opts ...Option,
) error {
	if streams == nil || streams.Out == nil {
		return errors.New("tableview: output stream is not available")
	}
	cfg := newConfig(screen, opts)

	if !iostreams.IsTerminal(streams.Out) {
		if err := session.Load(ctx); err != nil {
			return err
		}
		return RenderStatic(streams, StaticFromFrame(cfg.title, screen, session.Frame()))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer log.MuteConsole()()

	width, height := iostreams.TerminalSize(streams.Out)
	model := newBubbleModel(ctx, screen, session, cfg, width, height)
	defer model.unmount()

	program := tea.NewProgram(model,
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := program.Run()
	return err
}

func newConfig(screen *screens.Screen, opts []Option) config {
	cfg := config{
		title:     screen.Title,
		pageSizes: slices.Clone(grid.DefaultPageSizes),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

type bubbleModel struct {
	ctx         context.Context
	screen      *screens.Screen
	session     *collection.Session
	logger      *slog.Logger
	title       string
	profileName string
	pageSizes   []grid.PageSize

	keys          keyMap
	table         table.Model
	palette       theme.Palette
	tableStyle    lipgloss.Style
	detailStyle   lipgloss.Style
	statusStyle   lipgloss.Style
	panelStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	spinner       spinner.Model

	events   *grid.Dispatcher
	dropdown *dropdown
	detail   *viewport.Model

	frame         grid.Frame[collection.Record]
	widths        []int
	focus         int
	showHelp      bool
	searchActive  bool
	searchBuffer  []rune
	statusMessage string
	windowWidth   int
	windowHeight  int
}

func newBubbleModel(
	ctx context.Context,
	screen *screens.Screen,
	session *collection.Session,
	cfg config,
	width, height int,
) *bubbleModel {
	keys := defaultKeyMap()
	m := &bubbleModel{
		ctx:          ctx,
		screen:       screen,
		session:      session,
		logger:       cfg.logger,
		title:        cfg.title,
		profileName:  cfg.profileName,
		pageSizes:    cfg.pageSizes,
		keys:         keys,
		events:       grid.NewDispatcher(),
		windowWidth:  width,
		windowHeight: height,
	}
	m.table = table.New(
		table.WithColumns(tableColumns(m.headers(), m.columnWidths(nil))),
		table.WithFocused(true),
		table.WithKeyMap(tableKeyMap(keys)),
	)
	m.applyPalette(theme.Current())
	m.refresh()
	return m
}

func (m *bubbleModel) applyPalette(p theme.Palette) {
	m.palette = p
	m.tableStyle = newTableBoxStyle(p)
	m.detailStyle = newDetailBoxStyle(p)
	m.statusStyle = newStatusBoxStyle(p)
	m.panelStyle = newPanelStyle(p)

	styles := newTableStyles(p)
	m.selectedStyle = styles.Selected
	m.table.SetStyles(styles)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = p.ForegroundStyle(theme.ColorAccent)
	m.spinner = s
}

func (m *bubbleModel) Init() tea.Cmd {
	return m.fetch()
}

// fetch issues a request for the current state. The request runs off the
// update loop and reports back as a fetchedMsg.
func (m *bubbleModel) fetch() tea.Cmd {
	req := m.session.Begin()
	m.refresh()
	session, ctx := m.session, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return fetchedMsg{resp: session.Fetch(ctx, req)}
	})
}

func (m *bubbleModel) dispatch(a grid.Action) tea.Cmd {
	if m.session.Dispatch(a) {
		return m.fetch()
	}
	m.refresh()
	return nil
}

func (m *bubbleModel) handleFetched(msg fetchedMsg) tea.Cmd {
	applied, refetch := m.session.Apply(msg.resp)
	if !applied {
		return nil
	}
	if refetch {
		return m.fetch()
	}
	if err := m.session.Err(); err != nil {
		m.logger.Error("failed to load records",
			slog.String("screen", m.screen.Name),
			slog.Any("error", err))
		m.statusMessage = "Error: " + err.Error()
	}
	m.refresh()
	return nil
}

// refresh derives the visible page and rebuilds the table rows.
func (m *bubbleModel) refresh() {
	m.frame = m.session.Frame()

	var rows [][]string
	selection := m.session.State().Selection
	for _, r := range m.frame.Rows {
		mark := "[ ]"
		if selection.Has(r.ID) {
			mark = "[x]"
		}
		rows = append(rows, append([]string{mark}, flatten(m.screen.Row(r))...))
	}
	if len(rows) == 0 {
		rows = [][]string{append([]string{""}, emptyRow(len(m.screen.Table.Columns), m.placeholder())...)}
	}

	headers := m.headers()
	m.widths = m.columnWidths(rows)
	m.table.SetRows(nil)
	m.table.SetColumns(tableColumns(headers, m.widths))
	m.table.SetRows(tableRows(rows, m.widths))
	m.table.SetWidth(sum(m.widths) + cellPadding*len(m.widths))
	setTableHeight(&m.table, len(rows), m.windowHeight, true, m.reservedHeight())
	if c := m.table.Cursor(); c >= len(rows) || c < 0 {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *bubbleModel) placeholder() string {
	switch m.session.Status() {
	case collection.StatusLoading, collection.StatusIdle:
		return loadingText
	case collection.StatusFailed:
		return failedText
	default:
		return emptyText
	}
}

func (m *bubbleModel) headers() []string {
	state := m.session.State()
	check := "[ ]"
	switch state.Selection.HeaderState(m.frame.VisibleIDs) {
	case grid.HeaderChecked:
		check = "[x]"
	case grid.HeaderIndeterminate:
		check = "[-]"
	}
	labels := Headers(m.screen, state.Sort)
	for i, c := range m.screen.Table.Columns {
		if _, filtered := state.Filters[c.Key]; filtered {
			labels[i] += " *"
		}
		if i == m.focus {
			labels[i] = "›" + labels[i]
		}
	}
	return append([]string{check}, labels...)
}

func (m *bubbleModel) columnWidths(rows [][]string) []int {
	frameWidth, _ := m.tableStyle.GetFrameSize()
	headers := m.headers()
	widths, _ := calculateColumnWidths(headers, rows,
		m.windowWidth-frameWidth-cellPadding*len(headers))
	return widths
}

// reservedHeight is the height of everything but the table rows.
func (m *bubbleModel) reservedHeight() int {
	_, frameHeight := m.tableStyle.GetFrameSize()
	return lipgloss.Height(m.renderTitle()) + frameHeight +
		lipgloss.Height(m.renderFooter()) + lipgloss.Height(m.renderStatusArea(m.windowWidth))
}

func (m *bubbleModel) currentRecord() (collection.Record, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.frame.Rows) {
		return collection.Record{}, false
	}
	return m.frame.Rows[c], true
}

func (m *bubbleModel) focusedColumn() grid.Column[collection.Record] {
	return m.screen.Table.Columns[clamp(m.focus, 0, len(m.screen.Table.Columns)-1)]
}

func (m *bubbleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn
	switch msg := msg.(type) {
	case fetchedMsg:
		return m, m.handleFetched(msg)
	case spinner.TickMsg:
		if m.session.Status() != collection.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.refresh()
		if m.detail != nil {
			m.openDetail()
		}
		m.events.Dispatch(grid.Event{Kind: grid.EventResize})
		return m, nil
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *bubbleModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Button == tea.MouseButtonWheelUp {
			m.table.MoveUp(1)
		} else {
			m.table.MoveDown(1)
		}
		m.events.Dispatch(grid.Event{Kind: grid.EventScroll, Origin: tableOrigin, X: msg.X, Y: msg.Y})
		return nil
	}

	wasOpen := m.dropdown != nil && m.dropdown.overlay.IsOpen()
	m.events.Dispatch(grid.Event{Kind: grid.EventMouseDown, Origin: tableOrigin, X: msg.X, Y: msg.Y})
	if wasOpen {
		return nil
	}
	for i := range m.screen.Table.Columns {
		if m.headerCellRect(i).Contains(msg.X, msg.Y) {
			m.focus = i
			return m.dispatch(grid.ClickColumn{Key: m.screen.Table.Columns[i].Key})
		}
	}
	return nil
}

func (m *bubbleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && (!m.searchActive || msg.String() == "ctrl+c") {
		m.unmount()
		return m, tea.Quit
	}
	if m.searchActive {
		return m, m.handleSearchKey(msg)
	}
	if m.dropdown != nil && m.dropdown.overlay.IsOpen() {
		return m, m.handleDropdownKey(msg)
	}
	if m.detail != nil {
		if key.Matches(msg, m.keys.Back) {
			m.detail = nil
			return m, nil
		}
		vp, cmd := m.detail.Update(msg)
		m.detail = &vp
		return m, cmd
	}

	p := m.frame.Pagination
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Back):
		m.unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.focus = max(m.focus-1, 0)
		m.refresh()
	case key.Matches(msg, m.keys.Right):
		m.focus = min(m.focus+1, len(m.screen.Table.Columns)-1)
		m.refresh()
	case key.Matches(msg, m.keys.Sort):
		col := m.focusedColumn()
		if !col.Sortable {
			m.statusMessage = fmt.Sprintf("Column %s is not sortable", col.Label)
			return m, nil
		}
		m.statusMessage = ""
		return m, m.dispatch(grid.ClickColumn{Key: col.Key})
	case key.Matches(msg, m.keys.NextPage):
		if p.CanNext() {
			return m, m.dispatch(grid.SetPage{Page: p.Page + 1})
		}
	case key.Matches(msg, m.keys.PrevPage):
		if p.CanPrev() {
			return m, m.dispatch(grid.SetPage{Page: p.Page - 1})
		}
	case key.Matches(msg, m.keys.FirstPage):
		if p.Page != 1 {
			return m, m.dispatch(grid.SetPage{Page: 1})
		}
	case key.Matches(msg, m.keys.LastPage):
		if p.Page != p.TotalPages {
			return m, m.dispatch(grid.SetPage{Page: p.TotalPages})
		}
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.currentRecord(); ok {
			return m, m.dispatch(grid.ToggleRow{ID: r.ID})
		}
	case key.Matches(msg, m.keys.ToggleAll):
		visible := m.frame.VisibleIDs
		checked := !m.session.State().Selection.HeaderChecked(visible)
		return m, m.dispatch(grid.ToggleAllOnPage{Checked: checked, Visible: visible})
	case key.Matches(msg, m.keys.Clear):
		return m, m.dispatch(grid.ClearSelection{})
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchBuffer = []rune(m.session.State().Search)
	case key.Matches(msg, m.keys.Filter):
		m.toggleFilter()
	case key.Matches(msg, m.keys.Unfilter):
		return m, m.dispatch(grid.ClearFilters{})
	case key.Matches(msg, m.keys.RowsPerPage):
		m.toggleRowsPerPage()
	case key.Matches(msg, m.keys.Enter):
		m.openDetail()
	case key.Matches(msg, m.keys.Reload):
		m.statusMessage = ""
		return m, m.fetch()
	case key.Matches(msg, m.keys.Theme):
		next := theme.Next(m.palette.Name)
		if palette, ok := theme.Get(next); ok {
			m.applyPalette(palette)
			m.refresh()
			m.statusMessage = fmt.Sprintf("Theme: %s (set color-theme: %s in config to persist)",
				palette.DisplayName, next)
		}
	default:
		before := m.table.Cursor()
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		if m.table.Cursor() != before {
			m.events.Dispatch(grid.Event{Kind: grid.EventScroll, Origin: tableOrigin})
		}
		return m, cmd
	}
	return m, nil
}

func (m *bubbleModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchActive = false
		return m.dispatch(grid.SetSearch{Text: string(m.searchBuffer)})
	case tea.KeyEsc:
		m.searchActive = false
		m.searchBuffer = nil
	case tea.KeyBackspace:
		if len(m.searchBuffer) > 0 {
			m.searchBuffer = m.searchBuffer[:len(m.searchBuffer)-1]
		}
	case tea.KeySpace:
		m.searchBuffer = append(m.searchBuffer, ' ')
	case tea.KeyRunes:
		m.searchBuffer = append(m.searchBuffer, msg.Runes...)
	}
	return nil
}

func (m *bubbleModel) handleDropdownKey(msg tea.KeyMsg) tea.Cmd {
	d := m.dropdown
	switch {
	case key.Matches(msg, m.keys.Up):
		d.move(-1)
	case key.Matches(msg, m.keys.Down):
		d.move(1)
	case key.Matches(msg, m.keys.Back):
		d.overlay.Close()
	case key.Matches(msg, m.keys.Enter):
		value, ok := d.choose()
		if !ok {
			return nil
		}
		return m.applyChoice(d, value)
	case key.Matches(msg, m.keys.Filter) && d.kind == dropdownFilter,
		key.Matches(msg, m.keys.RowsPerPage) && d.kind == dropdownRowsPerPage:
		d.overlay.Toggle()
	}
	return nil
}

func (m *bubbleModel) applyChoice(d *dropdown, value string) tea.Cmd {
	switch d.kind {
	case dropdownFilter:
		if value == allOption {
			value = ""
		}
		return m.dispatch(grid.SetFilter{Key: d.column, Value: value})
	case dropdownRowsPerPage:
		size, err := grid.ParsePageSize(value)
		if err != nil {
			m.statusMessage = err.Error()
			return nil
		}
		return m.dispatch(grid.SetRowsPerPage{Size: size})
	}
	return nil
}

func (m *bubbleModel) toggleFilter() {
	col := m.focusedColumn()
	if m.dropdown.is(dropdownFilter, col.Key) {
		m.dropdown.overlay.Toggle()
		return
	}
	if !col.Filterable {
		m.statusMessage = fmt.Sprintf("Column %s is not filterable", col.Label)
		return
	}
	index := m.focus
	options := append([]string{allOption}, m.session.Options(col.Key)...)
	value := allOption
	if v, ok := m.session.State().Filters[col.Key]; ok {
		value = v
	}
	m.openDropdown(newDropdown(m.events, dropdownFilter, col.Key, options, value, m.screen.Placement,
		func() grid.Rect { return m.headerCellRect(index) },
		m.viewportHeight,
	))
}

func (m *bubbleModel) toggleRowsPerPage() {
	if m.dropdown.is(dropdownRowsPerPage, "") {
		m.dropdown.overlay.Toggle()
		return
	}
	options := make([]string, 0, len(m.pageSizes))
	for _, s := range m.pageSizes {
		options = append(options, s.String())
	}
	m.openDropdown(newDropdown(m.events, dropdownRowsPerPage, "", options,
		m.session.State().RowsPerPage.String(), grid.PlacementAuto,
		m.footerRect,
		m.viewportHeight,
	))
}

func (m *bubbleModel) openDropdown(d *dropdown) {
	if m.dropdown != nil {
		m.dropdown.overlay.Unmount()
	}
	m.dropdown = d
	d.overlay.Open()
}

// unmount releases every overlay listener and drops the view back to its
// initial sort, page, search and filters. The selection survives.
func (m *bubbleModel) unmount() {
	if m.dropdown != nil {
		m.dropdown.overlay.Unmount()
		m.dropdown = nil
	}
	m.session.Dispatch(grid.ResetView{})
}

func (m *bubbleModel) viewportHeight() int {
	return m.windowHeight
}

func (m *bubbleModel) tableTop() int {
	return lipgloss.Height(m.renderTitle())
}

// headerCellRect is the screen position of the header cell of column i.
func (m *bubbleModel) headerCellRect(i int) grid.Rect {
	left := m.tableStyle.GetBorderLeftSize() + m.tableStyle.GetPaddingLeft()
	for j := 0; j <= i && j < len(m.widths); j++ {
		left += m.widths[j] + cellPadding
	}
	width := 1
	if i+1 < len(m.widths) {
		width = m.widths[i+1] + cellPadding
	}
	top := m.tableTop() + m.tableStyle.GetBorderTopSize()
	return grid.Rect{Top: top, Bottom: top, Left: left, Right: left + width - 1}
}

// footerRect is the screen position of the rows-per-page label.
func (m *bubbleModel) footerRect() grid.Rect {
	top := m.tableTop() + lipgloss.Height(m.renderTableBox())
	return grid.Rect{Top: top, Bottom: top, Left: 0, Right: lipgloss.Width(m.rowsPerPageLabel()) - 1}
}

func (m *bubbleModel) copySelection() {
	ids := m.session.State().Selection.IDs()
	if len(ids) == 0 {
		m.statusMessage = "Nothing selected"
		return
	}
	slices.Sort(ids)
	if err := writeClipboard(strings.Join(ids, "\n")); err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	m.statusMessage = fmt.Sprintf("Copied %d id(s) to the clipboard", len(ids))
}

func (m *bubbleModel) openDetail() {
	r, ok := m.currentRecord()
	if !ok {
		return
	}
	fields := make([]render.Field, 0, len(m.screen.Table.Columns))
	for _, c := range m.screen.Table.Columns {
		fields = append(fields, render.Field{Label: c.Label, Value: m.screen.Cell(c.Key, r)})
	}
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		raw = nil
	}

	frameWidth, frameHeight := m.detailStyle.GetFrameSize()
	width := max(m.windowWidth-frameWidth, 20)
	height := max(m.windowHeight-frameHeight-lipgloss.Height(m.renderTitle())-
		lipgloss.Height(m.renderStatusArea(m.windowWidth)), 3)

	content := render.Markdown(
		render.RecordMarkdown(fmt.Sprintf("%s %s", m.screen.Title, r.ID), fields, string(raw)),
		render.Options{NoColor: lipgloss.ColorProfile() == termenv.Ascii, Width: width},
	)
	vp := viewport.New(width, height)
	vp.SetContent(content)
	m.detail = &vp
}

func (m *bubbleModel) View() string {
	width := m.windowWidth
	if m.detail != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitle(),
			m.detailStyle.Render(m.detail.View()),
			m.renderStatusArea(width),
		)
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderTableBox(),
		m.renderFooter(),
		m.renderStatusArea(width),
	)
	if d := m.dropdown; d != nil && d.overlay.IsOpen() {
		rect := d.panelRect()
		view = overlayPanel(view, d.view(m.panelStyle, m.selectedStyle), rect.Top, rect.Left)
	}
	return view
}

func (m *bubbleModel) renderTitle() string {
	titleStyle := m.palette.ForegroundStyle(theme.ColorPrimary).Bold(true)
	parts := []string{titleStyle.Render(m.title)}

	switch m.session.Status() {
	case collection.StatusLoading:
		parts = append(parts, m.spinner.View()+" "+loadingText)
	case collection.StatusFailed:
		parts = append(parts, m.palette.ForegroundStyle(theme.ColorDanger).Render(failedText))
	}

	state := m.session.State()
	muted := m.palette.ForegroundStyle(theme.ColorTextSecondary)
	if state.Search != "" {
		parts = append(parts, muted.Render(fmt.Sprintf("search: %q", state.Search)))
	}
	for _, k := range sortedKeys(state.Filters) {
		parts = append(parts, muted.Render(fmt.Sprintf("%s=%s", k, state.Filters[k])))
	}
	if n := state.Selection.Len(); n > 0 {
		parts = append(parts, m.palette.ForegroundStyle(theme.ColorAccent).Render(fmt.Sprintf("%d selected", n)))
	}
	return strings.Join(parts, "  ")
}

func (m *bubbleModel) renderTableBox() string {
	return m.tableStyle.Render(m.table.View())
}

func (m *bubbleModel) rowsPerPageLabel() string {
	return fmt.Sprintf("Rows per page: %s ▾", m.frame.Pagination.RowsPerPage)
}

func (m *bubbleModel) renderFooter() string {
	p := m.frame.Pagination
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
	current := m.palette.ForegroundStyle(theme.ColorAccent).Bold(true)

	parts := []string{m.rowsPerPageLabel(), p.RangeText()}
	if pages := p.PageNumbers(); len(pages) > 0 {
		prev, next := "‹", "›"
		if !p.CanPrev() {
			prev = muted.Render(prev)
		}
		if !p.CanNext() {
			next = muted.Render(next)
		}
		buttons := []string{prev}
		for _, n := range pageWindow(pages, p.Page, 9) {
			switch {
			case n == 0:
				buttons = append(buttons, "…")
			case n == p.Page:
				buttons = append(buttons, current.Render(fmt.Sprintf("[%d]", n)))
			default:
				buttons = append(buttons, fmt.Sprint(n))
			}
		}
		buttons = append(buttons, next)
		parts = append(parts, strings.Join(buttons, " "))
	}
	if m.session.ServerMode() {
		parts = append(parts, muted.Render("server paginated"))
	}
	return strings.Join(parts, "  ·  ")
}

// pageWindow limits page buttons to at most size entries around current.
// Elided runs are reported as 0.
func pageWindow(pages []int, current, size int) []int {
	if len(pages) <= size {
		return pages
	}
	last := pages[len(pages)-1]
	span := size - 4
	start := clamp(current-span/2, 2, last-span)
	out := []int{1}
	if start > 2 {
		out = append(out, 0)
	}
	for n := start; n < start+span && n < last; n++ {
		out = append(out, n)
	}
	if start+span < last {
		out = append(out, 0)
	}
	return append(out, last)
}

func (m *bubbleModel) renderStatusArea(widthHint int) string {
	width := widthHint
	if width <= 0 {
		width = 80
	}
	frameWidth, _ := m.statusStyle.GetFrameSize()
	innerWidth := max(width-frameWidth, 1)

	var rows []string
	if m.showHelp {
		helpStyle := lipgloss.NewStyle().Faint(true)
		for _, line := range m.keys.helpLines() {
			rows = append(rows, padStatusLine(helpStyle.Render(line), innerWidth))
		}
		return m.statusStyle.Render(strings.Join(rows, "\n"))
	}

	left := ""
	switch {
	case m.searchActive:
		left = m.palette.ForegroundStyle(theme.ColorAccent).Render("/" + string(m.searchBuffer))
	case m.statusMessage != "":
		left = lipgloss.NewStyle().Faint(true).Render(m.statusMessage)
	}
	right := lipgloss.NewStyle().Faint(true).Render("Press ? for help")
	if m.profileName != "" {
		right = m.palette.ForegroundStyle(theme.ColorTextSecondary).
			Render("Profile: "+m.profileName) + "  " + right
	}
	rows = append(rows, renderStatusRow(left, right, innerWidth))
	return m.statusStyle.Render(strings.Join(rows, "\n"))
}

func renderStatusRow(left, right string, width int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	if width < 1 {
		width = max(leftWidth+rightWidth, 1)
	}

	switch {
	case rightWidth == 0 && leftWidth == 0:
		return strings.Repeat(" ", width)
	case rightWidth == 0:
		return padStatusLine(left, width)
	case leftWidth == 0:
		if rightWidth >= width {
			return right
		}
		return strings.Repeat(" ", width-rightWidth) + right
	default:
		gap := max(width-leftWidth-rightWidth, 1)
		return left + strings.Repeat(" ", gap) + right
	}
}

func padStatusLine(value string, width int) string {
	if width < 1 {
		return value
	}
	lineWidth := lipgloss.Width(value)
	if lineWidth >= width {
		return value
	}
	return value + strings.Repeat(" ", width-lineWidth)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
