package list

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leadops/leadctl/internal/cmd"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/cmd/output/jq"
	"github.com/leadops/leadctl/internal/cmd/output/tableview"
	"github.com/leadops/leadctl/internal/cmd/root/verbs"
	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/meta"
	"github.com/leadops/leadctl/internal/screens"
	"github.com/leadops/leadctl/internal/util/i18n"
	"github.com/leadops/leadctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.List

	PageFlagName   = "page"
	SortFlagName   = "sort"
	SearchFlagName = "search"
	FilterFlagName = "filter"
)

var (
	listUse = Verb.String() + " <screen>"

	listShort = i18n.T("root.verbs.list.listShort", "List the records of a screen")

	listLong = normalizers.LongDesc(i18n.T("root.verbs.list.listLong",
		`Use list to print one page of a screen.

Sorting, paging, search and column filters are given as flags. Screens that
are paginated by the server receive these as query parameters; other screens
are loaded once and paged locally. Use --interactive to browse the screen in
the terminal.`))

	listExamples = normalizers.Examples(i18n.T("root.verbs.list.listExamples",
		fmt.Sprintf(`
		# Print the first page of vendors
		%[1]s list vendors
		# Print the second page of lead lists, 25 rows per page, newest first
		%[1]s list lead-lists --page 2 --page-size 25 --sort created:desc
		# Only show facebook bidding posts whose name contains "spring"
		%[1]s list bidding-posts --filter platform=facebook --search spring
		# Print the ids of every vendor as JSON
		%[1]s list vendors --page-size unlimited -o json --jq '.items[].id'
		# Browse send reports interactively
		%[1]s list send-reports -i
		`, meta.CLIName)))
)

func NewListCmd() (*cobra.Command, error) {
	names, err := builtinNames()
	if err != nil {
		return nil, err
	}

	c := &cobra.Command{
		Use:       listUse,
		Short:     listShort,
		Long:      listLong,
		Example:   listExamples,
		Aliases:   []string{"ls", "l"},
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		PreRunE: func(c *cobra.Command, _ []string) error {
			cfg, ok := c.Context().Value(config.ConfigKey).(config.Hook)
			if !ok {
				return nil
			}
			return jq.BindFlags(cfg, c.Flags())
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return run(helper)
		},
	}

	c.Flags().Int(PageFlagName, 1, "Page to print, starting at 1.")
	c.Flags().String(common.PageSizeFlagName, "",
		fmt.Sprintf(`Rows per page, a positive number or "unlimited".
- Config path: [ %s ]`, common.PageSizeConfigPath))
	c.Flags().String(SortFlagName, "",
		`Sort column and direction as <key>[:asc|desc].`)
	c.Flags().String(SearchFlagName, "",
		"Only show records containing this text.")
	c.Flags().StringArray(FilterFlagName, nil,
		"Only show records whose column equals a value, as <key>=<value>. May be repeated.")
	c.Flags().BoolP(common.InteractiveFlagName, common.InteractiveFlagShort, false,
		"Browse the screen interactively.")
	jq.AddFlags(c.Flags())

	return c, nil
}

func builtinNames() ([]string, error) {
	defs, err := screens.Builtin()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names, nil
}

// Output is the structured form of one listed page.
type Output struct {
	Screen     string           `json:"screen"         yaml:"screen"`
	Items      []map[string]any `json:"items"          yaml:"items"`
	Pagination OutputPagination `json:"pagination"     yaml:"pagination"`
	Sort       *OutputSort      `json:"sort,omitempty" yaml:"sort,omitempty"`
}

type OutputPagination struct {
	Page        int    `json:"page"        yaml:"page"`
	RowsPerPage string `json:"rowsPerPage" yaml:"rowsPerPage"`
	TotalItems  int    `json:"totalItems"  yaml:"totalItems"`
	TotalPages  int    `json:"totalPages"  yaml:"totalPages"`
}

type OutputSort struct {
	Column    string `json:"column"    yaml:"column"`
	Direction string `json:"direction" yaml:"direction"`
}

func run(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	interactive, err := helper.IsInteractive()
	if err != nil {
		return err
	}

	registry, err := helper.GetScreens(cfg)
	if err != nil {
		return err
	}
	screen, err := registry.Lookup(helper.GetArgs()[0])
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	settings, err := config.LoadListSettings(cfg)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	state, err := initialState(helper.GetCmd(), screen, settings)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}

	jqSettings, err := jq.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return err
	}
	if interactive && jqSettings.Enabled() {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("--%s cannot be combined with --%s", jq.FlagName, common.InteractiveFlagName),
		}
	}
	if !interactive {
		if err := jqSettings.Validate(outType); err != nil {
			return err
		}
	}

	fetcher, err := helper.GetFetcher(cfg, logger, screen.Resource)
	if err != nil {
		return err
	}
	logger = logger.With("screen", screen.Name)
	session := collection.NewSession(screen.Table, fetcher, state, logger)
	streams := helper.GetStreams()
	ctx := cmd.WithHTTPLogContext(helper.GetContext(), helper, cfg, Verb.String(), screen.Name)

	if interactive {
		err = tableview.Run(ctx, streams, screen, session,
			tableview.WithPageSizes(settings.RowsPerPageOptions),
			tableview.WithProfileName(cfg.GetProfile()),
			tableview.WithLogger(logger),
		)
		if err != nil {
			return cmd.PrepareExecutionError(fmt.Sprintf("failed to browse %s", screen.Name), err,
				helper.GetCmd(), "screen", screen.Name)
		}
		return nil
	}

	if err := session.Load(ctx); err != nil {
		logger.Error("list failed", slog.Any("error", err))
		return cmd.PrepareExecutionError(fmt.Sprintf("failed to list %s", screen.Name), err,
			helper.GetCmd(), "screen", screen.Name)
	}
	frame := session.Frame()

	if outType == common.TEXT {
		return tableview.RenderStatic(streams, tableview.StaticFromFrame(screen.Title, screen, frame))
	}

	result, written, err := jqSettings.Apply(BuildOutput(screen, frame), outType, streams.Out)
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	if written {
		return nil
	}

	p, err := cli.Format(outType.String(), streams.Out)
	if err != nil {
		return err
	}
	defer p.Flush()
	p.Print(result)
	return nil
}

// initialState builds the view state from the command flags.
func initialState(c *cobra.Command, screen *screens.Screen, settings config.ListSettings) (grid.State, error) {
	flags := c.Flags()

	size := settings.PageSize
	if flags.Changed(common.PageSizeFlagName) {
		raw, _ := flags.GetString(common.PageSizeFlagName)
		parsed, err := grid.ParsePageSize(raw)
		if err != nil {
			return grid.State{}, fmt.Errorf("--%s: %w", common.PageSizeFlagName, err)
		}
		size = parsed
	}
	state := grid.NewState(size)

	page, _ := flags.GetInt(PageFlagName)
	if page < 1 {
		return grid.State{}, fmt.Errorf("--%s must be at least 1, got %d", PageFlagName, page)
	}
	state.Page = page

	rawSort, _ := flags.GetString(SortFlagName)
	sort, err := grid.ParseSort(strings.TrimSpace(rawSort))
	if err != nil {
		return grid.State{}, fmt.Errorf("--%s: %w", SortFlagName, err)
	}
	if sort.Active() {
		col, ok := screen.Table.Columns.Find(sort.Column)
		if !ok {
			return grid.State{}, fmt.Errorf("--%s: %s has no column %q", SortFlagName, screen.Name, sort.Column)
		}
		if !col.Sortable {
			return grid.State{}, fmt.Errorf("--%s: column %q is not sortable", SortFlagName, sort.Column)
		}
	}
	state.Sort = sort

	state.Search, _ = flags.GetString(SearchFlagName)
	state.Search = strings.TrimSpace(state.Search)

	rawFilters, _ := flags.GetStringArray(FilterFlagName)
	filters, err := parseFilters(screen, rawFilters)
	if err != nil {
		return grid.State{}, err
	}
	if len(filters) > 0 {
		state.Filters = filters
	}
	return state, nil
}

func parseFilters(screen *screens.Screen, raw []string) (map[string]string, error) {
	filters := map[string]string{}
	for _, f := range raw {
		key, value, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("--%s: expected <key>=<value>, got %q", FilterFlagName, f)
		}
		if _, found := screen.Table.Columns.Find(key); !found {
			return nil, fmt.Errorf("--%s: %s has no column %q", FilterFlagName, screen.Name, key)
		}
		if value = strings.TrimSpace(value); value != "" {
			filters[key] = value
		}
	}
	return filters, nil
}

// BuildOutput converts a frame into its structured form.
func BuildOutput(screen *screens.Screen, frame grid.Frame[collection.Record]) Output {
	out := Output{
		Screen: screen.Name,
		Items:  make([]map[string]any, 0, len(frame.Rows)),
		Pagination: OutputPagination{
			Page:        frame.Pagination.Page,
			RowsPerPage: frame.Pagination.RowsPerPage.String(),
			TotalItems:  frame.Pagination.TotalItems,
			TotalPages:  frame.Pagination.TotalPages,
		},
	}
	for _, r := range frame.Rows {
		item, _ := screens.Plain(r.Fields).(map[string]any)
		if item == nil {
			item = map[string]any{}
		}
		if _, ok := item["id"]; !ok {
			item["id"] = r.ID
		}
		out.Items = append(out.Items, item)
	}
	if frame.Sort.Active() {
		out.Sort = &OutputSort{Column: frame.Sort.Column, Direction: string(frame.Sort.Direction)}
	}
	return out
}
