package summary

import (
	"fmt"
	"strconv"

	"github.com/leadops/leadctl/internal/cmd"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/cmd/output/tableview"
	"github.com/leadops/leadctl/internal/cmd/root/verbs"
	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/meta"
	"github.com/leadops/leadctl/internal/util/i18n"
	"github.com/leadops/leadctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const Verb = verbs.Summary

var (
	summaryShort = i18n.T("root.verbs.summary.summaryShort", "Count the records of every screen")
	summaryLong  = normalizers.LongDesc(i18n.T("root.verbs.summary.summaryLong",
		`Fetch the first page of every screen and print its record count.

Screens are fetched concurrently, at most --concurrency at a time. The
command fails when any screen fails to load.`))
	summaryExamples = normalizers.Examples(i18n.T("root.verbs.summary.summaryExamples",
		fmt.Sprintf(`
		# Count the records of every screen
		%[1]s summary
		# Fetch two screens at a time and print JSON
		%[1]s summary --concurrency 2 -o json
		`, meta.CLIName)))
)

// Row is the summary of one screen.
type Row struct {
	Screen    string `json:"screen"    yaml:"screen"`
	Title     string `json:"title"     yaml:"title"`
	Records   int    `json:"records"   yaml:"records"`
	Paginated string `json:"paginated" yaml:"paginated"`
}

func NewSummaryCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:     Verb.String(),
		Short:   summaryShort,
		Long:    summaryLong,
		Example: summaryExamples,
		Args:    verbs.NoPositionalArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return run(helper)
		},
	}
	c.Flags().Int(common.ConcurrencyFlagName, common.DefaultConcurrency,
		fmt.Sprintf(`Number of screens fetched at once.
- Config path: [ %s ]`, common.ConcurrencyConfigPath))
	return c, nil
}

func concurrency(helper cmd.Helper, cfg config.Hook) (int, error) {
	n := cfg.GetIntOrElse(common.ConcurrencyConfigPath, common.DefaultConcurrency)
	if c := helper.GetCmd(); c != nil && c.Flags().Changed(common.ConcurrencyFlagName) {
		n, _ = c.Flags().GetInt(common.ConcurrencyFlagName)
	}
	if n < 1 {
		return 0, &cmd.ConfigurationError{
			Err: fmt.Errorf("--%s must be at least 1, got %d", common.ConcurrencyFlagName, n),
		}
	}
	return n, nil
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
	limit, err := concurrency(helper, cfg)
	if err != nil {
		return err
	}
	registry, err := helper.GetScreens(cfg)
	if err != nil {
		return err
	}
	settings, err := config.LoadListSettings(cfg)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}

	all := registry.Screens()
	rows := make([]Row, len(all))

	fetchers := make([]collection.Fetcher, len(all))
	for i, screen := range all {
		if fetchers[i], err = helper.GetFetcher(cfg, logger, screen.Resource); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(helper.GetContext())
	g.SetLimit(limit)
	for i, screen := range all {
		g.Go(func() error {
			l := logger.With("screen", screen.Name)
			session := collection.NewSession(screen.Table, fetchers[i], grid.NewState(settings.PageSize), l)
			fetchCtx := cmd.WithHTTPLogContext(ctx, helper, cfg, Verb.String(), screen.Name)
			if err := session.Load(fetchCtx); err != nil {
				return fmt.Errorf("%s: %w", screen.Name, err)
			}
			rows[i] = Row{
				Screen:    screen.Name,
				Title:     screen.Title,
				Records:   session.Frame().Pagination.TotalItems,
				Paginated: paginatedBy(session.ServerMode()),
			}
			l.Debug("summarized screen", "records", rows[i].Records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cmd.PrepareExecutionErrorWithHelper(helper, "failed to summarize screens", err)
	}

	if outType == common.TEXT {
		static := tableview.Static{
			Title:   "Summary",
			Headers: []string{"Screen", "Title", "Records", "Paginated"},
		}
		for _, r := range rows {
			static.Rows = append(static.Rows, []string{r.Screen, r.Title, strconv.Itoa(r.Records), r.Paginated})
		}
		return tableview.RenderStatic(helper.GetStreams(), static)
	}

	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()
	p.Print(rows)
	return nil
}

func paginatedBy(server bool) string {
	if server {
		return "server"
	}
	return "client"
}
