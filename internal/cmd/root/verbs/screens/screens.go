package screens

import (
	"fmt"
	"strings"

	"github.com/leadops/leadctl/internal/cmd"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/cmd/output/tableview"
	"github.com/leadops/leadctl/internal/cmd/root/verbs"
	"github.com/leadops/leadctl/internal/meta"
	"github.com/leadops/leadctl/internal/screens"
	"github.com/leadops/leadctl/internal/util/i18n"
	"github.com/leadops/leadctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

const Verb = verbs.Screens

var (
	screensUse   = Verb.String() + " [screen]"
	screensShort = i18n.T("root.verbs.screens.screensShort", "Show the available screens")
	screensLong  = normalizers.LongDesc(i18n.T("root.verbs.screens.screensLong",
		`Without arguments every screen is printed with its resource and columns.
With a screen name the columns of that screen are printed in detail.

Screens from the profile's screens-file are included.`))
	screensExamples = normalizers.Examples(i18n.T("root.verbs.screens.screensExamples",
		fmt.Sprintf(`
		# Show every screen
		%[1]s screens
		# Show the columns of the vendors screen as YAML
		%[1]s screens vendors -o yaml
		`, meta.CLIName)))
)

func NewScreensCmd() *cobra.Command {
	return &cobra.Command{
		Use:     screensUse,
		Short:   screensShort,
		Long:    screensLong,
		Example: screensExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return run(helper)
		},
	}
}

func run(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	registry, err := helper.GetScreens(cfg)
	if err != nil {
		return err
	}

	if args := helper.GetArgs(); len(args) == 1 {
		screen, err := registry.Lookup(args[0])
		if err != nil {
			return &cmd.ConfigurationError{Err: err}
		}
		if outType == common.TEXT {
			return tableview.RenderStatic(helper.GetStreams(), columnsTable(screen))
		}
		return printValue(helper, outType, screen.Definition)
	}

	all := registry.Screens()
	if outType == common.TEXT {
		return tableview.RenderStatic(helper.GetStreams(), screensTable(all))
	}
	defs := make([]screens.Definition, 0, len(all))
	for _, s := range all {
		defs = append(defs, s.Definition)
	}
	return printValue(helper, outType, defs)
}

func printValue(helper cmd.Helper, outType common.OutputFormat, v any) error {
	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()
	p.Print(v)
	return nil
}

func screensTable(all []*screens.Screen) tableview.Static {
	s := tableview.Static{
		Title:   "Screens",
		Headers: []string{"Name", "Title", "Resource", "Aliases", "Columns"},
	}
	for _, screen := range all {
		s.Rows = append(s.Rows, []string{
			screen.Name,
			screen.Title,
			screen.Resource,
			strings.Join(screen.Aliases, ", "),
			strings.Join(screen.Headers(), ", "),
		})
	}
	return s
}

func columnsTable(screen *screens.Screen) tableview.Static {
	s := tableview.Static{
		Title:   screen.Title,
		Headers: []string{"Key", "Label", "Path", "Sortable", "Filterable", "Dates"},
	}
	for i, c := range screen.Table.Columns {
		path := screen.Columns[i].Path
		if path == "" {
			path = c.Key
		}
		s.Rows = append(s.Rows, []string{
			c.Key, c.Label, path, yesNo(c.Sortable), yesNo(c.Filterable), yesNo(c.Dates),
		})
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
