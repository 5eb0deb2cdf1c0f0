package themes

import (
	"fmt"
	"io"
	"strings"

	"github.com/leadops/leadctl/internal/cmd"
	cmdcommon "github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/cmd/output/tableview"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/theme"
	"github.com/leadops/leadctl/internal/util/normalizers"
	"github.com/mattn/go-isatty"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

func NewThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		Long: normalizers.LongDesc(`Display all registered color themes and a small sample
of their palette. The active theme is marked with *.`),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return runListThemes(helper)
		},
	}
}

func runListThemes(helper cmd.Helper) error {
	streams := helper.GetStreams()
	if streams == nil {
		return fmt.Errorf("output streams unavailable")
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}

	outFormat, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	rows := buildThemeRows(shouldRenderColor(cfg, streams.Out), activeThemeName(cfg))
	if outFormat == cmdcommon.TEXT {
		return tableview.RenderStatic(streams, tableview.Static{
			Title:   "Available Themes",
			Headers: rows.headers,
			Rows:    rows.tableRows,
		})
	}

	printer, err := cli.Format(outFormat.String(), streams.Out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	printer.Print(rows.display)
	return nil
}

func shouldRenderColor(cfg config.Hook, outWriter io.Writer) bool {
	modeStr := strings.ToLower(strings.TrimSpace(cfg.GetString(cmdcommon.ColorConfigPath)))
	mode, err := cmdcommon.ColorModeStringToIota(modeStr)
	if err != nil {
		mode = cmdcommon.ColorModeAuto
	}

	return shouldUseColor(mode, outWriter)
}

func shouldUseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	case cmdcommon.ColorModeAuto:
		fp, ok := out.(fdProvider)
		if !ok {
			return false
		}
		fd := fp.Fd()
		if fd == ^uintptr(0) {
			return false
		}
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	default:
		return false
	}
}

type fdProvider interface {
	Fd() uintptr
}

func activeThemeName(cfg config.Hook) string {
	name := strings.ToLower(strings.TrimSpace(cfg.GetString(cmdcommon.ColorThemeConfigPath)))
	if name == "" {
		name = cmdcommon.DefaultColorTheme
	}
	return name
}

type themeOutput struct {
	ID          string `json:"id"          yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Active      bool   `json:"active"      yaml:"active"`
	Primary     string `json:"primary"     yaml:"primary"`
	Accent      string `json:"accent"      yaml:"accent"`
}

type themeRowsData struct {
	headers   []string
	tableRows [][]string
	display   []themeOutput
}

type sampleSlot struct {
	background theme.Token
	foreground theme.Token
}

var sampleSlots = []sampleSlot{
	{theme.ColorPrimary, theme.ColorPrimaryText},
	{theme.ColorAccent, theme.ColorAccentText},
}

func buildThemeRows(useColor bool, activeName string) themeRowsData {
	ids := theme.Available()
	data := themeRowsData{
		headers:   []string{"ID", "Name", "Primary", "Accent"},
		tableRows: make([][]string, 0, len(ids)),
		display:   make([]themeOutput, 0, len(ids)),
	}

	for _, id := range ids {
		pal, ok := theme.Get(id)
		if !ok {
			continue
		}

		active := strings.ToLower(pal.Name) == activeName
		displayID := pal.Name
		if active {
			displayID = "*" + displayID
		}
		name := strings.TrimSpace(pal.DisplayName)
		if name == "" {
			name = pal.Name
		}

		primary := pal.Color(sampleSlots[0].background).Light
		accent := pal.Color(sampleSlots[1].background).Light

		data.display = append(data.display, themeOutput{
			ID:          pal.Name,
			DisplayName: name,
			Active:      active,
			Primary:     primary,
			Accent:      accent,
		})
		data.tableRows = append(data.tableRows, []string{
			displayID,
			name,
			renderBlock(pal, sampleSlots[0], useColor, primary),
			renderBlock(pal, sampleSlots[1], useColor, accent),
		})
	}
	return data
}

func renderBlock(p theme.Palette, slot sampleSlot, useColor bool, hex string) string {
	if !useColor {
		return hex
	}
	return p.BackgroundStyle(slot.background).
		Foreground(p.Adaptive(slot.foreground)).
		Render(" " + hex + " ")
}
