package jq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/itchyny/gojq"
	cmdpkg "github.com/leadops/leadctl/internal/cmd"
	cmdcommon "github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FlagName                    = "jq"
	ColorFlagName               = "jq-color"
	ColorThemeFlagName          = "jq-color-theme"
	RawOutputFlagName           = "jq-raw-output"
	RawOutputFlagShort          = "r"
	DefaultExpressionConfigPath = "jq.default-expression"
	ColorEnabledConfigPath      = "jq.color.enabled"
	ColorThemeConfigPath        = "jq.color.theme"
	RawOutputConfigPath         = "jq.raw-output"
	DefaultTheme                = "friendly"
)

var compiled sync.Map

// Settings are the resolved --jq options of one invocation.
type Settings struct {
	Filter    string
	ColorMode cmdcommon.ColorMode
	Theme     string
	RawOutput bool
}

// Enabled reports whether a filter applies.
func (s Settings) Enabled() bool {
	return strings.TrimSpace(s.Filter) != ""
}

func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "",
		"Filter the JSON records with a jq expression (gojq).")

	// empty inherits --color
	jqColor := cmdpkg.NewEnum(cmdcommon.ColorModeNames, "")
	flags.Var(jqColor, ColorFlagName,
		fmt.Sprintf(`Controls colorized output for jq results. Defaults to --%s.
- Config path: [ %s ]
- Allowed    : [ %s ]`, cmdcommon.ColorFlagName, ColorEnabledConfigPath, strings.Join(jqColor.Allowed, "|")))

	flags.String(ColorThemeFlagName, DefaultTheme,
		fmt.Sprintf(`Chroma style used for colorized jq results.
- Config path: [ %s ]
- Examples   : [ friendly, github-dark, dracula ]`, ColorThemeConfigPath))

	flags.BoolP(RawOutputFlagName, RawOutputFlagShort, false,
		fmt.Sprintf(`Print string results without JSON quotes (like jq -r).
- Config path: [ %s ]`, RawOutputConfigPath))
}

func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	bindings := []struct{ flag, cfgPath string }{
		{ColorFlagName, ColorEnabledConfigPath},
		{ColorThemeFlagName, ColorThemeConfigPath},
		{RawOutputFlagName, RawOutputConfigPath},
	}
	for _, b := range bindings {
		f := flags.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(b.cfgPath, f); err != nil {
			return err
		}
	}
	return nil
}

// ResolveSettings merges the --jq flags with the profile configuration. An
// explicitly empty --jq means the identity filter; an unset --jq falls back
// to jq.default-expression.
func ResolveSettings(command *cobra.Command, cfg config.Hook) (Settings, error) {
	settings := Settings{Theme: DefaultTheme, ColorMode: cmdcommon.ColorModeAuto}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return settings, nil
	}
	flags := command.Flags()

	filter, err := flags.GetString(FlagName)
	if err != nil {
		return Settings{}, err
	}
	filter = strings.TrimSpace(filter)
	switch {
	case flags.Changed(FlagName) && filter == "":
		filter = "."
	case !flags.Changed(FlagName) && cfg != nil:
		if def := strings.TrimSpace(cfg.GetString(DefaultExpressionConfigPath)); def != "" {
			filter = def
		}
	}
	settings.Filter = filter

	if cfg == nil {
		settings.RawOutput, err = flags.GetBool(RawOutputFlagName)
		return settings, err
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.GetString(ColorEnabledConfigPath)))
	if mode == "" {
		mode = strings.ToLower(strings.TrimSpace(cfg.GetString(cmdcommon.ColorConfigPath)))
	}
	if settings.ColorMode, err = cmdcommon.ColorModeStringToIota(mode); err != nil {
		return Settings{}, &cmdpkg.ConfigurationError{Err: err}
	}
	if theme := strings.TrimSpace(cfg.GetString(ColorThemeConfigPath)); theme != "" {
		settings.Theme = theme
	}
	settings.RawOutput = cfg.GetBool(RawOutputConfigPath)
	return settings, nil
}

// Validate rejects option combinations that cannot be rendered.
func (s Settings) Validate(outType cmdcommon.OutputFormat) error {
	if s.RawOutput {
		if !s.Enabled() {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("--%s requires --%s", RawOutputFlagName, FlagName),
			}
		}
		if outType != cmdcommon.JSON {
			return &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("--%s is only supported with --output json", RawOutputFlagName),
			}
		}
		return nil
	}
	if !s.Enabled() || outType == cmdcommon.JSON || outType == cmdcommon.YAML {
		return nil
	}
	return &cmdpkg.ConfigurationError{
		Err: fmt.Errorf("--%s is only supported with --output json or --output yaml", FlagName),
	}
}

// Apply runs the filter over data. When the result was written to out
// directly (raw or colorized output) written is true; otherwise the
// filtered value is returned for the regular printer.
func (s Settings) Apply(data any, outType cmdcommon.OutputFormat, out io.Writer) (result any, written bool, err error) {
	if !s.Enabled() {
		return data, false, nil
	}
	if err := s.Validate(outType); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("encoding records for jq: %w", err)
	}
	results, err := Evaluate(body, s.Filter)
	if err != nil {
		return nil, false, err
	}

	if s.RawOutput {
		return nil, true, writeRaw(results, out)
	}

	var value any
	switch len(results) {
	case 0:
	case 1:
		value = results[0]
	default:
		value = results
	}

	if outType == cmdcommon.JSON && UseColor(s.ColorMode, out) {
		formatted, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, false, fmt.Errorf("encoding jq result: %w", err)
		}
		_, err = fmt.Fprintln(out, strings.TrimRight(Colorize(value, string(formatted), s.Theme), "\n"))
		return nil, true, err
	}
	return value, false, nil
}

// Evaluate runs filter over a JSON document and returns every emitted value.
func Evaluate(body []byte, filter string) ([]any, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = "."
	}
	if len(body) == 0 {
		return nil, errors.New("no JSON input for the jq filter")
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("input is not valid JSON: %w", err)
	}

	code, err := compile(filter)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(payload)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func compile(filter string) (*gojq.Code, error) {
	if code, ok := compiled.Load(filter); ok {
		return code.(*gojq.Code), nil
	}
	parsed, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	compiled.Store(filter, code)
	return code, nil
}

func writeRaw(results []any, out io.Writer) error {
	for _, r := range results {
		line, ok := r.(string)
		if !ok {
			encoded, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("encoding jq result: %w", err)
			}
			line = string(encoded)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

// UseColor resolves a color mode against the output stream and NO_COLOR.
func UseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	default:
		if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
			return false
		}
		return iostreams.IsTerminal(out)
	}
}

// Colorize highlights formatted JSON with a chroma style. Scalars are
// returned unchanged.
func Colorize(value any, formatted, theme string) string {
	switch value.(type) {
	case map[string]any, []any:
	default:
		return formatted
	}

	lexer := lexers.Get("json")
	formatter := formatters.Get("terminal256")
	if lexer == nil || formatter == nil {
		return formatted
	}
	iterator, err := lexer.Tokenise(nil, formatted)
	if err != nil {
		return formatted
	}

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return formatted
	}
	return buf.String()
}
