package common

import (
	"fmt"
	"slices"
	"strings"
)

// OutputFormat is the format of command output.
type OutputFormat int

// ColorMode decides when output is colorized.
type ColorMode int

const (
	JSON OutputFormat = iota
	YAML
	TEXT
)

const (
	ColorModeAuto ColorMode = iota
	ColorModeAlways
	ColorModeNever
)

// Accepted flag values, indexed by the enums above.
var (
	OutputFormatNames = []string{"json", "yaml", "text"}
	ColorModeNames    = []string{"auto", "always", "never"}
	LogLevelNames     = []string{"trace", "debug", "info", "warn", "error"}
)

const (
	// related to the --output flag
	DefaultOutputFormat = "text"
	OutputFlagName      = "output"
	OutputFlagShort     = "o"
	OutputConfigPath    = OutputFlagName

	// related to the --color flag
	ColorFlagName    = "color"
	ColorConfigPath  = ColorFlagName
	DefaultColorMode = "auto"

	// related to the --profile flag
	ProfileFlagName  = "profile"
	ProfileFlagShort = "p"

	// related to the --config-file flag
	ConfigFilePathFlagName = "config-file"

	// related to the --log-level flag
	LogLevelFlagName   = "log-level"
	DefaultLogLevel    = "info"
	LogLevelConfigPath = LogLevelFlagName

	// related to the --log-file flag
	LogFileFlagName   = "log-file"
	LogFileConfigPath = LogFileFlagName

	// related to the --color-theme flag
	ColorThemeFlagName   = "color-theme"
	ColorThemeConfigPath = ColorThemeFlagName
	DefaultColorTheme    = "leadctl-light"

	// related to the --interactive flag
	InteractiveFlagName  = "interactive"
	InteractiveFlagShort = "i"

	// API settings, per profile
	BaseURLFlagName               = "base-url"
	BaseURLConfigPath             = "api." + BaseURLFlagName
	DefaultBaseURL                = "http://localhost:8080/api"
	TimeoutConfigPath             = "api.timeout"
	DefaultTimeout                = "30s"
	RetryMaxAttemptsConfigPath    = "api.retry.max-attempts"
	RetryInitialBackoffConfigPath = "api.retry.initial-backoff"
	RetryMaxBackoffConfigPath     = "api.retry.max-backoff"

	// list settings
	ScreensFileConfigPath        = "screens-file"
	PageSizeFlagName             = "page-size"
	PageSizeConfigPath           = "list." + PageSizeFlagName
	RowsPerPageOptionsConfigPath = "list.rows-per-page-options"
	LocaleConfigPath             = "list.locale"
	DefaultLocale                = "en"

	// related to the summary --concurrency flag
	ConcurrencyFlagName   = "concurrency"
	ConcurrencyConfigPath = "summary." + ConcurrencyFlagName
	DefaultConcurrency    = 4
)

func (of OutputFormat) String() string { return OutputFormatNames[of] }
func (cm ColorMode) String() string    { return ColorModeNames[cm] }

func OutputFormatStringToIota(format string) (OutputFormat, error) {
	i, err := lookup("output format", OutputFormatNames, format)
	return OutputFormat(i), err
}

// ColorModeStringToIota treats an empty mode as auto.
func ColorModeStringToIota(mode string) (ColorMode, error) {
	if mode == "" {
		return ColorModeAuto, nil
	}
	i, err := lookup("color mode", ColorModeNames, mode)
	return ColorMode(i), err
}

func lookup(kind string, names []string, value string) (int, error) {
	if i := slices.Index(names, strings.ToLower(value)); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("invalid %s %q, must be one of %s", kind, value, strings.Join(names, "|"))
}
