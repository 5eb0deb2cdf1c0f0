package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leadops/leadctl/internal/build"
	"github.com/leadops/leadctl/internal/cmd"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/cmd/root/profile"
	"github.com/leadops/leadctl/internal/cmd/root/verbs/list"
	"github.com/leadops/leadctl/internal/cmd/root/verbs/screens"
	"github.com/leadops/leadctl/internal/cmd/root/verbs/summary"
	"github.com/leadops/leadctl/internal/cmd/root/verbs/themes"
	"github.com/leadops/leadctl/internal/cmd/root/version"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/leadops/leadctl/internal/log"
	"github.com/leadops/leadctl/internal/meta"
	profilemgr "github.com/leadops/leadctl/internal/profile"
	"github.com/leadops/leadctl/internal/theme"
	"github.com/leadops/leadctl/internal/util"
	"github.com/leadops/leadctl/internal/util/i18n"
	"github.com/leadops/leadctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  leadctl browses lead generation data from the command line.

  Every screen (vendors, lead lists, bidding posts, imported data and
  send reports) is a sortable, paginated, filterable table that can be
  printed once or explored interactively with --interactive.`))

	rootShort = i18n.T("root.rootShort", fmt.Sprintf("%s browses lead generation data", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = defaultConfigFilePath()
	currProfile    = profilemgr.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profilemgr.Manager
	outputFormat = cmd.NewEnum(common.OutputFormatNames, common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum(common.LogLevelNames, common.DefaultLogLevel)
	colorMode    = cmd.NewEnum(common.ColorModeNames, common.DefaultColorMode)
	colorTheme   = theme.NewFlag(common.DefaultColorTheme)

	buildInfo *build.Info
	logCloser io.Closer
)

func defaultConfigFilePath() string {
	p, err := config.GetDefaultConfigFilePath()
	if err != nil {
		return ""
	}
	return p
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			ctx := context.WithValue(c.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profilemgr.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)

			logger, closer, err := log.NewLogger(
				log.ConfigLevelStringToSlogLevel(currConfig.GetString(common.LogLevelConfigPath)),
				currConfig.GetString(common.LogFileConfigPath),
				streams.ErrOut,
			)
			if err != nil {
				return &cmd.ConfigurationError{Err: err}
			}
			logCloser = closer
			ctx = context.WithValue(ctx, log.LoggerKey, logger)

			if err := theme.SetCurrent(currConfig.GetString(common.ColorThemeConfigPath)); err != nil {
				return &cmd.ConfigurationError{Err: err}
			}
			c.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		defaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profilemgr.DefaultProfile,
		"Specify the profile to use for this command.")

	// -------------------------------------------------------------------------
	// Enum flags are validated by cmd.FlagEnum and bound to their config
	// paths in initConfig
	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	rootCmd.PersistentFlags().Var(colorMode, common.ColorFlagName,
		fmt.Sprintf(`Controls colorized output.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorConfigPath, strings.Join(colorMode.Allowed, "|")))
	// -------------------------------------------------------------------------

	rootCmd.PersistentFlags().String(common.LogFileFlagName, "",
		fmt.Sprintf(`Write logs to this file instead of stderr.
- Config path: [ %s ]`, common.LogFileConfigPath))

	rootCmd.PersistentFlags().Var(colorTheme, common.ColorThemeFlagName,
		fmt.Sprintf(`Color theme of the interactive views.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorThemeConfigPath, strings.Join(theme.Available(), "|")))

	for name, enum := range map[string]*cmd.FlagEnum{
		common.OutputFlagName:   outputFormat,
		common.LogLevelFlagName: logLevel,
		common.ColorFlagName:    colorMode,
	} {
		util.CheckError(rootCmd.RegisterFlagCompletionFunc(name, enum.Complete))
	}

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(screens.NewScreensCmd())
	rootCmd.AddCommand(profile.NewProfileCmd())
	rootCmd.AddCommand(themes.NewThemesCmd())

	c, e := list.NewListCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	c, e = summary.NewSummaryCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	config, e1 := config.GetConfig(configFilePath, currProfile, defaultConfigFilePath())
	util.CheckError(e1)
	currConfig = config

	pMgr = profilemgr.NewManager(config.Viper)

	bindings := []struct{ flag, cfgPath string }{
		{common.OutputFlagName, common.OutputConfigPath},
		{common.LogLevelFlagName, common.LogLevelConfigPath},
		{common.LogFileFlagName, common.LogFileConfigPath},
		{common.ColorFlagName, common.ColorConfigPath},
		{common.ColorThemeFlagName, common.ColorThemeConfigPath},
	}
	for _, b := range bindings {
		f := rootCmd.PersistentFlags().Lookup(b.flag)
		util.CheckError(config.BindFlag(b.cfgPath, f))
	}
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var executionError *cmd.ExecutionError
		if errors.As(err, &executionError) {
			printer, perr := cli.Format(outputFormat.String(), s.ErrOut)
			if perr != nil {
				fmt.Fprintln(s.ErrOut, "Error:", executionError.Msg)
				os.Exit(1)
			}
			printer.Print(executionError)
			printer.Flush()
			os.Exit(1)
		}
		os.Exit(1)
	}
}
