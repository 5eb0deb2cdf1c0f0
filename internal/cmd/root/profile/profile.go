package profile

import (
	"errors"
	"fmt"

	"github.com/leadops/leadctl/internal/cmd"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/meta"
	"github.com/leadops/leadctl/internal/profile"
	"github.com/leadops/leadctl/internal/util/i18n"
	"github.com/leadops/leadctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	profileUse   = "profile [name]"
	profileShort = i18n.T("root.profile.profileShort", "Show CLI profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`Without arguments the names of all configured profiles are printed.
		With a profile name, that profile's settings are printed.`))
	profileExamples = normalizers.Examples(i18n.T("root.profile.profileExamples",
		fmt.Sprintf(`
		# List profiles
		%[1]s profile
		# Show the settings of the staging profile
		%[1]s profile staging -o yaml
		`, meta.CLIName)))
)

func NewProfileCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse,
		Short:   profileShort,
		Long:    profileLong,
		Example: profileExamples,
		Aliases: []string{"profiles"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return run(helper)
		},
	}
	return rv
}

func run(helper cmd.Helper) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	mgr, err := helper.GetProfileManager()
	if err != nil {
		return err
	}

	var data any = mgr.GetProfiles()
	if args := helper.GetArgs(); len(args) == 1 {
		p, err := mgr.GetProfile(args[0])
		if errors.Is(err, profile.ErrProfileNotFound) {
			return &cmd.ConfigurationError{Err: err}
		}
		if err != nil {
			return cmd.PrepareExecutionErrorFromErr(helper, err)
		}
		data = p
	}

	format := outType.String()
	if outType == common.TEXT {
		// segmentio/cli renders text as a table which needs struct values
		format = common.YAML.String()
	}
	p, err := cli.Format(format, helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	p.Print(data)
	return nil
}
