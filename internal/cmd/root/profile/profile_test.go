package profile

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/leadops/leadctl/internal/cmd"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/leadops/leadctl/internal/profile"
	cmdtest "github.com/leadops/leadctl/test/cmd"
)

func newHelper(format common.OutputFormat, args ...string) (*cmdtest.MockHelper, *bytes.Buffer) {
	v := viper.New()
	v.Set("default", map[string]any{"output": "text"})
	v.Set("prod", map[string]any{"api": map[string]any{"base-url": "https://leads.example.com"}})

	streams, _, out, _ := iostreams.NewTestIOStreams()
	return &cmdtest.MockHelper{
		GetArgsMock:           func() []string { return args },
		GetStreamsMock:        func() *iostreams.IOStreams { return streams },
		GetOutputFormatMock:   func() (common.OutputFormat, error) { return format, nil },
		GetProfileManagerMock: func() (profile.Manager, error) { return profile.NewManager(v), nil },
	}, out
}

func TestProfileList(t *testing.T) {
	helper, out := newHelper(common.JSON)

	require.NoError(t, run(helper))
	require.JSONEq(t, `["default","prod"]`, out.String())
}

func TestProfileShowAsYAMLForText(t *testing.T) {
	helper, out := newHelper(common.TEXT, "prod")

	require.NoError(t, run(helper))
	require.Contains(t, out.String(), "api.base-url: https://leads.example.com")
}

func TestProfileUnknown(t *testing.T) {
	helper, _ := newHelper(common.JSON, "staging")

	var cfgErr *cmd.ConfigurationError
	require.ErrorAs(t, run(helper), &cfgErr)
}
