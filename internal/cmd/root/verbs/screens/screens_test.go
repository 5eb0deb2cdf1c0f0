package screens

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leadops/leadctl/internal/cmd"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/leadops/leadctl/internal/screens"
	cmdtest "github.com/leadops/leadctl/test/cmd"
	testConfig "github.com/leadops/leadctl/test/config"
)

func newHelper(format common.OutputFormat, args ...string) (*cmdtest.MockHelper, *bytes.Buffer) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	return &cmdtest.MockHelper{
		GetArgsMock:    func() []string { return args },
		GetStreamsMock: func() *iostreams.IOStreams { return streams },
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{}, nil
		},
		GetOutputFormatMock: func() (common.OutputFormat, error) { return format, nil },
		GetScreensMock: func(config.Hook) (*screens.Registry, error) {
			return screens.Load("", grid.NewComparator("en"))
		},
	}, out
}

func TestScreensText(t *testing.T) {
	helper, out := newHelper(common.TEXT)

	require.NoError(t, run(helper))
	for _, want := range []string{"Screens", "vendors", "lead-lists", "bidding-posts", "imported-data", "send-reports"} {
		require.Contains(t, out.String(), want)
	}
}

func TestScreensColumns(t *testing.T) {
	helper, out := newHelper(common.TEXT, "v")

	require.NoError(t, run(helper))
	require.Contains(t, out.String(), "Vendors")
	require.Contains(t, out.String(), "platform.name || platform")
}

func TestScreensJSON(t *testing.T) {
	helper, out := newHelper(common.JSON)

	require.NoError(t, run(helper))
	var defs []screens.Definition
	require.NoError(t, json.Unmarshal(out.Bytes(), &defs))
	require.Len(t, defs, 5)
	require.Equal(t, "vendors", defs[0].Name)
	require.Equal(t, "name", defs[0].Columns[0].Key)
}

func TestScreensUnknown(t *testing.T) {
	helper, _ := newHelper(common.TEXT, "nope")

	var cfgErr *cmd.ConfigurationError
	require.ErrorAs(t, run(helper), &cfgErr)
}
