package version

import (
	"encoding/json"
	"testing"

	"github.com/leadops/leadctl/internal/build"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/leadops/leadctl/test/cmd"
	testConfig "github.com/leadops/leadctl/test/config"
	"github.com/stretchr/testify/require"
)

func newHelper(streams *iostreams.IOStreams, format common.OutputFormat, showCommit bool) *cmd.MockHelper {
	return &cmd.MockHelper{
		GetArgsMock: func() []string { return nil },
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return format, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				GetBoolMock: func(_ string) bool {
					return showCommit
				},
			}, nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return streams
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{
				Version: "1.4.0",
				Commit:  "abc1234",
				Date:    "2026-10-01",
			}, nil
		},
	}
}

func Test_VersionCmd(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newHelper(streams, common.TEXT, false)

	require.NoError(t, validate(helper))
	require.NoError(t, run(helper))
	require.Equal(t, "1.4.0\n", out.String())
}

func Test_VersionCmdShowCommit(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newHelper(streams, common.TEXT, true)

	require.NoError(t, run(helper))
	require.Equal(t, "1.4.0 (abc1234, 2026-10-01)\n", out.String())
}

func Test_VersionCmdJSONOutput(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newHelper(streams, common.JSON, false)

	require.NoError(t, run(helper))

	var actual map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &actual))
	require.Equal(t, map[string]any{"version": "1.4.0"}, actual)
}

func Test_VersionCmdRejectsArgs(t *testing.T) {
	streams, _, _, _ := iostreams.NewTestIOStreams()
	helper := newHelper(streams, common.TEXT, false)
	helper.GetArgsMock = func() []string { return []string{"extra"} }

	require.Error(t, validate(helper))
}
