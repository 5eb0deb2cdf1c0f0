package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leadops/leadctl/internal/log"
	cmdtest "github.com/leadops/leadctl/test/cmd"
	testConfig "github.com/leadops/leadctl/test/config"
)

func TestWithHTTPLogContext(t *testing.T) {
	root := &cobra.Command{Use: "leadctl"}
	list := &cobra.Command{Use: "list"}
	root.AddCommand(list)

	helper := &cmdtest.MockHelper{GetCmdMock: func() *cobra.Command { return list }}
	cfg := &testConfig.MockConfigHook{GetProfileMock: func() string { return "prod" }}

	ctx := WithHTTPLogContext(t.Context(), helper, cfg, "list", "vendors")
	require.Equal(t, log.HTTPLogContext{
		CommandPath: "leadctl list",
		CommandVerb: "list",
		Profile:     "prod",
		Screen:      "vendors",
	}, log.HTTPLogContextFromContext(ctx))

	ctx = WithHTTPLogContext(ctx, &cmdtest.MockHelper{}, nil, "", "lead-lists")
	meta := log.HTTPLogContextFromContext(ctx)
	require.Equal(t, "lead-lists", meta.Screen)
	require.Equal(t, "prod", meta.Profile)
}
