package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestFlagEnum(t *testing.T) {
	e := NewEnum([]string{"json", "yaml", "text"}, "text")
	require.Equal(t, "text", e.String())

	require.NoError(t, e.Set(" YAML "))
	require.Equal(t, "yaml", e.Value)

	err := e.Set("xml")
	require.EqualError(t, err, `invalid value "xml", must be one of json|yaml|text`)
	require.Equal(t, "yaml", e.Value)
}

func TestFlagEnum_Complete(t *testing.T) {
	e := NewEnum([]string{"trace", "debug", "info"}, "info")

	got, directive := e.Complete(nil, nil, "T")
	require.Equal(t, []string{"trace"}, got)
	require.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
