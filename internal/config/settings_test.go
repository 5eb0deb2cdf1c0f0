package config

import (
	"testing"
	"time"

	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/grid"
	utilviper "github.com/leadops/leadctl/internal/util/viper"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, values map[string]any) *ProfiledConfig {
	t.Helper()
	mainv := utilviper.NewViper("nonexistent.yaml")
	mainv.Set("default", values)
	return BuildProfiledConfig("default", "nonexistent.yaml", mainv)
}

func TestLoadAPISettings_Defaults(t *testing.T) {
	s, err := LoadAPISettings(testConfig(t, map[string]any{}))
	require.NoError(t, err)
	require.Equal(t, common.DefaultBaseURL, s.BaseURL)
	require.Equal(t, 30*time.Second, s.Timeout)
	require.Equal(t, collection.DefaultRetryPolicy, s.Retry)
}

func TestLoadAPISettings_Overrides(t *testing.T) {
	s, err := LoadAPISettings(testConfig(t, map[string]any{
		"api": map[string]any{
			"base-url": "https://leads.example.com/v2",
			"timeout":  "5s",
			"retry": map[string]any{
				"max-attempts":    5,
				"initial-backoff": "50ms",
				"max-backoff":     "1s",
			},
		},
	}))
	require.NoError(t, err)
	require.Equal(t, "https://leads.example.com/v2", s.BaseURL)
	require.Equal(t, 5*time.Second, s.Timeout)
	require.Equal(t, collection.RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     time.Second,
	}, s.Retry)
}

func TestLoadAPISettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		api  map[string]any
	}{
		{name: "relative url", api: map[string]any{"base-url": "/api"}},
		{name: "bad scheme", api: map[string]any{"base-url": "ftp://x"}},
		{name: "bad timeout", api: map[string]any{"timeout": "soon"}},
		{name: "zero timeout", api: map[string]any{"timeout": "0s"}},
		{name: "zero attempts", api: map[string]any{"retry": map[string]any{"max-attempts": 0}}},
		{name: "inverted backoff", api: map[string]any{"retry": map[string]any{
			"initial-backoff": "3s", "max-backoff": "1s",
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAPISettings(testConfig(t, map[string]any{"api": tt.api}))
			require.Error(t, err)
		})
	}
}

func TestLoadListSettings(t *testing.T) {
	s, err := LoadListSettings(testConfig(t, map[string]any{}))
	require.NoError(t, err)
	require.Equal(t, grid.Rows(10), s.PageSize)
	require.Equal(t, grid.DefaultPageSizes, s.RowsPerPageOptions)
	require.Equal(t, "en", s.Locale)

	s, err = LoadListSettings(testConfig(t, map[string]any{
		"list": map[string]any{
			"rows-per-page-options": []string{"5", "unlimited"},
			"locale":                "sv",
		},
		"screens-file": "/tmp/screens.yaml",
	}))
	require.NoError(t, err)
	require.Equal(t, grid.Rows(5), s.PageSize)
	require.Equal(t, []grid.PageSize{grid.Rows(5), grid.Unlimited}, s.RowsPerPageOptions)
	require.Equal(t, "sv", s.Locale)
	require.Equal(t, "/tmp/screens.yaml", s.ScreensFile)

	s, err = LoadListSettings(testConfig(t, map[string]any{"list": map[string]any{"page-size": "unlimited"}}))
	require.NoError(t, err)
	require.Equal(t, grid.Unlimited, s.PageSize)

	_, err = LoadListSettings(testConfig(t, map[string]any{"list": map[string]any{"page-size": "0"}}))
	require.ErrorIs(t, err, grid.ErrInvalidPageSize)

	_, err = LoadListSettings(testConfig(t, map[string]any{"list": map[string]any{"locale": "not a locale!"}}))
	require.Error(t, err)
}
