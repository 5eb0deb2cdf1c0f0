package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leadops/leadctl/internal/cmd/common"
	utilviper "github.com/leadops/leadctl/internal/util/viper"
	"github.com/stretchr/testify/require"
)

func TestBuildProfiledConfig_ProfileEnvWithDashes(t *testing.T) {
	t.Setenv("LEADCTL_TEAM_A_B_C_API_BASE_URL", "https://leads.example.com")

	profile := "team-a-b-c"
	mainv := utilviper.NewViper("nonexistent.yaml")
	mainv.Set(profile, map[string]any{})

	cfg := BuildProfiledConfig(profile, "nonexistent.yaml", mainv)
	require.Equal(t, "https://leads.example.com", cfg.GetString(common.BaseURLConfigPath))
}

func TestBuildProfiledConfig_MissingProfileReadsEnv(t *testing.T) {
	t.Setenv("LEADCTL_STAGING_API_TIMEOUT", "5s")

	mainv := utilviper.NewViper("nonexistent.yaml")
	cfg := BuildProfiledConfig("staging", "nonexistent.yaml", mainv)

	require.Equal(t, "5s", cfg.GetString(common.TimeoutConfigPath))
	require.Equal(t, 7, cfg.GetIntOrElse(common.RetryMaxAttemptsConfigPath, 7))
}

func TestGetConfig_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadctl", "config.yaml")

	cfg, err := GetConfig(path, "default", path)
	require.NoError(t, err)
	require.Equal(t, "text", cfg.GetString(common.OutputConfigPath))
	require.Equal(t, common.DefaultBaseURL, cfg.GetString(common.BaseURLConfigPath))
	require.Equal(t, filepath.Join(filepath.Dir(path), "logs", "leadctl.log"), cfg.GetString(common.LogFileConfigPath))
	require.Equal(t, "default", cfg.GetProfile())
	require.Equal(t, path, cfg.GetPath())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestGetConfig_MissingExplicitFile(t *testing.T) {
	dir := t.TempDir()
	_, err := GetConfig(filepath.Join(dir, "other.yaml"), "default", filepath.Join(dir, "config.yaml"))
	require.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestGetConfig_LoadsProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
default:
  output: json
prod:
  output: yaml
  list:
    page-size: unlimited
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := GetConfig(path, "prod", "")
	require.NoError(t, err)
	require.Equal(t, "yaml", cfg.GetString(common.OutputConfigPath))
	require.Equal(t, "unlimited", cfg.GetString(common.PageSizeConfigPath))
}

func TestGetConfig_ProfileEnvOverridesFile(t *testing.T) {
	t.Setenv("LEADCTL_PROD_OUTPUT", "json")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prod:\n  output: yaml\n"), 0o600))

	cfg, err := GetConfig(path, "prod", "")
	require.NoError(t, err)
	require.Equal(t, "json", cfg.GetString(common.OutputConfigPath))
}
