package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/meta"
	"github.com/leadops/leadctl/internal/util/viper"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

const defaultConfigFileName = "config.yaml"

// ErrConfigFileNotFound is returned when an explicitly requested config file
// does not exist.
var ErrConfigFileNotFound = errors.New("config file does not exist")

// GetDefaultConfigPath returns the directory holding the CLI configuration:
// $XDG_CONFIG_HOME/leadctl when XDG_CONFIG_HOME is set, otherwise
// ~/.config/leadctl.
func GetDefaultConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return os.ExpandEnv(filepath.Join(base, meta.CLIName)), nil
}

func GetDefaultConfigFilePath() (string, error) {
	dir, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultConfigFileName), nil
}

// GetConfig loads the file at path and scopes it to profile. A missing file
// is only tolerated when path is the default location, in which case it is
// created holding the defaults for profile.
func GetConfig(path string, profile string, defaultConfigFilePath string) (*ProfiledConfig, error) {
	path = os.ExpandEnv(path)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		vip, err := viper.NewViperE(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return BuildProfiledConfig(profile, path, vip), nil
	case errors.Is(err, fs.ErrNotExist) && path == defaultConfigFilePath:
		vip, err := viper.InitializeDefaultViper(getDefaultConfig(profile, path), path)
		if err != nil {
			return nil, fmt.Errorf("initializing %s: %w", path, err)
		}
		return BuildProfiledConfig(profile, path, vip), nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	default:
		return nil, err
	}
}

type Key struct{}

// ConfigKey stores the profiled Hook in a command context.
var ConfigKey = Key{}

// Hook is the read side of the configuration that commands depend on.
// Every lookup is scoped to the active profile.
type Hook interface {
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	// GetIntOrElse returns orElse when key is not set at all
	GetIntOrElse(key string, orElse int) int
	GetStringSlice(key string) []string
	// BindFlag lets a command line flag override the value at configPath
	BindFlag(configPath string, f *pflag.Flag) error
	GetProfile() string
	// GetPath is the file the configuration was loaded from
	GetPath() string
}

// ProfiledConfig wraps the viper instance of the whole file together with
// the sub tree of one profile.
type ProfiledConfig struct {
	*v.Viper
	subViper    *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string                 { return p.ProfileName }
func (p *ProfiledConfig) GetPath() string                    { return p.Path }
func (p *ProfiledConfig) GetString(key string) string        { return p.subViper.GetString(key) }
func (p *ProfiledConfig) GetBool(key string) bool            { return p.subViper.GetBool(key) }
func (p *ProfiledConfig) GetInt(key string) int              { return p.subViper.GetInt(key) }
func (p *ProfiledConfig) GetStringSlice(key string) []string { return p.subViper.GetStringSlice(key) }

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if !p.subViper.IsSet(key) {
		return orElse
	}
	return p.subViper.GetInt(key)
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	return p.subViper.BindPFlag(configPath, f)
}

// BuildProfiledConfig scopes mainv to profile. Environment variables named
// LEADCTL_<PROFILE>_<PATH> override the file, for example
// LEADCTL_PROD_API_BASE_URL for api.base-url of the prod profile.
func BuildProfiledConfig(profile string, path string, mainv *v.Viper) *ProfiledConfig {
	subv := mainv.Sub(profile)
	if subv == nil {
		subv = v.New()
	}
	prefix := strings.ToUpper(meta.CLIName + "_" + strings.ReplaceAll(profile, "-", "_"))
	viper.ConfigureEnvVars(subv, prefix)

	return &ProfiledConfig{
		Viper:       mainv,
		ProfileName: profile,
		subViper:    subv,
		Path:        path,
	}
}

func getDefaultConfig(profileName, configFilePath string) map[string]any {
	logPath := filepath.Join(filepath.Dir(configFilePath), "logs", meta.CLIName+".log")
	return map[string]any{
		profileName: map[string]any{
			common.OutputConfigPath:     common.DefaultOutputFormat,
			common.LogFileConfigPath:    logPath,
			common.ColorThemeConfigPath: common.DefaultColorTheme,
			"api": map[string]any{
				"base-url": common.DefaultBaseURL,
			},
		},
	}
}
