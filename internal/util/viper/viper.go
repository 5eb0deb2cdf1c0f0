// Package viper builds the viper instances backing the CLI configuration.
package viper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leadops/leadctl/internal/meta"
	v "github.com/spf13/viper"
)

// InitializeDefaultViper loads path, creating it with defaultValues when the
// file is missing or empty.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	rv := NewViper(path)
	if len(rv.AllSettings()) > 0 {
		return rv, nil
	}
	if err := rv.MergeConfigMap(defaultValues); err != nil {
		return nil, err
	}
	if err := rv.WriteConfigAs(path); err != nil {
		return nil, err
	}
	return rv, nil
}

// ConfigureEnvVars enables environment lookups for vip under the given prefix,
// mapping config paths like api.base-url to PREFIX_API_BASE_URL.
func ConfigureEnvVars(vip *v.Viper, prefix string) {
	vip.AutomaticEnv()
	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// NewViperE reads path and fails when it cannot be parsed.
func NewViperE(path string) (*v.Viper, error) {
	rv := newViper(path)
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViper reads path if it can and otherwise returns an empty instance.
func NewViper(path string) *v.Viper {
	rv := newViper(path)
	_ = rv.ReadInConfig()
	return rv
}

func newViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, meta.CLIName)
	return rv
}
