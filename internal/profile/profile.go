// Package profile reads the named profiles of the configuration file.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultProfile = "default"
)

// ErrProfileNotFound is returned for a profile with no settings in the file.
var ErrProfileNotFound = errors.New("profile is not configured")

type Manager interface {
	// GetProfiles lists the profile names, sorted
	GetProfiles() []string
	// GetProfile returns the settings of one profile, flattened to dotted
	// keys such as api.base-url
	GetProfile(name string) (map[string]any, error)
}

type profileManager struct {
	config *viper.Viper
}

type Key struct{}

// ProfileManagerKey stores the Manager in a command context.
var ProfileManagerKey = Key{}

func (v *profileManager) GetProfiles() []string {
	var rv []string
	for _, key := range v.config.AllKeys() {
		name, _, _ := strings.Cut(key, ".")
		if !slices.Contains(rv, name) {
			rv = append(rv, name)
		}
	}
	slices.Sort(rv)
	return rv
}

func (v *profileManager) GetProfile(name string) (map[string]any, error) {
	sub := v.config.Sub(name)
	if sub == nil || len(sub.AllKeys()) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	rv := make(map[string]any, len(sub.AllKeys()))
	for _, key := range sub.AllKeys() {
		rv[key] = sub.Get(key)
	}
	return rv, nil
}

func NewManager(config *viper.Viper) Manager {
	return &profileManager{
		config: config,
	}
}
