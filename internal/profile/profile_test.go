package profile

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	v := viper.New()
	v.Set("prod", map[string]any{
		"output": "json",
		"api":    map[string]any{"base-url": "https://leads.example.com"},
	})
	v.Set("default", map[string]any{"output": "text"})

	m := NewManager(v)
	require.Equal(t, []string{"default", "prod"}, m.GetProfiles())

	p, err := m.GetProfile("prod")
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"output":       "json",
		"api.base-url": "https://leads.example.com",
	}, p)

	_, err = m.GetProfile("staging")
	require.ErrorIs(t, err, ErrProfileNotFound)
}
