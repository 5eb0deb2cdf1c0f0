package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/grid"
	"golang.org/x/text/language"
)

// APISettings holds the resolved api.* settings of a profile.
type APISettings struct {
	BaseURL string
	Timeout time.Duration
	Retry   collection.RetryPolicy
}

// ListSettings holds the resolved list.* settings of a profile.
type ListSettings struct {
	PageSize           grid.PageSize
	RowsPerPageOptions []grid.PageSize
	Locale             string
	ScreensFile        string
}

// LoadAPISettings reads and validates the API settings, applying defaults
// for anything left unset.
func LoadAPISettings(cfg Hook) (APISettings, error) {
	s := APISettings{
		BaseURL: strings.TrimSpace(cfg.GetString(common.BaseURLConfigPath)),
		Retry:   collection.DefaultRetryPolicy,
	}
	if s.BaseURL == "" {
		s.BaseURL = common.DefaultBaseURL
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return s, fmt.Errorf("%s must be an absolute http(s) URL, got %q", common.BaseURLConfigPath, s.BaseURL)
	}

	s.Timeout, err = duration(cfg, common.TimeoutConfigPath, common.DefaultTimeout)
	if err != nil {
		return s, err
	}

	s.Retry.MaxAttempts = cfg.GetIntOrElse(common.RetryMaxAttemptsConfigPath, s.Retry.MaxAttempts)
	if s.Retry.MaxAttempts < 1 {
		return s, fmt.Errorf("%s must be at least 1, got %d", common.RetryMaxAttemptsConfigPath, s.Retry.MaxAttempts)
	}
	if cfg.GetString(common.RetryInitialBackoffConfigPath) != "" {
		if s.Retry.InitialBackoff, err = duration(cfg, common.RetryInitialBackoffConfigPath, ""); err != nil {
			return s, err
		}
	}
	if cfg.GetString(common.RetryMaxBackoffConfigPath) != "" {
		if s.Retry.MaxBackoff, err = duration(cfg, common.RetryMaxBackoffConfigPath, ""); err != nil {
			return s, err
		}
	}
	if s.Retry.MaxBackoff < s.Retry.InitialBackoff {
		return s, fmt.Errorf("%s (%s) is shorter than %s (%s)",
			common.RetryMaxBackoffConfigPath, s.Retry.MaxBackoff,
			common.RetryInitialBackoffConfigPath, s.Retry.InitialBackoff)
	}
	return s, nil
}

// LoadListSettings reads and validates the list settings. Without an explicit
// page size the first rows-per-page option is used.
func LoadListSettings(cfg Hook) (ListSettings, error) {
	s := ListSettings{
		RowsPerPageOptions: grid.DefaultPageSizes,
		Locale:             strings.TrimSpace(cfg.GetString(common.LocaleConfigPath)),
		ScreensFile:        strings.TrimSpace(cfg.GetString(common.ScreensFileConfigPath)),
	}

	if raw := cfg.GetStringSlice(common.RowsPerPageOptionsConfigPath); len(raw) > 0 {
		opts, err := grid.ParsePageSizes(raw)
		if err != nil {
			return s, fmt.Errorf("%s: %w", common.RowsPerPageOptionsConfigPath, err)
		}
		if len(opts) == 0 {
			return s, fmt.Errorf("%s must list at least one page size", common.RowsPerPageOptionsConfigPath)
		}
		s.RowsPerPageOptions = opts
	}

	s.PageSize = s.RowsPerPageOptions[0]
	if raw := strings.TrimSpace(cfg.GetString(common.PageSizeConfigPath)); raw != "" {
		size, err := grid.ParsePageSize(raw)
		if err != nil {
			return s, fmt.Errorf("%s: %w", common.PageSizeConfigPath, err)
		}
		s.PageSize = size
	}

	if s.Locale == "" {
		s.Locale = common.DefaultLocale
	}
	if _, err := language.Parse(s.Locale); err != nil {
		return s, fmt.Errorf("%s: invalid locale %q", common.LocaleConfigPath, s.Locale)
	}
	return s, nil
}

func duration(cfg Hook, key, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(cfg.GetString(key))
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}
