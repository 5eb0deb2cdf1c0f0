package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// FlagEnum is a pflag.Value that only accepts one of Allowed.
type FlagEnum struct {
	Allowed []string
	Value   string
}

func NewEnum(allowed []string, d string) *FlagEnum {
	return &FlagEnum{
		Allowed: allowed,
		Value:   d,
	}
}

func (a FlagEnum) String() string { return a.Value }
func (a *FlagEnum) Type() string  { return "string" }

// Set accepts values case-insensitively and stores them lowercased.
func (a *FlagEnum) Set(p string) error {
	v := strings.ToLower(strings.TrimSpace(p))
	if !slices.Contains(a.Allowed, v) {
		return fmt.Errorf("invalid value %q, must be one of %s", p, strings.Join(a.Allowed, "|"))
	}
	a.Value = v
	return nil
}

// Complete offers the allowed values for shell completion.
func (a *FlagEnum) Complete(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(a.Allowed))
	for _, v := range a.Allowed {
		if strings.HasPrefix(v, strings.ToLower(prefix)) {
			out = append(out, v)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
