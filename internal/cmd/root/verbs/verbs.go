package verbs

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	List    = VerbValue("list")
	Summary = VerbValue("summary")
	Screens = VerbValue("screens")
)

// Will represent a specific Verb (list, summary, screens)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}

// NoPositionalArgs rejects positional arguments for commands that take their
// input only from flags.
func NoPositionalArgs(c *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q: %s accepts flags only", args[0], c.CommandPath())
	}
	return nil
}
