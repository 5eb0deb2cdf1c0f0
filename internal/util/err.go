package util

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// CheckError exits the process when err is set. A cancelled context exits
// with 130 like an interrupted shell command.
func CheckError(err error) {
	if errors.Is(err, context.Canceled) {
		os.Exit(130)
	}
	cobra.CheckErr(err)
}
