package normalizers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLongDesc(t *testing.T) {
	got := LongDesc(`
		List the records of a screen.

		Filters:
		  platform=alpha
	`)
	require.Equal(t, "List the records of a screen.\n\nFilters:\n  platform=alpha", got)
}

func TestExamples(t *testing.T) {
	got := Examples(`
		# first page
		leadctl list vendors
		leadctl list vendors \
		  --page 2
	`)
	require.Equal(t, "  # first page\n  leadctl list vendors\n  leadctl list vendors \\\n    --page 2", got)
	require.Empty(t, Examples("  \n "))
}
