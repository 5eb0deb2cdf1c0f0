package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

var (
	renderers   = map[Options]*glamour.TermRenderer{}
	renderersMu sync.Mutex
)

// Options controls markdown rendering behaviour.
type Options struct {
	NoColor bool
	Width   int
}

// Field is one labelled value of a record detail.
type Field struct {
	Label string
	Value string
}

// Markdown renders the provided Markdown string for terminal output. On
// renderer failure the source is returned word wrapped.
func Markdown(markdown string, opts Options) string {
	r, err := renderer(opts)
	if err != nil {
		return wrap(markdown, opts.Width)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return wrap(markdown, opts.Width)
	}
	return normalizeSpacing(out)
}

// RecordMarkdown builds the markdown detail document of a record: a heading,
// one bullet per field and the raw JSON in a fenced block.
func RecordMarkdown(title string, fields []Field, rawJSON string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escape(title))
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			value = "_empty_"
		} else {
			value = escape(value)
		}
		fmt.Fprintf(&sb, "- **%s**: %s\n", escape(f.Label), value)
	}
	if rawJSON != "" {
		fmt.Fprintf(&sb, "\n```json\n%s\n```\n", strings.TrimRight(rawJSON, "\n"))
	}
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`).Replace(s)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

func normalizeSpacing(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

func renderer(opts Options) (*glamour.TermRenderer, error) {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[opts]; ok {
		return r, nil
	}

	var options []glamour.TermRendererOption
	if opts.NoColor {
		options = append(options,
			glamour.WithStandardStyle("notty"),
			glamour.WithColorProfile(termenv.Ascii),
		)
	} else {
		options = append(options,
			glamour.WithAutoStyle(),
			glamour.WithColorProfile(termenv.TrueColor),
		)
	}
	if opts.Width > 0 {
		options = append(options, glamour.WithWordWrap(opts.Width))
	}
	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, err
	}
	renderers[opts] = r
	return r, nil
}
