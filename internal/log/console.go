package log

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
)

// HintKey is rendered on its own line below the console summary.
const HintKey = "hint"

var consoleMutes atomic.Int32

// MuteConsole stops records from reaching console handlers until the
// returned func is called. Calls nest.
func MuteConsole() (restore func()) {
	consoleMutes.Add(1)
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			consoleMutes.Add(-1)
		}
	}
}

func consoleMuted() bool {
	return consoleMutes.Load() > 0
}

// NewTeeHandler sends every record file accepts to file, and copies records
// the console accepts to console while the console is not muted.
func NewTeeHandler(file, console slog.Handler) slog.Handler {
	return &teeHandler{file: file, console: console}
}

type teeHandler struct {
	file    slog.Handler
	console slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.fileEnabled(ctx, level) || h.consoleEnabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.fileEnabled(ctx, record.Level) {
		if err := h.file.Handle(ctx, record); err != nil {
			return err
		}
	}
	if h.consoleEnabled(ctx, record.Level) {
		return h.console.Handle(ctx, record.Clone())
	}
	return nil
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{
		file:    apply(h.file, func(x slog.Handler) slog.Handler { return x.WithAttrs(attrs) }),
		console: apply(h.console, func(x slog.Handler) slog.Handler { return x.WithAttrs(attrs) }),
	}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{
		file:    apply(h.file, func(x slog.Handler) slog.Handler { return x.WithGroup(name) }),
		console: apply(h.console, func(x slog.Handler) slog.Handler { return x.WithGroup(name) }),
	}
}

func (h *teeHandler) fileEnabled(ctx context.Context, level slog.Level) bool {
	return h.file != nil && h.file.Enabled(ctx, level)
}

func (h *teeHandler) consoleEnabled(ctx context.Context, level slog.Level) bool {
	return h.console != nil && !consoleMuted() && h.console.Enabled(ctx, level)
}

func apply(h slog.Handler, fn func(slog.Handler) slog.Handler) slog.Handler {
	if h == nil {
		return nil
	}
	return fn(h)
}

// NewConsoleHandler renders records at or above level as short human readable
// blocks:
//
//	Error: failed to list vendors
//	  hint: check the vendors endpoint
//	  screen: vendors
func NewConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return &consoleHandler{w: w, min: level}
}

type consoleHandler struct {
	w      io.Writer
	min    slog.Level
	attrs  []slog.Attr
	prefix string
}

type field struct {
	key   string
	value string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, 0, len(h.attrs)+record.NumAttrs())
	add := func(key string, v slog.Value) {
		if s := strings.TrimSpace(formatValue(v.Resolve())); s != "" {
			fields = append(fields, field{key: key, value: s})
		}
	}
	for _, a := range h.attrs {
		add(a.Key, a.Value)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(h.prefix+a.Key, a.Value)
		return true
	})

	summary := strings.TrimSpace(record.Message)
	var hint string
	rest := fields[:0:0]
	for _, f := range fields {
		switch {
		case f.key == HintKey:
			hint = f.value
		case f.key == "error" && summary == "":
			summary = f.value
		default:
			rest = append(rest, f)
		}
	}
	if summary == "" {
		summary = "unknown failure"
	}
	slices.SortStableFunc(rest, func(a, b field) int { return cmp.Compare(a.key, b.key) })

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", levelTitle(record.Level), summary)
	if hint != "" {
		fmt.Fprintf(&sb, "  %s: %s\n", HintKey, hint)
	}
	for _, f := range rest {
		lines := strings.Split(f.value, "\n")
		fmt.Fprintf(&sb, "  %s: %s\n", f.key, strings.TrimSpace(lines[0]))
		for _, line := range lines[1:] {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(&sb, "    %s\n", line)
			}
		}
	}
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func levelTitle(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "Error"
	case level >= slog.LevelWarn:
		return "Warning"
	default:
		return "Note"
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+formatValue(a.Value.Resolve()))
		}
		return strings.Join(parts, ", ")
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}
