package theme

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the built-in theme used when no override is provided.
const DefaultName = "leadctl-light"

// Token represents a semantic color slot within the CLI.
type Token string

const (
	ColorTextPrimary   Token = "text.primary"
	ColorTextSecondary Token = "text.secondary"
	ColorTextMuted     Token = "text.muted"
	ColorBorder        Token = "border"
	ColorSurface       Token = "surface"
	ColorPrimary       Token = "primary"
	ColorPrimaryText   Token = "primary.text"
	ColorAccent        Token = "accent"
	ColorAccentText    Token = "accent.text"
	ColorSuccess       Token = "success"
	ColorWarning       Token = "warning"
	ColorDanger        Token = "danger"
	ColorHighlight     Token = "highlight"
)

// Color stores light and dark variants for adaptive rendering.
type Color struct {
	Light string
	Dark  string
}

// Adaptive converts the color into a lipgloss adaptive color.
func (c Color) Adaptive() lipgloss.AdaptiveColor {
	light, dark := strings.TrimSpace(c.Light), strings.TrimSpace(c.Dark)
	switch {
	case light == "" && dark == "":
		return lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}
	case light == "":
		light = dark
	case dark == "":
		dark = light
	}
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Palette represents a concrete theme.
type Palette struct {
	Name        string
	DisplayName string
	Colors      map[Token]Color
}

// Color returns a color for the provided token, falling back to the default palette.
func (p Palette) Color(token Token) Color {
	if c, ok := p.Colors[token]; ok && (c.Light != "" || c.Dark != "") {
		return c.withBothVariants()
	}
	return fallbackColor(token)
}

// Adaptive returns the lipgloss adaptive color for the provided token.
func (p Palette) Adaptive(token Token) lipgloss.AdaptiveColor {
	return p.Color(token).Adaptive()
}

// ForegroundStyle returns a lipgloss style with the foreground set to the requested token.
func (p Palette) ForegroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Adaptive(token))
}

// BackgroundStyle returns a lipgloss style with the background set to the requested token.
func (p Palette) BackgroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Background(p.Adaptive(token))
}

var (
	registryOnce sync.Once
	registryMu   sync.RWMutex
	palettes     map[string]Palette
	names        []string
	current      Palette
	defaultPal   Palette
)

// Available returns the registered theme IDs, sorted, built-in themes first.
func Available() []string {
	ensureRegistry()

	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]string(nil), names...)
}

// Exists returns true when a theme is registered.
func Exists(name string) bool {
	_, ok := Get(name)
	return ok
}

// Get returns the palette with the provided name.
func Get(name string) (Palette, bool) {
	ensureRegistry()

	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := palettes[sanitizeName(name)]
	return p, ok
}

// SetCurrent sets the active palette. An empty name selects the default.
func SetCurrent(name string) error {
	ensureRegistry()

	name = sanitizeName(name)
	if name == "" {
		name = DefaultName
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	p, ok := palettes[name]
	if !ok {
		return fmt.Errorf("unknown color theme %q", name)
	}
	current = p
	return nil
}

// Current returns the active palette.
func Current() Palette {
	ensureRegistry()

	registryMu.RLock()
	defer registryMu.RUnlock()
	return current
}

// Next returns the theme registered after name, wrapping around.
// Unknown names yield the first theme.
func Next(name string) string {
	all := Available()
	name = sanitizeName(name)
	for i, n := range all {
		if n == name {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Flag is a pflag.Value implementation for theme IDs.
type Flag struct {
	value string
}

// NewFlag returns a Flag with the provided default value.
func NewFlag(defaultValue string) *Flag {
	name := sanitizeName(defaultValue)
	if !Exists(name) {
		name = DefaultName
	}
	return &Flag{value: name}
}

func (f *Flag) String() string {
	if f == nil {
		return DefaultName
	}
	return f.value
}

func (f *Flag) Set(v string) error {
	name := sanitizeName(v)
	if name == "" {
		name = DefaultName
	}
	if !Exists(name) {
		return fmt.Errorf("invalid color theme %q", v)
	}
	f.value = name
	return nil
}

func (f *Flag) Type() string {
	return "string"
}

func ensureRegistry() {
	registryOnce.Do(func() {
		registryMu.Lock()
		defer registryMu.Unlock()

		palettes = make(map[string]Palette)
		builtin := []Palette{lightPalette(), darkPalette()}
		for _, p := range builtin {
			registerPalette(p)
			names = append(names, p.Name)
		}
		defaultPal = palettes[DefaultName]
		current = defaultPal

		var tinted []string
		for _, t := range tint.DefaultTints() {
			p := paletteFromTint(t)
			if p.Name == "" {
				continue
			}
			if _, dup := palettes[p.Name]; dup {
				continue
			}
			registerPalette(p)
			tinted = append(tinted, p.Name)
		}
		sort.Strings(tinted)
		names = append(names, tinted...)
	})
}

func registerPalette(p Palette) {
	if p.DisplayName == "" {
		p.DisplayName = p.Name
	}
	if p.Colors == nil {
		p.Colors = map[Token]Color{}
	}
	p.Name = sanitizeName(p.Name)
	palettes[p.Name] = p
}

func (c Color) withBothVariants() Color {
	if strings.TrimSpace(c.Light) == "" {
		c.Light = c.Dark
	}
	if strings.TrimSpace(c.Dark) == "" {
		c.Dark = c.Light
	}
	return c
}

func fallbackColor(token Token) Color {
	ensureRegistry()
	if c, ok := defaultPal.Colors[token]; ok {
		return c.withBothVariants()
	}
	return Color{Light: "#FFFFFF", Dark: "#000000"}
}

func sanitizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func paletteFromTint(t tint.Tint) Palette {
	if t == nil {
		return Palette{}
	}

	fg := normalizeHex(tint.Hex(t.Fg()))
	bg := normalizeHex(tint.Hex(t.Bg()))
	muted := normalizeHex(tint.Hex(t.BrightBlack()))
	accent := normalizeHex(tint.Hex(t.Cyan()))
	accentBright := normalizeHex(tint.Hex(t.BrightBlue()))

	colors := map[Token]Color{
		ColorTextPrimary:   singleColor(fg),
		ColorTextSecondary: shaded(fg, 0.25, 0.2),
		ColorTextMuted:     shaded(muted, 0.35, 0.35),
		ColorBorder:        shaded(muted, 0.15, 0.25),
		ColorSurface:       singleColor(bg),
		ColorPrimary:       singleColor(accent),
		ColorPrimaryText:   singleColor(contrastColor(accent)),
		ColorAccent:        singleColor(accentBright),
		ColorAccentText:    singleColor(contrastColor(accentBright)),
		ColorSuccess:       singleColor(normalizeHex(tint.Hex(t.Green()))),
		ColorWarning:       singleColor(normalizeHex(tint.Hex(t.Yellow()))),
		ColorDanger:        singleColor(normalizeHex(tint.Hex(t.Red()))),
		ColorHighlight:     singleColor(normalizeHex(tint.Hex(t.BrightWhite()))),
	}

	return Palette{
		Name:        sanitizeName(t.ID()),
		DisplayName: strings.TrimSpace(t.DisplayName()),
		Colors:      colors,
	}
}

func singleColor(hex string) Color {
	h := normalizeHex(hex)
	return Color{Light: h, Dark: h}
}

// shaded darkens hex for light terminals and lightens it for dark ones.
func shaded(hex string, darken, lighten float64) Color {
	base := normalizeHex(hex)
	if base == "" {
		return Color{}
	}
	return Color{
		Light: blendHex(base, colorful.Color{}, darken),
		Dark:  blendHex(base, colorful.Color{R: 1, G: 1, B: 1}, lighten),
	}
}

func normalizeHex(hex string) string {
	trimmed := strings.TrimSpace(strings.TrimPrefix(hex, "#"))
	switch {
	case trimmed == "":
		return ""
	case len(trimmed) == 3:
		var b strings.Builder
		b.WriteString("#")
		for _, r := range trimmed {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return strings.ToUpper(b.String())
	case len(trimmed) > 6:
		return "#" + strings.ToUpper(trimmed[:6])
	default:
		return "#" + strings.ToUpper(trimmed)
	}
}

func contrastColor(hex string) string {
	c, err := colorful.Hex(normalizeHex(hex))
	if err != nil {
		return "#121418"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.55 {
		return "#121418"
	}
	return "#F8F8F8"
}

func blendHex(hex string, target colorful.Color, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	amount = max(0, min(amount, 1))
	return strings.ToUpper(c.BlendLab(target, amount).Clamped().Hex())
}

func lightPalette() Palette {
	return Palette{
		Name:        DefaultName,
		DisplayName: "Leadctl Light",
		Colors: map[Token]Color{
			ColorTextPrimary:   singleColor("#14201A"),
			ColorTextSecondary: singleColor("#3F4A44"),
			ColorTextMuted:     singleColor("#6B746F"),
			ColorBorder:        singleColor("#C9D1CC"),
			ColorSurface:       singleColor("#FFFFFF"),
			ColorPrimary:       singleColor("#1D6F5A"),
			ColorPrimaryText:   singleColor("#FFFFFF"),
			ColorAccent:        singleColor("#F2B632"),
			ColorAccentText:    singleColor("#14201A"),
			ColorSuccess:       singleColor("#2E8B57"),
			ColorWarning:       singleColor("#C98A00"),
			ColorDanger:        singleColor("#B3261E"),
			ColorHighlight:     singleColor("#E6EFEA"),
		},
	}
}

func darkPalette() Palette {
	return Palette{
		Name:        "leadctl-dark",
		DisplayName: "Leadctl Dark",
		Colors: map[Token]Color{
			ColorTextPrimary:   singleColor("#F3F6F4"),
			ColorTextSecondary: singleColor("#CDD6D1"),
			ColorTextMuted:     singleColor("#98A39D"),
			ColorBorder:        singleColor("#34403A"),
			ColorSurface:       singleColor("#101714"),
			ColorPrimary:       singleColor("#4FC3A1"),
			ColorPrimaryText:   singleColor("#101714"),
			ColorAccent:        singleColor("#F2B632"),
			ColorAccentText:    singleColor("#101714"),
			ColorSuccess:       singleColor("#5BC98A"),
			ColorWarning:       singleColor("#F2B632"),
			ColorDanger:        singleColor("#F2746B"),
			ColorHighlight:     singleColor("#22302A"),
		},
	}
}
