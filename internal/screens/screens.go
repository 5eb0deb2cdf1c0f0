// Package screens declares the list screens: which resource each screen
// loads and which columns it shows. Screens are plain configuration compiled
// into grid column tables; column values are JMESPath expressions over the
// record and may be formatted with a text/template using the sprig
// functions.
package screens

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	jmespath "github.com/jmespath/go-jmespath"
	"gopkg.in/yaml.v3"

	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/grid"
)

//go:embed screens.yaml
var builtinYAML []byte

// ErrUnknownScreen is returned by Lookup for names that match no screen.
var ErrUnknownScreen = errors.New("unknown screen")

// File is the on-disk format of screen definitions.
type File struct {
	Screens []Definition `yaml:"screens" json:"screens"`
}

// Definition declares one screen.
type Definition struct {
	Name     string   `yaml:"name" json:"name"`
	Title    string   `yaml:"title,omitempty" json:"title,omitempty"`
	Resource string   `yaml:"resource" json:"resource"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	// FilterPlacement pins the filter dropdown above or below its trigger.
	FilterPlacement string      `yaml:"filterPlacement,omitempty" json:"filterPlacement,omitempty"`
	Columns         []ColumnDef `yaml:"columns" json:"columns"`
}

// ColumnDef declares one column. Path defaults to Key.
type ColumnDef struct {
	Key        string `yaml:"key" json:"key"`
	Label      string `yaml:"label,omitempty" json:"label,omitempty"`
	Path       string `yaml:"path,omitempty" json:"path,omitempty"`
	Sortable   bool   `yaml:"sortable,omitempty" json:"sortable,omitempty"`
	Dates      bool   `yaml:"dates,omitempty" json:"dates,omitempty"`
	Filterable bool   `yaml:"filterable,omitempty" json:"filterable,omitempty"`
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Screen is a compiled definition.
type Screen struct {
	Definition
	Table     *grid.Table[collection.Record]
	Placement grid.Placement
	formats   map[string]*template.Template
}

// Parse reads screen definitions from YAML.
func Parse(r io.Reader) ([]Definition, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing screen definitions: %w", err)
	}
	return f.Screens, nil
}

// Compile validates a definition and builds its column table.
func Compile(def Definition, comparator *grid.Comparator) (*Screen, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, errors.New("screen name must not be empty")
	}
	if strings.TrimSpace(def.Resource) == "" {
		return nil, fmt.Errorf("screen %q: resource must not be empty", def.Name)
	}
	if len(def.Columns) == 0 {
		return nil, fmt.Errorf("screen %q: at least one column is required", def.Name)
	}
	placement, err := grid.ParsePlacement(def.FilterPlacement)
	if err != nil {
		return nil, fmt.Errorf("screen %q: %w", def.Name, err)
	}
	if def.Title == "" {
		def.Title = def.Name
	}

	s := &Screen{
		Definition: def,
		Placement:  placement,
		formats:    map[string]*template.Template{},
	}
	columns := make(grid.Columns[collection.Record], 0, len(def.Columns))
	for i, c := range def.Columns {
		if c.Key == "" {
			return nil, fmt.Errorf("screen %q: columns[%d]: key must not be empty", def.Name, i)
		}
		if _, dup := columns.Find(c.Key); dup {
			return nil, fmt.Errorf("screen %q: duplicate column %q", def.Name, c.Key)
		}
		path := c.Path
		if path == "" {
			path = c.Key
		}
		expr, err := jmespath.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("screen %q: column %q: invalid path %q: %w", def.Name, c.Key, path, err)
		}
		if c.Format != "" {
			tpl, err := template.New(c.Key).Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(c.Format)
			if err != nil {
				return nil, fmt.Errorf("screen %q: column %q: invalid format: %w", def.Name, c.Key, err)
			}
			s.formats[c.Key] = tpl
		}
		label := c.Label
		if label == "" {
			label = c.Key
		}
		columns = append(columns, grid.Column[collection.Record]{
			Key:        c.Key,
			Label:      label,
			Accessor:   accessor(expr),
			Sortable:   c.Sortable,
			Dates:      c.Dates,
			Filterable: c.Filterable,
		})
	}

	s.Table = &grid.Table[collection.Record]{
		Columns:    columns,
		ID:         collection.IDOf,
		Comparator: comparator,
	}
	return s, nil
}

func accessor(expr *jmespath.JMESPath) func(collection.Record) any {
	return func(r collection.Record) any {
		if r.Fields == nil {
			return nil
		}
		v, err := expr.Search(r.Fields)
		if err != nil {
			return nil
		}
		return v
	}
}

// Headers are the column labels in order.
func (s *Screen) Headers() []string {
	out := make([]string, 0, len(s.Table.Columns))
	for _, c := range s.Table.Columns {
		out = append(out, c.Label)
	}
	return out
}

// Cell renders the value of column key for r. Nulls render empty; a format
// that fails to execute falls back to the plain value.
func (s *Screen) Cell(key string, r collection.Record) string {
	col, ok := s.Table.Columns.Find(key)
	if !ok {
		return ""
	}
	v := col.Value(r)
	if v == nil {
		return ""
	}
	if tpl, ok := s.formats[key]; ok {
		var buf bytes.Buffer
		if err := tpl.Execute(&buf, Plain(v)); err == nil {
			return buf.String()
		}
	}
	return Text(v)
}

// Row renders every column of r.
func (s *Screen) Row(r collection.Record) []string {
	out := make([]string, 0, len(s.Table.Columns))
	for _, c := range s.Table.Columns {
		out = append(out, s.Cell(c.Key, r))
	}
	return out
}

// Text renders a raw field value without a format.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

// Plain converts json.Number values into int64 or float64 so template
// functions see real numbers.
func Plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = Plain(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = Plain(child)
		}
		return out
	default:
		return v
	}
}

// Registry holds the compiled screens by name and alias.
type Registry struct {
	screens []*Screen
	byName  map[string]*Screen
}

// NewRegistry compiles defs. A later definition with the name of an earlier
// one replaces it in place.
func NewRegistry(defs []Definition, comparator *grid.Comparator) (*Registry, error) {
	r := &Registry{byName: map[string]*Screen{}}
	for _, def := range defs {
		s, err := Compile(def, comparator)
		if err != nil {
			return nil, err
		}
		if i := slices.IndexFunc(r.screens, func(e *Screen) bool { return strings.EqualFold(e.Name, s.Name) }); i >= 0 {
			r.screens[i] = s
		} else {
			r.screens = append(r.screens, s)
		}
	}
	for _, s := range r.screens {
		for _, name := range append([]string{s.Name}, s.Aliases...) {
			name = strings.ToLower(name)
			if other, taken := r.byName[name]; taken && other != s {
				return nil, fmt.Errorf("screen name %q is used by both %q and %q", name, other.Name, s.Name)
			}
			r.byName[name] = s
		}
	}
	return r, nil
}

// Builtin returns the built-in definitions.
func Builtin() ([]Definition, error) {
	return Parse(bytes.NewReader(builtinYAML))
}

// Load compiles the built-in screens merged with the definitions in path. An
// empty path loads the built-in screens only.
func Load(path string, comparator *grid.Comparator) (*Registry, error) {
	defs, err := Builtin()
	if err != nil {
		return nil, err
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening screens file: %w", err)
		}
		defer f.Close()
		extra, err := Parse(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defs = append(defs, extra...)
	}
	return NewRegistry(defs, comparator)
}

// Lookup finds a screen by name or alias.
func (r *Registry) Lookup(name string) (*Screen, error) {
	if s, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w %q, must be one of %v", ErrUnknownScreen, name, r.Names())
}

// Screens returns the screens in definition order.
func (r *Registry) Screens() []*Screen {
	return slices.Clone(r.screens)
}

// Names returns the screen names in definition order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.screens))
	for _, s := range r.screens {
		out = append(out, s.Name)
	}
	return out
}
