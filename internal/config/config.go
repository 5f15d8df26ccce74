package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagtile/internal/bar"
	"github.com/1broseidon/tagtile/internal/command"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/theme"
)

// Config is the effective daemon configuration.
type Config struct {
	Include IncludeList `yaml:"include,omitempty"`

	// Display overrides $DISPLAY for the X connection.
	Display  string `yaml:"display,omitempty"`
	LogLevel string `yaml:"log_level"`
	GapSize  int    `yaml:"gap_size"`

	Bar  BarConfig   `yaml:"bar"`
	Tags []TagConfig `yaml:"tags"`

	DefaultLayouts []string             `yaml:"default_layouts"`
	Layouts        map[string]LayoutDef `yaml:"layouts"`

	DefaultTheme string              `yaml:"default_theme"`
	Themes       map[string]ThemeDef `yaml:"themes,omitempty"`

	Rules    []RuleDef `yaml:"rules,omitempty"`
	Keybinds []Keybind `yaml:"keybinds"`

	// ReconcileInterval is how often clients stuck dying are checked
	// against the X server. Zero disables the check.
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	// MetricsAddr enables the Prometheus endpoint when set, e.g. "127.0.0.1:9464".
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// BarConfig configures the per-screen info bar.
type BarConfig struct {
	Position string `yaml:"position"`
	Height   int    `yaml:"height"`
	// Elements is the element order, one character each: t tags, n title,
	// l layout, s status.
	Elements string `yaml:"elements"`
}

// TagConfig declares one tag created on every screen.
type TagConfig struct {
	Name string `yaml:"name"`
	// Layouts overrides default_layouts for this tag.
	Layouts []string `yaml:"layouts,omitempty"`
}

// LayoutDef is either a generated layout or an explicit partition list.
type LayoutDef struct {
	Generator    string  `yaml:"generator,omitempty"`
	MaxSlots     int     `yaml:"max_slots,omitempty"`
	MasterFactor float64 `yaml:"master_factor,omitempty"`
	// Gap overrides gap_size for this layout.
	Gap        *int            `yaml:"gap,omitempty"`
	Floating   bool            `yaml:"floating,omitempty"`
	Partitions [][]layout.Slot `yaml:"partitions,omitempty"`
}

// ThemeDef overrides fields of the default theme. Colors are "#rrggbb";
// empty colors and nil sizes keep the default.
type ThemeDef struct {
	BarFG            string `yaml:"bar_fg,omitempty"`
	BarBG            string `yaml:"bar_bg,omitempty"`
	BarHeight        *int   `yaml:"bar_height,omitempty"`
	TagFG            string `yaml:"tag_fg,omitempty"`
	TagBG            string `yaml:"tag_bg,omitempty"`
	TagSelectedFG    string `yaml:"tag_selected_fg,omitempty"`
	TagSelectedBG    string `yaml:"tag_selected_bg,omitempty"`
	TagBorder        string `yaml:"tag_border,omitempty"`
	ClientFG         string `yaml:"client_fg,omitempty"`
	ClientBG         string `yaml:"client_bg,omitempty"`
	ClientSelectedFG string `yaml:"client_selected_fg,omitempty"`
	ClientSelectedBG string `yaml:"client_selected_bg,omitempty"`
	FrameBG          string `yaml:"frame_bg,omitempty"`
	TitlebarHeight   *int   `yaml:"titlebar_height,omitempty"`
	BorderWidth      *int   `yaml:"border_width,omitempty"`
}

// RuleDef is a placement rule. Tag and Screen are 1-based positions; zero
// leaves the target unset.
type RuleDef struct {
	ID       string   `yaml:"id,omitempty"`
	Class    string   `yaml:"class,omitempty"`
	Instance string   `yaml:"instance,omitempty"`
	Role     string   `yaml:"role,omitempty"`
	Name     string   `yaml:"name,omitempty"`
	Tag      int      `yaml:"tag,omitempty"`
	Screen   int      `yaml:"screen,omitempty"`
	Theme    string   `yaml:"theme,omitempty"`
	Flags    []string `yaml:"flags,omitempty"`
}

// Keybind binds an xgbutil key sequence such as "Mod4-Shift-j" to an action.
type Keybind struct {
	Key    string `yaml:"key"`
	Action string `yaml:"action"`
	Arg    string `yaml:"arg,omitempty"`
}

// ValidationError points at the offending config path and, when known,
// the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(path string, format string, args ...any) error {
	return &ValidationError{Path: path, Err: fmt.Errorf(format, args...)}
}

// DefaultConfig returns the builtin configuration.
func DefaultConfig() *Config {
	tags := make([]TagConfig, 0, 5)
	for i := 1; i <= 5; i++ {
		tags = append(tags, TagConfig{Name: fmt.Sprint(i)})
	}
	return &Config{
		LogLevel: "info",
		GapSize:  0,
		Bar: BarConfig{
			Position: "top",
			Height:   18,
			Elements: bar.DefaultOrder,
		},
		Tags:              tags,
		DefaultLayouts:    []string{"tile", "monocle", "float"},
		Layouts:           BuiltinLayouts(),
		DefaultTheme:      theme.DefaultName,
		Keybinds:          DefaultKeybinds(len(tags)),
		ReconcileInterval: 2 * time.Second,
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log_level", "log_level must be one of: debug, info, warn, error")
	}
	if c.GapSize < 0 {
		return invalid("gap_size", "gap_size must be >= 0")
	}
	if c.ReconcileInterval < 0 {
		return invalid("reconcile_interval", "reconcile_interval must be >= 0")
	}

	if _, err := bar.ParsePosition(c.Bar.Position); err != nil {
		return &ValidationError{Path: "bar.position", Err: err}
	}
	if c.Bar.Height < 0 {
		return invalid("bar.height", "height must be >= 0")
	}
	if _, err := bar.ParseElements(c.Bar.Elements); err != nil {
		return &ValidationError{Path: "bar.elements", Err: err}
	}

	if len(c.Layouts) == 0 {
		return invalid("layouts", "layouts must not be empty")
	}
	for _, name := range sortedKeys(c.Layouts) {
		if _, err := c.Layouts[name].Build(name, c.GapSize); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}
	if len(c.DefaultLayouts) == 0 {
		return invalid("default_layouts", "default_layouts must not be empty")
	}
	for _, name := range c.DefaultLayouts {
		if _, ok := c.Layouts[name]; !ok {
			return invalid("default_layouts", "layout %q not found in layouts", name)
		}
	}

	if len(c.Tags) == 0 {
		return invalid("tags", "tags must not be empty")
	}
	seen := make(map[string]bool, len(c.Tags))
	for i, t := range c.Tags {
		if strings.TrimSpace(t.Name) == "" {
			return invalid(fmt.Sprintf("tags.%d.name", i), "tag name is required")
		}
		if seen[t.Name] {
			return invalid(fmt.Sprintf("tags.%d.name", i), "duplicate tag %q", t.Name)
		}
		seen[t.Name] = true
		for _, name := range t.Layouts {
			if _, ok := c.Layouts[name]; !ok {
				return invalid(fmt.Sprintf("tags.%d.layouts", i), "layout %q not found in layouts", name)
			}
		}
	}

	for _, name := range sortedKeys(c.Themes) {
		if name == theme.DefaultName {
			return invalid("themes."+name, "the %q theme is builtin", theme.DefaultName)
		}
		if _, err := c.Themes[name].Build(name); err != nil {
			return &ValidationError{Path: "themes." + name, Err: err}
		}
	}
	if !c.hasTheme(c.DefaultTheme) {
		return invalid("default_theme", "theme %q not found in themes", c.DefaultTheme)
	}

	for i, r := range c.Rules {
		path := fmt.Sprintf("rules.%d", i)
		if r.Tag < 0 || r.Tag > len(c.Tags) {
			return invalid(path+".tag", "tag must be between 1 and %d", len(c.Tags))
		}
		if r.Screen < 0 {
			return invalid(path+".screen", "screen must be >= 1")
		}
		if r.Theme != "" && !c.hasTheme(r.Theme) {
			return invalid(path+".theme", "theme %q not found in themes", r.Theme)
		}
		for _, f := range r.Flags {
			if _, err := rules.ParseFlag(f); err != nil {
				return &ValidationError{Path: path + ".flags", Err: err}
			}
		}
	}
	if _, err := c.RuleEngine(); err != nil {
		return &ValidationError{Path: "rules", Err: err}
	}

	for i, kb := range c.Keybinds {
		path := fmt.Sprintf("keybinds.%d", i)
		if strings.TrimSpace(kb.Key) == "" {
			return invalid(path+".key", "key is required")
		}
		if _, err := command.ParseAction(kb.Action); err != nil {
			return &ValidationError{Path: path + ".action", Err: err}
		}
	}
	return nil
}

func (c *Config) hasTheme(name string) bool {
	if name == "" || name == theme.DefaultName {
		return true
	}
	_, ok := c.Themes[name]
	return ok
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	save := *c
	save.Include = nil
	data, err := yaml.Marshal(&save)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save validates c and writes it to the default config path.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes c to path, creating the directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
