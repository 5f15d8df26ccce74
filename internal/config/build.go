package config

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/rules"
	"github.com/1broseidon/tagtile/internal/theme"
)

// Build turns the definition into a validated layout set. gap is the
// global gap used when the definition does not set its own.
func (d LayoutDef) Build(name string, gap int) (layout.Set, error) {
	if d.Gap != nil {
		gap = *d.Gap
	}
	if gap < 0 {
		return layout.Set{}, fmt.Errorf("gap must be >= 0")
	}

	if len(d.Partitions) > 0 {
		if d.Generator != "" {
			return layout.Set{}, fmt.Errorf("generator and partitions are mutually exclusive")
		}
		set := layout.Set{Name: name, Floating: d.Floating, Gap: gap}
		for _, p := range d.Partitions {
			set.Partitions = append(set.Partitions, layout.Partition(p))
		}
		if err := set.Validate(); err != nil {
			return layout.Set{}, err
		}
		return set, nil
	}

	if d.Generator == "" {
		// A definition with neither gives every member the full area.
		return layout.Set{Name: name, Floating: d.Floating, Gap: gap}, nil
	}
	algo, err := layout.ParseAlgorithm(d.Generator)
	if err != nil {
		return layout.Set{}, err
	}
	if d.MaxSlots < 0 {
		return layout.Set{}, fmt.Errorf("max_slots must be >= 0")
	}
	if d.MasterFactor < 0 || d.MasterFactor >= 1 {
		return layout.Set{}, fmt.Errorf("master_factor must be in [0,1)")
	}
	set, err := layout.Generate(name, algo, layout.GenerateOptions{
		MaxSlots:     d.MaxSlots,
		MasterFactor: d.MasterFactor,
		Gap:          gap,
	})
	if err != nil {
		return layout.Set{}, err
	}
	if d.Floating {
		set.Floating = true
	}
	return set, nil
}

// Catalog builds every configured layout, in name order.
func (c *Config) Catalog() (*layout.Catalog, error) {
	sets := make([]layout.Set, 0, len(c.Layouts))
	for _, name := range sortedKeys(c.Layouts) {
		set, err := c.Layouts[name].Build(name, c.GapSize)
		if err != nil {
			return nil, &ValidationError{Path: "layouts." + name, Err: err}
		}
		sets = append(sets, set)
	}
	return layout.NewCatalog(sets...)
}

// TagLayouts returns the layout cycle of the i-th configured tag.
func (c *Config) TagLayouts(i int) []string {
	if i >= 0 && i < len(c.Tags) && len(c.Tags[i].Layouts) > 0 {
		return c.Tags[i].Layouts
	}
	return c.DefaultLayouts
}

// TagNames returns the configured tag names in order.
func (c *Config) TagNames() []string {
	out := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		out[i] = t.Name
	}
	return out
}

// RuleEngine compiles the configured rules in declaration order.
func (c *Config) RuleEngine() (*rules.Engine, error) {
	rs := make([]rules.Rule, 0, len(c.Rules))
	for i, d := range c.Rules {
		r := rules.Rule{
			ID:       d.ID,
			Class:    d.Class,
			Instance: d.Instance,
			Role:     d.Role,
			Name:     d.Name,
			Tag:      d.Tag - 1,
			Screen:   d.Screen - 1,
			Theme:    d.Theme,
		}
		if d.Tag <= 0 {
			r.Tag = rules.Unset
		}
		if d.Screen <= 0 {
			r.Screen = rules.Unset
		}
		for _, name := range d.Flags {
			f, err := rules.ParseFlag(name)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i+1, err)
			}
			r.Flags |= f
		}
		rs = append(rs, r)
	}
	return rules.NewEngine(rs)
}

// Build applies the definition over the default theme.
func (d ThemeDef) Build(name string) (theme.Theme, error) {
	t := theme.Default()
	t.Name = name

	colors := []struct {
		key string
		val string
		dst *theme.Color
	}{
		{"bar_fg", d.BarFG, &t.Bar.FG},
		{"bar_bg", d.BarBG, &t.Bar.BG},
		{"tag_fg", d.TagFG, &t.TagNormal.FG},
		{"tag_bg", d.TagBG, &t.TagNormal.BG},
		{"tag_selected_fg", d.TagSelectedFG, &t.TagSelected.FG},
		{"tag_selected_bg", d.TagSelectedBG, &t.TagSelected.BG},
		{"tag_border", d.TagBorder, &t.TagBorder},
		{"client_fg", d.ClientFG, &t.ClientNormal.FG},
		{"client_bg", d.ClientBG, &t.ClientNormal.BG},
		{"client_selected_fg", d.ClientSelectedFG, &t.ClientSelected.FG},
		{"client_selected_bg", d.ClientSelectedBG, &t.ClientSelected.BG},
		{"frame_bg", d.FrameBG, &t.FrameBG},
	}
	for _, c := range colors {
		if c.val == "" {
			continue
		}
		v, err := theme.ParseColor(c.val)
		if err != nil {
			return theme.Theme{}, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.dst = v
	}

	sizes := []struct {
		key string
		val *int
		dst *int
	}{
		{"bar_height", d.BarHeight, &t.BarHeight},
		{"titlebar_height", d.TitlebarHeight, &t.TitlebarHeight},
		{"border_width", d.BorderWidth, &t.BorderWidth},
	}
	for _, s := range sizes {
		if s.val == nil {
			continue
		}
		if *s.val < 0 {
			return theme.Theme{}, fmt.Errorf("%s must be >= 0", s.key)
		}
		*s.dst = *s.val
	}
	return t, nil
}

// RegisterThemes registers every configured theme. Re-registering a name
// retires the previous theme; clients holding it keep it until released.
func (c *Config) RegisterThemes(reg *theme.Registry) error {
	for _, name := range sortedKeys(c.Themes) {
		t, err := c.Themes[name].Build(name)
		if err != nil {
			return &ValidationError{Path: "themes." + name, Err: err}
		}
		reg.Register(t)
	}
	return nil
}
