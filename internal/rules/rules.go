// Package rules matches new windows against declarative placement rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Unset marks a tag or screen target the rule does not override.
const Unset = -1

// Flag is a bit set of rule effects.
type Flag uint8

const (
	// Free places the client outside the tiled partition.
	Free Flag = 1 << iota
	// Max starts the client free and sized to the usable area.
	Max
	// IgnoreTag keeps the client visible on whichever tag is selected.
	IgnoreTag
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{Free, "free"},
	{Max, "max"},
	{IgnoreTag, "ignore_tag"},
}

// Has reports whether every bit of o is set.
func (f Flag) Has(o Flag) bool { return f&o == o }

func (f Flag) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseFlag resolves a flag name as written in the config file.
func ParseFlag(name string) (Flag, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	for _, fn := range flagNames {
		if fn.name == n {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown rule flag %q", name)
}

// Attrs are the identifying attributes of a window at manage time.
type Attrs struct {
	Class    string
	Instance string
	Role     string
	Name     string
}

// Rule is one declarative placement rule. Empty patterns match anything.
type Rule struct {
	ID       string
	Class    string
	Instance string
	Role     string
	Name     string
	Tag      int
	Screen   int
	Theme    string
	Flags    Flag
}

// Directive is the outcome of matching.
type Directive struct {
	// Rule is the ID of the matching rule, empty when nothing matched.
	Rule   string
	Tag    int
	Screen int
	Theme  string
	Flags  Flag
}

// Matched reports whether a rule produced this directive.
func (d Directive) Matched() bool { return d.Rule != "" }

// None is the directive returned when no rule matches.
var None = Directive{Tag: Unset, Screen: Unset}

type matcher func(string) bool

type compiled struct {
	rule     Rule
	matchers [4]matcher
}

// Engine holds compiled rules in registration order.
type Engine struct {
	rules []compiled
}

// NewEngine compiles rules. Patterns are globs (*, ?, [...], {a,b}), or
// regular expressions when prefixed with "re:".
func NewEngine(rules []Rule) (*Engine, error) {
	e := &Engine{rules: make([]compiled, 0, len(rules))}
	for i, r := range rules {
		if r.ID == "" {
			r.ID = fmt.Sprintf("rule-%d", i+1)
		}
		c := compiled{rule: r}
		for j, pat := range []string{r.Class, r.Instance, r.Role, r.Name} {
			m, err := compilePattern(pat)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", r.ID, err)
			}
			c.matchers[j] = m
		}
		e.rules = append(e.rules, c)
	}
	return e, nil
}

// Len returns the number of rules.
func (e *Engine) Len() int {
	if e == nil {
		return 0
	}
	return len(e.rules)
}

// Rules returns the rules in registration order.
func (e *Engine) Rules() []Rule {
	if e == nil {
		return nil
	}
	out := make([]Rule, len(e.rules))
	for i, c := range e.rules {
		out[i] = c.rule
	}
	return out
}

// Match returns the directive of the first rule whose every pattern
// matches a. Later rules are never consulted once one matches.
func (e *Engine) Match(a Attrs) Directive {
	if e == nil {
		return None
	}
	values := [4]string{a.Class, a.Instance, a.Role, a.Name}
	for _, c := range e.rules {
		if !c.matches(values) {
			continue
		}
		return Directive{
			Rule:   c.rule.ID,
			Tag:    c.rule.Tag,
			Screen: c.rule.Screen,
			Theme:  c.rule.Theme,
			Flags:  c.rule.Flags,
		}
	}
	return None
}

func (c compiled) matches(values [4]string) bool {
	for i, m := range c.matchers {
		if m != nil && !m(values[i]) {
			return false
		}
	}
	return true
}

func compilePattern(pat string) (matcher, error) {
	if pat == "" {
		return nil, nil
	}
	if expr, ok := strings.CutPrefix(pat, "re:"); ok {
		rgx, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pat, err)
		}
		return rgx.MatchString, nil
	}
	// No separators: titles and instances are not paths, so * spans "/".
	g, err := glob.Compile(pat)
	if err != nil {
		return nil, fmt.Errorf("bad glob %q: %w", pat, err)
	}
	return g.Match, nil
}
