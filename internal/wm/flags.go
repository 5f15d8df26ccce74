package wm

import "strings"

// Flag is a set of per-client markers.
type Flag uint16

const (
	// FlagHinted is set when the client supplied size hints.
	FlagHinted Flag = 1 << iota
	// FlagIgnoreEnter suppresses the next pointer-enter focus change.
	FlagIgnoreEnter
	// FlagDidResize is set once the client asked for its own geometry.
	FlagDidResize
	// FlagFactorApplied is set after a user resize factor was applied.
	FlagFactorApplied
	// FlagFree keeps the client out of the tiled partition.
	FlagFree
	// FlagRuled is set when a rule decided placement.
	FlagRuled
	// FlagTabbed marks a client shown inside another client's frame.
	FlagTabbed
	// FlagTabMaster marks a client hosting at least one tabbed client.
	FlagTabMaster
	// FlagDying is set between BeginDying and Finalize.
	FlagDying
	// FlagSticky makes the client follow the selected tag of its screen.
	FlagSticky
)

var flagNames = []struct {
	f    Flag
	name string
}{
	{FlagHinted, "hinted"},
	{FlagIgnoreEnter, "ignore_enter"},
	{FlagDidResize, "did_resize"},
	{FlagFactorApplied, "factor_applied"},
	{FlagFree, "free"},
	{FlagRuled, "ruled"},
	{FlagTabbed, "tabbed"},
	{FlagTabMaster, "tab_master"},
	{FlagDying, "dying"},
	{FlagSticky, "sticky"},
}

// Has reports whether every bit of o is set in f.
func (f Flag) Has(o Flag) bool { return f&o == o }

// Set returns f with o added.
func (f Flag) Set(o Flag) Flag { return f | o }

// Clear returns f with o removed.
func (f Flag) Clear(o Flag) Flag { return f &^ o }

func (f Flag) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.f) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ",")
}
