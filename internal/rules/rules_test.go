package rules

import "testing"

func mustEngine(t *testing.T, rs ...Rule) *Engine {
	t.Helper()
	e, err := NewEngine(rs)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestMatch_FirstRegisteredRuleWins(t *testing.T) {
	e := mustEngine(t,
		Rule{ID: "first", Class: "Firefox", Tag: 2, Screen: Unset},
		Rule{ID: "second", Class: "Fire*", Tag: 5, Screen: 1, Flags: Free},
	)

	d := e.Match(Attrs{Class: "Firefox"})
	if d.Rule != "first" {
		t.Fatalf("expected first rule, got %q", d.Rule)
	}
	if d.Tag != 2 || d.Screen != Unset {
		t.Fatalf("expected tag 2 and unset screen, got tag %d screen %d", d.Tag, d.Screen)
	}
	if d.Flags != 0 {
		t.Fatalf("expected no flags from the first rule, got %s", d.Flags)
	}
}

func TestMatch_NoMatchReturnsUnsetDirective(t *testing.T) {
	e := mustEngine(t, Rule{Class: "Gimp", Tag: 3})
	d := e.Match(Attrs{Class: "xterm"})
	if d.Matched() {
		t.Fatalf("expected no match, got %q", d.Rule)
	}
	if d.Tag != Unset || d.Screen != Unset {
		t.Fatalf("expected unset targets, got tag %d screen %d", d.Tag, d.Screen)
	}
}

func TestMatch_AllPatternsMustMatch(t *testing.T) {
	e := mustEngine(t, Rule{ID: "dialog", Class: "Gimp", Role: "gimp-toolbox", Tag: Unset, Screen: Unset, Flags: Free})

	if d := e.Match(Attrs{Class: "Gimp", Role: "gimp-image-window"}); d.Matched() {
		t.Fatalf("expected role mismatch to reject rule")
	}
	if d := e.Match(Attrs{Class: "Gimp", Role: "gimp-toolbox"}); !d.Flags.Has(Free) {
		t.Fatalf("expected free flag, got %s", d.Flags)
	}
}

func TestMatch_GlobSpansSlashes(t *testing.T) {
	e := mustEngine(t,
		Rule{ID: "browser", Name: "*Firefox*", Tag: 2, Screen: Unset},
		Rule{ID: "editor", Name: "~/src - ?im", Tag: 3, Screen: Unset},
	)
	tests := []struct {
		title string
		want  string
	}{
		{"GitHub / pulls - Mozilla Firefox", "browser"},
		{"Mozilla Firefox", "browser"},
		{"~/src - vim", "editor"},
		{"~/src/tagtile - vim", ""},
		{"xterm", ""},
	}
	for _, tt := range tests {
		if d := e.Match(Attrs{Name: tt.title}); d.Rule != tt.want {
			t.Fatalf("title %q: expected rule %q, got %q", tt.title, tt.want, d.Rule)
		}
	}
}

func TestMatch_RegexPatterns(t *testing.T) {
	e := mustEngine(t, Rule{ID: "term", Name: "re:^vim .*/src$", Tag: 1, Screen: Unset})
	if d := e.Match(Attrs{Name: "vim ~/code/src"}); d.Rule != "term" {
		t.Fatalf("expected regex rule to match, got %q", d.Rule)
	}
	if d := e.Match(Attrs{Name: "emacs"}); d.Matched() {
		t.Fatalf("expected regex rule not to match")
	}
}

func TestNewEngine_RejectsBadPatterns(t *testing.T) {
	if _, err := NewEngine([]Rule{{Class: "re:("}}); err == nil {
		t.Fatalf("expected error for bad regex")
	}
	if _, err := NewEngine([]Rule{{Class: "[a-"}}); err == nil {
		t.Fatalf("expected error for bad glob")
	}
}

func TestNewEngine_AssignsIDsInOrder(t *testing.T) {
	e := mustEngine(t, Rule{Class: "a"}, Rule{Class: "b"})
	rs := e.Rules()
	if rs[0].ID != "rule-1" || rs[1].ID != "rule-2" {
		t.Fatalf("expected generated ids, got %q %q", rs[0].ID, rs[1].ID)
	}
}

func TestFlagsAreAdditive(t *testing.T) {
	f := Free | IgnoreTag
	if !f.Has(Free) || !f.Has(IgnoreTag) || f.Has(Max) {
		t.Fatalf("unexpected flag set %s", f)
	}
	if f.String() != "free|ignore_tag" {
		t.Fatalf("unexpected string %q", f.String())
	}
}

func TestParseFlag(t *testing.T) {
	cases := map[string]Flag{"free": Free, "MAX": Max, "ignore-tag": IgnoreTag}
	for in, want := range cases {
		got, err := ParseFlag(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseFlag("sticky"); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestNilEngineMatchesNothing(t *testing.T) {
	var e *Engine
	if d := e.Match(Attrs{Class: "x"}); d.Matched() {
		t.Fatalf("expected nil engine to match nothing")
	}
}
