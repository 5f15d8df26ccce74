package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigValidate(t *testing.T) {
	good := writeConfig(t, "gap_size: 4\nbar:\n  position: bottom\n")
	out, err := execute(t, "config", "validate", "--config", good)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.TrimSpace(out) != "config: ok" {
		t.Fatalf("unexpected output %q", out)
	}

	bad := writeConfig(t, "gap_size: -4\n")
	if _, err := execute(t, "config", "validate", "--config", bad); err == nil {
		t.Fatal("expected validation error")
	}

	unknown := writeConfig(t, "no_such_key: 1\n")
	if _, err := execute(t, "config", "validate", "--config", unknown); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestConfigPrintAndExplain(t *testing.T) {
	path := writeConfig(t, "bar:\n  position: bottom\n")

	out, err := execute(t, "config", "print", "--config", path)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "# file: ") || !strings.Contains(out, "position: bottom") {
		t.Fatalf("unexpected print output:\n%s", out)
	}

	out, err = execute(t, "config", "print", "--defaults")
	if err != nil {
		t.Fatalf("print --defaults: %v", err)
	}
	if strings.Contains(out, "# file: ") || !strings.Contains(out, "position: top") {
		t.Fatalf("unexpected defaults output:\n%s", out)
	}

	out, err = execute(t, "config", "explain", "--config", path, "bar.position")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "source: file:") || !strings.Contains(out, "bottom") {
		t.Fatalf("unexpected explain output:\n%s", out)
	}

	out, err = execute(t, "config", "explain", "--config", path, "bar.height")
	if err != nil {
		t.Fatalf("explain default: %v", err)
	}
	if !strings.Contains(out, "source: default") || !strings.Contains(out, "18") {
		t.Fatalf("unexpected explain output:\n%s", out)
	}
}

func TestLayoutListFallsBackToConfig(t *testing.T) {
	path := writeConfig(t, "default_layouts: [monocle, tile]\n")
	socket := filepath.Join(t.TempDir(), "missing.sock")
	out, err := execute(t, "layout", "list", "--config", path, "--socket", socket)
	if err != nil {
		t.Fatalf("layout list: %v", err)
	}
	for _, want := range []string{"* monocle", "  tile", "float", "default cycle: monocle → tile"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestDispatchNeedsDaemon(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.sock")
	_, err := execute(t, "dispatch", "tag_set", "2", "--socket", socket)
	if err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
	if _, err := execute(t, "dispatch"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func testSnapshot() *ipc.TagsData {
	return &ipc.TagsData{
		Screens: []wm.ScreenInfo{{
			ID:       0,
			Selected: true,
			Usable:   geom.Rect{Y: 18, Width: 1920, Height: 1062},
			Tags: []wm.TagInfo{
				{ID: 1, Name: "1", Index: 0, Layout: "tile"},
				{ID: 2, Name: "web", Index: 1, Selected: true, Layout: "monocle",
					Clients: []wm.ClientInfo{{ID: 7, Title: "docs", Class: "firefox"}}},
			},
		}},
		Focused: 7,
	}
}

func TestPrintTags(t *testing.T) {
	var buf bytes.Buffer
	printTags(&buf, testSnapshot())
	out := buf.String()
	for _, want := range []string{"*screen 0", "*2", "web", "monocle", "1 clients", "focused: 7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestBuildBar(t *testing.T) {
	st := &ipc.StatusData{FocusedTitle: "docs", BarStatus: "12:00"}
	b, err := buildBar(config.DefaultConfig(), testSnapshot(), st)
	if err != nil {
		t.Fatalf("buildBar: %v", err)
	}
	plain := b.Plain()
	for _, want := range []string{"*web*", "[monocle]", "docs", "12:00"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("bar %q lacks %q", plain, want)
		}
	}
}
