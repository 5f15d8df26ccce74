package theme

import "testing"

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#3465a4", 0x3465a4, false},
		{"ffffff", 0xffffff, false},
		{"#fff", 0, true},
		{"#zzzzzz", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.in, tc.want.Hex(), got.Hex())
		}
	}
}

func TestAcquireUnknownFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	th, ok := r.Acquire("missing")
	if ok {
		t.Fatalf("expected unknown theme to report false")
	}
	if th.Name != DefaultName {
		t.Fatalf("expected default theme, got %q", th.Name)
	}
}

func TestRetiredThemeLivesUntilLastRelease(t *testing.T) {
	r := NewRegistry()
	dark := Default()
	dark.Name = "dark"
	r.Register(dark)

	a, _ := r.Acquire("dark")
	b, _ := r.Acquire("dark")
	if a != b {
		t.Fatalf("expected holders to share one theme")
	}

	if !r.Retire("dark") {
		t.Fatalf("expected retire to succeed")
	}
	if _, ok := r.Acquire("dark"); ok {
		t.Fatalf("expected retired theme to be unavailable for new holders")
	}
	// The failed lookup above took a default reference; give it back.
	def, _ := r.Acquire(DefaultName)
	r.Release(def)
	r.Release(def)

	r.Release(a)
	if !r.Alive(b) {
		t.Fatalf("expected retired theme to stay alive while held")
	}
	r.Release(b)
	if r.Alive(b) {
		t.Fatalf("expected retired theme to be dropped after last release")
	}
}

func TestRegisterReplacesAndRetiresOld(t *testing.T) {
	r := NewRegistry()
	first := r.Register(Theme{Name: "x", BorderWidth: 1})
	held, _ := r.Acquire("x")
	if held != first {
		t.Fatalf("expected to hold the first theme")
	}

	second := r.Register(Theme{Name: "x", BorderWidth: 3})
	now, _ := r.Acquire("x")
	if now != second || now.BorderWidth != 3 {
		t.Fatalf("expected replacement theme")
	}
	if held.BorderWidth != 1 || !r.Alive(held) {
		t.Fatalf("expected old holder to keep its theme")
	}
}

func TestDefaultCannotBeRetired(t *testing.T) {
	r := NewRegistry()
	if r.Retire(DefaultName) {
		t.Fatalf("expected default retire to be refused")
	}
}
