package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/hints"
)

func TestConvertNormalHints(t *testing.T) {
	cases := []struct {
		name string
		nh   *icccm.NormalHints
		want hints.SizeHints
	}{
		{"nil", nil, hints.SizeHints{}},
		{"flags unset are ignored", &icccm.NormalHints{MinWidth: 50, MaxWidth: 90}, hints.SizeHints{}},
		{
			"terminal increments",
			&icccm.NormalHints{
				Flags:     icccm.SizeHintPBaseSize | icccm.SizeHintPResizeInc,
				BaseWidth: 100, BaseHeight: 20, WidthInc: 10, HeightInc: 16,
			},
			hints.SizeHints{hints.BaseW: 100, hints.BaseH: 20, hints.IncW: 10, hints.IncH: 16, hints.MinW: 100, hints.MinH: 20},
		},
		{
			"min doubles as base",
			&icccm.NormalHints{
				Flags:    icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
				MinWidth: 200, MinHeight: 100, MaxWidth: 200, MaxHeight: 100,
			},
			hints.SizeHints{hints.BaseW: 200, hints.BaseH: 100, hints.MinW: 200, hints.MinH: 100, hints.MaxW: 200, hints.MaxH: 100},
		},
		{
			"aspect",
			&icccm.NormalHints{
				Flags:        icccm.SizeHintPAspect,
				MinAspectNum: 4, MinAspectDen: 3, MaxAspectNum: 16, MaxAspectDen: 9,
			},
			hints.SizeHints{hints.MinAX: 4, hints.MinAY: 3, hints.MaxAX: 16, hints.MaxAY: 9},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := convertNormalHints(tc.nh); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestConvertedFixedHintsAreFixed(t *testing.T) {
	h := convertNormalHints(&icccm.NormalHints{
		Flags:    icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth: 300, MinHeight: 200, MaxWidth: 300, MaxHeight: 200,
	})
	if !h.Sanitize().Fixed() {
		t.Fatalf("expected min == max hints to be fixed")
	}
}

func TestStrutsFor(t *testing.T) {
	left := geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geom.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}
	const rootW, rootH = 3200, 1080

	topBar := ewmh.WmStrutPartial{Top: 24, TopStartX: 0, TopEndX: 1919}
	bottomBar := ewmh.WmStrutPartial{Bottom: 60, BottomStartX: 1920, BottomEndX: 3199}
	sideDock := fullStrut(&ewmh.WmStrut{Left: 48}, rootW, rootH)

	cases := []struct {
		name     string
		mon      geom.Rect
		partials []ewmh.WmStrutPartial
		want     Struts
	}{
		{"no docks", left, nil, Struts{}},
		{"top bar on its monitor", left, []ewmh.WmStrutPartial{topBar}, Struts{Top: 24}},
		{"top bar elsewhere", right, []ewmh.WmStrutPartial{topBar}, Struts{}},
		// The right monitor is shorter than the root, so a bottom strut of
		// 60 only reaches 4 pixels into it.
		{"bottom strut clipped by monitor", right, []ewmh.WmStrutPartial{bottomBar}, Struts{Bottom: 4}},
		{"full-height left dock", left, []ewmh.WmStrutPartial{sideDock, topBar}, Struts{Left: 48, Top: 24}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := strutsFor(tc.mon, rootW, rootH, tc.partials); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestDuplicateMonitor(t *testing.T) {
	ms := []Monitor{{ID: 0, Geometry: geom.Rect{Width: 1920, Height: 1080}}}
	if !duplicateMonitor(ms, geom.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("expected mirrored geometry to be a duplicate")
	}
	if duplicateMonitor(ms, geom.Rect{X: 1920, Width: 1920, Height: 1080}) {
		t.Fatalf("expected distinct geometry to be kept")
	}
}
