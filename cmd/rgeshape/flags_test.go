package main

import (
	"testing"

	"github.com/cam-per/rgeshape/internal/ttesting"
	"github.com/cam-per/rgeshape/rge/colorcycle"
	"github.com/cam-per/rgeshape/rge/raster"
)

func TestParseCycle(t *testing.T) {
	c, err := parseCycle("ring:224:#ff0000,#00ff00,#0000ff")
	if err != nil {
		t.Fatal(err)
	}
	ring, ok := c.(*colorcycle.Ring)
	if !ok {
		t.Fatalf("got %T; want *colorcycle.Ring", c)
	}
	ttesting.AssertEqualInt(t, "first", int(ring.First), 224)
	ttesting.AssertDeepEqual(t, "colors", ring.Colors, []raster.Color{{R: 0xff}, {G: 0xff}, {B: 0xff}})

	c, err = parseCycle("single:7:#102030")
	if err != nil {
		t.Fatal(err)
	}
	if single, ok := c.(*colorcycle.Single); !ok || single.Index != 7 {
		t.Errorf("got %#v", c)
	}
}

func TestParseCycleErrors(t *testing.T) {
	for _, s := range []string{
		"ring:224",
		"ring:x:#ffffff",
		"ring:256:#ffffff",
		"ring:250:#000000,#000000,#000000,#000000,#000000,#000000,#000000",
		"spiral:1:#ffffff",
		"single:1:red",
	} {
		if _, err := parseCycle(s); err == nil {
			t.Errorf("parseCycle(%q) succeeded", s)
		}
	}
}

func TestParseSlice(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
	}{
		{"2:5", 2, 5},
		{":3", 0, 3},
		{"4:", 4, 10},
		{":", 0, 10},
	}
	for _, tc := range tests {
		start, end, err := parseSlice(tc.in, 10)
		if err != nil {
			t.Errorf("parseSlice(%q): %v", tc.in, err)
			continue
		}
		if start != tc.start || end != tc.end {
			t.Errorf("parseSlice(%q) = %d, %d; want %d, %d", tc.in, start, end, tc.start, tc.end)
		}
	}
	if _, _, err := parseSlice("3", 10); err == nil {
		t.Error("parseSlice without colon succeeded")
	}
}

func TestStem(t *testing.T) {
	for in, want := range map[string]string{
		"graphics/15000.slp": "15000",
		`C:\game\arc.shp`:    "arc",
		"slp/3.slp":          "3",
	} {
		if got := stem(in); got != want {
			t.Errorf("stem(%q) = %q; want %q", in, got, want)
		}
	}
}
