package colorcycle

import (
	"image"
	"testing"

	"github.com/cam-per/rgeshape/internal/ttesting"
	"github.com/cam-per/rgeshape/rge/raster"
)

func colors(n int) []raster.Color {
	out := make([]raster.Color, n)
	for i := range out {
		out[i] = raster.Color{R: uint8(i + 1), G: 0x80}
	}
	return out
}

func basePalette() *raster.Palette {
	p := new(raster.Palette)
	for i := range p {
		p[i] = raster.Color{B: uint8(i)}
	}
	return p
}

func frameWith(idx ...raster.Index) *raster.Frame {
	f := raster.NewFrame(len(idx), 1, image.Point{})
	copy(f.Pix, idx)
	return f
}

func TestSingleWraps(t *testing.T) {
	c, err := NewSingle(7, colors(3))
	if err != nil {
		t.Fatal(err)
	}
	for step, want := range []int{1, 2, 3, 1, 2} {
		p := PaletteAt(c, basePalette(), step)
		ttesting.AssertEqualInt(t, "governed slot", int(p[7].R), want)
		ttesting.AssertEqualInt(t, "neighbour untouched", int(p[8].B), 8)
	}
	ttesting.AssertEqualInt(t, "duration", c.Duration(), 60)
}

func TestRingRotation(t *testing.T) {
	const n = 5
	cols := colors(n)
	c, err := NewRing(100, cols)
	if err != nil {
		t.Fatal(err)
	}

	p0 := PaletteAt(c, basePalette(), 0)
	for i := 0; i < n; i++ {
		if p0[100+i] != cols[i] {
			t.Errorf("step 0 slot %d = %v; want %v", i, p0[100+i], cols[i])
		}
	}

	p1 := PaletteAt(c, basePalette(), 1)
	for i := 0; i < n; i++ {
		if want := cols[(n-1+i)%n]; p1[100+i] != want {
			t.Errorf("step 1 slot %d = %v; want %v", i, p1[100+i], want)
		}
	}

	pn := PaletteAt(c, basePalette(), n)
	if *pn != *p0 {
		t.Errorf("step %d differs from step 0", n)
	}
	ttesting.AssertEqualInt(t, "outside range untouched", int(p1[99].B), 99)
	ttesting.AssertEqualInt(t, "outside range untouched", int(p1[105].B), 105)
}

func TestRingRejectsOverflow(t *testing.T) {
	if _, err := NewRing(250, colors(7)); err == nil {
		t.Errorf("NewRing(250, 7 colors) succeeded")
	}
	if _, err := NewRing(249, colors(7)); err != nil {
		t.Errorf("NewRing(249, 7 colors): %v", err)
	}
	if _, err := NewSingle(1, nil); err == nil {
		t.Errorf("NewSingle without colors succeeded")
	}
}

func TestUsedBy(t *testing.T) {
	single, _ := NewSingle(10, colors(2))
	ring, _ := NewRing(20, colors(4))

	for _, tc := range []struct {
		name   string
		c      Cycle
		frame  *raster.Frame
		wanted bool
	}{
		{"single exact", single, frameWith(1, 10), true},
		{"single neighbours", single, frameWith(9, 11), false},
		{"ring first", ring, frameWith(20), true},
		{"ring last", ring, frameWith(23), true},
		{"ring below", ring, frameWith(19, 255), false},
		{"ring above", ring, frameWith(24), false},
	} {
		if got := tc.c.UsedBy(tc.frame); got != tc.wanted {
			t.Errorf("%s: UsedBy = %v; want %v", tc.name, got, tc.wanted)
		}
	}
}

func TestLiteralCyclesStayInPalette(t *testing.T) {
	ring := &Ring{First: 250, Colors: colors(10)}
	p := PaletteAt(ring, basePalette(), 0)
	ttesting.AssertDeepEqual(t, "first slot", p[250], colors(10)[0])
	ttesting.AssertDeepEqual(t, "last slot", p[255], colors(10)[5])
	ttesting.AssertDeepEqual(t, "no wrap to index 0", p[0], raster.Color{})
	if !ring.UsedBy(frameWith(255)) {
		t.Error("ring does not report index 255 as used")
	}
	if ring.UsedBy(frameWith(3)) {
		t.Error("ring reports wrapped index 3 as used")
	}

	empty := &Single{Index: 1}
	p = PaletteAt(empty, basePalette(), 3)
	ttesting.AssertDeepEqual(t, "empty single is a no-op", p[1], raster.Color{B: 1})
	if empty.UsedBy(frameWith(1)) {
		t.Error("empty single reports use")
	}
}
