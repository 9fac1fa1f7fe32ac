// Package colorcycle animates palette entries independently of an
// animation's own frames and bakes both timings into one loopable sequence.
package colorcycle

import (
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/pkg/errors"
)

// TickDuration is the length of one cycle step in centiseconds.
const TickDuration = 20

// Cycle is implemented by Single and Ring only.
type Cycle interface {
	// Apply substitutes the governed palette range for the given step.
	Apply(dst *raster.Palette, step int)
	// Steps is the number of steps before the cycle repeats.
	Steps() int
	// Duration is Steps in centiseconds.
	Duration() int
	// UsedBy reports whether f references any governed index.
	UsedBy(f *raster.Frame) bool

	sealed()
}

// PaletteAt returns a copy of base with c applied at step.
func PaletteAt(c Cycle, base *raster.Palette, step int) *raster.Palette {
	p := base.Clone()
	c.Apply(p, step)
	return p
}

// Single replaces one palette entry per step, wrapping over Colors.
type Single struct {
	Index  raster.Index
	Colors []raster.Color
}

func NewSingle(index raster.Index, colors []raster.Color) (*Single, error) {
	if len(colors) == 0 {
		return nil, errors.New("colorcycle: single-slot cycle needs at least one color")
	}
	return &Single{Index: index, Colors: colors}, nil
}

func (c *Single) Apply(dst *raster.Palette, step int) {
	if len(c.Colors) == 0 {
		return
	}
	dst[c.Index] = c.Colors[mod(step, len(c.Colors))]
}

func (c *Single) Steps() int    { return len(c.Colors) }
func (c *Single) Duration() int { return c.Steps() * TickDuration }

func (c *Single) UsedBy(f *raster.Frame) bool {
	return len(c.Colors) > 0 && f.Uses(c.Index, c.Index)
}

func (*Single) sealed() {}

// Ring rotates len(Colors) consecutive entries starting at First.
type Ring struct {
	First  raster.Index
	Colors []raster.Color
}

func NewRing(first raster.Index, colors []raster.Color) (*Ring, error) {
	if len(colors) == 0 {
		return nil, errors.New("colorcycle: ring cycle needs at least one color")
	}
	if int(first)+len(colors) > raster.PaletteSize {
		return nil, errors.Errorf("colorcycle: ring of %d colors at %d runs past the palette", len(colors), first)
	}
	return &Ring{First: first, Colors: colors}, nil
}

// span is the number of governed entries. A Ring built without NewRing may
// run past the palette end; the excess is ignored.
func (c *Ring) span() int {
	if room := raster.PaletteSize - int(c.First); len(c.Colors) > room {
		return room
	}
	return len(c.Colors)
}

// firstOffset is the color shown in the ring's first slot at step t.
func (c *Ring) firstOffset(t int) int {
	n := len(c.Colors)
	if m := mod(t, n); m != 0 {
		return n - m
	}
	return 0
}

func (c *Ring) Apply(dst *raster.Palette, step int) {
	n := len(c.Colors)
	if n == 0 {
		return
	}
	off := c.firstOffset(step)
	for i := 0; i < c.span(); i++ {
		dst[int(c.First)+i] = c.Colors[(off+i)%n]
	}
}

func (c *Ring) Steps() int    { return len(c.Colors) }
func (c *Ring) Duration() int { return c.Steps() * TickDuration }

func (c *Ring) UsedBy(f *raster.Frame) bool {
	n := c.span()
	return n > 0 && f.Uses(c.First, c.First+raster.Index(n-1))
}

func (*Ring) sealed() {}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
