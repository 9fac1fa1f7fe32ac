package raster

import "image"

// Frame is one decoded picture: a row-major grid of palette indices and the
// anchor pixel that lines up with the object's origin when compositing.
type Frame struct {
	width, height int
	Pix           []Index
	Anchor        image.Point

	// Palette, when set, overrides the animation palette for this frame.
	Palette *Palette
	// Delay in centiseconds; 0 means the caller's default.
	Delay int
}

// NewFrame allocates a w×h frame filled with Transparent. Negative sizes
// become 0. It panics with *SizeError when w×h exceeds MaxPixels; callers
// holding untrusted dimensions check them with CheckSize first.
func NewFrame(w, h int, anchor image.Point) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if err := CheckSize(int64(w), int64(h)); err != nil {
		panic(err)
	}
	pix := make([]Index, w*h)
	for i := range pix {
		pix[i] = Transparent
	}
	return &Frame{width: w, height: h, Pix: pix, Anchor: anchor}
}

func (f *Frame) Width() int  { return f.width }
func (f *Frame) Height() int { return f.height }

// Valid reports whether the frame has a non-degenerate size.
func (f *Frame) Valid() bool { return f.width > 0 && f.height > 0 }

func (f *Frame) InBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

func (f *Frame) check(x, y int) {
	if !f.InBounds(x, y) {
		panic(&BoundsError{X: x, Y: y, Width: f.width, Height: f.height})
	}
}

func (f *Frame) At(x, y int) Index {
	f.check(x, y)
	return f.Pix[y*f.width+x]
}

func (f *Frame) Set(x, y int, idx Index) {
	f.check(x, y)
	f.Pix[y*f.width+x] = idx
}

// Row returns the backing slice of row y.
func (f *Frame) Row(y int) []Index {
	f.check(0, y)
	return f.Pix[y*f.width : (y+1)*f.width]
}

// Bounds returns the frame extents relative to its anchor.
func (f *Frame) Bounds() Rect {
	return Rect{
		Left:   -f.Anchor.X,
		Top:    -f.Anchor.Y,
		Right:  f.width - f.Anchor.X - 1,
		Bottom: f.height - f.Anchor.Y - 1,
	}
}

// Overlay draws other onto f so that both anchors coincide, shifted by
// offset. Pixels of other equal to Transparent are not copied, so stacked
// sprites keep whatever lies beneath them. Normalize relies on the same rule:
// its canvas starts as Transparent, so the result equals a full copy.
func (f *Frame) Overlay(other *Frame, offset image.Point) {
	dx := offset.X + f.Anchor.X - other.Anchor.X
	dy := offset.Y + f.Anchor.Y - other.Anchor.Y
	for y := 0; y < other.height; y++ {
		for x := 0; x < other.width; x++ {
			idx := other.Pix[y*other.width+x]
			if idx == Transparent {
				continue
			}
			f.Set(x+dx, y+dy, idx)
		}
	}
}

func (f *Frame) ApplyColormap(m *Colormap) {
	for i, idx := range f.Pix {
		f.Pix[i] = m[idx]
	}
}

// Clone deep-copies the pixels and any baked palette.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Pix = make([]Index, len(f.Pix))
	copy(c.Pix, f.Pix)
	if f.Palette != nil {
		c.Palette = f.Palette.Clone()
	}
	return &c
}

// Mirror returns a horizontally flipped copy. The anchor column is reflected
// too, so the anchor-relative x extents are negated.
func (f *Frame) Mirror() *Frame {
	m := f.Clone()
	for y := 0; y < f.height; y++ {
		row := m.Pix[y*f.width : (y+1)*f.width]
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
	m.Anchor.X = f.width - 1 - f.Anchor.X
	return m
}

// Uses reports whether any pixel lies in [first, last].
func (f *Frame) Uses(first, last Index) bool {
	for _, idx := range f.Pix {
		if idx >= first && idx <= last {
			return true
		}
	}
	return false
}
