package raster

import "image"

// Rect is an anchor-relative rectangle with inclusive Right and Bottom edges.
type Rect struct {
	Left, Top, Right, Bottom int
}

// EmptyRect is the sentinel for "no valid pixels". It is the identity of Union.
var EmptyRect = Rect{Left: 1, Top: 1, Right: 0, Bottom: 0}

func (r Rect) Empty() bool { return r.Left > r.Right || r.Top > r.Bottom }

func (r Rect) Dx() int {
	if r.Empty() {
		return 0
	}
	return r.Right - r.Left + 1
}

func (r Rect) Dy() int {
	if r.Empty() {
		return 0
	}
	return r.Bottom - r.Top + 1
}

func (r Rect) Offset(p image.Point) Rect {
	if r.Empty() {
		return r
	}
	return Rect{r.Left + p.X, r.Top + p.Y, r.Right + p.X, r.Bottom + p.Y}
}

func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, s.Left),
		Top:    min(r.Top, s.Top),
		Right:  max(r.Right, s.Right),
		Bottom: max(r.Bottom, s.Bottom),
	}
}

// Image converts to a half-open image.Rectangle.
func (r Rect) Image() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(r.Left, r.Top, r.Right+1, r.Bottom+1)
}
