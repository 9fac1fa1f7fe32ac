package raster

import "image"

// Animation is an ordered, non-empty list of frames plus the palette used by
// frames that carry none of their own.
type Animation struct {
	Frames  []*Frame
	Palette *Palette
}

func NewAnimation(frames []*Frame, palette *Palette) (*Animation, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyAnimation
	}
	return &Animation{Frames: frames, Palette: palette}, nil
}

func (a *Animation) Len() int { return len(a.Frames) }

// Valid reports whether at least one frame has a non-degenerate size.
func (a *Animation) Valid() bool {
	for _, f := range a.Frames {
		if f.Valid() {
			return true
		}
	}
	return false
}

// Bounds is the union of all valid frames' anchor-relative rectangles.
func (a *Animation) Bounds() Rect {
	r := EmptyRect
	for _, f := range a.Frames {
		if f.Valid() {
			r = r.Union(f.Bounds())
		}
	}
	return r
}

// Slice returns frames [start,end) as a new animation with cloned frames.
func (a *Animation) Slice(start, end int) (*Animation, error) {
	if start < 0 || end > len(a.Frames) || start >= end {
		return nil, ErrSliceRange
	}
	frames := make([]*Frame, 0, end-start)
	for _, f := range a.Frames[start:end] {
		frames = append(frames, f.Clone())
	}
	return &Animation{Frames: frames, Palette: a.Palette}, nil
}

func (a *Animation) Mirror() *Animation {
	frames := make([]*Frame, len(a.Frames))
	for i, f := range a.Frames {
		frames[i] = f.Mirror()
	}
	return &Animation{Frames: frames, Palette: a.Palette}
}

// Normalize draws every frame onto a canvas covering Bounds, so that all
// frames share size and anchor. Delays and baked palettes are carried over.
func (a *Animation) Normalize() *Animation {
	b := a.Bounds()
	anchor := image.Pt(-b.Left, -b.Top)
	frames := make([]*Frame, len(a.Frames))
	for i, f := range a.Frames {
		canvas := NewFrame(b.Dx(), b.Dy(), anchor)
		if f.Valid() {
			canvas.Overlay(f, image.Point{})
		}
		canvas.Delay = f.Delay
		if f.Palette != nil {
			canvas.Palette = f.Palette.Clone()
		}
		frames[i] = canvas
	}
	return &Animation{Frames: frames, Palette: a.Palette}
}

// FrameDelay returns the frame's own delay or def.
func FrameDelay(f *Frame, def int) int {
	if f.Delay > 0 {
		return f.Delay
	}
	return def
}

// Duration sums the per-frame delays in centiseconds.
func (a *Animation) Duration(defaultDelay int) int {
	total := 0
	for _, f := range a.Frames {
		total += FrameDelay(f, defaultDelay)
	}
	return total
}

// Placement positions an animation relative to a shared origin.
type Placement struct {
	Animation *Animation
	Offset    image.Point
}

// CombinedBounds unions each member's bounds after its offset.
func CombinedBounds(members ...Placement) Rect {
	r := EmptyRect
	for _, m := range members {
		r = r.Union(m.Animation.Bounds().Offset(m.Offset))
	}
	return r
}
