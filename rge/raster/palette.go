package raster

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
)

// PaletteSize is the number of entries in every palette.
const PaletteSize = 256

// Index selects one entry of a Palette.
type Index uint8

// Transparent is the sentinel every decoded frame is pre-filled with.
const Transparent Index = 255

// NewIndex validates v as a palette index.
func NewIndex(v int) (Index, error) {
	if v < 0 || v >= PaletteSize {
		return 0, errors.Errorf("palette index %d out of range [0,%d)", v, PaletteSize)
	}
	return Index(v), nil
}

// Color is an opaque 24-bit palette entry.
type Color struct {
	R, G, B uint8
}

func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

type Palette [PaletteSize]Color

// PaletteLengthError reports a palette that does not have exactly 256 entries.
type PaletteLengthError struct {
	Len int
}

func (e *PaletteLengthError) Error() string {
	return fmt.Sprintf("palette has %d entries, want %d", e.Len, PaletteSize)
}

// PaletteFromColors converts a stdlib palette. Any length other than 256 is rejected.
func PaletteFromColors(p color.Palette) (*Palette, error) {
	if len(p) != PaletteSize {
		return nil, &PaletteLengthError{Len: len(p)}
	}
	pal := new(Palette)
	for i, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		pal[i] = Color{R: n.R, G: n.G, B: n.B}
	}
	return pal, nil
}

// Clone returns an independent copy.
func (p *Palette) Clone() *Palette {
	c := *p
	return &c
}

// ColorPalette converts to a stdlib palette. When transparent is a valid
// index that slot gets zero alpha; pass -1 to keep every entry opaque.
func (p *Palette) ColorPalette(transparent int) color.Palette {
	cp := make(color.Palette, PaletteSize)
	for i, c := range p {
		if i == transparent {
			cp[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0}
			continue
		}
		cp[i] = c
	}
	return cp
}

// Colormap remaps palette indices, e.g. for minimap or shadow recoloring.
type Colormap [PaletteSize]Index

func IdentityColormap() *Colormap {
	m := new(Colormap)
	for i := range m {
		m[i] = Index(i)
	}
	return m
}
