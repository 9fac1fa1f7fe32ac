// Package export turns raster animations into what container encoders
// consume: paletted images with exactly 256 colors, a transparent index,
// per-frame delays in centiseconds and a disposal method.
package export

import (
	"image"
	"image/gif"

	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/pkg/errors"
)

const formatName = "export"

// NoTransparency disables the transparent index.
const NoTransparency = -1

var (
	ErrNoPalette     = errors.New("no palette for frame")
	ErrNoValidFrames = errors.New("animation has no valid frames")
)

type Options struct {
	// DefaultDelay applies to frames without their own delay, in centiseconds.
	DefaultDelay int
	// Transparent is the palette index rendered with zero alpha. nil means
	// raster.Transparent; point at NoTransparency to keep every entry opaque.
	Transparent *int
	Disposal    byte
	LoopCount   int
}

var DefaultOptions = Options{
	DefaultDelay: 10,
	Disposal:     gif.DisposalBackground,
}

// TransparentIndex returns a pointer for Options.Transparent.
func TransparentIndex(i int) *int { return &i }

func (o Options) transparent() int {
	if o.Transparent == nil {
		return int(raster.Transparent)
	}
	return *o.Transparent
}

// Frame is the per-frame export contract.
type Frame struct {
	Image       *image.Paletted
	Delay       int
	Transparent int
	Disposal    byte
}

// Paletted converts one frame. The image origin is the frame's top-left pixel.
func Paletted(f *raster.Frame, pal *raster.Palette, transparent int) (*image.Paletted, error) {
	if pal == nil {
		return nil, rge.WrapFormatError(ErrNoPalette, formatName, "converting frame")
	}
	if transparent < NoTransparency || transparent >= raster.PaletteSize {
		return nil, rge.NewFormatError(formatName, "transparent index %d out of range", transparent)
	}
	img := image.NewPaletted(image.Rect(0, 0, f.Width(), f.Height()), pal.ColorPalette(transparent))
	for i, idx := range f.Pix {
		img.Pix[i] = uint8(idx)
	}
	return img, nil
}

// Frames normalizes a onto one canvas and converts every frame. A frame's
// baked palette wins over the animation palette.
func Frames(a *raster.Animation, opts Options) ([]Frame, error) {
	if !a.Valid() {
		return nil, rge.WrapFormatError(ErrNoValidFrames, formatName, "exporting animation")
	}
	b := a.Bounds()
	if err := raster.CheckSize(int64(b.Dx()), int64(b.Dy())); err != nil {
		return nil, rge.WrapFormatError(err, formatName, "shared canvas")
	}
	transparent := opts.transparent()
	norm := a.Normalize()
	out := make([]Frame, 0, len(norm.Frames))
	for i, f := range norm.Frames {
		pal := f.Palette
		if pal == nil {
			pal = a.Palette
		}
		if pal == nil {
			return nil, rge.WrapFormatError(ErrNoPalette, formatName, "frame %d", i)
		}
		img, err := Paletted(f, pal, transparent)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		out = append(out, Frame{
			Image:       img,
			Delay:       raster.FrameDelay(f, opts.DefaultDelay),
			Transparent: transparent,
			Disposal:    opts.Disposal,
		})
	}
	return out, nil
}

// GIF assembles the exported frames into an image/gif container value.
func GIF(a *raster.Animation, opts Options) (*gif.GIF, error) {
	frames, err := Frames(a, opts)
	if err != nil {
		return nil, err
	}
	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		Disposal:  make([]byte, len(frames)),
		LoopCount: opts.LoopCount,
	}
	for i, f := range frames {
		g.Image[i] = f.Image
		g.Delay[i] = f.Delay
		g.Disposal[i] = f.Disposal
	}
	return g, nil
}
