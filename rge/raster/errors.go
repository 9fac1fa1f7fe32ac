package raster

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyAnimation = errors.New("raster: animation has no frames")
	ErrSliceRange     = errors.New("raster: slice range out of bounds")
)

// BoundsError is the panic value for pixel accesses outside a frame. It marks
// a bug in a decoder or caller, never a property of the input data.
type BoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("raster: pixel (%d,%d) outside %dx%d frame", e.X, e.Y, e.Width, e.Height)
}

// MaxPixels caps the pixel count of a single frame.
const MaxPixels = 1 << 24

// SizeError reports frame dimensions that are negative or exceed MaxPixels.
type SizeError struct {
	Width, Height int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("raster: frame size %dx%d out of range", e.Width, e.Height)
}

// CheckSize validates w×h before any allocation. Decoders call it with
// header values so hostile dimensions never reach NewFrame.
func CheckSize(w, h int64) error {
	if w < 0 || h < 0 || (h > 0 && w > MaxPixels/h) {
		return &SizeError{Width: w, Height: h}
	}
	return nil
}
