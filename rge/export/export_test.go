package export

import (
	"bytes"
	"image"
	"image/gif"
	"testing"

	"github.com/cam-per/rgeshape/internal/ttesting"
	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/pkg/errors"
)

func grayPalette() *raster.Palette {
	p := new(raster.Palette)
	for i := range p {
		p[i] = raster.Color{R: uint8(i), G: uint8(i), B: uint8(i)}
	}
	return p
}

func TestPaletted(t *testing.T) {
	f := raster.NewFrame(2, 1, image.Point{})
	f.Set(0, 0, 4)
	img, err := Paletted(f, grayPalette(), 255)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "palette length", len(img.Palette), raster.PaletteSize)
	ttesting.AssertEqualInt(t, "pixel", int(img.ColorIndexAt(0, 0)), 4)
	if _, _, _, a := img.At(1, 0).RGBA(); a != 0 {
		t.Errorf("sentinel pixel alpha = %d; want 0", a)
	}

	opaque, err := Paletted(f, grayPalette(), NoTransparency)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := opaque.At(1, 0).RGBA(); a != 0xffff {
		t.Errorf("opaque export alpha = %d", a)
	}

	if _, err := Paletted(f, grayPalette(), 256); !rge.IsFormatError(err) {
		t.Errorf("transparent 256: err = %v", err)
	}
}

func TestFramesUsesBakedPaletteAndDelays(t *testing.T) {
	f0 := raster.NewFrame(1, 1, image.Pt(0, 0))
	f0.Set(0, 0, 1)
	f1 := raster.NewFrame(2, 2, image.Pt(1, 1))
	f1.Delay = 25
	baked := grayPalette()
	baked[1] = raster.Color{R: 0xff}
	f1.Palette = baked

	a, _ := raster.NewAnimation([]*raster.Frame{f0, f1}, grayPalette())
	frames, err := Frames(a, DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "frame count", len(frames), 2)
	ttesting.AssertEqualInt(t, "default delay", frames[0].Delay, 10)
	ttesting.AssertEqualInt(t, "own delay", frames[1].Delay, 25)
	for i, f := range frames {
		if f.Image.Bounds() != image.Rect(0, 0, 2, 2) {
			t.Errorf("frame %d bounds = %v", i, f.Image.Bounds())
		}
	}
	// f0's pixel sits at the shared anchor (1,1).
	ttesting.AssertEqualInt(t, "anchored pixel", int(frames[0].Image.ColorIndexAt(1, 1)), 1)
	r, _, _, _ := frames[1].Image.Palette[1].RGBA()
	ttesting.AssertEqualInt(t, "baked palette", int(r>>8), 0xff)
}

func TestFramesWithoutPalette(t *testing.T) {
	a, _ := raster.NewAnimation([]*raster.Frame{raster.NewFrame(1, 1, image.Point{})}, nil)
	if _, err := Frames(a, DefaultOptions); !errors.Is(err, ErrNoPalette) {
		t.Errorf("err = %v; want %v", err, ErrNoPalette)
	}
	empty, _ := raster.NewAnimation([]*raster.Frame{raster.NewFrame(0, 0, image.Point{})}, grayPalette())
	if _, err := Frames(empty, DefaultOptions); !errors.Is(err, ErrNoValidFrames) {
		t.Errorf("err = %v; want %v", err, ErrNoValidFrames)
	}
}

func TestGIFEncodes(t *testing.T) {
	f0 := raster.NewFrame(3, 2, image.Pt(1, 1))
	f0.Set(1, 1, 200)
	f1 := f0.Mirror()
	a, _ := raster.NewAnimation([]*raster.Frame{f0, f1}, grayPalette())

	g, err := GIF(a, DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertDeepEqual(t, "delays", g.Delay, []int{10, 10})
	ttesting.AssertDeepEqual(t, "disposal", g.Disposal, []byte{gif.DisposalBackground, gif.DisposalBackground})

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	back, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	ttesting.AssertEqualInt(t, "decoded frames", len(back.Image), 2)
}

func TestZeroOptionsKeepSentinelTransparent(t *testing.T) {
	f := raster.NewFrame(2, 1, image.Point{})
	f.Set(0, 0, 0)
	a, _ := raster.NewAnimation([]*raster.Frame{f}, grayPalette())
	frames, err := Frames(a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "transparent index", frames[0].Transparent, int(raster.Transparent))
	if _, _, _, alpha := frames[0].Image.At(0, 0).RGBA(); alpha != 0xffff {
		t.Errorf("index 0 alpha = %d; want opaque", alpha)
	}

	frames, err = Frames(a, Options{Transparent: TransparentIndex(NoTransparency)})
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "opaque export", frames[0].Transparent, NoTransparency)
}

func TestFramesRejectsHugeCanvas(t *testing.T) {
	near := raster.NewFrame(1, 1, image.Pt(0, 0))
	far := raster.NewFrame(1, 1, image.Pt(-1<<20, -1<<20))
	a, _ := raster.NewAnimation([]*raster.Frame{near, far}, grayPalette())
	if _, err := Frames(a, DefaultOptions); !rge.IsFormatError(err) {
		t.Errorf("err = %v; want FormatError", err)
	}
}
