package shp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"image"
	"io"

	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/cam-per/rgeshape/utils"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

func init() {
	rge.RegisterFormat(formatName, Magic, Decode)
}

type Decoder struct {
	header   header
	r        *bytes.Reader
	fmap     []byte
	opts     rge.Options
	frames   []*raster.Frame
	warnings []error
}

// NewDecoder buffers all of r and decodes every frame.
func NewDecoder(r io.Reader, opts rge.Options) (*Decoder, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, errors.Wrap(err, "shp: reading input")
	}
	decoder := &Decoder{
		r:    bytes.NewReader(data),
		fmap: data,
		opts: opts,
	}
	if err := decoder.decode(); err != nil {
		return nil, err
	}
	return decoder, nil
}

// Decode returns the frames of an SHP file as an animation without a palette.
func Decode(r io.Reader, opts rge.Options) (*raster.Animation, error) {
	decoder, err := NewDecoder(r, opts)
	if err != nil {
		return nil, err
	}
	return decoder.Animation()
}

func (decoder *Decoder) Frames() []*raster.Frame { return decoder.frames }

// Warnings lists non-fatal problems met while decoding.
func (decoder *Decoder) Warnings() []error { return decoder.warnings }

func (decoder *Decoder) Animation() (*raster.Animation, error) {
	return raster.NewAnimation(decoder.frames, nil)
}

func (decoder *Decoder) decode() error {
	if err := binary.Read(decoder.r, binary.LittleEndian, &decoder.header); err != nil {
		return rge.WrapFormatError(err, formatName, "reading header")
	}
	if string(decoder.header.Version[:]) != Magic {
		return rge.NewFormatError(formatName, "bad magic %q", decoder.header.Version[:])
	}
	count := int64(decoder.header.FrameCount)
	if count == 0 {
		return rge.NewFormatError(formatName, "no frames")
	}
	if int64(headerSize)+count*int64(frameEntrySize) > int64(len(decoder.fmap)) {
		return rge.NewFormatError(formatName, "frame directory of %d entries exceeds file", count)
	}

	entries := make([]frameEntry, count)
	if err := binary.Read(decoder.r, binary.LittleEndian, &entries); err != nil {
		return rge.WrapFormatError(err, formatName, "reading frame directory")
	}

	decoder.frames = make([]*raster.Frame, 0, count)
	for i, entry := range entries {
		frame, err := decoder.decodeFrame(i, int64(entry.Offset))
		if err != nil {
			return err
		}
		decoder.frames = append(decoder.frames, frame)
	}
	glog.V(1).Infof("shp: decoded %d frames, %d warnings", len(decoder.frames), len(decoder.warnings))
	return nil
}

func (decoder *Decoder) decodeFrame(index int, offset int64) (*raster.Frame, error) {
	var h frameHeader
	if err := binary.Read(decoder.offsetReader(offset), binary.LittleEndian, &h); err != nil {
		return nil, rge.WrapFormatError(err, formatName, "frame %d: reading header at 0x%x", index, offset)
	}
	w := int64(h.Right) - int64(h.Left) + 1
	hgt := int64(h.Bottom) - int64(h.Top) + 1
	if w > 0 && hgt > 0 {
		if err := raster.CheckSize(w, hgt); err != nil {
			return nil, rge.WrapFormatError(err, formatName, "frame %d", index)
		}
		// Each row ends with at least its end-of-row byte.
		if offset+int64(frameHeaderSize)+hgt > int64(len(decoder.fmap)) {
			return nil, rge.NewFormatError(formatName, "frame %d: %d rows exceed file", index, hgt)
		}
	}
	frame := raster.NewFrame(int(w), int(hgt), image.Pt(-int(h.Left), -int(h.Top)))
	glog.V(2).Infof("shp: frame %d: %dx%d anchor %v", index, frame.Width(), frame.Height(), frame.Anchor)

	if !frame.Valid() {
		return frame, nil
	}
	rows := decoder.offsetReader(offset + int64(frameHeaderSize))
	for y := 0; y < frame.Height(); y++ {
		if err := decoder.decodeRow(rows, frame, y); err != nil {
			return nil, errors.Wrapf(err, "frame %d", index)
		}
	}
	return frame, nil
}

func (decoder *Decoder) decodeRow(r *bytes.Reader, frame *raster.Frame, y int) error {
	row := frame.Row(y)
	x := 0
	for {
		cmd, err := utils.ReadByte(r)
		if err != nil {
			return rge.WrapFormatError(err, formatName, "row %d", y)
		}
		switch {
		case cmd == cmdEndOfRow:
			return nil
		case cmd == cmdSkip:
			n, err := utils.ReadByte(r)
			if err != nil {
				return rge.WrapFormatError(err, formatName, "row %d: skip length", y)
			}
			x += int(n)
		case cmd&1 != 0:
			n := int(cmd >> 1)
			if x+n > len(row) {
				return rge.NewFormatError(formatName, "row %d: copy of %d at column %d overflows width %d", y, n, x, len(row))
			}
			for i := 0; i < n; i++ {
				b, err := utils.ReadByte(r)
				if err != nil {
					return rge.WrapFormatError(err, formatName, "row %d: copy", y)
				}
				row[x] = raster.Index(b)
				x++
			}
		default:
			n := int(cmd >> 1)
			if x+n > len(row) {
				return rge.NewFormatError(formatName, "row %d: fill of %d at column %d overflows width %d", y, n, x, len(row))
			}
			b, err := utils.ReadByte(r)
			if err != nil {
				return rge.WrapFormatError(err, formatName, "row %d: fill color", y)
			}
			for i := 0; i < n; i++ {
				row[x] = raster.Index(b)
				x++
			}
		}
	}
}

func (decoder *Decoder) offsetReader(offset int64) *bytes.Reader {
	end := int64(len(decoder.fmap))
	if offset < 0 || offset >= end {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(decoder.fmap[offset:])
}
