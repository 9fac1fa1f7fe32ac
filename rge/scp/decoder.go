package scp

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
		return nil, errors.Wrap(err, "scp: reading input")
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

// Decode returns the frames of an SCP file as an animation without a palette.
func Decode(r io.Reader, opts rge.Options) (*raster.Animation, error) {
	decoder, err := NewDecoder(r, opts)
	if err != nil {
		return nil, err
	}
	return decoder.Animation()
}

func (decoder *Decoder) Frames() []*raster.Frame { return decoder.frames }
func (decoder *Decoder) Warnings() []error       { return decoder.warnings }

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
	if comment := utils.CString(decoder.header.Comment[:]).Windows1252(); comment != Comment {
		return rge.NewFormatError(formatName, "unexpected comment %q", comment)
	}

	if int64(headerSize)+count*int64(frameInfoSize) > int64(len(decoder.fmap)) {
		return rge.NewFormatError(formatName, "frame directory of %d entries exceeds file", count)
	}
	infos := make([]frameInfo, count)
	if err := binary.Read(decoder.r, binary.LittleEndian, &infos); err != nil {
		return rge.WrapFormatError(err, formatName, "reading frame directory")
	}

	decoder.frames = make([]*raster.Frame, 0, count)
	for i := range infos {
		frame, err := decoder.decodeFrame(i, &infos[i])
		if err != nil {
			return err
		}
		decoder.frames = append(decoder.frames, frame)
	}
	glog.V(1).Infof("scp: decoded %d frames, %d warnings", len(decoder.frames), len(decoder.warnings))
	return nil
}

// checkGeometry rejects frame sizes the file cannot hold before anything is
// allocated. Every row needs an outline entry.
func (decoder *Decoder) checkGeometry(index int, info *frameInfo) error {
	w, h := int64(info.Width), int64(info.Height)
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := raster.CheckSize(w, h); err != nil {
		return rge.WrapFormatError(err, formatName, "frame %d", index)
	}
	if int64(info.OutlineOffset)+h*outlineEntrySize > int64(len(decoder.fmap)) {
		return rge.NewFormatError(formatName, "frame %d: outline table of %d rows exceeds file", index, h)
	}
	return nil
}

func (decoder *Decoder) decodeFrame(index int, info *frameInfo) (*raster.Frame, error) {
	if err := decoder.checkGeometry(index, info); err != nil {
		return nil, err
	}
	frame := raster.NewFrame(int(info.Width), int(info.Height), image.Pt(int(info.AnchorX), int(info.AnchorY)))
	glog.V(2).Infof("scp: frame %d: %dx%d anchor %v", index, frame.Width(), frame.Height(), frame.Anchor)
	if !frame.Valid() {
		return frame, nil
	}

	cursor := int64(info.DataOffset)
	for y := 0; y < frame.Height(); y++ {
		outline := int64(info.OutlineOffset) + int64(y)*outlineEntrySize
		left, err := utils.ReadInt32At(decoder.r, outline)
		if err != nil {
			return nil, rge.WrapFormatError(err, formatName, "frame %d row %d: outline", index, y)
		}
		right, err := utils.ReadInt32At(decoder.r, outline+4)
		if err != nil {
			return nil, rge.WrapFormatError(err, formatName, "frame %d row %d: outline", index, y)
		}

		n := 0
		if span := int64(frame.Width()) - int64(left) - int64(right); span > 0 {
			n = int(span)
		}
		stored := int64(storedLen(n))
		if n > 0 {
			if left < 0 || right < 0 || int64(left)+int64(n) > int64(frame.Width()) {
				return nil, rge.NewFormatError(formatName, "frame %d row %d: margins %d/%d do not fit width %d",
					index, y, left, right, frame.Width())
			}
			if cursor+stored > int64(len(decoder.fmap)) {
				return nil, rge.WrapFormatError(io.ErrUnexpectedEOF, formatName, "frame %d row %d: pixel data", index, y)
			}
			decoder.decodeRow(index, y, frame.Row(y), int(left), n, decoder.fmap[cursor:cursor+stored], cursor)
		}
		cursor += stored
	}
	return frame, nil
}

// decodeRow places n stored pixels starting at column left. src holds the
// row's padded bytes.
func (decoder *Decoder) decodeRow(index, y int, row []raster.Index, left, n int, src []byte, offset int64) {
	if n%4 == 0 && left%4 == 0 {
		for i := 0; i < n; i++ {
			row[left+i] = raster.Index(src[i])
		}
		return
	}

	alignedStart := (left + 3) &^ 3
	nl := alignedStart - left
	if nl > n {
		decoder.warn(&rge.UnimplementedCommandError{
			Format: formatName,
			Frame:  index,
			Row:    y,
			Offset: offset,
			Detail: "row narrower than its left alignment",
		})
		return
	}
	middle := (n - nl) &^ 3
	nr := n - nl - middle
	end := left + n

	for i := 0; i < middle; i++ {
		row[alignedStart+i] = raster.Index(src[i])
	}
	p := middle
	for _, s := range layouts[nl][nr] {
		b := raster.Index(src[p])
		p++
		switch {
		case s == pad:
		case s <= l2:
			row[left+int(s-l0)] = b
		default:
			row[end-1-int(s-r0)] = b
		}
	}
}

func (decoder *Decoder) warn(err *rge.UnimplementedCommandError) {
	decoder.warnings = append(decoder.warnings, err)
	glog.Warning(err)
	if glog.V(3) {
		glog.Infof("scp: row data:\n%s", utils.HexDump(decoder.fmap, int(err.Offset), 16))
	}
}
