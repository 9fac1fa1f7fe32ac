package slp

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
	comment  string
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
		return nil, errors.Wrap(err, "slp: reading input")
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

// Decode returns the frames of an SLP file as an animation without a palette.
func Decode(r io.Reader, opts rge.Options) (*raster.Animation, error) {
	decoder, err := NewDecoder(r, opts)
	if err != nil {
		return nil, err
	}
	return decoder.Animation()
}

func (decoder *Decoder) Frames() []*raster.Frame { return decoder.frames }
func (decoder *Decoder) Comment() string         { return decoder.comment }
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

	decoder.comment = utils.CString(decoder.header.Comment[:]).Windows1252()
	switch decoder.comment {
	case CommentRGE:
	case CommentArtDesk:
		glog.Warningf("slp: %q files use extensions that are not supported", CommentArtDesk)
	default:
		return rge.NewFormatError(formatName, "unexpected comment %q", decoder.comment)
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
	glog.V(1).Infof("slp: decoded %d frames, %d warnings", len(decoder.frames), len(decoder.warnings))
	return nil
}

// checkGeometry rejects frame sizes the file cannot hold before anything is
// allocated. Every row needs an outline entry and a command table entry.
func (decoder *Decoder) checkGeometry(index int, info *frameInfo) error {
	w, h := int64(info.Width), int64(info.Height)
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := raster.CheckSize(w, h); err != nil {
		return rge.WrapFormatError(err, formatName, "frame %d", index)
	}
	size := int64(len(decoder.fmap))
	if int64(info.OutlineTableOffset)+h*outlineEntrySize > size {
		return rge.NewFormatError(formatName, "frame %d: outline table of %d rows exceeds file", index, h)
	}
	if int64(info.CommandTableOffset)+h*commandEntrySize > size {
		return rge.NewFormatError(formatName, "frame %d: command table of %d rows exceeds file", index, h)
	}
	return nil
}

func (decoder *Decoder) decodeFrame(index int, info *frameInfo) (*raster.Frame, error) {
	if err := decoder.checkGeometry(index, info); err != nil {
		return nil, err
	}
	frame := raster.NewFrame(int(info.Width), int(info.Height), image.Pt(int(info.AnchorX), int(info.AnchorY)))
	glog.V(2).Infof("slp: frame %d: %dx%d anchor %v", index, frame.Width(), frame.Height(), frame.Anchor)
	if !frame.Valid() {
		return frame, nil
	}

	for y := 0; y < frame.Height(); y++ {
		outline := int64(info.OutlineTableOffset) + int64(y)*outlineEntrySize
		left, err := utils.ReadInt16At(decoder.r, outline)
		if err != nil {
			return nil, rge.WrapFormatError(err, formatName, "frame %d row %d: outline", index, y)
		}
		right, err := utils.ReadInt16At(decoder.r, outline+2)
		if err != nil {
			return nil, rge.WrapFormatError(err, formatName, "frame %d row %d: outline", index, y)
		}
		if left == emptyRow || right == emptyRow {
			continue
		}

		ptr, err := utils.ReadUint32At(decoder.r, int64(info.CommandTableOffset)+int64(y)*commandEntrySize)
		if err != nil {
			return nil, rge.WrapFormatError(err, formatName, "frame %d row %d: command table", index, y)
		}
		rr := &rowReader{
			decoder: decoder,
			r:       decoder.offsetReader(int64(ptr)),
			start:   int64(ptr),
			frame:   index,
			y:       y,
			row:     frame.Row(y),
			x:       int(left),
		}
		if err := rr.decode(); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

func (decoder *Decoder) warn(err *rge.UnimplementedCommandError) {
	decoder.warnings = append(decoder.warnings, err)
	glog.Warning(err)
	if glog.V(3) {
		glog.Infof("slp: command stream:\n%s", utils.HexDump(decoder.fmap, int(err.Offset)-16, 48))
	}
}

func (decoder *Decoder) offsetReader(offset int64) *bytes.Reader {
	end := int64(len(decoder.fmap))
	if offset < 0 || offset >= end {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(decoder.fmap[offset:])
}
