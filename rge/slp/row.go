package slp

import (
	"bytes"

	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/cam-per/rgeshape/utils"
)

// rowReader decodes one scanline's command stream. Columns start at the
// row's left outline margin.
type rowReader struct {
	decoder *Decoder
	r       *bytes.Reader
	start   int64
	frame   int
	y       int
	row     []raster.Index
	x       int
}

func (rr *rowReader) offset() int64 { return rr.start + rr.r.Size() - int64(rr.r.Len()) }

func (rr *rowReader) next() (byte, error) {
	b, err := utils.ReadByte(rr.r)
	if err != nil {
		return 0, rge.WrapFormatError(err, formatName, "frame %d row %d", rr.frame, rr.y)
	}
	return b, nil
}

// nibbleLength is the upper nibble, or the next byte when that is zero.
func (rr *rowReader) nibbleLength(cmd byte) (int, error) {
	if n := int(cmd >> 4); n != 0 {
		return n, nil
	}
	b, err := rr.next()
	return int(b), err
}

func (rr *rowReader) longLength(cmd byte) (int, error) {
	b, err := rr.next()
	return int(cmd&0xf0)<<4 + int(b), err
}

func (rr *rowReader) reserve(n int) error {
	if rr.x < 0 || rr.x+n > len(rr.row) {
		return rge.NewFormatError(formatName, "frame %d row %d: %d pixels at column %d overflow width %d",
			rr.frame, rr.y, n, rr.x, len(rr.row))
	}
	return nil
}

func (rr *rowReader) copy(n int, mapIndex func(byte) raster.Index) error {
	if err := rr.reserve(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		b, err := rr.next()
		if err != nil {
			return err
		}
		rr.row[rr.x] = mapIndex(b)
		rr.x++
	}
	return nil
}

func (rr *rowReader) fill(n int, idx raster.Index) error {
	if err := rr.reserve(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		rr.row[rr.x] = idx
		rr.x++
	}
	return nil
}

func plain(b byte) raster.Index { return raster.Index(b) }

func (rr *rowReader) decode() error {
	opts := rr.decoder.opts
	for {
		at := rr.offset()
		cmd, err := rr.next()
		if err != nil {
			return err
		}

		switch cmd & 0x0f {
		case opEndOfRow:
			return nil
		case opCopyLong:
			n, err := rr.longLength(cmd)
			if err != nil {
				return err
			}
			if err := rr.copy(n, plain); err != nil {
				return err
			}
		case opSkipLong:
			n, err := rr.longLength(cmd)
			if err != nil {
				return err
			}
			rr.x += n
		case opPlayerCopy:
			n, err := rr.nibbleLength(cmd)
			if err != nil {
				return err
			}
			if err := rr.copy(n, opts.PlayerColor); err != nil {
				return err
			}
		case opFill:
			n, err := rr.nibbleLength(cmd)
			if err != nil {
				return err
			}
			b, err := rr.next()
			if err != nil {
				return err
			}
			if err := rr.fill(n, raster.Index(b)); err != nil {
				return err
			}
		case opPlayerFill:
			n, err := rr.nibbleLength(cmd)
			if err != nil {
				return err
			}
			b, err := rr.next()
			if err != nil {
				return err
			}
			if err := rr.fill(n, opts.PlayerColor(b)); err != nil {
				return err
			}
		case opShadowFill:
			n, err := rr.nibbleLength(cmd)
			if err != nil {
				return err
			}
			if err := rr.fill(n, opts.ShadowIndex); err != nil {
				return err
			}
		case opExtended:
			rr.decoder.warn(&rge.UnimplementedCommandError{
				Format:  formatName,
				Frame:   rr.frame,
				Row:     rr.y,
				Offset:  at,
				Command: cmd,
				Detail:  "extended command",
			})
		default:
			n := int(cmd >> 2)
			switch cmd & shortCopyMask {
			case shortCopy:
				if err := rr.copy(n, plain); err != nil {
					return err
				}
			case shortSkip:
				rr.x += n
			}
		}
	}
}
