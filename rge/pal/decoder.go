// Package pal loads the 256-color palettes shape files are drawn with.
package pal

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/pkg/errors"
)

const formatName = "pal"

// JascMagic opens a JASC-PAL text palette.
const JascMagic = "JASC-PAL"

// Channel is the byte layout of one raw palette entry.
type Channel uint8

const (
	ChannelRGB Channel = iota
	// ChannelBGRX is the Windows RGBQUAD order with an unused fourth byte.
	ChannelBGRX
	ChannelGray
)

func (c Channel) depth() int {
	switch c {
	case ChannelBGRX:
		return 4
	case ChannelGray:
		return 1
	default:
		return 3
	}
}

type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads a JASC-PAL text palette or, failing the magic, 256 raw RGB
// triples. Entries past the 256th are ignored.
func (decoder *Decoder) Decode() (*raster.Palette, error) {
	magic, _ := decoder.r.Peek(len(JascMagic))
	if string(magic) == JascMagic {
		return decoder.decodeJasc()
	}
	return decoder.DecodeRaw(ChannelRGB)
}

func (decoder *Decoder) DecodeRaw(layout Channel) (*raster.Palette, error) {
	pal := new(raster.Palette)
	buf := make([]byte, layout.depth())
	for i := range pal {
		if _, err := io.ReadFull(decoder.r, buf); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, rge.WrapFormatError(err, formatName, "raw palette has %d of %d entries", i, raster.PaletteSize)
		}
		switch layout {
		case ChannelRGB:
			pal[i] = raster.Color{R: buf[0], G: buf[1], B: buf[2]}
		case ChannelBGRX:
			pal[i] = raster.Color{R: buf[2], G: buf[1], B: buf[0]}
		case ChannelGray:
			pal[i] = raster.Color{R: buf[0], G: buf[0], B: buf[0]}
		}
	}
	return pal, nil
}

func (decoder *Decoder) decodeJasc() (*raster.Palette, error) {
	scanner := bufio.NewScanner(decoder.r)
	line := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			line++
			if s := strings.TrimSpace(scanner.Text()); s != "" {
				return s, true
			}
		}
		return "", false
	}

	if s, _ := next(); s != JascMagic {
		return nil, rge.NewFormatError(formatName, "line %d: want %q", line, JascMagic)
	}
	if s, _ := next(); s != "0100" {
		return nil, rge.NewFormatError(formatName, "line %d: unsupported version %q", line, s)
	}
	s, _ := next()
	count, err := strconv.Atoi(s)
	if err != nil {
		return nil, rge.WrapFormatError(err, formatName, "line %d: color count", line)
	}
	if count < raster.PaletteSize {
		return nil, rge.NewFormatError(formatName, "palette has %d of %d entries", count, raster.PaletteSize)
	}

	pal := new(raster.Palette)
	for i := range pal {
		s, ok := next()
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, errors.Wrap(err, "pal: reading JASC palette")
			}
			return nil, rge.WrapFormatError(io.ErrUnexpectedEOF, formatName, "palette has %d of %d entries", i, raster.PaletteSize)
		}
		c, err := parseJascColor(s)
		if err != nil {
			return nil, rge.WrapFormatError(err, formatName, "line %d", line)
		}
		pal[i] = c
	}
	return pal, nil
}

func parseJascColor(s string) (raster.Color, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return raster.Color{}, errors.Errorf("want 3 components, got %q", s)
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return raster.Color{}, errors.Wrapf(err, "component %d", i)
		}
		rgb[i] = uint8(v)
	}
	return raster.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// Load decodes a palette held in memory.
func Load(data []byte) (*raster.Palette, error) {
	return NewDecoder(bytes.NewReader(data)).Decode()
}
