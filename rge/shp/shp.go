// Package shp decodes "1.10" SHP shape files.
package shp

import (
	"encoding/binary"
)

const (
	Magic      = "1.10"
	formatName = "shp"
)

const (
	cmdEndOfRow = 0x00
	cmdSkip     = 0x01
)

type header struct {
	Version    [4]byte
	FrameCount uint32
}

type frameEntry struct {
	Offset uint32
	_      uint32 // palette offset, unused
}

type frameHeader struct {
	_                        [4]int16 // legacy height/width/origin
	Left, Top, Right, Bottom int32
}

var (
	headerSize      = binary.Size(header{})
	frameEntrySize  = binary.Size(frameEntry{})
	frameHeaderSize = binary.Size(frameHeader{})
)
