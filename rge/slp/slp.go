// Package slp decodes "2.0N" SLP shape files.
package slp

import "encoding/binary"

const (
	Magic      = "2.0N"
	formatName = "slp"

	CommentRGE     = "RGE RLE shape file"
	CommentArtDesk = "ArtDesk 1.00 SLP Writer"
)

// emptyRow in either outline margin marks a row without pixels.
const emptyRow = -32768

// Low nibble opcodes that are not part of the 2-bit short forms.
const (
	opCopyLong   = 0x2
	opSkipLong   = 0x3
	opPlayerCopy = 0x6
	opFill       = 0x7
	opPlayerFill = 0xa
	opShadowFill = 0xb
	opExtended   = 0xe
	opEndOfRow   = 0xf
)

// Nibbles 0,4,8,c and 1,5,9,d carry their length in the upper six bits.
const (
	shortCopyMask = 0x3
	shortCopy     = 0x0
	shortSkip     = 0x1
)

const (
	outlineEntrySize = 4
	commandEntrySize = 4
)

type header struct {
	Version    [4]byte
	FrameCount uint32
	Comment    [24]byte
}

type frameInfo struct {
	CommandTableOffset uint32
	OutlineTableOffset uint32
	PaletteOffset      uint32
	Properties         uint32
	Width, Height      int32
	AnchorX, AnchorY   int32
}

var (
	headerSize    = binary.Size(header{})
	frameInfoSize = binary.Size(frameInfo{})
)
