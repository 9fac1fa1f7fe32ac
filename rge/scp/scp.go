// Package scp decodes "2.0C" compiled shape files.
//
// Compiled shapes store every row's visible pixels contiguously, padded to a
// multiple of four bytes. Rows whose span is not dword aligned are split into
// an aligned middle block followed by the left and right leftover pixels in
// the interleaved order of the layouts table.
package scp

import "encoding/binary"

const (
	Magic      = "2.0C"
	formatName = "scp"

	Comment = "RGE Compiled shape file"
)

const outlineEntrySize = 8

type header struct {
	Version    [4]byte
	FrameCount uint32
	Comment    [24]byte
}

type frameInfo struct {
	DataOffset       uint32
	OutlineOffset    uint32
	DrawFunction     int32
	Properties       uint32
	Width, Height    int32
	AnchorX, AnchorY int32
}

var (
	headerSize    = binary.Size(header{})
	frameInfoSize = binary.Size(frameInfo{})
)

// slot names where a leftover byte lands: l<k> is column left+k, r<k> is
// column rowEnd-1-k, pad is consumed and dropped.
type slot uint8

const (
	l0 slot = iota
	l1
	l2
	r0
	r1
	r2
	pad
)

// layouts[L][R] is the stored byte order of L left and R right leftovers.
var layouts = [4][4][]slot{
	{nil, {r0}, {r1, r0}, {r2, r1, r0}},
	{{pad, l0}, {r0, l0}, {r1, l0, pad, r0}, {r2, l0, r0, r1}},
	{{l0, l1}, {l0, l1, r0}, {l0, r0, r1, l1}, {l0, r1, r2, l1, r0}},
	{{l1, l0, pad, l2}, {l1, l0, r0, l2}, {l1, r0, r1, l0, pad, l2}, {l1, r1, r2, l0, r0, l2}},
}

// storedLen is the padded byte count of a row with n visible pixels.
func storedLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 3) &^ 3
}
