package scp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/cam-per/rgeshape/internal/ttesting"
	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/raster"
)

type testRow struct {
	left, right int32
	data        []byte // padded stored bytes
}

type testFrame struct {
	width            int32
	anchorX, anchorY int32
	rows             []testRow
}

func buildSCP(magic, comment string, frames ...testFrame) []byte {
	dataStart := headerSize + len(frames)*frameInfoSize
	var body bytes.Buffer
	infos := make([]frameInfo, len(frames))
	for i, f := range frames {
		outline := dataStart + body.Len()
		for _, r := range f.rows {
			binary.Write(&body, binary.LittleEndian, [2]int32{r.left, r.right})
		}
		data := dataStart + body.Len()
		for _, r := range f.rows {
			body.Write(r.data)
		}
		infos[i] = frameInfo{
			DataOffset:    uint32(data),
			OutlineOffset: uint32(outline),
			Width:         f.width,
			Height:        int32(len(f.rows)),
			AnchorX:       f.anchorX,
			AnchorY:       f.anchorY,
		}
	}

	var h header
	copy(h.Version[:], magic)
	h.FrameCount = uint32(len(frames))
	copy(h.Comment[:], comment)

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, &h)
	binary.Write(&out, binary.LittleEndian, infos)
	out.Write(body.Bytes())
	return out.Bytes()
}

func padded(b []byte) []byte {
	out := make([]byte, storedLen(len(b)))
	for i := range out {
		out[i] = 0xee
	}
	copy(out, b)
	return out
}

// leftoverOrder transcribes the documented source byte order per (L, R).
var leftoverOrder = [4][4]string{
	{"", "R0", "R1,R0", "R2,R1,R0"},
	{"·,L0", "R0,L0", "R1,L0,·,R0", "R2,L0,R0,R1"},
	{"L0,L1", "L0,L1,R0", "L0,R0,R1,L1", "L0,R1,R2,L1,R0"},
	{"L1,L0,·,L2", "L1,L0,R0,L2", "L1,R0,R1,L0,·,L2", "L1,R1,R2,L0,R0,L2"},
}

func TestAlignmentLayouts(t *testing.T) {
	const middle = 4
	for nl := 0; nl < 4; nl++ {
		for nr := 0; nr < 4; nr++ {
			t.Run(fmt.Sprintf("L%d_R%d", nl, nr), func(t *testing.T) {
				left := 4 + (4-nl)%4
				right := 3
				n := nl + middle + nr
				width := left + n + right
				alignedStart := left + nl

				src := []byte{100, 101, 102, 103}
				want := make([]raster.Index, width)
				for i := range want {
					want[i] = raster.Transparent
				}
				for i := 0; i < middle; i++ {
					want[alignedStart+i] = raster.Index(100 + i)
				}
				if order := leftoverOrder[nl][nr]; order != "" {
					for i, tok := range strings.Split(order, ",") {
						v := byte(10 + i)
						src = append(src, v)
						var k int
						switch {
						case tok == "·":
						case tok[0] == 'L':
							fmt.Sscanf(tok, "L%d", &k)
							want[left+k] = raster.Index(v)
						case tok[0] == 'R':
							fmt.Sscanf(tok, "R%d", &k)
							want[width-right-1-k] = raster.Index(v)
						}
					}
				}

				d, err := NewDecoder(bytes.NewReader(buildSCP(Magic, Comment, testFrame{
					width: int32(width),
					rows:  []testRow{{left: int32(left), right: int32(right), data: padded(src)}},
				})), rge.DefaultOptions)
				if err != nil {
					t.Fatalf("NewDecoder: %v", err)
				}
				if got := d.Frames()[0].Row(0); !reflect.DeepEqual(got, want) {
					t.Errorf("row = %v; want %v", got, want)
				}
				ttesting.AssertEqualInt(t, "warnings", len(d.Warnings()), 0)
			})
		}
	}
}

func TestAlignedRowCopiesInOrder(t *testing.T) {
	d, err := NewDecoder(bytes.NewReader(buildSCP(Magic, Comment, testFrame{
		width: 12,
		rows:  []testRow{{left: 4, right: 0, data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}},
	})), rge.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	want := []raster.Index{255, 255, 255, 255, 1, 2, 3, 4, 5, 6, 7, 8}
	ttesting.AssertDeepEqual(t, "row", d.Frames()[0].Row(0), want)
}

func TestCursorAdvancesPastPadding(t *testing.T) {
	d, err := NewDecoder(bytes.NewReader(buildSCP(Magic, Comment, testFrame{
		width: 8,
		rows: []testRow{
			// two pixels on the right, stored padded to four bytes
			{left: 4, right: 2, data: padded([]byte{7, 8})},
			// fully empty row contributes nothing
			{left: 8, right: 0},
			{left: 0, right: 4, data: []byte{1, 2, 3, 4}},
		},
	})), rge.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	f := d.Frames()[0]
	ttesting.AssertDeepEqual(t, "row 0", f.Row(0), []raster.Index{255, 255, 255, 255, 7, 8, 255, 255})
	ttesting.AssertDeepEqual(t, "row 1", f.Row(1), []raster.Index{255, 255, 255, 255, 255, 255, 255, 255})
	ttesting.AssertDeepEqual(t, "row 2", f.Row(2), []raster.Index{1, 2, 3, 4, 255, 255, 255, 255})
}

func TestNarrowMisalignedRowIsWarning(t *testing.T) {
	d, err := NewDecoder(bytes.NewReader(buildSCP(Magic, Comment, testFrame{
		width: 4,
		rows: []testRow{
			{left: 1, right: 1, data: []byte{1, 2, 3, 4}},
			{left: 0, right: 0, data: []byte{5, 6, 7, 8}},
		},
	})), rge.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	f := d.Frames()[0]
	ttesting.AssertEqualInt(t, "warnings", len(d.Warnings()), 1)
	ttesting.AssertDeepEqual(t, "skipped row", f.Row(0), []raster.Index{255, 255, 255, 255})
	ttesting.AssertDeepEqual(t, "next row in sync", f.Row(1), []raster.Index{5, 6, 7, 8})
}

func TestFormatErrors(t *testing.T) {
	row := []testRow{{left: 0, right: 0, data: []byte{1, 2, 3, 4}}}
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"bad magic", buildSCP("2.0N", Comment, testFrame{width: 4, rows: row})},
		{"bad comment", buildSCP(Magic, "RGE RLE shape file", testFrame{width: 4, rows: row})},
		{"no frames", buildSCP(Magic, Comment)},
		{"truncated data", buildSCP(Magic, Comment, testFrame{width: 8, rows: row})},
		{"negative margin", buildSCP(Magic, Comment, testFrame{width: 4, rows: []testRow{{left: -4, right: 4, data: []byte{1, 2, 3, 4}}}})},
		{"margins summing past int32", buildSCP(Magic, Comment, testFrame{width: 4, rows: []testRow{{left: 0x7fffffff, right: -0x7fffffff, data: []byte{1, 2, 3, 4}}}})},
		{"height past outline table", func() []byte {
			b := buildSCP(Magic, Comment, testFrame{width: 4, rows: row})
			// height field of the first frame entry
			binary.LittleEndian.PutUint32(b[headerSize+20:], 1000)
			return b
		}()},
		{"frame too large", func() []byte {
			b := buildSCP(Magic, Comment, testFrame{width: 4, rows: row})
			binary.LittleEndian.PutUint32(b[headerSize+16:], 0x7fffffff)
			binary.LittleEndian.PutUint32(b[headerSize+20:], 0x7fffffff)
			return b
		}()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDecoder(bytes.NewReader(tc.data), rge.DefaultOptions)
			if !rge.IsFormatError(err) {
				t.Errorf("err = %v; want FormatError", err)
			}
		})
	}
}

func TestOverlappingMarginsAreEmptyRows(t *testing.T) {
	d, err := NewDecoder(bytes.NewReader(buildSCP(Magic, Comment, testFrame{
		width: 4,
		rows: []testRow{
			{left: 0x7fffffff, right: 0x7fffffff},
			{left: 0, right: 0, data: []byte{1, 2, 3, 4}},
		},
	})), rge.DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	f := d.Frames()[0]
	ttesting.AssertDeepEqual(t, "empty row", f.Row(0), []raster.Index{255, 255, 255, 255})
	ttesting.AssertDeepEqual(t, "next row", f.Row(1), []raster.Index{1, 2, 3, 4})
	ttesting.AssertEqualInt(t, "warnings", len(d.Warnings()), 0)
}
