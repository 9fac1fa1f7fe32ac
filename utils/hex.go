package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// HexDump renders length bytes of data starting at offset, 16 per line, with
// the absolute offset and an ascii column. The window is clipped to data.
func HexDump(data []byte, offset, length int) string {
	if offset < 0 {
		length += offset
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	end := offset + length
	if end > len(data) {
		end = len(data)
	}
	if end < offset {
		end = offset
	}
	buf := data[offset:end]

	var sb strings.Builder
	for i := 0; i < len(buf); i += 16 {
		stop := i + 16
		if stop > len(buf) {
			stop = len(buf)
		}
		chunk := buf[i:stop]

		fmt.Fprintf(&sb, "%08x  ", offset+i)
		hexStr := hex.EncodeToString(chunk)
		for j := 0; j < len(hexStr); j += 2 {
			sb.WriteString(hexStr[j : j+2])
			sb.WriteByte(' ')
		}
		// padding if not full 16
		for j := len(chunk); j < 16; j++ {
			sb.WriteString("   ")
		}

		sb.WriteString(" |")
		for _, b := range chunk {
			if b < 0x80 && unicode.IsPrint(rune(b)) {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
