package utils

import (
	"encoding/binary"
	"io"
)

// ReadByte reads one byte; running out of input mid-stream is always unexpected.
func ReadByte(reader io.ByteReader) (byte, error) {
	b, err := reader.ReadByte()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return b, err
}

func ReadUint16At(r io.ReaderAt, offset int64) (uint16, error) {
	var buf [2]byte
	if err := readAt(r, buf[:], offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func ReadInt16At(r io.ReaderAt, offset int64) (int16, error) {
	v, err := ReadUint16At(r, offset)
	return int16(v), err
}

func ReadUint32At(r io.ReaderAt, offset int64) (uint32, error) {
	var buf [4]byte
	if err := readAt(r, buf[:], offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func ReadInt32At(r io.ReaderAt, offset int64) (int32, error) {
	v, err := ReadUint32At(r, offset)
	return int32(v), err
}

func readAt(r io.ReaderAt, buf []byte, offset int64) error {
	if offset < 0 {
		return io.ErrUnexpectedEOF
	}
	n, err := r.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
