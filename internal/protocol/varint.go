package protocol

import (
	"io"
)

const (
	segmentBits = 0x7F
	continueBit = 0x80
)

func ReadVarInt(r io.Reader) (int32, error) {
	var (
		value    uint32
		position uint
		b        [1]byte
	)
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		value |= uint32(b[0]&segmentBits) << position
		if b[0]&continueBit == 0 {
			return int32(value), nil
		}
		position += 7
		if position >= 32 {
			return 0, ErrVarIntTooLong
		}
	}
}

func WriteVarInt(w io.Writer, value int32) error {
	var buf [5]byte
	n := putUvarint(buf[:], uint64(uint32(value)))
	_, err := w.Write(buf[:n])
	return err
}

func ReadVarLong(r io.Reader) (int64, error) {
	var (
		value    uint64
		position uint
		b        [1]byte
	)
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		value |= uint64(b[0]&segmentBits) << position
		if b[0]&continueBit == 0 {
			return int64(value), nil
		}
		position += 7
		if position >= 64 {
			return 0, ErrVarLongTooLong
		}
	}
}

func WriteVarLong(w io.Writer, value int64) error {
	var buf [10]byte
	n := putUvarint(buf[:], uint64(value))
	_, err := w.Write(buf[:n])
	return err
}

// VarIntLen is the encoded size of value in bytes.
func VarIntLen(value int32) int {
	var buf [5]byte
	return putUvarint(buf[:], uint64(uint32(value)))
}

func putUvarint(buf []byte, v uint64) int {
	i := 0
	for {
		b := byte(v & segmentBits)
		v >>= 7
		if v != 0 {
			buf[i] = b | continueBit
			i++
			continue
		}
		buf[i] = b
		return i + 1
	}
}
