package protocol

import (
	"crypto/md5"
	"encoding/binary"
	"io"

	"github.com/google/uuid"
)

// MaxStringLength is the longest string the protocol allows, in bytes.
const MaxStringLength = 32767 * 3

func ReadString(r io.Reader) (string, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", ErrInvalidPacket
	}
	if length > MaxStringLength {
		return "", ErrStringTooLong
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func WriteString(w io.Writer, s string) error {
	if len(s) > MaxStringLength {
		return ErrStringTooLong
	}
	if err := WriteVarInt(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func WriteUint16(w io.Writer, value uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], value)
	_, err := w.Write(buf[:])
	return err
}

func ReadInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func WriteInt64(w io.Writer, value int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(value))
	_, err := w.Write(buf[:])
	return err
}

func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

func WriteBool(w io.Writer, value bool) error {
	var b byte
	if value {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func ReadUUID(r io.Reader) (uuid.UUID, error) {
	var id uuid.UUID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func WriteUUID(w io.Writer, id uuid.UUID) error {
	_, err := w.Write(id[:])
	return err
}

// OfflineUUID is the version 3 UUID an offline-mode server assigns to
// username: MD5("OfflinePlayer:" + username) with version and variant set.
func OfflineUUID(username string) uuid.UUID {
	hash := md5.Sum([]byte("OfflinePlayer:" + username))
	hash[6] = (hash[6] & 0x0F) | 0x30
	hash[8] = (hash[8] & 0x3F) | 0x80
	return uuid.UUID(hash)
}
