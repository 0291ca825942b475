package protocol

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
)

const MaxPacketSize = 2097152 // 2MB

// Packet is a decoded frame: the packet id and its undecoded payload.
type Packet struct {
	ID      int32
	Payload []byte
}

func (p *Packet) Clone() *Packet {
	if p == nil {
		return nil
	}
	return &Packet{ID: p.ID, Payload: append([]byte(nil), p.Payload...)}
}

// ReadPacket reads one frame and decodes it. A negative threshold means
// compression is off; otherwise every frame carries a data length that is
// zero for uncompressed bodies.
func ReadPacket(r io.Reader, threshold int) (*Packet, error) {
	frame, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return DecodeFrame(frame, threshold)
}

// ReadFrame reads the bytes of one length-prefixed frame without decoding
// them.
func ReadFrame(r io.Reader) ([]byte, error) {
	frameLen, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if frameLen <= 0 {
		return nil, ErrInvalidPacket
	}
	if frameLen > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}

	frame := make([]byte, frameLen)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, errors.Join(ErrInvalidPacket, err)
	}
	return frame, nil
}

// DecodeFrame decodes a frame returned by ReadFrame under threshold.
func DecodeFrame(frame []byte, threshold int) (*Packet, error) {
	var body io.Reader = bytes.NewReader(frame)

	if threshold >= 0 {
		dataLen, err := ReadVarInt(body)
		if err != nil {
			return nil, err
		}
		if dataLen < 0 || dataLen > MaxPacketSize {
			return nil, ErrPacketTooLarge
		}
		if dataLen != 0 {
			z, err := zlib.NewReader(body)
			if err != nil {
				return nil, errors.Join(ErrInvalidPacket, err)
			}
			defer z.Close()

			inflated := make([]byte, dataLen)
			if _, err := io.ReadFull(z, inflated); err != nil {
				return nil, errors.Join(ErrInvalidPacket, err)
			}
			body = bytes.NewReader(inflated)
		}
	}

	id, err := ReadVarInt(body)
	if err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return &Packet{ID: id, Payload: payload}, nil
}

// WritePacket writes packet as one frame, compressing bodies of at least
// threshold bytes when threshold is not negative.
func WritePacket(w io.Writer, packet *Packet, threshold int) error {
	var raw bytes.Buffer
	raw.Grow(VarIntLen(packet.ID) + len(packet.Payload))
	if err := WriteVarInt(&raw, packet.ID); err != nil {
		return err
	}
	raw.Write(packet.Payload)

	var frame bytes.Buffer
	switch {
	case threshold < 0:
		frame.Write(raw.Bytes())
	case raw.Len() >= threshold:
		if err := WriteVarInt(&frame, int32(raw.Len())); err != nil {
			return err
		}
		z := zlib.NewWriter(&frame)
		if _, err := z.Write(raw.Bytes()); err != nil {
			return err
		}
		if err := z.Close(); err != nil {
			return err
		}
	default:
		if err := WriteVarInt(&frame, 0); err != nil {
			return err
		}
		frame.Write(raw.Bytes())
	}

	if frame.Len() > MaxPacketSize {
		return ErrPacketTooLarge
	}
	if err := WriteVarInt(w, int32(frame.Len())); err != nil {
		return err
	}
	_, err := w.Write(frame.Bytes())
	return err
}
