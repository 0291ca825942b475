package protocol

import (
	"bytes"
	"fmt"
	"io"
)

// Body is a typed packet that knows how to write its payload.
type Body interface {
	MarshalPayload(w io.Writer) error
}

// Encode wraps body into a Packet with the given id.
func Encode(id int32, body Body) (*Packet, error) {
	var buf bytes.Buffer
	if err := body.MarshalPayload(&buf); err != nil {
		return nil, fmt.Errorf("encode packet 0x%02x: %w", id, err)
	}
	return &Packet{ID: id, Payload: buf.Bytes()}, nil
}
