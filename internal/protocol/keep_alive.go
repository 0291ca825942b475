package protocol

import (
	"bytes"
	"io"
)

// KeepAlive has the same layout in both directions and in both the
// configuration and play states.
type KeepAlive struct {
	KeepAliveID int64
}

func NewKeepAlive(keepAliveID int64) *KeepAlive {
	return &KeepAlive{KeepAliveID: keepAliveID}
}

func ParseKeepAlive(payload []byte) (*KeepAlive, error) {
	id, err := ReadInt64(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return &KeepAlive{KeepAliveID: id}, nil
}

func (k *KeepAlive) MarshalPayload(w io.Writer) error {
	return WriteInt64(w, k.KeepAliveID)
}
