package protocol

import (
	"bytes"
	"io"

	"github.com/google/uuid"
)

type LoginStart struct {
	Username string
	UUID     uuid.UUID
}

// NewLoginStart uses the offline-mode UUID of username.
func NewLoginStart(username string) *LoginStart {
	return &LoginStart{Username: username, UUID: OfflineUUID(username)}
}

func ParseLoginStart(payload []byte) (*LoginStart, error) {
	r := bytes.NewReader(payload)
	username, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	id, err := ReadUUID(r)
	if err != nil {
		return nil, err
	}
	return &LoginStart{Username: username, UUID: id}, nil
}

func (l *LoginStart) MarshalPayload(w io.Writer) error {
	if err := WriteString(w, l.Username); err != nil {
		return err
	}
	return WriteUUID(w, l.UUID)
}

type SetCompression struct {
	Threshold int32
}

func NewSetCompression(threshold int32) *SetCompression {
	return &SetCompression{Threshold: threshold}
}

func ParseSetCompression(payload []byte) (*SetCompression, error) {
	threshold, err := ReadVarInt(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return &SetCompression{Threshold: threshold}, nil
}

func (s *SetCompression) MarshalPayload(w io.Writer) error {
	return WriteVarInt(w, s.Threshold)
}
