package protocol

import (
	"bytes"
	"io"
)

type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func NewHandshake(protocolVersion int32, serverAddress string, serverPort uint16, nextState int32) *Handshake {
	return &Handshake{
		ProtocolVersion: protocolVersion,
		ServerAddress:   serverAddress,
		ServerPort:      serverPort,
		NextState:       nextState,
	}
}

func ParseHandshake(payload []byte) (*Handshake, error) {
	r := bytes.NewReader(payload)
	protocolVersion, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	serverAddress, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	serverPort, err := ReadUint16(r)
	if err != nil {
		return nil, err
	}
	nextState, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return NewHandshake(protocolVersion, serverAddress, serverPort, nextState), nil
}

func (h *Handshake) MarshalPayload(w io.Writer) error {
	if err := WriteVarInt(w, h.ProtocolVersion); err != nil {
		return err
	}
	if err := WriteString(w, h.ServerAddress); err != nil {
		return err
	}
	if err := WriteUint16(w, h.ServerPort); err != nil {
		return err
	}
	return WriteVarInt(w, h.NextState)
}

// Target is the state the client asks to switch to.
func (h *Handshake) Target() State {
	switch h.NextState {
	case 1:
		return Status
	case 2, 3:
		return Login
	default:
		return Handshaking
	}
}
