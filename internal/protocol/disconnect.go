package protocol

import (
	"bytes"
	"encoding/json"
	"io"
)

// Disconnect carries a JSON text component.
type Disconnect struct {
	Reason string
}

// DisconnectText builds a Disconnect whose reason is the plain text s.
func DisconnectText(s string) *Disconnect {
	raw, _ := json.Marshal(map[string]string{"text": s})
	return &Disconnect{Reason: string(raw)}
}

func readDisconnect(r *bytes.Reader) (*Disconnect, error) {
	reason, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return &Disconnect{Reason: reason}, nil
}

func ParseDisconnect(payload []byte) (*Disconnect, error) {
	return readDisconnect(bytes.NewReader(payload))
}

func (d *Disconnect) MarshalPayload(w io.Writer) error {
	return WriteString(w, d.Reason)
}
