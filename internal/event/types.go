package event

import (
	"net"

	"github.com/google/uuid"

	"github.com/Versifine/protolib/internal/protocol"
)

const (
	EventSessionOpen     = "session.open"
	EventSessionClose    = "session.close"
	EventPacketCancelled = "packet.cancelled"
)

// Session is one proxied client connection.
type Session interface {
	ID() uuid.UUID
	RemoteAddr() net.Addr
}

// SessionEvent is published on EventSessionOpen and EventSessionClose.
type SessionEvent struct {
	Session Session
	Err     error
}

// CancelledEvent is published when a hook cancels a packet.
type CancelledEvent struct {
	Session   Session
	Key       protocol.Key
	Direction protocol.Direction
}
