package event

import (
	"github.com/Versifine/protolib/internal/protocol"
)

// PacketEvent is one captured packet on its way through the proxy. Hooks may
// replace the packet, cancel it, or attach work to its NetworkMarker.
type PacketEvent struct {
	Session   Session
	Packet    *protocol.Packet
	State     protocol.State
	Direction protocol.Direction
	// Injected is set for packets sent through a ProtocolManager rather
	// than read off the wire.
	Injected bool

	cancelled bool
	marker    *NetworkMarker
}

func NewPacketEvent(session Session, packet *protocol.Packet, state protocol.State, dir protocol.Direction) *PacketEvent {
	return &PacketEvent{
		Session:   session,
		Packet:    packet,
		State:     state,
		Direction: dir,
	}
}

func (e *PacketEvent) Key() protocol.Key {
	var id int32
	if e.Packet != nil {
		id = e.Packet.ID
	}
	return protocol.Key{State: e.State, Direction: e.Direction, ID: id}
}

// IsServerPacket reports whether the packet is sent by the server.
func (e *PacketEvent) IsServerPacket() bool {
	return e.Direction == protocol.Clientbound
}

func (e *PacketEvent) Cancel() {
	e.cancelled = true
}

func (e *PacketEvent) SetCancelled(cancelled bool) {
	e.cancelled = cancelled
}

func (e *PacketEvent) Cancelled() bool {
	return e.cancelled
}

// NetworkMarker returns the marker of this event, creating it on first use.
func (e *PacketEvent) NetworkMarker() *NetworkMarker {
	if e.marker == nil {
		e.marker = NewNetworkMarker(e.Direction)
	}
	return e.marker
}

// Marker returns the marker, or nil when nothing asked for one.
func (e *PacketEvent) Marker() *NetworkMarker {
	return e.marker
}

// AddPostListener runs l after the packet has been written.
func (e *PacketEvent) AddPostListener(l PostListener) {
	e.NetworkMarker().AddPostListener(l)
}

// Schedule sends p after the packet has been written.
func (e *PacketEvent) Schedule(p Scheduler) {
	e.NetworkMarker().Schedule(p)
}
