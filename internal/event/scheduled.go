package event

import (
	"github.com/pkg/errors"

	"github.com/Versifine/protolib/internal/protocol"
)

//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/Versifine/protolib/internal/event ProtocolManager

// ProtocolManager sends packets to sessions on behalf of plugins.
type ProtocolManager interface {
	// SendServerPacket sends packet to the client of target as if the
	// server had sent it.
	SendServerPacket(target Session, packet *protocol.Packet, filtered bool) error
	// ReceiveClientPacket sends packet to the server as if the client of
	// target had sent it.
	ReceiveClientPacket(target Session, packet *protocol.Packet, filtered bool) error
}

// Scheduler is deferred outbound work that submits itself to a manager.
type Scheduler interface {
	Schedule(m ProtocolManager) error
}

// ScheduledPacket is a packet to send once the current one has been
// written. Filtered packets go through the hooks like captured ones.
type ScheduledPacket struct {
	Target   Session
	Packet   *protocol.Packet
	Filtered bool
	// Outbound packets go to the client, the others to the server.
	Outbound bool
}

func NewServerPacket(target Session, packet *protocol.Packet, filtered bool) *ScheduledPacket {
	return &ScheduledPacket{Target: target, Packet: packet, Filtered: filtered, Outbound: true}
}

func NewClientPacket(target Session, packet *protocol.Packet, filtered bool) *ScheduledPacket {
	return &ScheduledPacket{Target: target, Packet: packet, Filtered: filtered}
}

func (p *ScheduledPacket) Schedule(m ProtocolManager) error {
	if p.Target == nil {
		return errors.New("scheduled packet has no target")
	}
	if p.Packet == nil {
		return errors.Errorf("scheduled packet for %s is empty", p.Target.ID())
	}
	if p.Outbound {
		return errors.Wrapf(m.SendServerPacket(p.Target, p.Packet, p.Filtered),
			"send packet 0x%02x to %s", p.Packet.ID, p.Target.ID())
	}
	return errors.Wrapf(m.ReceiveClientPacket(p.Target, p.Packet, p.Filtered),
		"receive packet 0x%02x from %s", p.Packet.ID, p.Target.ID())
}
