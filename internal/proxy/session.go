package proxy

import (
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/Versifine/protolib/internal/protocol"
)

// Session is one client connection and its backend connection.
type Session struct {
	id      uuid.UUID
	client  net.Conn
	backend net.Conn
	state   *protocol.ConnState

	clientMu  sync.Mutex
	backendMu sync.Mutex
	closeOnce sync.Once

	// switchMu is held while a packet that changes the connection state or
	// compression is written. Frames are decoded under its read side, so a
	// frame that arrives during the switch sees the new settings.
	switchMu sync.RWMutex
}

func newSession(client, backend net.Conn) *Session {
	return &Session{
		id:      uuid.New(),
		client:  client,
		backend: backend,
		state:   protocol.NewConnState(),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) RemoteAddr() net.Addr {
	return s.client.RemoteAddr()
}

func (s *Session) State() protocol.State {
	return s.state.Get()
}

// source is where packets travelling in dir are read from.
func (s *Session) source(dir protocol.Direction) net.Conn {
	if dir == protocol.Clientbound {
		return s.backend
	}
	return s.client
}

// read returns the next packet travelling in dir and the state it was
// read in. The settings are read after the whole frame has arrived.
func (s *Session) read(dir protocol.Direction) (*protocol.Packet, protocol.State, error) {
	frame, err := protocol.ReadFrame(s.source(dir))
	if err != nil {
		return nil, 0, err
	}
	s.switchMu.RLock()
	defer s.switchMu.RUnlock()
	state := s.state.Get()
	p, err := protocol.DecodeFrame(frame, s.state.GetThreshold())
	return p, state, err
}

// writeSwitch writes p with the current settings, then applies change.
func (s *Session) writeSwitch(dir protocol.Direction, p *protocol.Packet, change func(*protocol.ConnState)) error {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	if err := s.write(dir, p); err != nil {
		return err
	}
	change(s.state)
	return nil
}

// write sends p to the peer that receives packets travelling in dir.
func (s *Session) write(dir protocol.Direction, p *protocol.Packet) error {
	conn, mu := s.backend, &s.backendMu
	if dir == protocol.Clientbound {
		conn, mu = s.client, &s.clientMu
	}
	mu.Lock()
	defer mu.Unlock()
	return protocol.WritePacket(conn, p, s.state.GetThreshold())
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.client.Close()
		_ = s.backend.Close()
	})
}
