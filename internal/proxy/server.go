// Package proxy 负责 TCP 连接管理与数据包转发
// 每个数据包都会经过 Hook 链，写出后再执行附加在 NetworkMarker 上的处理
package proxy

import (
	"context"
	"io"
	"log/slog"
	"net"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Versifine/protolib/internal/event"
	"github.com/Versifine/protolib/internal/hook"
	"github.com/Versifine/protolib/internal/injector"
	"github.com/Versifine/protolib/internal/logger"
	"github.com/Versifine/protolib/internal/packets"
	"github.com/Versifine/protolib/internal/plugin"
	"github.com/Versifine/protolib/internal/protocol"
	"github.com/Versifine/protolib/internal/report"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrNoPackets      = errors.New("no packet registry configured")
)

type Options struct {
	Reporter report.Reporter
	Packets  *packets.Registry
	Bus      *event.Bus
}

type Server struct {
	listenerAddr string
	backendAddr  string

	hooks     *hook.Chain
	processor *injector.NetworkProcessor
	packets   *packets.Registry
	bus       *event.Bus
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewServer(listenerAddr, backendAddr string, opts Options) *Server {
	lg := logger.WithComponent("proxy")
	if opts.Reporter == nil {
		opts.Reporter = report.NewBasic(lg, report.Options{})
	}
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	s := &Server{
		listenerAddr: listenerAddr,
		backendAddr:  backendAddr,
		hooks:        hook.NewChain(opts.Reporter),
		packets:      opts.Packets,
		bus:          opts.Bus,
		logger:       lg,
		sessions:     make(map[uuid.UUID]*Session),
	}
	s.processor = injector.NewNetworkProcessor(opts.Reporter, s)
	return s
}

func (s *Server) Bus() *event.Bus {
	return s.bus
}

// Register adds h to the hooks run for every packet.
func (s *Server) Register(owner plugin.Plugin, h hook.Hook) {
	s.hooks.Register(owner, h)
	s.logger.Info("Hook registered", "plugin", owner.String())
}

func (s *Server) Unregister(owner plugin.Plugin) {
	s.hooks.Unregister(owner)
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting proxy server", "listenerAddr", s.listenerAddr, "backendAddr", s.backendAddr)
	netListener, err := net.Listen("tcp", s.listenerAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, netListener)
}

// Serve accepts connections on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	defer l.Close()
	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down proxy server")
		_ = l.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.closeAll()
				s.logger.Info("Proxy server stopped")
				return nil
			}
			s.logger.Error("Error accepting connection", "error", err)
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(clientConn net.Conn) {
	if tcpConn, ok := clientConn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	backendConn, err := net.Dial("tcp", s.backendAddr)
	if err != nil {
		s.logger.Error("Error connecting to backend", "error", err)
		clientConn.Close()
		return
	}
	if tcpConn, ok := backendConn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	session := newSession(clientConn, backendConn)
	s.addSession(session)
	defer s.removeSession(session)
	defer session.Close()

	log := s.logger.With("session", session.ID().String())
	log.Info("Proxying connection", "client", clientConn.RemoteAddr(), "backend", s.backendAddr)
	s.bus.Publish(event.EventSessionOpen, event.SessionEvent{Session: session})

	errs := make(chan error, 2)
	for _, dir := range []protocol.Direction{protocol.Serverbound, protocol.Clientbound} {
		go func(dir protocol.Direction) {
			err := s.relay(session, dir)
			if err != nil {
				log.Error("Error relaying packets", "direction", dir.String(), "error", err)
			}
			errs <- err
			// Unblock the other direction.
			session.Close()
		}(dir)
	}
	first := <-errs
	if second := <-errs; first == nil {
		first = second
	}

	s.bus.Publish(event.EventSessionClose, event.SessionEvent{Session: session, Err: first})
	log.Info("Connection closed", "client", clientConn.RemoteAddr())
}

func (s *Server) relay(session *Session, dir protocol.Direction) error {
	for {
		packet, state, err := session.read(dir)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		evt := event.NewPacketEvent(session, packet, state, dir)
		if err := s.dispatch(session, evt); err != nil {
			return err
		}
	}
}

// dispatch runs the hooks, writes the packet unless it was cancelled and
// then runs the post-send work of its marker. Only errors that should end
// the session are returned.
func (s *Server) dispatch(session *Session, evt *event.PacketEvent) error {
	s.hooks.OnPacket(evt)
	if evt.Cancelled() || evt.Packet == nil {
		s.bus.Publish(event.EventPacketCancelled, event.CancelledEvent{
			Session: session, Key: evt.Key(), Direction: evt.Direction,
		})
		return nil
	}

	change, err := s.transition(session, evt)
	if err != nil {
		return err
	}
	if change != nil {
		err = session.writeSwitch(evt.Direction, evt.Packet, change)
	} else {
		err = session.write(evt.Direction, evt.Packet)
	}
	if err != nil {
		return errors.Wrapf(err, "write %s packet 0x%02x", evt.Direction, evt.Packet.ID)
	}

	err = s.processor.InvokePostEvent(evt, evt.Marker())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, injector.ErrResourceExhausted):
		return err
	default:
		s.logger.Warn("Scheduled packet failed", "session", session.ID().String(), "error", err)
		return nil
	}
}

// transition returns the connection change that takes effect once evt has
// been written, or nil when the packet changes nothing.
func (s *Server) transition(session *Session, evt *event.PacketEvent) (func(*protocol.ConnState), error) {
	p := evt.Packet
	serverbound := evt.Direction == protocol.Serverbound
	switch evt.State {
	case protocol.Handshaking:
		if serverbound && p.ID == protocol.C2SHandshake {
			hs, err := protocol.ParseHandshake(p.Payload)
			if err != nil {
				return nil, errors.Wrap(err, "parse handshake")
			}
			s.logger.Info("Handshake", "session", session.ID().String(),
				"protocolVersion", hs.ProtocolVersion, "serverAddress", hs.ServerAddress,
				"serverPort", hs.ServerPort, "nextState", hs.NextState)
			return setState(hs.Target()), nil
		}
	case protocol.Login:
		switch {
		case serverbound && p.ID == protocol.C2SLoginStart:
			if ls, err := protocol.ParseLoginStart(p.Payload); err == nil {
				s.logger.Info("Login start", "session", session.ID().String(), "username", ls.Username, "uuid", ls.UUID.String())
			}
		case !serverbound && p.ID == protocol.S2CSetCompression:
			sc, err := protocol.ParseSetCompression(p.Payload)
			if err != nil {
				return nil, errors.Wrap(err, "parse set compression")
			}
			threshold := int(sc.Threshold)
			return func(cs *protocol.ConnState) { cs.SetThreshold(threshold) }, nil
		case serverbound && p.ID == protocol.C2SLoginAcknowledge:
			return setState(protocol.Configuration), nil
		}
	case protocol.Configuration:
		if serverbound && p.ID == protocol.C2SFinishConfiguration {
			return setState(protocol.Play), nil
		}
	}
	return nil, nil
}

func setState(state protocol.State) func(*protocol.ConnState) {
	return func(cs *protocol.ConnState) { cs.Set(state) }
}

// SendServerPacket implements event.ProtocolManager.
func (s *Server) SendServerPacket(target event.Session, packet *protocol.Packet, filtered bool) error {
	return s.inject(target, packet, protocol.Clientbound, filtered)
}

// ReceiveClientPacket implements event.ProtocolManager.
func (s *Server) ReceiveClientPacket(target event.Session, packet *protocol.Packet, filtered bool) error {
	return s.inject(target, packet, protocol.Serverbound, filtered)
}

func (s *Server) inject(target event.Session, packet *protocol.Packet, dir protocol.Direction, filtered bool) error {
	if target == nil {
		return ErrUnknownSession
	}
	session, ok := s.Session(target.ID())
	if !ok {
		return errors.Wrapf(ErrUnknownSession, "session %s", target.ID())
	}
	if !filtered {
		return session.write(dir, packet)
	}
	evt := event.NewPacketEvent(session, packet, session.state.Get(), dir)
	evt.Injected = true
	return s.dispatch(session, evt)
}

// CreatePacket returns a blank packet for key, built from its registered
// packet type.
func (s *Server) CreatePacket(key protocol.Key) (*protocol.Packet, error) {
	if s.packets == nil {
		return nil, ErrNoPackets
	}
	return s.packets.Encode(key)
}

// PacketType returns the packet type registered for key.
func (s *Server) PacketType(key protocol.Key) (reflect.Type, bool) {
	if s.packets == nil {
		return nil, false
	}
	return s.packets.Lookup(key)
}

func (s *Server) Session(id uuid.UUID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *Server) Sessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

func (s *Server) addSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
}

func (s *Server) removeSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session.ID())
}

func (s *Server) closeAll() {
	for _, session := range s.Sessions() {
		session.Close()
	}
}
