package protocol

import "sync"

type State int

const (
	Handshaking State = iota
	Status
	Login
	Configuration
	Play
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "handshaking"
	case Status:
		return "status"
	case Login:
		return "login"
	case Configuration:
		return "configuration"
	case Play:
		return "play"
	default:
		return "unknown"
	}
}

// Direction is the way a packet travels.
type Direction int

const (
	// Serverbound packets are sent by the client.
	Serverbound Direction = iota
	// Clientbound packets are sent by the server.
	Clientbound
)

func (d Direction) String() string {
	if d == Clientbound {
		return "S->C"
	}
	return "C->S"
}

// ConnState is shared by both relay directions of one connection.
type ConnState struct {
	mu        sync.Mutex
	state     State
	threshold int
}

func NewConnState() *ConnState {
	return &ConnState{
		threshold: -1,
	}
}

func (cs *ConnState) Set(state State) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.state = state
}

func (cs *ConnState) Get() State {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state
}

func (cs *ConnState) SetThreshold(t int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.threshold = t
}

func (cs *ConnState) GetThreshold() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.threshold
}
