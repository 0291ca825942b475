package event

import (
	"github.com/Versifine/protolib/internal/protocol"
)

// NetworkMarker carries the post-send work of a single packet: listeners
// that run once the packet has been written, and packets to send after them.
// A marker belongs to one event and is consumed once.
type NetworkMarker struct {
	direction     protocol.Direction
	postListeners []PostListener

	// scheduled[head:] is the queue.
	scheduled []Scheduler
	head      int
}

func NewNetworkMarker(dir protocol.Direction) *NetworkMarker {
	return &NetworkMarker{direction: dir}
}

func (m *NetworkMarker) Direction() protocol.Direction {
	return m.direction
}

func (m *NetworkMarker) AddPostListener(l PostListener) {
	if l == nil {
		return
	}
	m.postListeners = append(m.postListeners, l)
}

// PostListeners returns the listeners in registration order.
func (m *NetworkMarker) PostListeners() []PostListener {
	return m.postListeners
}

// HasPostListeners tolerates a nil marker.
func HasPostListeners(m *NetworkMarker) bool {
	return m != nil && len(m.postListeners) > 0
}

// Schedule appends p to the tail of the queue.
func (m *NetworkMarker) Schedule(p Scheduler) {
	if p == nil {
		return
	}
	m.scheduled = append(m.scheduled, p)
}

// ScheduleFirst puts p at the head of the queue.
func (m *NetworkMarker) ScheduleFirst(p Scheduler) {
	if p == nil {
		return
	}
	if m.head > 0 {
		m.head--
		m.scheduled[m.head] = p
		return
	}
	m.scheduled = append([]Scheduler{p}, m.scheduled...)
}

// Poll removes and returns the head of the queue.
func (m *NetworkMarker) Poll() (Scheduler, bool) {
	if m.head >= len(m.scheduled) {
		m.scheduled, m.head = m.scheduled[:0], 0
		return nil, false
	}
	p := m.scheduled[m.head]
	m.scheduled[m.head] = nil
	m.head++
	return p, true
}

// Pending is the number of packets still queued.
func (m *NetworkMarker) Pending() int {
	return len(m.scheduled) - m.head
}
