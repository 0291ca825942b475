// Package injector runs the work attached to a packet once it has been
// written to the wire.
package injector

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Versifine/protolib/internal/event"
	"github.com/Versifine/protolib/internal/report"
)

// PostListenerMethod labels listener faults sent to the reporter.
const PostListenerMethod = "PostListener.OnPostEvent()"

// ErrResourceExhausted marks a fault that must not be swallowed. A listener
// returning or panicking with an error matching it stops the dispatch.
var ErrResourceExhausted = errors.New("resource exhausted")

// NetworkProcessor runs post listeners and sends scheduled packets. It holds
// no per-packet state; everything lives on the marker.
type NetworkProcessor struct {
	reporter report.Reporter
	manager  event.ProtocolManager
}

func NewNetworkProcessor(reporter report.Reporter, manager event.ProtocolManager) *NetworkProcessor {
	return &NetworkProcessor{reporter: reporter, manager: manager}
}

// InvokePostEvent runs the post listeners of marker with evt, then sends
// every packet scheduled on marker in FIFO order. A nil marker is a no-op.
//
// Listener faults are reported and do not stop the other listeners, except
// ErrResourceExhausted, which is returned at once without draining the
// queue. A scheduling error is returned as is; packets behind it stay queued.
func (p *NetworkProcessor) InvokePostEvent(evt *event.PacketEvent, marker *event.NetworkMarker) error {
	if marker == nil {
		return nil
	}

	if evt != nil && event.HasPostListeners(marker) {
		for _, listener := range marker.PostListeners() {
			if err := p.runListener(listener, evt); err != nil {
				return err
			}
		}
	}

	return p.sendScheduledPackets(marker)
}

// runListener returns only fatal faults.
func (p *NetworkProcessor) runListener(listener event.PostListener, evt *event.PacketEvent) (fatal error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", r)
		}
		if errors.Is(err, ErrResourceExhausted) {
			fatal = errors.WithStack(err)
			return
		}
		p.reporter.ReportMinimal(listener.Plugin(), PostListenerMethod, errors.WithStack(err))
	}()

	err := listener.OnPostEvent(evt)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrResourceExhausted) {
		return err
	}
	p.reporter.ReportMinimal(listener.Plugin(), PostListenerMethod, err)
	return nil
}

func (p *NetworkProcessor) sendScheduledPackets(marker *event.NetworkMarker) error {
	for {
		packet, ok := marker.Poll()
		if !ok {
			return nil
		}
		if err := packet.Schedule(p.manager); err != nil {
			return errors.Wrap(err, "send scheduled packet")
		}
	}
}
