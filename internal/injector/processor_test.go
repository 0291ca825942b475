package injector

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Versifine/protolib/internal/event"
	eventmocks "github.com/Versifine/protolib/internal/event/mocks"
	"github.com/Versifine/protolib/internal/plugin"
	"github.com/Versifine/protolib/internal/protocol"
	reportmocks "github.com/Versifine/protolib/internal/report/mocks"
)

type testSession struct{ id uuid.UUID }

func (s testSession) ID() uuid.UUID        { return s.id }
func (s testSession) RemoteAddr() net.Addr { return &net.TCPAddr{} }

type fixture struct {
	reporter  *reportmocks.MockReporter
	manager   *eventmocks.MockProtocolManager
	processor *NetworkProcessor
	session   testSession
	evt       *event.PacketEvent
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		reporter: reportmocks.NewMockReporter(ctrl),
		manager:  eventmocks.NewMockProtocolManager(ctrl),
		session:  testSession{id: uuid.New()},
	}
	f.processor = NewNetworkProcessor(f.reporter, f.manager)
	f.evt = event.NewPacketEvent(f.session, &protocol.Packet{ID: protocol.S2CPlayKeepAlive}, protocol.Play, protocol.Clientbound)
	return f
}

func recordingListener(owner plugin.Plugin, seen *[]string, name string, err error) event.PostListener {
	return event.NewPostListener(owner, func(*event.PacketEvent) error {
		*seen = append(*seen, name)
		return err
	})
}

func TestInvokePostEventNilMarkerIsNoop(t *testing.T) {
	f := newFixture(t)
	// No expectations: any reporter or manager call fails the test.
	assert.NoError(t, f.processor.InvokePostEvent(f.evt, nil))
	assert.NoError(t, f.processor.InvokePostEvent(nil, nil))
}

func TestInvokePostEventIsolatesListeners(t *testing.T) {
	f := newFixture(t)
	var seen []string
	first, second, third := plugin.New("first"), plugin.New("second"), plugin.New("third")
	cause := errors.New("listener broke")

	marker := f.evt.NetworkMarker()
	marker.AddPostListener(recordingListener(first, &seen, "first", nil))
	marker.AddPostListener(recordingListener(second, &seen, "second", cause))
	marker.AddPostListener(recordingListener(third, &seen, "third", nil))

	f.reporter.EXPECT().ReportMinimal(second, PostListenerMethod, cause).Times(1)

	require.NoError(t, f.processor.InvokePostEvent(f.evt, marker))
	assert.Equal(t, []string{"first", "second", "third"}, seen)
}

func TestInvokePostEventRecoversPanics(t *testing.T) {
	f := newFixture(t)
	var seen []string
	owner := plugin.New("panicky")

	marker := f.evt.NetworkMarker()
	marker.AddPostListener(event.NewPostListener(owner, func(*event.PacketEvent) error {
		var m map[string]int
		m["boom"]++
		return nil
	}))
	marker.AddPostListener(event.NewPostListener(owner, func(*event.PacketEvent) error {
		panic("plain value")
	}))
	marker.AddPostListener(recordingListener(plugin.New("after"), &seen, "after", nil))

	f.reporter.EXPECT().ReportMinimal(owner, PostListenerMethod, gomock.Any()).Times(2)

	require.NoError(t, f.processor.InvokePostEvent(f.evt, marker))
	assert.Equal(t, []string{"after"}, seen)
}

func TestInvokePostEventFatalStopsDispatch(t *testing.T) {
	tests := []struct {
		name     string
		listener func(*event.PacketEvent) error
	}{
		{
			name: "returned",
			listener: func(*event.PacketEvent) error {
				return fmt.Errorf("allocating chunk cache: %w", ErrResourceExhausted)
			},
		},
		{
			name: "panicked",
			listener: func(*event.PacketEvent) error {
				panic(ErrResourceExhausted)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var seen []string
			marker := f.evt.NetworkMarker()
			marker.AddPostListener(recordingListener(plugin.New("before"), &seen, "before", nil))
			marker.AddPostListener(event.NewPostListener(plugin.New("hungry"), tt.listener))
			marker.AddPostListener(recordingListener(plugin.New("after"), &seen, "after", nil))
			marker.Schedule(event.NewServerPacket(f.session, &protocol.Packet{ID: 1}, false))

			err := f.processor.InvokePostEvent(f.evt, marker)
			assert.ErrorIs(t, err, ErrResourceExhausted)
			assert.Equal(t, []string{"before"}, seen)
			assert.Equal(t, 1, marker.Pending(), "致命错误跳过发送队列")
		})
	}
}

func TestInvokePostEventDrainsInOrder(t *testing.T) {
	f := newFixture(t)
	a := &protocol.Packet{ID: 0xA}
	b := &protocol.Packet{ID: 0xB}
	c := &protocol.Packet{ID: 0xC}

	marker := f.evt.NetworkMarker()
	marker.Schedule(event.NewServerPacket(f.session, a, false))
	marker.Schedule(event.NewClientPacket(f.session, b, true))
	marker.Schedule(event.NewServerPacket(f.session, c, true))

	gomock.InOrder(
		f.manager.EXPECT().SendServerPacket(f.session, a, false).Return(nil),
		f.manager.EXPECT().ReceiveClientPacket(f.session, b, true).Return(nil),
		f.manager.EXPECT().SendServerPacket(f.session, c, true).Return(nil),
	)

	require.NoError(t, f.processor.InvokePostEvent(f.evt, marker))
	assert.Zero(t, marker.Pending())
}

func TestInvokePostEventDrainsPacketsScheduledByListeners(t *testing.T) {
	f := newFixture(t)
	queued := &protocol.Packet{ID: 1}
	fromListener := &protocol.Packet{ID: 2}
	marker := f.evt.NetworkMarker()
	marker.Schedule(event.NewServerPacket(f.session, queued, false))
	marker.AddPostListener(event.NewPostListener(plugin.New("echo"), func(evt *event.PacketEvent) error {
		evt.Schedule(event.NewServerPacket(evt.Session, fromListener, false))
		return nil
	}))

	gomock.InOrder(
		f.manager.EXPECT().SendServerPacket(f.session, queued, false).Return(nil),
		f.manager.EXPECT().SendServerPacket(f.session, fromListener, false).Return(nil),
	)

	require.NoError(t, f.processor.InvokePostEvent(f.evt, marker))
	assert.Zero(t, marker.Pending())
}

func TestInvokePostEventNilEventStillDrains(t *testing.T) {
	f := newFixture(t)
	var seen []string
	marker := event.NewNetworkMarker(protocol.Clientbound)
	marker.AddPostListener(recordingListener(plugin.New("skipped"), &seen, "skipped", nil))
	p := &protocol.Packet{ID: 7}
	marker.Schedule(event.NewServerPacket(f.session, p, false))

	f.manager.EXPECT().SendServerPacket(f.session, p, false).Return(nil)

	require.NoError(t, f.processor.InvokePostEvent(nil, marker))
	assert.Empty(t, seen)
}

func TestInvokePostEventSchedulingErrorIsNotIsolated(t *testing.T) {
	f := newFixture(t)
	a := &protocol.Packet{ID: 0xA}
	b := &protocol.Packet{ID: 0xB}
	cause := errors.New("session closed")

	marker := f.evt.NetworkMarker()
	marker.Schedule(event.NewServerPacket(f.session, a, false))
	marker.Schedule(event.NewServerPacket(f.session, b, false))

	f.manager.EXPECT().SendServerPacket(f.session, a, false).Return(cause)

	err := f.processor.InvokePostEvent(f.evt, marker)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, marker.Pending(), "剩余的包留在队列中")
}
