package hook

import (
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Versifine/protolib/internal/event"
	"github.com/Versifine/protolib/internal/plugin"
	"github.com/Versifine/protolib/internal/protocol"
	"github.com/Versifine/protolib/internal/report/mocks"
)

func newEvent() *event.PacketEvent {
	return event.NewPacketEvent(nil, &protocol.Packet{ID: 1}, protocol.Play, protocol.Serverbound)
}

// TestChainRunsHooksInOrder 测试 Hook 按注册顺序执行
func TestChainRunsHooksInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := NewChain(mocks.NewMockReporter(ctrl))

	var order []string
	chain.Register(plugin.New("a"), HookFunc(func(*event.PacketEvent) { order = append(order, "a") }))
	chain.Register(plugin.New("b"), HookFunc(func(evt *event.PacketEvent) {
		order = append(order, "b")
		evt.Packet = &protocol.Packet{ID: 2}
	}))
	chain.Register(plugin.New("c"), HookFunc(func(evt *event.PacketEvent) {
		order = append(order, "c")
		assert.Equal(t, int32(2), evt.Packet.ID, "后续 Hook 应看到替换后的包")
	}))

	chain.OnPacket(newEvent())
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

// TestChainIsolatesPanics 测试 panic 的 Hook 被上报且不影响其他 Hook
func TestChainIsolatesPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	chain := NewChain(reporter)
	bad := plugin.New("bad")

	ran := false
	chain.Register(bad, HookFunc(func(*event.PacketEvent) { panic("broken hook") }))
	chain.Register(plugin.New("good"), HookFunc(func(evt *event.PacketEvent) {
		ran = true
		evt.Cancel()
	}))

	reporter.EXPECT().ReportMinimal(bad, PacketListenerMethod, gomock.Any()).Times(1)

	evt := newEvent()
	chain.OnPacket(evt)
	assert.True(t, ran)
	assert.True(t, evt.Cancelled())
}

func TestChainUnregister(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := NewChain(mocks.NewMockReporter(ctrl))
	a, b := plugin.New("a"), plugin.New("b")
	chain.Register(a, &DefaultHook{})
	chain.Register(b, &DefaultHook{})
	chain.Register(a, &DefaultHook{})

	chain.Unregister(a)
	assert.Equal(t, 1, chain.Len())
}

// TestChainReportsPanicWithStack 测试上报的 panic 带有调用栈
func TestChainReportsPanicWithStack(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	chain := NewChain(reporter)
	owner := plugin.New("bad")
	cause := errors.New("broken hook")

	var reported error
	reporter.EXPECT().ReportMinimal(owner, PacketListenerMethod, gomock.Any()).
		Do(func(_ plugin.Plugin, _ string, err error) { reported = err })

	chain.Register(owner, HookFunc(func(*event.PacketEvent) { panic(cause) }))
	chain.OnPacket(newEvent())

	require.Error(t, reported)
	assert.ErrorIs(t, reported, cause)
	_, ok := reported.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, ok, "上报的错误应携带调用栈")
	assert.Contains(t, fmt.Sprintf("%+v", reported), "hook.go")
}
