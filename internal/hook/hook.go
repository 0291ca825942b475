// Package hook 负责拦截器逻辑
// 插件通过 Hook 查看、修改或取消经过代理的数据包
package hook

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/Versifine/protolib/internal/event"
	"github.com/Versifine/protolib/internal/plugin"
	"github.com/Versifine/protolib/internal/report"
)

// PacketListenerMethod labels hook faults sent to the reporter.
const PacketListenerMethod = "PacketListener.OnPacket()"

// Hook 定义拦截器接口
type Hook interface {
	// OnPacket 在收到数据包时被调用
	// 可以替换 evt.Packet、取消事件，或通过 NetworkMarker 附加发送后的处理
	OnPacket(evt *event.PacketEvent)
}

// HookFunc 将普通函数适配为 Hook
type HookFunc func(evt *event.PacketEvent)

func (f HookFunc) OnPacket(evt *event.PacketEvent) { f(evt) }

// DefaultHook 默认拦截器实现，不做任何修改
type DefaultHook struct{}

func (h *DefaultHook) OnPacket(*event.PacketEvent) {}

type entry struct {
	owner plugin.Plugin
	hook  Hook
}

// Chain 按注册顺序调用所有 Hook，单个 Hook 的 panic 会被上报而不会影响其他 Hook
type Chain struct {
	reporter report.Reporter

	mu      sync.RWMutex
	entries []entry
}

func NewChain(reporter report.Reporter) *Chain {
	return &Chain{reporter: reporter}
}

func (c *Chain) Register(owner plugin.Plugin, h Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{owner: owner, hook: h})
}

// Unregister 移除 owner 注册的所有 Hook
func (c *Chain) Unregister(owner plugin.Plugin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.owner.ID != owner.ID {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Chain) OnPacket(evt *event.PacketEvent) {
	c.mu.RLock()
	entries := append([]entry(nil), c.entries...)
	c.mu.RUnlock()

	for _, e := range entries {
		c.invoke(e, evt)
	}
}

func (c *Chain) invoke(e entry, evt *event.PacketEvent) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}
			c.reporter.ReportMinimal(e.owner, PacketListenerMethod, errors.WithStack(err))
		}
	}()
	e.hook.OnPacket(evt)
}
