package event

import (
	"github.com/Versifine/protolib/internal/plugin"
)

// PostListener is told about a packet after it has been written.
type PostListener interface {
	Plugin() plugin.Plugin
	OnPostEvent(evt *PacketEvent) error
}

type postListenerFunc struct {
	owner plugin.Plugin
	fn    func(*PacketEvent) error
}

func NewPostListener(owner plugin.Plugin, fn func(*PacketEvent) error) PostListener {
	return &postListenerFunc{owner: owner, fn: fn}
}

func (l *postListenerFunc) Plugin() plugin.Plugin { return l.owner }

func (l *postListenerFunc) OnPostEvent(evt *PacketEvent) error {
	return l.fn(evt)
}
