// Package packets builds blank typed packets for the protocol keys it knows.
package packets

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/Versifine/protolib/internal/protocol"
	"github.com/Versifine/protolib/internal/reflect/accessors"
	"github.com/Versifine/protolib/internal/reflect/instances"
)

var (
	ErrUnknownKey = errors.New("no packet type registered for key")
	ErrNoInstance = errors.New("packet type cannot be instantiated")
	ErrNotBody    = errors.New("packet type does not implement protocol.Body")
)

var bodyType = reflect.TypeOf((*protocol.Body)(nil)).Elem()

// Registry maps protocol keys to packet types. Creators are shared per type,
// so each type is probed once however many keys use it.
type Registry struct {
	classes *accessors.Registry
	opts    []instances.Option

	mu       sync.RWMutex
	types    map[protocol.Key]reflect.Type
	creators map[reflect.Type]*instances.Creator
}

func NewRegistry(classes *accessors.Registry, opts ...instances.Option) *Registry {
	return &Registry{
		classes:  classes,
		opts:     opts,
		types:    make(map[protocol.Key]reflect.Type),
		creators: make(map[reflect.Type]*instances.Creator),
	}
}

// Register binds key to t. t must implement protocol.Body.
func (r *Registry) Register(key protocol.Key, t reflect.Type) error {
	if t == nil || !t.Implements(bodyType) {
		return fmt.Errorf("%w: %v", ErrNotBody, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.creators[t]; !ok {
		c, err := instances.ForType(t, r.classes, r.opts...)
		if err != nil {
			return err
		}
		r.creators[t] = c
	}
	r.types[key] = t
	return nil
}

func (r *Registry) Lookup(key protocol.Key) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[key]
	return t, ok
}

// Blank returns a defaulted packet of the type registered for key.
func (r *Registry) Blank(key protocol.Key) (protocol.Body, error) {
	r.mu.RLock()
	t, ok := r.types[key]
	c := r.creators[t]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %+v", ErrUnknownKey, key)
	}

	v, ok := instances.New[protocol.Body](c)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoInstance, t)
	}
	return v, nil
}

// Encode returns the wire form of a blank packet for key.
func (r *Registry) Encode(key protocol.Key) (*protocol.Packet, error) {
	body, err := r.Blank(key)
	if err != nil {
		return nil, err
	}
	return protocol.Encode(key.ID, body)
}

// Strategy reports how the type bound to key is built, once it has been.
func (r *Registry) Strategy(key protocol.Key) *instances.Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.creators[r.types[key]]
	if !ok {
		return nil
	}
	return c.Strategy()
}

// Default registers the typed packets of the protocol package.
func Default(classes *accessors.Registry, opts ...instances.Option) (*Registry, error) {
	if err := protocol.Declare(classes); err != nil {
		return nil, err
	}
	r := NewRegistry(classes, opts...)
	bindings := []struct {
		key protocol.Key
		typ any
	}{
		{protocol.Key{State: protocol.Handshaking, Direction: protocol.Serverbound, ID: protocol.C2SHandshake}, (*protocol.Handshake)(nil)},
		{protocol.Key{State: protocol.Login, Direction: protocol.Serverbound, ID: protocol.C2SLoginStart}, (*protocol.LoginStart)(nil)},
		{protocol.Key{State: protocol.Login, Direction: protocol.Clientbound, ID: protocol.S2CSetCompression}, (*protocol.SetCompression)(nil)},
		{protocol.Key{State: protocol.Login, Direction: protocol.Clientbound, ID: protocol.S2CLoginDisconnect}, (*protocol.Disconnect)(nil)},
		{protocol.Key{State: protocol.Configuration, Direction: protocol.Clientbound, ID: protocol.S2CConfigKeepAlive}, (*protocol.KeepAlive)(nil)},
		{protocol.Key{State: protocol.Configuration, Direction: protocol.Serverbound, ID: protocol.C2SConfigKeepAlive}, (*protocol.KeepAlive)(nil)},
		{protocol.Key{State: protocol.Configuration, Direction: protocol.Clientbound, ID: protocol.S2CConfigDisconnect}, (*protocol.Disconnect)(nil)},
		{protocol.Key{State: protocol.Play, Direction: protocol.Clientbound, ID: protocol.S2CPlayKeepAlive}, (*protocol.KeepAlive)(nil)},
		{protocol.Key{State: protocol.Play, Direction: protocol.Serverbound, ID: protocol.C2SPlayKeepAlive}, (*protocol.KeepAlive)(nil)},
		{protocol.Key{State: protocol.Play, Direction: protocol.Clientbound, ID: protocol.S2CPlayDisconnect}, (*protocol.Disconnect)(nil)},
	}
	for _, b := range bindings {
		if err := r.Register(b.key, reflect.TypeOf(b.typ)); err != nil {
			return nil, err
		}
	}
	return r, nil
}
