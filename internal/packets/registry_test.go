package packets

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Versifine/protolib/internal/protocol"
	"github.com/Versifine/protolib/internal/reflect/accessors"
	"github.com/Versifine/protolib/internal/reflect/instances"
)

var (
	playKeepAlive = protocol.Key{State: protocol.Play, Direction: protocol.Clientbound, ID: protocol.S2CPlayKeepAlive}
	loginKick     = protocol.Key{State: protocol.Login, Direction: protocol.Clientbound, ID: protocol.S2CLoginDisconnect}
)

func TestDefaultRegistryBlankPackets(t *testing.T) {
	r, err := Default(accessors.NewRegistry())
	require.NoError(t, err)

	body, err := r.Blank(playKeepAlive)
	require.NoError(t, err)
	ka, ok := body.(*protocol.KeepAlive)
	require.True(t, ok)
	assert.Zero(t, ka.KeepAliveID)

	strategy := r.Strategy(playKeepAlive)
	require.NotNil(t, strategy)
	assert.Equal(t, instances.KindConstructor, strategy.Kind)
	assert.Equal(t, "NewKeepAlive", strategy.Member.Name)
}

func TestDefaultRegistryDisconnectUsesFactory(t *testing.T) {
	r, err := Default(accessors.NewRegistry())
	require.NoError(t, err)

	p, err := r.Encode(loginKick)
	require.NoError(t, err)
	assert.Equal(t, int32(protocol.S2CLoginDisconnect), p.ID)

	d, err := protocol.ParseDisconnect(p.Payload)
	require.NoError(t, err)
	assert.Equal(t, `{"text":""}`, d.Reason)

	strategy := r.Strategy(loginKick)
	require.NotNil(t, strategy)
	assert.Equal(t, instances.KindFactory, strategy.Kind, "读取 *bytes.Reader 的构造器被禁用")
	assert.Equal(t, "DisconnectText", strategy.Member.Name)
}

func TestRegistrySharesCreatorsPerType(t *testing.T) {
	r, err := Default(accessors.NewRegistry())
	require.NoError(t, err)

	serverbound := protocol.Key{State: protocol.Play, Direction: protocol.Serverbound, ID: protocol.C2SPlayKeepAlive}
	_, err = r.Blank(playKeepAlive)
	require.NoError(t, err)
	assert.Same(t, r.Strategy(playKeepAlive), r.Strategy(serverbound))
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry(accessors.NewRegistry())

	_, err := r.Blank(playKeepAlive)
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Nil(t, r.Strategy(playKeepAlive))

	assert.ErrorIs(t, r.Register(playKeepAlive, reflect.TypeOf(0)), ErrNotBody)
	assert.ErrorIs(t, r.Register(playKeepAlive, nil), ErrNotBody)

	// Registered but nothing declared: permanently fails.
	require.NoError(t, r.Register(playKeepAlive, reflect.TypeOf(&protocol.KeepAlive{})))
	_, err = r.Blank(playKeepAlive)
	assert.ErrorIs(t, err, ErrNoInstance)
}

func TestRegistryBannedOverride(t *testing.T) {
	r, err := Default(accessors.NewRegistry(), instances.WithBanned(instances.NewBannedTypes()))
	require.NoError(t, err)

	_, err = r.Blank(loginKick)
	// readDisconnect is tried with an empty reader and fails, so the
	// factory still wins.
	require.NoError(t, err)
	assert.Equal(t, instances.KindFactory, r.Strategy(loginKick).Kind)
}
