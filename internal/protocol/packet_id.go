package protocol

const (
	// Handshaking (C→S)
	C2SHandshake = 0x00

	// Login (C→S)
	C2SLoginStart       = 0x00
	C2SLoginAcknowledge = 0x03

	// Login (S→C)
	S2CLoginDisconnect = 0x00
	S2CLoginSuccess    = 0x02
	S2CSetCompression  = 0x03

	// Configuration
	S2CConfigDisconnect    = 0x02
	S2CFinishConfiguration = 0x03
	S2CConfigKeepAlive     = 0x04
	C2SFinishConfiguration = 0x03
	C2SConfigKeepAlive     = 0x04

	// Play
	S2CPlayDisconnect = 0x1d
	S2CPlayKeepAlive  = 0x26
	C2SPlayKeepAlive  = 0x1a
)

// Key identifies a packet type on the wire.
type Key struct {
	State     State
	Direction Direction
	ID        int32
}
