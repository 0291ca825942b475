package protocol

import (
	"reflect"

	"github.com/Versifine/protolib/internal/reflect/accessors"
)

// Declare registers the constructors and factory functions of the typed
// packets in this package.
func Declare(r *accessors.Registry) error {
	ctors := []struct {
		name string
		fn   any
	}{
		{"NewHandshake", NewHandshake},
		{"NewLoginStart", NewLoginStart},
		{"NewSetCompression", NewSetCompression},
		{"NewKeepAlive", NewKeepAlive},
		{"readDisconnect", readDisconnect},
	}
	for _, c := range ctors {
		if err := r.DeclareConstructor(c.name, c.fn); err != nil {
			return err
		}
	}

	disconnect := reflect.TypeOf((*Disconnect)(nil))
	if err := r.DeclareFunc(disconnect, "DisconnectText", DisconnectText); err != nil {
		return err
	}
	return r.DeclareFunc(disconnect, "ParseDisconnect", ParseDisconnect)
}
