// Package plugin identifies the third-party code that registers listeners.
package plugin

import "github.com/google/uuid"

type Plugin struct {
	Name string
	ID   uuid.UUID
}

func New(name string) Plugin {
	return Plugin{Name: name, ID: uuid.New()}
}

func (p Plugin) String() string {
	if p.Name == "" {
		return "<unknown>"
	}
	return p.Name
}

// Unknown is used when a listener does not say who registered it.
var Unknown = Plugin{}
