package instances

import (
	"bufio"
	"bytes"
	"reflect"
)

// BannedTypes is a fixed set of parameter types that are never synthesized.
// Constructors and factory functions taking any of them are skipped.
type BannedTypes struct {
	set map[reflect.Type]struct{}
}

func NewBannedTypes(types ...reflect.Type) BannedTypes {
	set := make(map[reflect.Type]struct{}, len(types))
	for _, t := range types {
		if t != nil {
			set[t] = struct{}{}
		}
	}
	return BannedTypes{set: set}
}

// DefaultBanned holds the buffer types that make no sense as defaults.
var DefaultBanned = NewBannedTypes(
	reflect.TypeOf((*bytes.Buffer)(nil)),
	reflect.TypeOf((*bytes.Reader)(nil)),
	reflect.TypeOf((*bufio.Reader)(nil)),
	reflect.TypeOf((*bufio.Writer)(nil)),
)

func (b BannedTypes) Contains(t reflect.Type) bool {
	_, ok := b.set[t]
	return ok
}

// ContainsAny reports whether any of params is banned.
func (b BannedTypes) ContainsAny(params []reflect.Type) bool {
	for _, p := range params {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

func (b BannedTypes) Len() int {
	return len(b.set)
}
