// Package messageset reports whether the running protobuf-go runtime was
// built with support for the legacy message_set_wire_format encoding. That
// support is gated behind the protolegacy build tag upstream in
// google.golang.org/protobuf, so most binaries (including this one, unless
// built with that tag) do not have it.
package messageset

// CanSupportMessageSets reports whether a message declared with the
// message_set_wire_format option can actually be marshaled and unmarshaled
// at runtime. Declaring the option is always allowed syntactically; this
// only affects whether using it later would work.
func CanSupportMessageSets() bool {
	return false
}
