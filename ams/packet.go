package ams

// Packet is the shape every request/response wire type implements: a pointer
// to its AMS header plus encode/decode against a Buffer. The root package's
// command dispatch takes any Packet, stamps its invoke id, and encodes it
// for the wire.
type Packet interface {
	Header() *AMSHeader
	Encode(b *Buffer) error
	Decode(b *Buffer) error
}
